// Package that provides parameter files for the block cipher.
// It supports configuration versioning, having each implementation
// register themselves in this package.
// External parties should only use this package for configuring
// and ignore the underlying implementations. Also this package
// must not import packages of it's implementations to avoid circular
// imports.
//
// This package assumes that each underlying implementation will be
// in YAML or JSON, with the topmost element being a map containg a
// property named 'version' that is set to an integer. All other
// details are set by the underlying implementation.
// This allows this package to decide automatically, which version
// applies to a parameter file, so the external party does not need to
// pre-parse files.
package config

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/wokdav/modrsa/logging"

	"github.com/ghodss/yaml"
)

var configurators map[int]Configurator = make(map[int]Configurator, 1)

// Configuration implementations register themselves using this function.
// It is recommended to keep verion > 0 to avoid bugs regarding to uninitialized
// version numbers.
func AddConfigurator(version int, c Configurator) {
	configurators[version] = c
}

// Get configurator for the supplied version.
// Returns an error, if this version does not exist (yet).
func GetConfigurator(version int) (Configurator, error) {
	c, ok := configurators[version]
	if !ok {
		return nil, fmt.Errorf("config: unknown version: %d", version)
	}

	return c, nil
}

// This is the minimum requirement for config implementations.
// A test-marshal into this is done to determine the underlying config implementation.
type configProxy struct {
	Version int
}

// The main parsing function for parameter files. This is the intended way to parse them.
// It attempts to read the version integer from the file and then decide which version to
// use based on that.
// It throws an error, if the provided stream does not conform to the assumptions this package
// makes (see package documentation), or if the version does not exist (yet).
func ParseConfig(r io.Reader) (*Parameters, error) {
	sb := new(strings.Builder)
	w, err := io.Copy(sb, r)
	if err != nil {
		return nil, fmt.Errorf("config: error reading parameter buffer after %d bytes: %v", w, err)
	}
	cfgstr := sb.String()

	var proxy configProxy
	err = yaml.Unmarshal([]byte(cfgstr), &proxy)
	if err != nil {
		return nil, errors.New("config: top level must be a map containg a key called 'version' that contains an integer")
	}

	configurator, prs := configurators[proxy.Version]
	if !prs {
		return nil, fmt.Errorf("config: unknown version: %d", proxy.Version)
	}

	logging.Debugf("config: parsing parameters with version %d", proxy.Version)

	return configurator.ParseConfiguration(cfgstr)
}

// The interface each configuration version must implement.
type Configurator interface {
	ParseConfiguration(s string) (*Parameters, error)
	Example() string
}

// The general representation of cipher parameters.
// Unset values are nil, empty or zero, so that [Merge] can tell them apart.
type Parameters struct {
	BlockSize    int
	Modulus      *big.Int
	Exponent     *big.Int
	P            *big.Int
	Q            *big.Int
	InputFormat  string
	OutputFormat string
	LogLevel     *logging.LogLevel
}

// Merge combines parameters from a file with parameters given explicitly,
// e.g. on the command line. Explicitly given values win.
// Neither input is modified.
func Merge(file Parameters, explicit Parameters) Parameters {
	out := file

	if explicit.BlockSize != 0 {
		out.BlockSize = explicit.BlockSize
	}
	if explicit.Modulus != nil {
		out.Modulus = explicit.Modulus
	}
	if explicit.Exponent != nil {
		out.Exponent = explicit.Exponent
	}
	if explicit.P != nil || explicit.Q != nil {
		out.P = explicit.P
		out.Q = explicit.Q
	}
	if explicit.InputFormat != "" {
		out.InputFormat = explicit.InputFormat
	}
	if explicit.OutputFormat != "" {
		out.OutputFormat = explicit.OutputFormat
	}
	if explicit.LogLevel != nil {
		out.LogLevel = explicit.LogLevel
	}

	return out
}

// Parses a non-negative decimal integer of arbitrary size.
func ParseInteger(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("config: '%s' is not an integer", s)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("config: '%s' must not be negative", s)
	}
	return n, nil
}

// Parses a comma separated pair of primes like "65537,65539".
// Primality itself is checked during key derivation.
func ParsePrimePair(s string) (p, q *big.Int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("config: expected two comma separated values, got '%s'", s)
	}

	p, err = ParseInteger(parts[0])
	if err != nil {
		return nil, nil, err
	}
	q, err = ParseInteger(parts[1])
	if err != nil {
		return nil, nil, err
	}

	return p, q, nil
}
