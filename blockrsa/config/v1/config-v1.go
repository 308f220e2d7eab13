// Implements version 1 of the parameter file parser.
//
// Files are YAML (or JSON) and validated against an embedded JSON schema
// before being converted. Integers may be written as plain numbers or as
// quoted decimal strings; the latter is required for values beyond 64 bits.
// No defaults are applied here, that is up to the caller.
package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/wokdav/modrsa/blockrsa/config"
	"github.com/wokdav/modrsa/logging"

	"github.com/ghodss/yaml"
)

func init() {
	config.AddConfigurator(1, V1Configurator{})
}

// Struct for YAML/JSON marshaling.
type ParameterFile struct {
	Version      int           `json:"version"`
	BlockSize    int           `json:"blockSize"`
	Modulus      json.Number   `json:"modulus"`
	Exponent     json.Number   `json:"exponent"`
	Primes       []json.Number `json:"primes"`
	InputFormat  string        `json:"inputFormat"`
	OutputFormat string        `json:"outputFormat"`
	LogLevel     string        `json:"logLevel"`
}

// The implementor of [config.Configurator] for version 1.
type V1Configurator struct{}

func readInteger(field string, n json.Number) (*big.Int, error) {
	if n == "" {
		return nil, nil
	}

	out, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return nil, fmt.Errorf("config-v1: %s '%s' is not an integer, quote values beyond 64 bits", field, n)
	}

	return out, nil
}

func initParameters(f ParameterFile) (*config.Parameters, error) {
	var err error
	out := config.Parameters{
		BlockSize:    f.BlockSize,
		InputFormat:  f.InputFormat,
		OutputFormat: f.OutputFormat,
	}

	out.Modulus, err = readInteger("modulus", f.Modulus)
	if err != nil {
		return nil, err
	}

	out.Exponent, err = readInteger("exponent", f.Exponent)
	if err != nil {
		return nil, err
	}

	//length is ensured by the schema
	if len(f.Primes) == 2 {
		out.P, err = readInteger("primes[0]", f.Primes[0])
		if err != nil {
			return nil, err
		}
		out.Q, err = readInteger("primes[1]", f.Primes[1])
		if err != nil {
			return nil, err
		}
	}

	if f.LogLevel != "" {
		level, err := logging.ParseLevel(f.LogLevel)
		if err != nil {
			return nil, err
		}
		out.LogLevel = &level
	}

	return &out, nil
}

func (v V1Configurator) ParseConfiguration(s string) (*config.Parameters, error) {
	js, err := yaml.YAMLToJSON([]byte(s))
	if err != nil {
		return nil, err
	}

	err = parametersSchema.Validate(bytes.NewBuffer(js))
	if err != nil {
		return nil, err
	}

	f := ParameterFile{}
	err = yaml.Unmarshal(js, &f)
	if err != nil {
		return nil, err
	}

	return initParameters(f)
}

func (v V1Configurator) Example() string {
	return parametersExample
}
