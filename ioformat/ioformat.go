// Package ioformat converts between the representations a user hands to the
// cipher and the raw bytes the cipher works on.
//
// Input is either taken as it is (character and binary) or base64 decoded.
// Output is written as it is, except for base64 output and for character
// output containing bytes above 127, which falls back to base64 so that it
// stays printable.
//
// The package also provides a small filesystem abstraction, so files can be
// read and written the same way on disk and in memory.
package ioformat

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

type Format int

const (
	FormatCharacter Format = iota
	FormatBinary
	FormatBase64
)

var formatNames = map[Format]string{
	FormatCharacter: "character",
	FormatBinary:    "binary",
	FormatBase64:    "base64",
}

func (f Format) String() string {
	name, ok := formatNames[f]
	if !ok {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return name
}

// Names returns the names of all formats, e.g. for usage strings.
func Names() []string {
	return []string{
		FormatCharacter.String(),
		FormatBinary.String(),
		FormatBase64.String(),
	}
}

// ParseFormat returns the format with the given name.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return FormatCharacter, fmt.Errorf("ioformat: unknown format '%s', must be one of %s",
		s, strings.Join(Names(), ", "))
}

// Decode turns input of the given format into raw bytes.
// Whitespace around base64 input is ignored.
func Decode(f Format, raw []byte) ([]byte, error) {
	switch f {
	case FormatCharacter, FormatBinary:
		return append([]byte(nil), raw...), nil
	case FormatBase64:
		trimmed := bytes.TrimSpace(raw)
		out := make([]byte, base64.StdEncoding.DecodedLen(len(trimmed)))
		n, err := base64.StdEncoding.Decode(out, trimmed)
		if err != nil {
			return nil, fmt.Errorf("ioformat: invalid base64 input: %v", err)
		}
		return out[:n], nil
	default:
		return nil, fmt.Errorf("ioformat: can't decode unknown format %v", f)
	}
}

// IsPrintable reports whether data consists of ASCII bytes only.
func IsPrintable(data []byte) bool {
	for _, b := range data {
		if b > 127 {
			return false
		}
	}
	return true
}

// Encode turns raw bytes into output of the given format. The format that
// was actually used is returned as well, since character output falls back
// to base64 for non-ASCII data.
func Encode(f Format, data []byte) ([]byte, Format, error) {
	if f == FormatCharacter && !IsPrintable(data) {
		f = FormatBase64
	}

	switch f {
	case FormatCharacter, FormatBinary:
		return append([]byte(nil), data...), f, nil
	case FormatBase64:
		out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
		base64.StdEncoding.Encode(out, data)
		return out, f, nil
	default:
		return nil, f, fmt.Errorf("ioformat: can't encode unknown format %v", f)
	}
}
