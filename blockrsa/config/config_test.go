package config

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/wokdav/modrsa/logging"
)

type fakeConfigurator struct {
	seen string
}

func (f *fakeConfigurator) ParseConfiguration(s string) (*Parameters, error) {
	f.seen = s
	if strings.Contains(s, "fail") {
		return nil, errors.New("fake failure")
	}
	return &Parameters{BlockSize: 7}, nil
}

func (f *fakeConfigurator) Example() string {
	return "version: 99"
}

func TestParseConfigDispatch(t *testing.T) {
	fake := &fakeConfigurator{}
	AddConfigurator(99, fake)
	defer delete(configurators, 99)

	p, err := ParseConfig(strings.NewReader("version: 99\nblockSize: 7\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BlockSize != 7 {
		t.Errorf("expected parameters of fake configurator, got %+v", p)
	}
	if !strings.Contains(fake.seen, "blockSize") {
		t.Errorf("configurator did not receive the full file: '%s'", fake.seen)
	}

	_, err = ParseConfig(strings.NewReader("version: 99\nfail: true\n"))
	if err == nil {
		t.Errorf("expected configurator error to be passed through")
	}

	c, err := GetConfigurator(99)
	if err != nil || c.Example() != "version: 99" {
		t.Errorf("can't get registered configurator: %v", err)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown version": "version: 12345",
		"no version":      "blockSize: 4",
		"not a map":       "- 1\n- 2",
		"version string":  "version: one",
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(test))
			if err == nil {
				t.Errorf("expected error for '%s'", test)
			}
		})
	}

	if _, err := GetConfigurator(12345); err == nil {
		t.Errorf("expected error for unknown version")
	}
}

func TestMerge(t *testing.T) {
	debug := logging.LevelDebug
	file := Parameters{
		BlockSize:    4,
		Modulus:      big.NewInt(4295229443),
		Exponent:     big.NewInt(13),
		P:            big.NewInt(65537),
		Q:            big.NewInt(65539),
		InputFormat:  "character",
		OutputFormat: "base64",
	}

	merged := Merge(file, Parameters{})
	if merged.BlockSize != 4 || merged.Modulus.Int64() != 4295229443 || merged.OutputFormat != "base64" {
		t.Errorf("empty explicit parameters must not change anything: %+v", merged)
	}

	merged = Merge(file, Parameters{
		Exponent:    big.NewInt(1982353093),
		InputFormat: "base64",
		LogLevel:    &debug,
	})
	if merged.Exponent.Int64() != 1982353093 {
		t.Errorf("expected explicit exponent to win, got %v", merged.Exponent)
	}
	if merged.InputFormat != "base64" || merged.OutputFormat != "base64" {
		t.Errorf("unexpected formats %s/%s", merged.InputFormat, merged.OutputFormat)
	}
	if merged.LogLevel == nil || *merged.LogLevel != logging.LevelDebug {
		t.Errorf("expected log level to be taken over")
	}
	if merged.BlockSize != 4 || merged.P.Int64() != 65537 {
		t.Errorf("unset explicit values must keep file values: %+v", merged)
	}
	if file.Exponent.Int64() != 13 {
		t.Errorf("file parameters were modified")
	}

	merged = Merge(file, Parameters{P: big.NewInt(61), Q: big.NewInt(53)})
	if merged.P.Int64() != 61 || merged.Q.Int64() != 53 {
		t.Errorf("expected primes to be replaced as a pair, got %v, %v", merged.P, merged.Q)
	}
}

func TestParseInteger(t *testing.T) {
	n, err := ParseInteger(" 340282366920938463463374607431768211507 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.String() != "340282366920938463463374607431768211507" {
		t.Errorf("unexpected value %v", n)
	}

	for _, bad := range []string{"", "abc", "1.5", "-3", "0x10"} {
		if _, err := ParseInteger(bad); err == nil {
			t.Errorf("expected error for '%s'", bad)
		}
	}
}

func TestParsePrimePair(t *testing.T) {
	p, q, err := ParsePrimePair("65537,65539")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Int64() != 65537 || q.Int64() != 65539 {
		t.Errorf("unexpected pair %v, %v", p, q)
	}

	p, q, err = ParsePrimePair("61, 53")
	if err != nil || p.Int64() != 61 || q.Int64() != 53 {
		t.Errorf("expected whitespace to be tolerated, got %v, %v (%v)", p, q, err)
	}

	for _, bad := range []string{"61", "61,53,7", "61,x", ",53"} {
		if _, _, err := ParsePrimePair(bad); err == nil {
			t.Errorf("expected error for '%s'", bad)
		}
	}
}
