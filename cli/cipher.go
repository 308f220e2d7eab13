package cli

import (
	"fmt"
	"io"
	"math/big"
	"path/filepath"

	"github.com/wokdav/modrsa/blockrsa"
	"github.com/wokdav/modrsa/blockrsa/config"
	"github.com/wokdav/modrsa/blockrsa/keys"
	"github.com/wokdav/modrsa/ioformat"
	"github.com/wokdav/modrsa/logging"

	"github.com/spf13/cobra"
)

const (
	defaultBlockSize = 1
	defaultModulus   = "256"

	// the involution check factors the modulus by trial division
	involutionCheckMaxBits = 40
)

type cipherFlags struct {
	key          string
	modulus      string
	blockSize    int
	inputFormat  string
	outputFormat string
	inputFile    string
	outputFile   string
}

// Settings of a single encrypt or decrypt run, after parameter file and
// flags have been combined.
type cipherSettings struct {
	exponent     *big.Int
	modulus      *big.Int
	blockSize    int
	inputFormat  ioformat.Format
	outputFormat ioformat.Format
}

func newCipherCmd(ctx *rootContext, encrypt bool) *cobra.Command {
	flags := cipherFlags{}

	name, short, keyUsage := "decrypt", "Decrypt a message", "private exponent"
	if encrypt {
		name, short, keyUsage = "encrypt", "Encrypt a message", "public exponent"
	}

	cmd := &cobra.Command{
		Use:   name + " [INPUT]",
		Short: short,
		Long: short + ` given as argument, read from --input-file or from stdin.

The key consists of the exponent (-k) and the modulus (-m). The modulus must
be at least 256^blocksize. If the modulus is missing but the parameter file
contains two primes, their product is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.settings(cmd, ctx.file)
			if err != nil {
				return err
			}

			raw, err := readInput(cmd, ctx.fsys, args, flags.inputFile)
			if err != nil {
				return err
			}

			input, err := ioformat.Decode(settings.inputFormat, raw)
			if err != nil {
				return err
			}

			var output []byte
			if encrypt {
				warnWeakKey(settings.exponent, settings.modulus)
				output, err = blockrsa.Encrypt(input, settings.exponent, settings.modulus, settings.blockSize)
			} else {
				output, err = blockrsa.Decrypt(input, settings.exponent, settings.modulus, settings.blockSize)
			}
			if err != nil {
				return err
			}

			logging.Infof("cli: %s %d bytes to %d bytes", name, len(input), len(output))

			return writeOutput(cmd, ctx.fsys, flags.outputFile, settings.outputFormat, output)
		},
	}

	cmd.Flags().StringVarP(&flags.key, "key", "k", "", keyUsage)
	cmd.Flags().StringVarP(&flags.modulus, "modulus", "m", defaultModulus, "modulus")
	cmd.Flags().IntVarP(&flags.blockSize, "blocksize", "b", defaultBlockSize, "number of bytes per block")
	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "", "one of character, binary, base64 (default character)")
	cmd.Flags().StringVar(&flags.outputFormat, "output-format", "", "one of character, binary, base64 (default: input format)")
	cmd.Flags().StringVarP(&flags.inputFile, "input-file", "i", "", "read the input from this file")
	cmd.Flags().StringVarP(&flags.outputFile, "output-file", "o", "", "write the output to this file instead of stdout")

	return cmd
}

// Collects the flags that were set explicitly. Defaults only apply if
// neither flag nor parameter file provide a value.
func (f cipherFlags) explicit(cmd *cobra.Command) (config.Parameters, error) {
	p := config.Parameters{}
	var err error

	if cmd.Flags().Changed("key") {
		p.Exponent, err = config.ParseInteger(f.key)
		if err != nil {
			return p, err
		}
	}
	if cmd.Flags().Changed("modulus") {
		p.Modulus, err = config.ParseInteger(f.modulus)
		if err != nil {
			return p, err
		}
	}
	if cmd.Flags().Changed("blocksize") {
		if f.blockSize <= 0 {
			return p, fmt.Errorf("block size must be positive, got %d", f.blockSize)
		}
		p.BlockSize = f.blockSize
	}
	p.InputFormat = f.inputFormat
	p.OutputFormat = f.outputFormat

	return p, nil
}

func (f cipherFlags) settings(cmd *cobra.Command, file config.Parameters) (*cipherSettings, error) {
	explicit, err := f.explicit(cmd)
	if err != nil {
		return nil, err
	}
	p := config.Merge(file, explicit)

	if p.Exponent == nil {
		return nil, fmt.Errorf("no key given, use --key or a parameter file")
	}

	if p.Modulus == nil && p.P != nil && p.Q != nil {
		p.Modulus = new(big.Int).Mul(p.P, p.Q)
		logging.Infof("cli: using modulus %v = %v * %v", p.Modulus, p.P, p.Q)
	}
	if p.Modulus == nil {
		p.Modulus, _ = new(big.Int).SetString(defaultModulus, 10)
	}
	if p.BlockSize == 0 {
		p.BlockSize = defaultBlockSize
	}

	s := cipherSettings{
		exponent:  p.Exponent,
		modulus:   p.Modulus,
		blockSize: p.BlockSize,
	}

	// fail before any input is read
	err = blockrsa.Validate(s.exponent, s.modulus, s.blockSize)
	if err != nil {
		return nil, err
	}

	s.inputFormat = ioformat.FormatCharacter
	if p.InputFormat != "" {
		s.inputFormat, err = ioformat.ParseFormat(p.InputFormat)
		if err != nil {
			return nil, err
		}
	}

	s.outputFormat = s.inputFormat
	if p.OutputFormat != "" {
		s.outputFormat, err = ioformat.ParseFormat(p.OutputFormat)
		if err != nil {
			return nil, err
		}
	}

	return &s, nil
}

func readInput(cmd *cobra.Command, fsys ioformat.Filesystem, args []string, inputFile string) ([]byte, error) {
	switch {
	case len(args) > 0 && inputFile != "":
		return nil, fmt.Errorf("either give the input as argument or use --input-file, not both")
	case len(args) > 0:
		return []byte(args[0]), nil
	case inputFile != "":
		content, err := fsys.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("can't read input: %v", err)
		}
		return content, nil
	default:
		logging.Debug("cli: reading input from stdin")
		return io.ReadAll(cmd.InOrStdin())
	}
}

func writeOutput(cmd *cobra.Command, fsys ioformat.Filesystem, outputFile string, f ioformat.Format, data []byte) error {
	out, used, err := ioformat.Encode(f, data)
	if err != nil {
		return err
	}
	if used != f {
		logging.Infof("cli: output is not printable, writing %v instead of %v", used, f)
	}

	if outputFile == "" {
		if used != ioformat.FormatBinary {
			out = append(out, '\n')
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	// the filesystem only writes below its base directory
	if filepath.IsAbs(outputFile) {
		fsys = ioformat.NewNativeFs(filepath.Dir(outputFile))
		outputFile = filepath.Base(outputFile)
	}

	err = fsys.WriteFile(outputFile, out)
	if err != nil {
		return fmt.Errorf("can't write output: %v", err)
	}
	logging.Infof("cli: wrote %d bytes to '%s'", len(out), outputFile)

	return nil
}

func warnWeakKey(exponent, modulus *big.Int) {
	if keys.IsTrivial(exponent, modulus) {
		logging.Warningf("the key %v is trivial, the ciphertext equals the plaintext", keys.Key{Exponent: exponent, Modulus: modulus})
		return
	}

	if modulus.BitLen() > involutionCheckMaxBits {
		logging.Debugf("cli: modulus has %d bits, skipping involution check", modulus.BitLen())
		return
	}

	involutary, err := keys.IsInvolutary(exponent, modulus)
	if err != nil {
		logging.Debugf("cli: can't check for involution: %v", err)
		return
	}
	if involutary {
		logging.Warningf("the key %v is involutary, encrypting twice yields the plaintext", keys.Key{Exponent: exponent, Modulus: modulus})
	}
}
