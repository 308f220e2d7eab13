package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/wokdav/modrsa/blockrsa/config"
	_ "github.com/wokdav/modrsa/blockrsa/config/v1"
	"github.com/wokdav/modrsa/ioformat"
	"github.com/wokdav/modrsa/logging"

	"github.com/spf13/cobra"
)

// state shared by all subcommands of one invocation
type rootContext struct {
	verbose    bool
	debug      bool
	configPath string

	fsys ioformat.Filesystem
	file config.Parameters
}

// newRootCmd builds the complete command tree. All files are read and
// written through fsys.
func newRootCmd(fsys ioformat.Filesystem) *cobra.Command {
	ctx := &rootContext{fsys: fsys}

	rootCmd := &cobra.Command{
		Use:   "modrsa",
		Short: "Encrypt and decrypt with textbook RSA on fixed size blocks",
		Long: `modrsa encrypts and decrypts messages with textbook RSA.

The message is cut into blocks of a fixed number of bytes, every block is
raised to the power of the exponent modulo the modulus. Keys can be derived
from two primes and a public exponent, and a few number theory helpers are
available to find suitable primes.

modrsa is meant for learning and experimenting. It offers no security.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.init(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&ctx.debug, "debug", "d", false, "a LOT more verbose output (overrides -v)")
	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "", "read parameters from a YAML file, flags take precedence")

	rootCmd.AddCommand(newCipherCmd(ctx, true))
	rootCmd.AddCommand(newCipherCmd(ctx, false))
	rootCmd.AddCommand(newKeyCmd(ctx))
	rootCmd.AddCommand(newPrimeCmd())
	rootCmd.AddCommand(newDocCmd())

	return rootCmd
}

// Loads the parameter file, if any, and sets up logging.
// -d and -v win over the log level of the parameter file.
func (c *rootContext) init(cmd *cobra.Command) error {
	c.file = config.Parameters{}

	if c.configPath != "" {
		content, err := c.fsys.ReadFile(c.configPath)
		if err != nil {
			return fmt.Errorf("can't read parameter file: %v", err)
		}

		p, err := config.ParseConfig(bytes.NewReader(content))
		if err != nil {
			return fmt.Errorf("can't parse parameter file '%s': %v", c.configPath, err)
		}
		c.file = *p
	}

	level := logging.LevelWarning
	if c.file.LogLevel != nil {
		level = *c.file.LogLevel
	}
	if c.debug {
		level = logging.LevelDebug
	} else if c.verbose {
		level = logging.LevelInfo
	}

	// stdout may carry binary ciphertext, so logs always go to stderr
	logging.Initialize(level, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	logging.Debugf("cli: log level %v", level)

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	err := newRootCmd(ioformat.NewNativeFs(".")).Execute()
	if err != nil {
		os.Exit(1)
	}
}
