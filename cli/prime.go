package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/wokdav/modrsa/blockrsa/codec"
	"github.com/wokdav/modrsa/blockrsa/config"
	"github.com/wokdav/modrsa/blockrsa/keys"
	"github.com/wokdav/modrsa/blockrsa/numtheory"

	"github.com/spf13/cobra"
)

// helper for the commands taking a single integer argument
func integerCommand(use, short string, run func(cmd *cobra.Command, n *big.Int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " N",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := config.ParseInteger(args[0])
			if err != nil {
				return err
			}
			return run(cmd, n)
		},
	}
}

func newPrimeCmd() *cobra.Command {
	cmdPrime := &cobra.Command{
		Use:   "prime",
		Short: "Number theory helpers",
		Long: `Helpers to find primes and keys.

All of them work by trial division, so they get slow for large numbers.`,
	}

	cmdPrime.AddCommand(integerCommand("is", "Check whether N is prime", func(cmd *cobra.Command, n *big.Int) error {
		if numtheory.IsPrime(n) {
			fmt.Fprintf(cmd.OutOrStdout(), "%v is prime\n", n)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%v is not prime\n", n)
		}
		return nil
	}))

	cmdPrime.AddCommand(integerCommand("next", "Print the smallest prime greater than N", func(cmd *cobra.Command, n *big.Int) error {
		fmt.Fprintln(cmd.OutOrStdout(), numtheory.NextPrime(n))
		return nil
	}))

	cmdPrime.AddCommand(integerCommand("factors", "Print the prime factors of N", func(cmd *cobra.Command, n *big.Int) error {
		factors, err := numtheory.PrimeFactors(n)
		if err != nil {
			return err
		}

		s := make([]string, len(factors))
		for i, f := range factors {
			s[i] = f.String()
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(s, " "))
		return nil
	}))

	cmdPrime.AddCommand(integerCommand("totient", "Print Euler's totient of N", func(cmd *cobra.Command, n *big.Int) error {
		phi, err := numtheory.EulerTotient(n)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), phi)
		return nil
	}))

	var blockSize int
	cmdSuggest := &cobra.Command{
		Use:   "suggest [N]",
		Short: "Suggest two primes whose product exceeds N",
		Long: `Suggests the two primes following the square root of N.

With --blocksize, N defaults to 256^blocksize, so the product of the primes
is a valid modulus for that block size.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *big.Int
			var err error

			switch {
			case len(args) == 1:
				target, err = config.ParseInteger(args[0])
				if err != nil {
					return err
				}
			case cmd.Flags().Changed("blocksize"):
				if blockSize <= 0 || blockSize > codec.MaxBlockSize {
					return fmt.Errorf("block size must be between 1 and %d, got %d", codec.MaxBlockSize, blockSize)
				}
				target = codec.MinimumModulus(blockSize)
			default:
				return fmt.Errorf("give either N or --blocksize")
			}

			p, q, err := keys.SuggestPrimes(target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v,%v (product %v)\n", p, q, new(big.Int).Mul(p, q))
			return nil
		},
	}
	cmdSuggest.Flags().IntVarP(&blockSize, "blocksize", "b", defaultBlockSize, "suggest primes for this block size")
	cmdPrime.AddCommand(cmdSuggest)

	return cmdPrime
}
