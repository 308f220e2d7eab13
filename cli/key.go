package cli

import (
	"fmt"

	"github.com/wokdav/modrsa/blockrsa/config"
	"github.com/wokdav/modrsa/blockrsa/keys"

	"github.com/spf13/cobra"
)

func newKeyCmd(ctx *rootContext) *cobra.Command {
	var exponent, primes string

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Derive a key pair",
		Long: `Derives the private exponent for a public exponent and two primes.

The public exponent must be relatively prime to phi(p*q). Use -v to see the
intermediate values of the derivation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := config.Parameters{}
			var err error

			if cmd.Flags().Changed("key") {
				explicit.Exponent, err = config.ParseInteger(exponent)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("primes") {
				explicit.P, explicit.Q, err = config.ParsePrimePair(primes)
				if err != nil {
					return err
				}
			}

			p := config.Merge(ctx.file, explicit)
			if p.Exponent == nil {
				return fmt.Errorf("no public exponent given, use --key or a parameter file")
			}
			if p.P == nil || p.Q == nil {
				return fmt.Errorf("no primes given, use --primes or a parameter file")
			}

			d, err := keys.DerivePrivateKey(p.Exponent, p.P, p.Q)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if ctx.verbose || ctx.debug {
				fmt.Fprintf(w, "p:                 %v\n", d.P)
				fmt.Fprintf(w, "q:                 %v\n", d.Q)
				fmt.Fprintf(w, "modulus:           %v\n", d.Modulus)
				fmt.Fprintf(w, "phi(p):            %v\n", d.PhiP)
				fmt.Fprintf(w, "phi(q):            %v\n", d.PhiQ)
				fmt.Fprintf(w, "phi(modulus):      %v\n", d.Phi)
				fmt.Fprintf(w, "gcd(e, phi):       %v\n", d.GCD)
				fmt.Fprintf(w, "public exponent:   %v\n", d.Public.Exponent)
				fmt.Fprintf(w, "private exponent:  %v\n", d.Private.Exponent)
			}
			fmt.Fprintf(w, "public key:  %v\n", d.Public)
			fmt.Fprintf(w, "private key: %v\n", d.Private)

			return nil
		},
	}

	cmd.Flags().StringVarP(&exponent, "key", "k", "", "public exponent")
	cmd.Flags().StringVarP(&primes, "primes", "p", "", "two primes, separated by a comma (e.g. 61,53)")

	return cmd
}
