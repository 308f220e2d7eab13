package cli

import (
	"fmt"

	"github.com/wokdav/modrsa/blockrsa/config"

	"github.com/spf13/cobra"
)

func newDocCmd() *cobra.Command {
	cmdDoc := &cobra.Command{
		Use:   "doc",
		Short: "Show Documentation",
		Long:  "Get help on various topics.",
	}

	cmdDoc.AddCommand(&cobra.Command{
		Use:   "example",
		Short: "Show an example parameter file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.GetConfigurator(1)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Example())
			return nil
		},
	})

	return cmdDoc
}
