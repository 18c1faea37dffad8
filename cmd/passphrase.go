package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/secrets"
)

func newPassphraseCmd(a *app) *cobra.Command {
	var length int

	passphraseCmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Print a random passphrase suitable for tagging messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := secrets.NewPassphrase(length)
			if err != nil {
				return err
			}
			a.log.Debug().Int("length", length).Msg("passphrase generated")
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	passphraseCmd.Flags().IntVarP(&length, "length", "n", 20, "Number of characters")

	return passphraseCmd
}
