package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountsCommand(resolveDir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List registered account holders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBank(resolveDir())
			if err != nil {
				return err
			}

			fmt.Printf("%d account(s) registered\n", b.store.Count())
			for _, name := range b.store.Names() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}
}
