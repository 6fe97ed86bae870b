package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teller-dev/teller/internal/model"
	"github.com/teller-dev/teller/internal/report"
)

func newRegisterCommand(resolveDir func() string) *cobra.Command {
	var name string
	var pin int

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(resolveDir(), name, pin)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account holder name, alphabetic (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().IntVar(&pin, "pin", 0, "4-digit PIN, 1000-9999 (required)")
	_ = cmd.MarkFlagRequired("pin")

	return cmd
}

func runRegister(dir, name string, pin int) error {
	b, err := openBank(dir)
	if err != nil {
		return err
	}

	acct, err := b.store.Register(model.RegisterParams{Name: name, PIN: pin})
	if err != nil {
		return err
	}

	fmt.Printf("Account created for %s with starting balance %s\n", acct.Name, report.USD(acct.Cash))
	return nil
}
