package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teller-dev/teller/internal/report"
)

func newMarketCommand(resolveDir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "market",
		Short: "Show market prices and exchange rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBank(resolveDir())
			if err != nil {
				return err
			}

			fmt.Print(report.MarketTable(b.feed))
			return nil
		},
	}
}
