package commands

import (
	"github.com/spf13/cobra"

	"github.com/teller-dev/teller/internal/buildinfo"
	"github.com/teller-dev/teller/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:     "teller",
		Short:   "Personal banking ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", "teller data directory (default: $TELLER_DIR or .)")

	resolveDir := func() string {
		if dir != "" {
			return dir
		}
		return config.Dir()
	}

	rootCmd.AddCommand(newInitCommand(resolveDir))
	rootCmd.AddCommand(newRegisterCommand(resolveDir))
	rootCmd.AddCommand(newAccountsCommand(resolveDir))
	rootCmd.AddCommand(newAuditCommand(resolveDir))
	rootCmd.AddCommand(newMarketCommand(resolveDir))
	rootCmd.AddCommand(newSessionCommand(resolveDir))

	return rootCmd
}
