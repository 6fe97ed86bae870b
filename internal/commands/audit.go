package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/teller-dev/teller/internal/audit"
	"github.com/teller-dev/teller/internal/config"
)

func newAuditCommand(resolveDir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Show the recorded operation trail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(resolveDir(), cmd.OutOrStdout())
		},
	}
}

func runAudit(dir string, w io.Writer) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	entries, err := audit.NewLog(filepath.Join(dir, cfg.Storage.AuditFile)).Read()
	if err != nil {
		return fmt.Errorf("reading audit log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No operations recorded.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s  %-10s %s\n",
			e.Timestamp.Format(time.RFC3339), e.AccountID, e.Action, e.Detail)
	}
	return nil
}
