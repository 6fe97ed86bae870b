package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teller-dev/teller/internal/config"
)

func newInitCommand(resolveDir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default teller.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(resolveDir())
		},
	}
}

// envTemplate documents the supported environment overrides. Every line is
// commented out, so a fresh install behaves the same with or without it.
const envTemplate = `# Environment overrides for teller. Uncomment to use.

# Relocate the teller data directory.
#` + config.EnvDir + `=/path/to/teller

# Rename the account snapshot file within the data directory.
#` + config.EnvDataFile + `=accounts.dat
`

func runInit(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	path := filepath.Join(dir, config.File)
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s already exists", path)
	}

	if err := config.Save(dir, config.Default()); err != nil {
		return err
	}

	// Never overwrite an existing .env, it may carry live overrides.
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(envPath, []byte(envTemplate), 0o644); err != nil {
			return fmt.Errorf("writing env template: %w", err)
		}
	}

	fmt.Printf("Initialized teller config at %s\n", path)
	return nil
}
