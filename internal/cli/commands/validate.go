package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portal-tools/portalstats/pkg/config"
	"github.com/portal-tools/portalstats/pkg/splitter"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a portalstats configuration file without running anything.

Checks:
  - YAML syntax
  - Required fields
  - Webhook configuration
  - Raw log file presence in the input root (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Input root:  %s\n", cfg.InputRoot)
	fmt.Printf("  Output root: %s\n", cfg.OutputRoot)
	fmt.Printf("  Reports dir: %s\n", cfg.ReportsDir)
	fmt.Printf("  Webhooks:    %d\n", len(cfg.Webhooks))

	// Check the input root (warnings only)
	if _, err := os.Stat(cfg.InputRoot); err != nil {
		fmt.Printf("\nWarning: input root not accessible: %v\n", err)
		return nil
	}

	files, err := splitter.DiscoverInputs(cfg.InputRoot)
	if err != nil {
		fmt.Printf("\nWarning: error scanning input root: %v\n", err)
	} else if len(files) == 0 {
		fmt.Printf("\nWarning: no .log or .arc files in %s\n", cfg.InputRoot)
	} else {
		fmt.Printf("\nRaw log files found: %d\n", len(files))
		for _, f := range files {
			fmt.Printf("  - %s\n", f)
		}
	}

	return nil
}
