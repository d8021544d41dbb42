package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portal-tools/portalstats/pkg/config"
	"github.com/portal-tools/portalstats/pkg/reports"
)

// ReportOptions holds the options shared by all report commands.
type ReportOptions struct {
	Config string
	Input  string
	Output string
}

// reportBuilder is one batch pass over the split tree.
type reportBuilder interface {
	AddFile(f reports.SplitFile) error
	WriteCSV(dir string) error
}

// addReportFlags registers the flags shared by all report commands.
func addReportFlags(cmd *cobra.Command, opts *ReportOptions) {
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file (optional)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Split tree root (default "+config.DefaultOutputRoot+")")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Reports directory (default "+config.DefaultReportsDir+")")
}

// runReport walks the split tree, feeds every file to the builder, and
// writes the CSVs. Unreadable split files are warnings, not failures.
func runReport(cmd *cobra.Command, opts *ReportOptions, builder reportBuilder) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.Input != "" {
		cfg.OutputRoot = opts.Input
	}
	if opts.Output != "" {
		cfg.ReportsDir = opts.Output
	}

	files, err := reports.FindSplitFiles(cfg.OutputRoot)
	if err != nil {
		return fmt.Errorf("finding split files: %w", err)
	}

	for _, f := range files {
		if err := builder.AddFile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if err := builder.WriteCSV(cfg.ReportsDir); err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}

	fmt.Printf("Scanned %d split files; reports written to %s\n", len(files), cfg.ReportsDir)
	return nil
}
