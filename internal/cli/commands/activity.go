package commands

import (
	"github.com/spf13/cobra"

	"github.com/portal-tools/portalstats/pkg/reports"
)

// NewActivityCommand creates the activity report command.
func NewActivityCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Report active-user histograms",
		Long: `Report active-user histograms from the split tree.

Writes hourly and daily unique-user counts, a peak-hours analysis across
all days, and per-user activity summaries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, reports.NewActivityReport())
		},
	}

	addReportFlags(cmd, opts)
	return cmd
}
