package commands

import (
	"github.com/spf13/cobra"

	"github.com/portal-tools/portalstats/pkg/reports"
)

// NewSortsCommand creates the sorts report command.
func NewSortsCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "sorts",
		Short: "Report result grid sort usage",
		Long: `Report result grid sort usage from the split tree.

Tracks "Result grid sort changed" events and writes summaries by sorted
field, direction, and field+direction combination, plus daily, hourly,
and per-user breakdowns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, reports.NewSortReport())
		},
	}

	addReportFlags(cmd, opts)
	return cmd
}
