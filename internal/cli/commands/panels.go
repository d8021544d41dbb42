package commands

import (
	"github.com/spf13/cobra"

	"github.com/portal-tools/portalstats/pkg/reports"
)

// NewPanelsCommand creates the panels report command.
func NewPanelsCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "panels",
		Short: "Report switch panel usage",
		Long: `Report switch panel usage from the split tree.

Tracks Switch Panel Activated/Added/Removed events per user. Base panels
(employees, documents, import, reports, management) are counted as plain
activations; employee panels are tracked for concurrency (the portal
allows 5 at once) and switching behavior.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, reports.NewPanelReport())
		},
	}

	addReportFlags(cmd, opts)
	return cmd
}
