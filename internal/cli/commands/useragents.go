package commands

import (
	"github.com/spf13/cobra"

	"github.com/portal-tools/portalstats/pkg/reports"
)

// NewUserAgentsCommand creates the useragents report command.
func NewUserAgentsCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "useragents",
		Short: "Report browser, OS, and device mix",
		Long: `Report the browser, OS, and device mix per date from the split tree.

The user agent is taken from the [UserAgent: ...] marker on the first line
of each per-user split file. Writes user_agents.csv plus distinct-user
aggregates by browser, OS, and device class per date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, reports.NewUserAgentReport())
		},
	}

	addReportFlags(cmd, opts)
	return cmd
}
