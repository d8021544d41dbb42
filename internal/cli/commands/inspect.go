package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portal-tools/portalstats/pkg/detector"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	Output     string
	SampleSize int
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <raw-log-file>",
		Short: "Check how well a raw log file matches the line grammar",
		Long: `Sample lines from a raw log file and report how many would be assigned
by the splitter.

Date-only misses (timestamp but no [User: ...] marker), user-only misses
(marker but no leading timestamp), and full misses are counted separately,
so an unexpectedly high skip rate can be diagnosed before a split run.

Example:
  portalstats inspect logs/raw/portal-2025-09-10.log
  portalstats inspect --sample 500 logs/raw/portal.arc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.InspectFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	switch opts.Output {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "text":
		printInspectText(result)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func printInspectText(result *detector.Result) {
	fmt.Printf("Inspected %s (%d lines sampled)\n\n", result.Path, result.Sampled)
	fmt.Printf("  Assignable:   %d (%.1f%%)\n", result.Assignable, result.MatchRate()*100)
	fmt.Printf("  Date only:    %d\n", result.DateOnly)
	fmt.Printf("  User only:    %d\n", result.UserOnly)
	fmt.Printf("  Unmatched:    %d\n", result.Unmatched)

	if len(result.Dates) > 0 {
		fmt.Printf("\nDates seen: %d\n", len(result.Dates))
		for _, d := range result.Dates {
			fmt.Printf("  - %s\n", d)
		}
	}
	if len(result.Users) > 0 {
		fmt.Printf("\nUsers seen: %d\n", len(result.Users))
		for _, u := range result.Users {
			fmt.Printf("  - %s\n", u)
		}
	}
}
