package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portal-tools/portalstats/pkg/config"
	"github.com/portal-tools/portalstats/pkg/output"
	"github.com/portal-tools/portalstats/pkg/splitter"
	"github.com/portal-tools/portalstats/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// SplitOptions holds command-line options for the split command.
type SplitOptions struct {
	Config  string
	Input   string
	Output  string
	Report  string
	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewSplitCommand creates the split command.
func NewSplitCommand() *cobra.Command {
	opts := &SplitOptions{}

	cmd := &cobra.Command{
		Use:   "split [raw-log-file...]",
		Short: "Split raw portal logs by date and user",
		Long: `Split raw portal log files into one file per user per calendar date.

Each line carrying both a leading timestamp and a [User: ...] marker is
appended verbatim to <output-root>/<YYYY-MM-DD>/<USER>.log. Lines missing
either field are counted and skipped. Output files are opened in append
mode: re-running split over the same input duplicates lines.

With no file arguments, all .log and .arc files directly under the input
root are processed in name order.

Missing or unreadable input files are reported and the run continues with
the remaining files. Only output-side failures abort the run.

Exit codes:
  0 - Run completed (skipped lines and unreadable inputs are non-fatal)
  2 - Unrecoverable error (invalid config, output root not writable)`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file (optional)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Raw log directory (default "+config.DefaultInputRoot+")")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Split tree root (default "+config.DefaultOutputRoot+")")
	cmd.Flags().StringVarP(&opts.Report, "report", "o", "text", "Run report format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-file breakdown in the run report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no progress output")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Dashboard ingest endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_failures", "When to fire webhook (on_failures|always|never)")

	return cmd
}

func runSplit(cmd *cobra.Command, args []string, opts *SplitOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.Input != "" {
		cfg.InputRoot = opts.Input
	}
	if opts.Output != "" {
		cfg.OutputRoot = opts.Output
	}

	inputRoot := cfg.InputRoot
	files := args
	if len(files) == 0 {
		files, err = splitter.DiscoverInputs(cfg.InputRoot)
		if err != nil {
			return fmt.Errorf("discovering input files: %w", err)
		}
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "No .log or .arc files found in %s\n", cfg.InputRoot)
			return nil
		}
	} else {
		// Explicit file list; the input root played no part.
		inputRoot = "-"
	}

	var splitterOpts []splitter.Option
	if !opts.Quiet {
		splitterOpts = append(splitterOpts,
			splitter.WithProgress(func(lines int) {
				fmt.Fprintf(os.Stderr, "Processed %d lines...\n", lines)
			}),
			splitter.WithFileDone(func(fr splitter.FileResult) {
				if fr.Err != nil {
					fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", fr.Path, fr.Err)
					return
				}
				fmt.Fprintf(os.Stderr, "%s: %d lines, %d assigned, %d skipped\n",
					fr.Path, fr.Lines, fr.Assigned, fr.Skipped)
			}),
		)
	}

	s := splitter.New(cfg.OutputRoot, splitterOpts...)
	result, err := s.Run(ctx, files)
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}

	report := output.NewReport(result, inputRoot, cfg.OutputRoot)

	formatter, err := createFormatter(opts.Report, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting run report: %w", err)
	}

	// Send webhooks (errors logged but don't fail the run)
	sendWebhooks(ctx, cfg, opts, report)

	return nil
}

func createFormatter(format string, formatOpts output.FormatOptions) (output.Formatter, error) {
	switch format {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (use text or json)", format)
	}
}

// sendWebhooks sends the run report to all configured webhooks.
// Errors are logged to stderr but don't fail the run.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *SplitOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasFailures()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *SplitOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnFailures
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger and failures.
func shouldFireWebhook(trigger config.WebhookTrigger, hasFailures bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnFailures:
		return hasFailures
	default:
		// Default to on_failures
		return hasFailures
	}
}
