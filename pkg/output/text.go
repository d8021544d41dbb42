package output

import (
	"context"
	"fmt"
	"io"
)

// TextFormatter formats run reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		fmt.Fprintf(w, "portalstats: %d files, %d lines, %d assigned, %d skipped\n",
			report.Summary.FilesProcessed,
			report.Summary.LinesProcessed,
			report.Summary.LinesAssigned,
			report.Summary.LinesSkipped)
		return nil
	}

	fmt.Fprintln(w, "=== Split Run Report ===")
	fmt.Fprintln(w)

	if f.opts.Verbose {
		for _, file := range report.Files {
			if file.Error != "" {
				fmt.Fprintf(w, "%s: FAILED (%s)\n", file.Path, file.Error)
				continue
			}
			fmt.Fprintf(w, "%s: %d lines, %d assigned, %d skipped\n",
				file.Path, file.Lines, file.Assigned, file.Skipped)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Files processed: %d", report.Summary.FilesProcessed)
	if report.Summary.FilesFailed > 0 {
		fmt.Fprintf(w, " (%d failed)", report.Summary.FilesFailed)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Lines processed: %d\n", report.Summary.LinesProcessed)
	fmt.Fprintf(w, "Lines assigned:  %d\n", report.Summary.LinesAssigned)
	fmt.Fprintf(w, "Lines skipped:   %d\n", report.Summary.LinesSkipped)
	fmt.Fprintf(w, "Sinks opened:    %d\n", report.Summary.SinksOpened)
	fmt.Fprintf(w, "Output root:     %s\n", report.Metadata.OutputRoot)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Duration:        %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}
