// Package output provides formatting for split run reports.
package output

import (
	"time"

	"github.com/portal-tools/portalstats/pkg/splitter"
)

// Report is the complete output of one split run. It is what the text and
// JSON formatters render and what webhooks deliver to the dashboard.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Files contains the per-input-file breakdown.
	Files []FileReport `json:"files"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics for the run.
type Summary struct {
	// FilesProcessed is the number of input files attempted.
	FilesProcessed int `json:"files_processed"`

	// FilesFailed is the number of input files that could not be read.
	FilesFailed int `json:"files_failed"`

	// LinesProcessed is the total number of input lines read.
	LinesProcessed int `json:"lines_processed"`

	// LinesAssigned is the number of lines written to a split file.
	LinesAssigned int `json:"lines_assigned"`

	// LinesSkipped is the number of lines missing a date match, a user
	// match, or both.
	LinesSkipped int `json:"lines_skipped"`

	// SinksOpened is the number of output file handles opened.
	SinksOpened int `json:"sinks_opened"`
}

// FileReport is the outcome for one input file.
type FileReport struct {
	Path     string `json:"path"`
	Lines    int    `json:"lines"`
	Assigned int    `json:"assigned"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// Metadata provides context about the run.
type Metadata struct {
	// InputRoot is the raw log directory (or "-" for explicit file lists).
	InputRoot string `json:"input_root"`

	// OutputRoot is the root of the split tree that was written.
	OutputRoot string `json:"output_root"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from a splitter run result.
func NewReport(result *splitter.RunResult, inputRoot, outputRoot string) *Report {
	report := &Report{
		Summary: Summary{
			FilesProcessed: len(result.Files),
			FilesFailed:    result.FilesFailed(),
			LinesProcessed: result.LinesProcessed,
			LinesAssigned:  result.LinesAssigned,
			LinesSkipped:   result.LinesSkipped,
			SinksOpened:    result.SinksOpened,
		},
		Metadata: Metadata{
			InputRoot:  inputRoot,
			OutputRoot: outputRoot,
			StartedAt:  result.StartedAt,
			Duration:   result.Duration,
		},
	}

	for _, f := range result.Files {
		fr := FileReport{
			Path:     f.Path,
			Lines:    f.Lines,
			Assigned: f.Assigned,
			Skipped:  f.Skipped,
		}
		if f.Err != nil {
			fr.Error = f.Err.Error()
		}
		report.Files = append(report.Files, fr)
	}

	return report
}

// HasFailures returns true if any input file could not be read.
func (r *Report) HasFailures() bool {
	return r.Summary.FilesFailed > 0
}
