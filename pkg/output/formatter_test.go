package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/portal-tools/portalstats/pkg/splitter"
)

func testReport() *Report {
	result := &splitter.RunResult{
		Files: []splitter.FileResult{
			{Path: "logs/raw/portal.log", Lines: 120, Assigned: 100, Skipped: 20, Sinks: 3},
			{Path: "logs/raw/portal.1.arc", Err: errTest},
		},
		LinesProcessed: 120,
		LinesAssigned:  100,
		LinesSkipped:   20,
		SinksOpened:    3,
		StartedAt:      time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC),
		Duration:       250 * time.Millisecond,
	}
	return NewReport(result, "logs/raw", "logs/splits")
}

var errTest = &testError{"open logs/raw/portal.1.arc: no such file or directory"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

func TestNewReport(t *testing.T) {
	report := testReport()

	if report.Summary.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", report.Summary.FilesProcessed)
	}
	if report.Summary.FilesFailed != 1 {
		t.Errorf("FilesFailed = %d, want 1", report.Summary.FilesFailed)
	}
	if report.Summary.LinesAssigned != 100 {
		t.Errorf("LinesAssigned = %d, want 100", report.Summary.LinesAssigned)
	}
	if !report.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if report.Files[1].Error == "" {
		t.Error("failed file should carry an error message")
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{})

	if err := f.Format(context.Background(), testReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"=== Split Run Report ===",
		"Files processed: 2 (1 failed)",
		"Lines processed: 120",
		"Lines assigned:  100",
		"Lines skipped:   20",
		"Sinks opened:    3",
		"Output root:     logs/splits",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "portal.log:") {
		t.Error("per-file breakdown should only appear in verbose mode")
	}
}

func TestTextFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{Verbose: true})

	if err := f.Format(context.Background(), testReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "logs/raw/portal.log: 120 lines, 100 assigned, 20 skipped") {
		t.Errorf("missing per-file line:\n%s", out)
	}
	if !strings.Contains(out, "logs/raw/portal.1.arc: FAILED") {
		t.Errorf("missing failed file line:\n%s", out)
	}
	if !strings.Contains(out, "Duration:") {
		t.Errorf("missing duration:\n%s", out)
	}
}

func TestTextFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{Quiet: true})

	if err := f.Format(context.Background(), testReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Errorf("quiet output should be a single line:\n%s", out)
	}
	if !strings.Contains(out, "2 files, 120 lines, 100 assigned, 20 skipped") {
		t.Errorf("unexpected quiet output: %s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{})

	if err := f.Format(context.Background(), testReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Summary.LinesProcessed != 120 {
		t.Errorf("LinesProcessed = %d, want 120", decoded.Summary.LinesProcessed)
	}
	if decoded.Metadata.OutputRoot != "logs/splits" {
		t.Errorf("OutputRoot = %q", decoded.Metadata.OutputRoot)
	}
	if len(decoded.Files) != 2 {
		t.Errorf("got %d files, want 2", len(decoded.Files))
	}
}

func TestJSONFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{Quiet: true})

	if err := f.Format(context.Background(), testReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("quiet output is not a bare summary: %v", err)
	}
	if decoded.SinksOpened != 3 {
		t.Errorf("SinksOpened = %d, want 3", decoded.SinksOpened)
	}
}

func TestFormatterNames(t *testing.T) {
	if got := NewTextFormatter(FormatOptions{}).Name(); got != "text" {
		t.Errorf("text formatter Name() = %q", got)
	}
	if got := NewJSONFormatter(FormatOptions{}).Name(); got != "json" {
		t.Errorf("json formatter Name() = %q", got)
	}
}
