// Package splitter partitions raw portal log files into per-date, per-user
// split files.
//
// The splitter is a streaming text partitioner: it reads each input file
// line by line, classifies every line by (date, user), and appends assigned
// lines verbatim to <output root>/<date>/<user>.log. Memory use is constant
// in the input size. Output files are opened in append mode, so re-running
// the splitter over the same input duplicates lines; that is the documented
// contract of the split tree, not a bug.
package splitter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ProgressInterval is the number of input lines between progress callbacks.
const ProgressInterval = 10000

// FileResult records the outcome of splitting one input file.
type FileResult struct {
	Path     string
	Lines    int
	Assigned int
	Skipped  int
	Sinks    int // sinks opened while processing this file

	// Err is a non-fatal open or read failure. The run continues with the
	// remaining input files.
	Err error
}

// RunResult aggregates counters across one splitter run. It is an explicit
// value returned from Run; the splitter keeps no process-wide state.
type RunResult struct {
	Files          []FileResult
	LinesProcessed int
	LinesAssigned  int
	LinesSkipped   int
	SinksOpened    int
	StartedAt      time.Time
	Duration       time.Duration
}

// FilesFailed returns how many input files could not be read.
func (r *RunResult) FilesFailed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// HasFailures reports whether any input file failed.
func (r *RunResult) HasFailures() bool {
	return r.FilesFailed() > 0
}

// Splitter writes the per-date, per-user split tree under outputRoot.
type Splitter struct {
	outputRoot string
	progress   func(lines int)
	fileDone   func(FileResult)
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithProgress registers a callback invoked after every ProgressInterval
// input lines, with the running line total for the whole run.
func WithProgress(fn func(lines int)) Option {
	return func(s *Splitter) {
		s.progress = fn
	}
}

// WithFileDone registers a callback invoked after each input file with its
// per-file summary.
func WithFileDone(fn func(FileResult)) Option {
	return func(s *Splitter) {
		s.fileDone = fn
	}
}

// New creates a Splitter that writes under outputRoot.
func New(outputRoot string, opts ...Option) *Splitter {
	s := &Splitter{outputRoot: outputRoot}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run splits every file in paths, in order. A missing or unreadable input
// file is recorded in its FileResult and does not stop the run; only
// output-side failures (directory creation, open, write, flush) and context
// cancellation abort it. The partial RunResult is returned alongside any
// fatal error.
func (s *Splitter) Run(ctx context.Context, paths []string) (*RunResult, error) {
	result := &RunResult{StartedAt: time.Now()}

	for _, path := range paths {
		fr, err := s.splitFile(ctx, path, result.LinesProcessed)

		result.Files = append(result.Files, fr)
		result.LinesProcessed += fr.Lines
		result.LinesAssigned += fr.Assigned
		result.LinesSkipped += fr.Skipped
		result.SinksOpened += fr.Sinks

		if s.fileDone != nil {
			s.fileDone(fr)
		}

		if err != nil {
			result.Duration = time.Since(result.StartedAt)
			return result, err
		}
	}

	result.Duration = time.Since(result.StartedAt)
	return result, nil
}

// splitFile drains one input file through a per-file sink set. All sinks
// touched are flushed and closed before returning, on both the normal and
// the error path.
func (s *Splitter) splitFile(ctx context.Context, path string, processedBefore int) (FileResult, error) {
	fr := FileResult{Path: path}

	f, err := os.Open(path) // #nosec G304 -- user-provided input paths are expected
	if err != nil {
		fr.Err = err
		return fr, nil
	}
	defer f.Close()

	sinks := newSinkSet(s.outputRoot)
	reader := bufio.NewReaderSize(f, 64*1024)

	for {
		select {
		case <-ctx.Done():
			fr.Sinks = sinks.opened
			return fr, errors.Join(ctx.Err(), sinks.closeAll())
		default:
		}

		raw, readErr := reader.ReadString('\n')
		if len(raw) > 0 {
			fr.Lines++

			// Invalid byte sequences are substituted per rune, never fatal.
			line := strings.ToValidUTF8(raw, "\uFFFD")

			if key, ok := Classify(strings.TrimRight(line, "\r\n")); ok {
				if !strings.HasSuffix(line, "\n") {
					line += "\n"
				}
				if err := sinks.append(key, line); err != nil {
					fr.Sinks = sinks.opened
					return fr, errors.Join(err, sinks.closeAll())
				}
				fr.Assigned++
			} else {
				fr.Skipped++
			}

			if s.progress != nil && (processedBefore+fr.Lines)%ProgressInterval == 0 {
				s.progress(processedBefore + fr.Lines)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			// Mid-file read failure: keep what was written, move on.
			fr.Err = fmt.Errorf("reading %s: %w", path, readErr)
			break
		}
	}

	fr.Sinks = sinks.opened
	if err := sinks.closeAll(); err != nil {
		return fr, err
	}
	return fr, nil
}
