// Package detector samples raw portal log files and reports how well their
// lines match the splitter's line grammar. It exists for diagnosing inputs
// before a split run: date-only misses, user-only misses, and full misses
// are counted separately.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/portal-tools/portalstats/pkg/splitter"
)

// DefaultSampleSize is the number of lines sampled when none is specified.
const DefaultSampleSize = 100

// Result summarizes grammar matching over the sampled lines of one file.
type Result struct {
	Path    string `json:"path"`
	Sampled int    `json:"sampled"`

	// Assignable lines matched both the date anchor and the user marker.
	Assignable int `json:"assignable"`

	// DateOnly lines matched the date anchor but carried no user marker.
	DateOnly int `json:"date_only"`

	// UserOnly lines carried a user marker but no leading date.
	UserOnly int `json:"user_only"`

	// Unmatched lines matched neither pattern.
	Unmatched int `json:"unmatched"`

	// Dates and Users are the distinct keys seen, sorted.
	Dates []string `json:"dates"`
	Users []string `json:"users"`
}

// MatchRate returns the fraction of sampled lines that would be assigned.
func (r *Result) MatchRate() float64 {
	if r.Sampled == 0 {
		return 0
	}
	return float64(r.Assignable) / float64(r.Sampled)
}

// Detector inspects raw log files.
type Detector struct {
	sampleSize int
}

// Option configures a Detector.
type Option func(*Detector)

// WithSampleSize sets how many lines to sample from the file.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{sampleSize: DefaultSampleSize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// InspectFile samples up to the configured number of lines from path and
// classifies each against the date and user patterns independently.
func (d *Detector) InspectFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided input paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	result := &Result{Path: path}
	dates := make(map[string]bool)
	users := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && result.Sampled < d.sampleSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}
		result.Sampled++

		date, hasDate := splitter.MatchDate(line)
		user, hasUser := splitter.MatchUser(line)

		switch {
		case hasDate && hasUser:
			result.Assignable++
			dates[date] = true
			users[user] = true
		case hasDate:
			result.DateOnly++
			dates[date] = true
		case hasUser:
			result.UserOnly++
			users[user] = true
		default:
			result.Unmatched++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	for date := range dates {
		result.Dates = append(result.Dates, date)
	}
	for user := range users {
		result.Users = append(result.Users, user)
	}
	sort.Strings(result.Dates)
	sort.Strings(result.Users)

	return result, nil
}
