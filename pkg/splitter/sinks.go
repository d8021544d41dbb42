package splitter

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// sink is one append-mode output file plus its buffered writer.
type sink struct {
	file *os.File
	buf  *bufio.Writer
}

// sinkSet caches open sinks keyed by (date, user) so repeated assignments to
// the same pair reuse the handle. Owned by a single goroutine; never shared.
type sinkSet struct {
	root   string
	open   map[Key]*sink
	opened int
}

func newSinkSet(root string) *sinkSet {
	return &sinkSet{root: root, open: make(map[Key]*sink)}
}

// get returns the sink for key, opening it lazily in append mode. The date
// directory is created idempotently on first use.
func (s *sinkSet) get(key Key) (*sink, error) {
	if sk, ok := s.open[key]; ok {
		return sk, nil
	}

	dir := filepath.Join(s.root, key.Date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, key.User+".log")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644) // #nosec G304 -- path components come from the validated line grammar
	if err != nil {
		return nil, fmt.Errorf("opening output file %s: %w", path, err)
	}

	sk := &sink{file: f, buf: bufio.NewWriter(f)}
	s.open[key] = sk
	s.opened++
	return sk, nil
}

// append writes one line, terminator included, to the sink for key.
func (s *sinkSet) append(key Key, line string) error {
	sk, err := s.get(key)
	if err != nil {
		return err
	}
	if _, err := sk.buf.WriteString(line); err != nil {
		return fmt.Errorf("writing to %s/%s.log: %w", key.Date, key.User, err)
	}
	return nil
}

// closeAll flushes and closes every open sink. Every sink is attempted even
// when earlier ones fail; the combined error is returned.
func (s *sinkSet) closeAll() error {
	var errs []error
	for key, sk := range s.open {
		if err := sk.buf.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flushing %s/%s.log: %w", key.Date, key.User, err))
		}
		if err := sk.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s/%s.log: %w", key.Date, key.User, err))
		}
	}
	s.open = make(map[Key]*sink)
	return errors.Join(errs...)
}
