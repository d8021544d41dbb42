// Package reports derives aggregate usage statistics from the split tree
// produced by the splitter. Each report is an independent batch pass over
// the per-date, per-user files; reports for different dates never share
// state and are safe to run in separate processes.
package reports

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// SplitFile is one per-date, per-user file in the split tree.
type SplitFile struct {
	Path string
	Date string // parent directory name, YYYY-MM-DD
	User string // file name without the .log extension
}

// FindSplitFiles walks root recursively and returns every .log file. Date
// and user are taken from the path, not from file content. The result is in
// lexical path order.
func FindSplitFiles(root string) ([]SplitFile, error) {
	var files []SplitFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".log") {
			return nil
		}
		files = append(files, SplitFile{
			Path: path,
			Date: filepath.Base(filepath.Dir(path)),
			User: strings.TrimSuffix(d.Name(), ".log"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking split tree %s: %w", root, err)
	}

	return files, nil
}
