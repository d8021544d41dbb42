package splitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Input extensions produced by the portal's logging subsystem. Archived
// (.arc) files carry the same content format as .log files and are treated
// identically.
var inputExtensions = map[string]bool{
	".log": true,
	".arc": true,
}

// DiscoverInputs lists the raw log files directly under root, sorted by
// name. Files with other extensions and subdirectories are ignored.
func DiscoverInputs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if inputExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(root, e.Name()))
		}
	}
	return files, nil
}
