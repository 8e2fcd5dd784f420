package flatql

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nao1215/flatql/domain/model"
)

// tableFile is a managed file and the table it loads into
type tableFile struct {
	path  string
	table string
}

// fileProcessor finds the managed files of a dataset directory
type fileProcessor struct {
	suffix model.Suffix
}

// newFileProcessor creates a new file processor instance
func newFileProcessor(suffix model.Suffix) *fileProcessor {
	return &fileProcessor{suffix: suffix}
}

// collectTableFiles lists the regular files directly inside dir whose names
// carry the managed suffix, sorted by name. Subdirectories are not descended.
func (fp *fileProcessor) collectTableFiles(dir string) ([]tableFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Op: "read directory", Path: dir, Err: err}
	}

	files := make([]tableFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !fp.suffix.Matches(entry.Name()) {
			continue
		}
		if !entry.Type().IsRegular() {
			info, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, tableFile{
			path:  filepath.Join(dir, entry.Name()),
			table: fp.suffix.TableName(entry.Name()),
		})
	}

	// os.ReadDir already sorts, but the load order is part of the contract
	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i].path) < filepath.Base(files[j].path)
	})
	return files, nil
}

// fileMode returns the permission bits of path, or the default for new files
func fileMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return defaultFileMode
	}
	return info.Mode().Perm()
}

// describeFiles renders file paths for log output
func describeFiles(files []tableFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = fmt.Sprintf("%s=%s", f.table, filepath.Base(f.path))
	}
	return names
}
