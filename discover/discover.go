// Package discover walks a project tree to find ERB templates that herbfmt
// should format or lint, honoring include/exclude globs and the
// file-level "herb:formatter ignore" directive.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreDirective is the file-level comment that excludes a file from
// formatting before the parser/printer is ever invoked.
const ignoreDirective = "<%# herb:formatter ignore %>"

// File is one discovered candidate, with its source already loaded so
// callers don't need a second filesystem round trip.
type File struct {
	Path    string
	Source  string
	Ignored bool
}

// Walk finds every file under root matching any of includes and none of
// excludes, skipping node_modules-style vendor directories.
func Walk(root string, includes, excludes []string) ([]File, error) {
	if len(includes) == 0 {
		includes = []string{"**/*.html.erb"}
	}

	var out []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(rel, includes) || matchesAny(rel, excludes) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		out = append(out, File{
			Path:    path,
			Source:  string(data),
			Ignored: strings.Contains(string(data), ignoreDirective),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, nil
}

func skipDir(name string) bool {
	switch name {
	case "node_modules", ".git", "vendor", "tmp":
		return true
	default:
		return false
	}
}

func matchesAny(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
