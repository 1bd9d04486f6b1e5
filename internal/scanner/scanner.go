package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// Scanner discovers source documents in the project tree.
type Scanner interface {
	Scan(input string, extensions []string, excludes []string) ([]string, error)
}

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// Scan returns the sorted paths under input whose extension is one of
// extensions, skipping anything that matches an exclude glob. An input that
// names a single file is returned as-is when its extension is accepted.
func (s *FileScanner) Scan(input string, extensions []string, excludes []string) ([]string, error) {
	accepted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		accepted[normalizeExt(ext)] = true
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, domain.NewError("scan", input, 0, "failed to access input", err)
	}
	if !info.IsDir() {
		if accepted[normalizeExt(filepath.Ext(input))] {
			return []string{input}, nil
		}
		return nil, nil
	}

	seen := make(map[string]bool)
	var files []string

	err = filepath.WalkDir(input, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(input, path)
		if relErr != nil {
			relPath = path
		}

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if !s.Recursive || excluded(relPath, excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if excluded(relPath, excludes) || !accepted[normalizeExt(filepath.Ext(path))] {
			return nil
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, domain.NewError("scan", input, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func excluded(relPath string, excludes []string) bool {
	for _, exc := range excludes {
		if matchGlob(relPath, exc) {
			return true
		}
		// "dir/**" also excludes the directory entry itself
		if strings.HasSuffix(exc, "/**") && relPath == strings.TrimSuffix(exc, "/**") {
			return true
		}
	}
	return false
}

// matchGlob matches a path against a glob pattern, supporting ** for recursive matching.
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		if prefix != "" {
			if path != prefix && !strings.HasPrefix(path, prefix+"/") {
				return false
			}
			path = strings.TrimPrefix(strings.TrimPrefix(path, prefix), "/")
		}
		if suffix == "" {
			return true
		}

		segments := strings.Split(path, "/")
		for i := range segments {
			if matched, _ := filepath.Match(suffix, strings.Join(segments[i:], "/")); matched {
				return true
			}
		}
		return false
	}

	if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}
