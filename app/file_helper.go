package app

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/docaudit/domain"
)

// FileHelper collects Python source files for auditing
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectPythonFiles collects .py files from the given paths. Directories
// named in ignoreDirs are pruned during traversal; excludePatterns are
// gitignore-style patterns matched against the file path.
func (h *FileHelper) CollectPythonFiles(paths []string, recursive bool, ignoreDirs, excludePatterns []string) ([]string, error) {
	matcher := gitignore.CompileIgnoreLines(excludePatterns...)
	ignored := make(map[string]bool, len(ignoreDirs))
	for _, d := range ignoreDirs {
		ignored[d] = true
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileSystemError("cannot access "+path, err)
		}

		if !info.IsDir() {
			if h.isPythonFile(path) && !matcher.MatchesPath(path) {
				files = append(files, path)
			}
			continue
		}

		if recursive {
			err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					if filePath != path && ignored[filepath.Base(filePath)] {
						return filepath.SkipDir
					}
					return nil
				}
				if h.isPythonFile(filePath) && !matcher.MatchesPath(filePath) {
					files = append(files, filePath)
				}
				return nil
			})
		} else {
			var entries []os.DirEntry
			entries, err = os.ReadDir(path)
			if err == nil {
				for _, entry := range entries {
					if entry.IsDir() {
						continue
					}
					filePath := filepath.Join(path, entry.Name())
					if h.isPythonFile(filePath) && !matcher.MatchesPath(filePath) {
						files = append(files, filePath)
					}
				}
			}
		}
		if err != nil {
			return nil, domain.NewFileSystemError("failed to collect files from "+path, err)
		}
	}

	return files, nil
}

// FileExists checks if a path exists and is a regular file
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// isPythonFile checks the source-language file extension
func (h *FileHelper) isPythonFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".py"
}
