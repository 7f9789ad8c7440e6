// internal/scan/gitignore.go
package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreSet holds the compiled .gitignore files below one root.
// Keys are slash-separated directories relative to the root ("" = root).
type ignoreSet struct {
	root     string
	matchers map[string]*ignore.GitIgnore
}

// loadIgnoreSet compiles every .gitignore under root.
// Returns nil when there is none, so callers can skip filtering.
func loadIgnoreSet(root string) (*ignoreSet, error) {
	root = filepath.Clean(root)
	set := &ignoreSet{root: root, matchers: make(map[string]*ignore.GitIgnore)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != ".gitignore" {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return nil
		}
		if rel == "." {
			rel = ""
		}
		// unreadable ignore files are skipped
		m, err := ignore.CompileIgnoreFile(path)
		if err != nil {
			return nil
		}
		set.matchers[filepath.ToSlash(rel)] = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(set.matchers) == 0 {
		return nil, nil
	}
	return set, nil
}

// ignored reports whether relPath (relative to root) matches a pattern of
// any .gitignore in its ancestor directories, root first.
func (s *ignoreSet) ignored(relPath string) bool {
	if s == nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	for _, dir := range ancestors(relPath) {
		m, ok := s.matchers[dir]
		if !ok {
			continue
		}
		candidate := relPath
		if dir != "" {
			candidate = strings.TrimPrefix(relPath, dir+"/")
		}
		if m.MatchesPath(candidate) {
			return true
		}
	}
	return false
}

// ignoredDir reports whether a whole directory can be pruned. Only
// directory patterns ("build/") prune; "*.log" matching a directory name
// does not.
func (s *ignoreSet) ignoredDir(relPath string) bool {
	if s == nil {
		return false
	}
	return s.ignored(relPath+"/") && !s.ignored(relPath)
}

// ancestors returns the directories from root to the parent of relPath.
// For "src/lib/file.log" it returns ["", "src", "src/lib"].
func ancestors(relPath string) []string {
	dirs := []string{""}
	parent := strings.TrimSuffix(relPath, "/")
	i := strings.LastIndex(parent, "/")
	if i < 0 {
		return dirs
	}
	parent = parent[:i]
	for j := 0; j < len(parent); j++ {
		if parent[j] == '/' {
			dirs = append(dirs, parent[:j])
		}
	}
	return append(dirs, parent)
}
