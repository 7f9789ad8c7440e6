// internal/scan/scan.go
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

// ErrNoFiles is returned when no regular file matched
var ErrNoFiles = errors.New("no regular files found")

// Options controls which files Collect returns
type Options struct {
	// Recursive descends into sub-directories of directory arguments
	Recursive bool

	// Extensions keeps only files with one of these extensions
	// (case-insensitive, leading dot optional). Empty keeps everything.
	Extensions []string

	// UseGitignore skips paths matched by .gitignore files below each directory argument
	UseGitignore bool

	// IncludeHidden keeps dot files and dot directories
	IncludeHidden bool
}

// File is one collected regular file
type File struct {
	Path string
	Size uint64
}

// Result lists collected files in walk order plus non-fatal errors
type Result struct {
	Files  []File
	Errors []error
}

// TotalSize sums the sizes of all collected files
func (r *Result) TotalSize() uint64 {
	var total uint64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// Sources turns the collected files into batch sources labelled by path
func (r *Result) Sources() []mrsh.Source {
	sources := make([]mrsh.Source, len(r.Files))
	for i, f := range r.Files {
		sources[i] = mrsh.FileSource(f.Path, "")
	}
	return sources
}

// Collect expands paths into regular files. File arguments are kept as
// given (the extension filter does not apply to them); directory arguments
// are listed, or walked when opts.Recursive is set. Each file appears once.
func Collect(paths []string, opts Options) (*Result, error) {
	exts := normalizeExtensions(opts.Extensions)
	result := &Result{}
	seen := make(map[string]bool)

	add := func(path string, info fs.FileInfo) {
		if seen[path] {
			return
		}
		seen[path] = true
		result.Files = append(result.Files, File{Path: path, Size: uint64(info.Size())})
	}

	for _, input := range paths {
		clean := filepath.Clean(input)
		info, err := os.Stat(clean)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", input, err))
			continue
		}
		if !info.IsDir() {
			if info.Mode().IsRegular() {
				add(clean, info)
			}
			continue
		}
		if err := walkDir(clean, opts, exts, result, add); err != nil {
			return nil, err
		}
	}

	if len(result.Files) == 0 {
		return result, ErrNoFiles
	}
	return result, nil
}

func walkDir(root string, opts Options, exts map[string]bool, result *Result, add func(string, fs.FileInfo)) error {
	var ignores *ignoreSet
	if opts.UseGitignore {
		var err error
		if ignores, err = loadIgnoreSet(root); err != nil {
			return fmt.Errorf("read .gitignore files in %s: %w", root, err)
		}
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		if path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		hidden := strings.HasPrefix(d.Name(), ".")

		if d.IsDir() {
			if !opts.Recursive || (hidden && !opts.IncludeHidden) || ignores.ignoredDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden && !opts.IncludeHidden {
			return nil
		}
		if !d.Type().IsRegular() || !matchesExtension(d.Name(), exts) || ignores.ignored(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		add(path, info)
		return nil
	})
}

func normalizeExtensions(exts []string) map[string]bool {
	if len(exts) == 0 {
		return nil
	}
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

func matchesExtension(name string, exts map[string]bool) bool {
	if len(exts) == 0 {
		return true
	}
	return exts[strings.ToLower(filepath.Ext(name))]
}
