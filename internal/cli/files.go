package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"tocview/internal/document"
)

// ErrNoDocuments is returned when the arguments name no readable documents
var ErrNoDocuments = errors.New("no Markdown or HTML documents found")

// documentPattern matches every supported extension
const documentPattern = "*.{md,markdown,html,htm}"

// skipDirs are never searched when expanding a directory
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"dist":         true,
	"build":        true,
}

// ExpandArgs turns command line arguments into the documents to open, in
// argument order. An argument may be a file, a directory (searched
// recursively) or a doublestar glob such as "docs/**/*.md". With no
// arguments the working directory's top level is used.
func ExpandArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{documentPattern}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, arg := range args {
		matches, err := expand(arg)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoDocuments
	}
	return files, nil
}

func expand(arg string) ([]string, error) {
	if isGlob(arg) {
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(arg))
		return supported(filepath.FromSlash(base), matches), nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return expandDir(arg)
	}
	if !document.IsSupported(arg) {
		return nil, fmt.Errorf("%s: unsupported file type", arg)
	}
	return []string{arg}, nil
}

func expandDir(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/"+documentPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", dir, err)
	}

	var out []string
	for _, m := range matches {
		if skipped(m) {
			continue
		}
		out = append(out, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(out)
	return out, nil
}

// supported keeps readable documents, skipping directories below the glob's base
func supported(base string, paths []string) []string {
	var out []string
	for _, p := range paths {
		if !document.IsSupported(p) {
			continue
		}
		if rel, err := filepath.Rel(base, p); err == nil && skipped(filepath.ToSlash(rel)) {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// skipped reports whether a slash-separated path passes through a skipped directory
func skipped(path string) bool {
	parts := strings.Split(path, "/")
	for _, dir := range parts[:len(parts)-1] {
		if skipDirs[dir] {
			return true
		}
	}
	return false
}

func isGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}
