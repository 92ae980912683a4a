// Package scan flattens a repository into one text document for a prompt.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kevinmichaelchen/gepeto/internal/models"
)

type Options struct {
	// IgnoreDirs lists directory base names that are not descended into.
	IgnoreDirs []string
}

// Document walks root and concatenates "File: <path>\n<content>\n\n" for
// every file whose content is valid UTF-8. Other files are skipped without
// error. Paths are root joined with the path relative to it, even when root
// itself is a symlink. Symlinked files are read through; symlinked
// directories are not descended into, and dangling links are skipped.
func Document(root string, opts Options) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", &models.RepositoryAccessError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return "", &models.RepositoryAccessError{Path: root, Err: fs.ErrInvalid}
	}
	// WalkDir does not follow a symlinked root.
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", &models.RepositoryAccessError{Path: root, Err: err}
	}

	var b strings.Builder
	err = filepath.WalkDir(realRoot, func(path string, d fs.DirEntry, err error) error {
		shown := root
		if rel, relErr := filepath.Rel(realRoot, path); relErr == nil && rel != "." {
			shown = filepath.Join(root, rel)
		}
		if err != nil {
			return &models.RepositoryAccessError{Path: shown, Err: err}
		}
		if d.IsDir() {
			if path != realRoot && slices.Contains(opts.IgnoreDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !readable(path, d) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return &models.RepositoryAccessError{Path: shown, Err: err}
		}
		if !utf8.Valid(data) {
			return nil
		}

		b.WriteString("File: ")
		b.WriteString(shown)
		b.WriteString("\n")
		b.WriteString(normalizeNewlines(string(data)))
		b.WriteString("\n\n")
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// readable reports whether d is a regular file or a symlink to one.
func readable(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	target, err := os.Stat(path)
	return err == nil && target.Mode().IsRegular()
}

// normalizeNewlines maps \r\n and lone \r to \n.
func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
