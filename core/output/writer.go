// Package output handles file naming and writing for exported pens.
// A single export is written flat as <username>_<slug>.<ext>; exports of
// every pen found in a page are grouped as <username>/<slug>.<ext>.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteOnly writes a single export.
// Example: https://codepen.io/johndjameson/pen/DwxMqa → johndjameson_DwxMqa.md
func (w *Writer) WriteOnly(penURL string, data []byte, ext string) (string, error) {
	user, slug, err := penParts(penURL)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.OutputDir, user+"_"+slug+ext)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteAll writes one export of a batch, grouped by author.
// Example: https://codepen.io/johndjameson/pen/DwxMqa → johndjameson/DwxMqa.md
func (w *Writer) WriteAll(penURL string, data []byte, ext string) (string, error) {
	user, slug, err := penParts(penURL)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(w.OutputDir, user, slug+ext)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// penParts returns the sanitized username and slug of a canonical pen URL.
func penParts(penURL string) (user, slug string, err error) {
	parsed, err := url.Parse(penURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing pen URL: %w", err)
	}
	segs := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segs) < 3 || segs[1] != "pen" || segs[0] == "" || segs[2] == "" {
		return "", "", fmt.Errorf("not a canonical pen URL: %s", penURL)
	}
	return sanitize(segs[0]), sanitize(segs[2]), nil
}

// sanitize replaces characters outside [A-Za-z0-9_-] with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
