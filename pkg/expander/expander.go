// Package expander materializes the entry tree of a jar (zip) archive on disk.
package expander

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Expander extracts an archive into a fresh destination directory.
type Expander interface {
	Expand(archivePath, destDir string) error
}

type ZipExpander struct{}

func NewZipExpander() *ZipExpander {
	return &ZipExpander{}
}

// Expand extracts every entry of archivePath below destDir. destDir is created
// when missing and must be empty when it exists.
func (e *ZipExpander) Expand(archivePath, destDir string) error {
	if err := ensureEmptyDir(destDir); err != nil {
		return err
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := extractFile(f, destDir); err != nil {
			return fmt.Errorf("failed to extract %s from %s: %w", f.Name, archivePath, err)
		}
	}

	return nil
}

func ensureEmptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return os.MkdirAll(dir, 0755)
	}
	if err != nil {
		return fmt.Errorf("failed to read destination %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("destination %s already exists and is not empty", dir)
	}
	return nil
}

func extractFile(f *zip.File, destDir string) error {
	target, err := safeJoin(destDir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// safeJoin rejects entries that would land outside destDir.
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(destDir, target)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("illegal entry path %q", name)
	}
	return target, nil
}
