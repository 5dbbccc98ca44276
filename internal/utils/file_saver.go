package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// FileSaver writes downloaded payloads into a directory
type FileSaver struct {
	dir string
}

// NewFileSaver creates a saver rooted at dir
func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{dir: dir}
}

// Dir returns the target directory
func (s *FileSaver) Dir() string {
	return s.dir
}

// Save streams r into dir/filename and returns the written path.
// The name is reduced to its base so it cannot escape dir, and existing files are never overwritten.
// Data goes to a temporary file first and is renamed into place once complete.
func (s *FileSaver) Save(filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".hanbatbox-*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to finish file: %w", err)
	}

	localPath := resolveFileNameConflict(filepath.Join(s.dir, SafeFileName(filename)))
	if err := os.Rename(tmpPath, localPath); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	logrus.Infof("File saved to: %s", localPath)
	return localPath, nil
}

// SafeFileName strips directories from name and replaces unusable names
func SafeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" || name == ".." || strings.TrimSpace(name) == "" {
		return "download"
	}
	return name
}

func resolveFileNameConflict(originalPath string) string {
	if _, err := os.Stat(originalPath); os.IsNotExist(err) {
		return originalPath
	}

	ext := filepath.Ext(originalPath)
	baseName := originalPath[:len(originalPath)-len(ext)]

	for i := 1; i < 1000; i++ {
		newPath := fmt.Sprintf("%s (%d)%s", baseName, i, ext)
		if _, err := os.Stat(newPath); os.IsNotExist(err) {
			return newPath
		}
	}

	return fmt.Sprintf("%s_%d%s", baseName, os.Getpid(), ext)
}
