package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

// Collector turns user-entered paths into files ready for a draft
type Collector struct {
	// Compress is the image compression level; empty disables compression.
	Compress string
	// WorkDir receives compressed copies of images. The caller owns and removes it.
	WorkDir string
}

// Collect expands ~ and glob patterns in paths and stats every match.
// Images are replaced by compressed copies when Compress is set; the
// upload keeps the original file name.
func (c Collector) Collect(paths ...string) ([]box.File, error) {
	var files []box.File
	for _, p := range paths {
		matches, err := expandPath(p)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			f, err := c.prepare(m)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func (c Collector) prepare(path string) (box.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return box.File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return box.File{}, fmt.Errorf("%s is a directory", path)
	}

	f, err := box.NewFile(path)
	if err != nil {
		return box.File{}, err
	}
	if c.Compress == "" || !utils.IsImageFile(path) {
		return f, nil
	}

	if c.WorkDir == "" {
		return box.File{}, fmt.Errorf("compressing %s needs a work directory", path)
	}
	compressed, err := utils.CompressImage(path, c.WorkDir, c.Compress)
	if err != nil {
		return box.File{}, fmt.Errorf("failed to compress %s: %w", path, err)
	}
	small, err := box.NewFile(compressed)
	if err != nil {
		return box.File{}, err
	}
	logrus.Debugf("upload: using compressed copy %s for %s", compressed, f.Name)

	small.Name = RemoveExt(f.Name) + filepath.Ext(compressed)
	return small, nil
}

func expandPath(p string) ([]string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil, nil
	}
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		p = filepath.Join(home, p[2:])
	}
	if !strings.ContainsAny(p, "*?[") {
		return []string{p}, nil
	}

	matches, err := filepath.Glob(p)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", p, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %s", p)
	}
	return matches, nil
}
