package utils

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// jpegQuality maps compression levels to JPEG quality
var jpegQuality = map[string]int{
	"high":   95,
	"fine":   85,
	"normal": 75,
	"low":    60,
}

// CompressImage re-encodes the image at srcPath as JPEG into dstDir and returns the new path.
// Every call writes a new file, so sources sharing a base name never collide.
// Images larger than 1920px on either side are scaled down first.
func CompressImage(srcPath, dstDir, level string) (string, error) {
	quality, ok := jpegQuality[level]
	if !ok {
		return "", fmt.Errorf("invalid compression level: %s (use: high, fine, normal, low)", level)
	}

	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > 1920 || bounds.Dy() > 1920 {
		img = imaging.Fit(img, 1920, 1920, imaging.Lanczos)
	}

	// JPEG has no alpha channel; flatten onto white
	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), image.White.C)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	out, err := os.CreateTemp(dstDir, base+"-*.jpg")
	if err != nil {
		return "", fmt.Errorf("failed to create compressed file: %w", err)
	}
	defer out.Close()
	dstPath := out.Name()

	if err := jpeg.Encode(out, flat, &jpeg.Options{Quality: quality}); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to encode compressed image: %w", err)
	}

	if before, err := os.Stat(srcPath); err == nil {
		if after, err := out.Stat(); err == nil && before.Size() > 0 {
			logrus.Infof("Compressed %s from %d bytes to %d bytes (%.1f%% reduction)",
				filepath.Base(srcPath), before.Size(), after.Size(),
				float64(before.Size()-after.Size())/float64(before.Size())*100)
		}
	}

	return dstPath, nil
}
