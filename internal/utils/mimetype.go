package utils

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// fallbackTypes covers extensions some platforms' mime tables miss
var fallbackTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".pdf":  "application/pdf",
	".hwp":  "application/x-hwp",
	".hwpx": "application/x-hwp",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
	".zip":  "application/zip",
	".7z":   "application/x-7z-compressed",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
}

// DetectContentType detects the MIME type of a file by extension, then by sniffing reader
func DetectContentType(filePath string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType, nil
	}

	if reader != nil {
		buffer := make([]byte, 512)
		n, err := reader.Read(buffer)
		if err != nil && err != io.EOF {
			return "", err
		}

		if contentType := http.DetectContentType(buffer[:n]); contentType != "application/octet-stream" {
			return contentType, nil
		}
	}

	if contentType, ok := fallbackTypes[ext]; ok {
		return contentType, nil
	}

	return "application/octet-stream", nil
}

// IsImageFile reports whether the file name has a compressible image extension
func IsImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

// GetFileCategory returns a general category for a file name
func GetFileCategory(filename string) string {
	contentType, _ := DetectContentType(filename, nil)
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case strings.HasPrefix(contentType, "audio/"):
		return "audio"
	case strings.HasPrefix(contentType, "text/"):
		return "text"
	case strings.Contains(contentType, "pdf"), strings.Contains(contentType, "word"), strings.Contains(contentType, "hwp"):
		return "document"
	case strings.Contains(contentType, "sheet"), strings.Contains(contentType, "excel"):
		return "spreadsheet"
	case strings.Contains(contentType, "presentation"), strings.Contains(contentType, "powerpoint"):
		return "presentation"
	case strings.Contains(contentType, "zip"), strings.Contains(contentType, "tar"), strings.Contains(contentType, "gzip"), strings.Contains(contentType, "7z"):
		return "archive"
	default:
		return "other"
	}
}
