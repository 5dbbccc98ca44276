package box

import (
	"io"
	"os"
	"path/filepath"
)

// File is a local file chosen for upload
type File struct {
	Path string
	Name string
	Size int64
}

// NewFile stats path and returns a File named after its base name
func NewFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	return File{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
	}, nil
}

// Draft is the in-progress state of a box creation form
type Draft struct {
	Title    string
	Uploader string
	Password string
	Type     string
	Tags     []string
	Files    []File
}

// TotalSize returns the summed size of all files in the draft
func (d Draft) TotalSize() int64 {
	var total int64
	for _, f := range d.Files {
		total += f.Size
	}
	return total
}

// Ref identifies a box created on the server
type Ref struct {
	ID int64
}

// Summary is one entry of the box listing
type Summary struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Uploader  string `json:"uploader"`
	Type      string `json:"type,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	FileCount int    `json:"fileCount,omitempty"`
}

// Query filters and pages the box listing
type Query struct {
	Cursor  int64
	Keyword string
	Type    string
}

// Payload is a downloaded box body with its suggested filename.
// The caller owns Body and must close it.
type Payload struct {
	Body     io.ReadCloser
	Filename string
	Size     int64
}

// metadata is the JSON part sent alongside the files of a new box
type metadata struct {
	Title    string   `json:"title"`
	Uploader string   `json:"uploader"`
	Password string   `json:"password"`
	Type     string   `json:"type,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

// envelope mirrors the server's Result wrapper
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
