// Package upload holds the box creation form, its validation and the submit flow.
package upload

import (
	"fmt"
	"strings"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
)

// RemoveExt strips the text after the final '.' together with the dot.
// Names without a dot are returned unchanged.
func RemoveExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// AddFiles returns a new slice holding current followed by incoming
func AddFiles(current, incoming []box.File) []box.File {
	result := make([]box.File, 0, len(current)+len(incoming))
	result = append(result, current...)
	return append(result, incoming...)
}

// Form is the upload page's draft. The slice returned by Files is the same one
// submitted, so the visible file list and the draft cannot diverge.
type Form struct {
	draft box.Draft
}

// NewForm returns an empty form
func NewForm() *Form {
	return &Form{}
}

// AddFiles appends incoming to the selection. When the title is blank it is
// filled from the first file of the resulting selection, without extension.
func (f *Form) AddFiles(incoming ...box.File) []box.File {
	f.draft.Files = AddFiles(f.draft.Files, incoming)

	if len(incoming) > 0 && strings.TrimSpace(f.draft.Title) == "" {
		f.draft.Title = RemoveExt(f.draft.Files[0].Name)
	}

	return f.draft.Files
}

// RemoveFile drops the file at index from the selection
func (f *Form) RemoveFile(index int) error {
	if index < 0 || index >= len(f.draft.Files) {
		return fmt.Errorf("file index %d out of range (%d files)", index, len(f.draft.Files))
	}
	files := make([]box.File, 0, len(f.draft.Files)-1)
	files = append(files, f.draft.Files[:index]...)
	f.draft.Files = append(files, f.draft.Files[index+1:]...)
	return nil
}

// Files returns the current selection
func (f *Form) Files() []box.File {
	return f.draft.Files
}

// Title returns the current title
func (f *Form) Title() string {
	return f.draft.Title
}

// SetTitle sets the title field
func (f *Form) SetTitle(title string) {
	f.draft.Title = title
}

// SetPassword sets the box password
func (f *Form) SetPassword(password string) {
	f.draft.Password = password
}

// SetType sets the box type used by listing filters
func (f *Form) SetType(boxType string) {
	f.draft.Type = boxType
}

// SetTags sets free-form tags
func (f *Form) SetTags(tags []string) {
	f.draft.Tags = tags
}

// Draft returns a copy of the form's fields
func (f *Form) Draft() box.Draft {
	return f.draft
}
