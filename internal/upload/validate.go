package upload

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
)

// Result is the outcome of validating a draft
type Result struct {
	Valid   bool
	Reasons []string
}

// Err returns the result as a validation error, or nil when valid
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return box.NewValidationError(r.Reasons)
}

// Validator checks a draft before it is sent
type Validator interface {
	Validate(d *box.Draft) Result
}

// Rules is the default Validator
type Rules struct {
	MaxTitleLength    int
	MinPasswordLength int
	// MaxTotalSize limits the summed file size in bytes. Zero disables the check.
	MaxTotalSize int64
}

// DefaultRules returns the rules applied by the upload page
func DefaultRules() Rules {
	return Rules{
		MaxTitleLength:    100,
		MinPasswordLength: 4,
	}
}

// Validate implements Validator
func (r Rules) Validate(d *box.Draft) Result {
	var reasons []string

	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		reasons = append(reasons, "title is required")
	case r.MaxTitleLength > 0 && utf8.RuneCountInString(title) > r.MaxTitleLength:
		reasons = append(reasons, fmt.Sprintf("title must be at most %d characters", r.MaxTitleLength))
	}

	if strings.TrimSpace(d.Uploader) == "" {
		reasons = append(reasons, "uploader name is required")
	}

	if utf8.RuneCountInString(d.Password) < r.MinPasswordLength {
		reasons = append(reasons, fmt.Sprintf("password must be at least %d characters", r.MinPasswordLength))
	}

	if len(d.Files) == 0 {
		reasons = append(reasons, "select at least one file")
	}

	if r.MaxTotalSize > 0 && d.TotalSize() > r.MaxTotalSize {
		reasons = append(reasons, fmt.Sprintf("files total %s, the limit is %s",
			humanize.IBytes(uint64(d.TotalSize())), humanize.IBytes(uint64(r.MaxTotalSize))))
	}

	return Result{Valid: len(reasons) == 0, Reasons: reasons}
}
