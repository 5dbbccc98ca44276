package box

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies failures of box operations
type Kind int

const (
	// KindRemoteFailure covers transport errors and every non-401 server error
	KindRemoteFailure Kind = iota
	// KindUnauthorized is a rejected password (HTTP 401)
	KindUnauthorized
	// KindValidationFailure is a draft rejected before any network call
	KindValidationFailure
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindValidationFailure:
		return "validation failure"
	default:
		return "remote failure"
	}
}

// Error is the single error shape produced by this package
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Detail  string
	Reasons []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Reasons) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Reasons, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors not produced by this package are remote failures.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindRemoteFailure
}

// IsUnauthorized reports whether err is a rejected password
func IsUnauthorized(err error) bool {
	return err != nil && KindOf(err) == KindUnauthorized
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}

// NewValidationError builds a validation failure from the given reasons
func NewValidationError(reasons []string) *Error {
	return &Error{
		Kind:    KindValidationFailure,
		Op:      "validate",
		Reasons: reasons,
	}
}

func statusError(op string, status int, detail string) *Error {
	kind := KindRemoteFailure
	if status == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	return &Error{
		Kind:   kind,
		Op:     op,
		Status: status,
		Detail: detail,
	}
}

func transportError(op string, err error) *Error {
	return &Error{
		Kind: KindRemoteFailure,
		Op:   op,
		Err:  err,
	}
}
