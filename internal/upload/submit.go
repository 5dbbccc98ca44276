package upload

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
)

// RouteUploadComplete is where a successful submit navigates
const RouteUploadComplete = "/upload/complete"

// Creator creates boxes on the backend
type Creator interface {
	CreateBox(ctx context.Context, draft *box.Draft) (box.Ref, error)
}

// Navigator moves the UI to another route
type Navigator interface {
	GoTo(route string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(route string)

// GoTo implements Navigator
func (f NavigatorFunc) GoTo(route string) { f(route) }

// Outcome is how a submit ended
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeInvalid
	OutcomeFailed
	OutcomeBusy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFailed:
		return "failed"
	case OutcomeBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Submitter runs the create-box flow for one upload page
type Submitter struct {
	validator Validator
	creator   Creator
	notices   *notice.Registry
	loading   notice.Loading
	navigator Navigator

	inFlight atomic.Bool
}

// NewSubmitter wires the submit flow. A nil validator uses DefaultRules.
func NewSubmitter(validator Validator, creator Creator, notices *notice.Registry, loading notice.Loading, navigator Navigator) *Submitter {
	if validator == nil {
		validator = DefaultRules()
	}
	return &Submitter{
		validator: validator,
		creator:   creator,
		notices:   notices,
		loading:   loading,
		navigator: navigator,
	}
}

// Submit validates draft with uploader merged in and, when valid, creates the box.
// Invalid drafts open the validation notice and never reach the network.
// Remote failures are logged only; the returned error is for callers outside the UI.
func (s *Submitter) Submit(ctx context.Context, draft box.Draft, uploader string) (box.Ref, Outcome, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		logrus.Debug("upload: submit ignored, previous submit still running")
		return box.Ref{}, OutcomeBusy, nil
	}
	defer s.inFlight.Store(false)

	draft.Uploader = strings.TrimSpace(uploader)

	result := s.validator.Validate(&draft)
	if !result.Valid {
		s.notices.Register(notice.ValidationError, notice.Notice{
			Header: "Check the form",
			Body:   strings.Join(result.Reasons, "\n"),
		})
		s.notices.Open(notice.ValidationError)
		return box.Ref{}, OutcomeInvalid, result.Err()
	}

	ref, err := s.create(ctx, &draft)
	if err != nil {
		logrus.WithError(err).WithField("title", draft.Title).Error("upload: create box failed")
		return box.Ref{}, OutcomeFailed, err
	}

	logrus.Infof("upload: created box %d", ref.ID)
	s.navigator.GoTo(RouteUploadComplete)
	return ref, OutcomeCreated, nil
}

// Busy reports whether a submit is outstanding
func (s *Submitter) Busy() bool {
	return s.inFlight.Load()
}

// create holds the loading indicator for exactly the remote call
func (s *Submitter) create(ctx context.Context, draft *box.Draft) (box.Ref, error) {
	s.loading.Begin()
	defer s.loading.End()

	return s.creator.CreateBox(ctx, draft)
}
