// Package panel implements the password-gated download panel of one box:
// download, copy-link and delete.
package panel

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hanbatbox-cli/internal/box"
	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
	"github.com/HaiFongPan/hanbatbox-cli/internal/telemetry"
	"github.com/HaiFongPan/hanbatbox-cli/internal/utils"
)

// Remote is the part of the box backend the panel talks to
type Remote interface {
	Download(ctx context.Context, id int64, password string) (*box.Payload, error)
	Delete(ctx context.Context, id int64, password string) error
}

// Saver stores a downloaded payload locally and returns where it went
type Saver interface {
	Save(filename string, r io.Reader) (string, error)
}

// Alerter shows a blocking acknowledgement to the user
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter
type AlerterFunc func(message string)

// Alert implements Alerter
func (f AlerterFunc) Alert(message string) { f(message) }

// State of the download gate
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateUnauthorized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateUnauthorized:
		return "unauthorized"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Deps are the collaborators shared by every panel
type Deps struct {
	Remote    Remote
	Saver     Saver
	Clipboard utils.Clipboard
	Links     *utils.URLGenerator
	Notices   *notice.Registry
	Loading   notice.Loading
	Tracker   telemetry.Tracker
	Alerter   Alerter
}

// Panel is the download/delete unit scoped to one box
type Panel struct {
	id   int64
	deps Deps

	mu        sync.Mutex
	password  string
	state     State
	savedPath string
}

// New mounts a panel for box id and registers its notices
func New(id int64, deps Deps) *Panel {
	if deps.Tracker == nil {
		deps.Tracker = telemetry.Nop{}
	}
	if deps.Alerter == nil {
		deps.Alerter = AlerterFunc(func(message string) { logrus.Info(message) })
	}

	p := &Panel{id: id, deps: deps}
	p.register()
	return p
}

func (p *Panel) register() {
	n := p.deps.Notices
	n.Register(notice.PanelID(p.id), notice.Notice{
		Header: fmt.Sprintf("Box #%d", p.id),
		Body:   "Enter the box password to download or delete it.",
	})
	n.Register(notice.PasswordInvalid, notice.Notice{
		Header: "Wrong password",
		Body:   "The password does not match this box.",
	})
	n.Register(notice.CopyComplete, notice.Notice{
		Header: "Link copied",
		Body:   "The download link is on your clipboard.",
	})
	n.Register(notice.DownloadFailed, notice.Notice{
		Header: "Download failed",
		Body:   "The box could not be downloaded. Try again later.",
	})
	n.Register(notice.DownloadComplete, notice.Notice{
		Header: "Download complete",
		Body:   "The box has been saved.",
	})
}

// Unmount removes the panel's own notice. Shared notices stay registered.
func (p *Panel) Unmount() {
	p.deps.Notices.Unregister(notice.PanelID(p.id))
}

// ID returns the box identifier
func (p *Panel) ID() int64 {
	return p.id
}

// SetPassword replaces the entered password
func (p *Panel) SetPassword(password string) {
	p.mu.Lock()
	p.password = password
	p.mu.Unlock()
}

// State returns the current state of the download gate
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SavedPath returns where the last successful download was written
func (p *Panel) SavedPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.savedPath
}

func (p *Panel) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
	logrus.Debugf("panel %d: %s", p.id, s)
}

func (p *Panel) event(action string) {
	telemetry.Emit(p.deps.Tracker, telemetry.Event{
		Category: telemetry.CategoryInteraction,
		Action:   action,
		Label:    fmt.Sprintf("[id: %d]", p.id),
	})
}

// Download fetches the box with the current password and saves it.
// Every terminal state clears loading and closes the panel.
// The returned error carries the cause for callers outside the UI.
func (p *Panel) Download(ctx context.Context) (State, error) {
	p.mu.Lock()
	if p.state == StateLoading {
		p.mu.Unlock()
		return StateLoading, nil
	}
	p.state = StateLoading
	password := p.password
	p.mu.Unlock()

	p.event(telemetry.ActionDownloadTry)
	p.deps.Loading.Begin()
	defer func() {
		p.deps.Loading.End()
		p.deps.Notices.Close(notice.PanelID(p.id))
	}()

	payload, err := p.deps.Remote.Download(ctx, p.id, password)
	if err != nil {
		if box.IsUnauthorized(err) {
			logrus.WithError(err).Warnf("panel %d: download rejected", p.id)
			p.setState(StateUnauthorized)
			p.deps.Notices.Open(notice.PasswordInvalid)
			return StateUnauthorized, err
		}
		return p.fail(err)
	}

	path, err := p.save(payload)
	if err != nil {
		return p.fail(err)
	}

	p.mu.Lock()
	p.savedPath = path
	p.mu.Unlock()

	p.event(telemetry.ActionDownloadOK)
	p.setState(StateSuccess)
	p.deps.Notices.Register(notice.DownloadComplete, notice.Notice{
		Header: "Download complete",
		Body:   fmt.Sprintf("Saved to %s", path),
	})
	p.deps.Notices.Open(notice.DownloadComplete)
	return StateSuccess, nil
}

func (p *Panel) save(payload *box.Payload) (string, error) {
	defer payload.Body.Close()

	path, err := p.deps.Saver.Save(payload.Filename, payload.Body)
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", payload.Filename, err)
	}
	return path, nil
}

func (p *Panel) fail(err error) (State, error) {
	logrus.WithError(err).Errorf("panel %d: download failed", p.id)
	p.event(telemetry.ActionDownloadFail)
	p.setState(StateFailed)
	p.deps.Notices.Open(notice.DownloadFailed)
	return StateFailed, err
}

// CopyLink writes the box's share link to the clipboard
func (p *Panel) CopyLink() (string, error) {
	link, err := utils.CopyLink(p.deps.Clipboard, p.deps.Links, p.id)
	if err != nil {
		logrus.WithError(err).Warnf("panel %d: copy link failed", p.id)
		return link, err
	}
	p.deps.Notices.Open(notice.CopyComplete)
	return link, nil
}

// Delete removes the box. Any failure opens the wrong password notice.
func (p *Panel) Delete(ctx context.Context) error {
	p.mu.Lock()
	password := p.password
	p.mu.Unlock()

	if err := p.remove(ctx, password); err != nil {
		logrus.WithError(err).Warnf("panel %d: delete failed", p.id)
		p.deps.Notices.Open(notice.PasswordInvalid)
		return err
	}

	p.deps.Alerter.Alert(fmt.Sprintf("Box #%d has been deleted.", p.id))
	p.deps.Notices.Close(notice.PanelID(p.id))
	return nil
}

func (p *Panel) remove(ctx context.Context, password string) error {
	p.deps.Loading.Begin()
	defer p.deps.Loading.End()

	return p.deps.Remote.Delete(ctx, p.id, password)
}
