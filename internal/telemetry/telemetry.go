// Package telemetry records user interaction events.
package telemetry

import (
	"github.com/sirupsen/logrus"
)

// Event is one interaction, e.g. a download attempt
type Event struct {
	Category string
	Action   string
	Label    string
}

// Interaction actions emitted by the download panel
const (
	CategoryInteraction = "interaction"
	ActionDownloadTry   = "download attempt"
	ActionDownloadOK    = "download success"
	ActionDownloadFail  = "download failure"
)

// Tracker sends events somewhere
type Tracker interface {
	Track(e Event) error
}

// Emit sends e through t and swallows every failure, panics included.
// Callers never observe the outcome.
func Emit(t Tracker, e Event) {
	if t == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logrus.Debugf("telemetry: tracker panicked: %v", r)
		}
	}()
	if err := t.Track(e); err != nil {
		logrus.Debugf("telemetry: dropped %s/%s: %v", e.Category, e.Action, err)
	}
}

// LogTracker writes events to the application log
type LogTracker struct {
	Logger logrus.FieldLogger
}

// NewLogTracker creates a tracker logging through the standard logrus logger
func NewLogTracker() *LogTracker {
	return &LogTracker{Logger: logrus.StandardLogger()}
}

// Track implements Tracker
func (t *LogTracker) Track(e Event) error {
	t.Logger.WithFields(logrus.Fields{
		"category": e.Category,
		"action":   e.Action,
		"label":    e.Label,
	}).Info("telemetry event")
	return nil
}

// Nop discards events
type Nop struct{}

// Track implements Tracker
func (Nop) Track(Event) error { return nil }
