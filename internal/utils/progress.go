package utils

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// IsTerminal reports whether stderr is attached to a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// NewTransferBar creates a byte progress bar on stderr. A negative total renders a spinner.
func NewTransferBar(total int64, description string) *progressbar.ProgressBar {
	var out io.Writer = os.Stderr
	if !IsTerminal() {
		out = io.Discard
	}

	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { io.WriteString(out, "\n") }),
		progressbar.OptionClearOnFinish(),
	)
}

// Spinner is a terminal loading indicator. Begin and End calls nest.
type Spinner struct {
	mu          sync.Mutex
	description string
	depth       int
	bar         *progressbar.ProgressBar
	stop        chan struct{}
	done        chan struct{}
}

// NewSpinner creates an idle spinner
func NewSpinner(description string) *Spinner {
	return &Spinner{description: description}
}

// Begin shows the spinner
func (s *Spinner) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.depth++
	if s.depth > 1 || !IsTerminal() {
		return
	}

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(s.description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.spin(s.bar, s.stop, s.done)
}

// End hides the spinner once every Begin has been matched
func (s *Spinner) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.depth == 0 {
		return
	}
	s.depth--
	if s.depth > 0 || s.bar == nil {
		return
	}

	close(s.stop)
	<-s.done
	s.bar.Finish()
	s.bar = nil
}

// Active reports whether the spinner is showing
func (s *Spinner) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depth > 0
}

func (s *Spinner) spin(bar *progressbar.ProgressBar, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			bar.Add(1)
		}
	}
}
