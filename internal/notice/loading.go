package notice

import "sync"

// Loading is a blocking progress indicator. Every Begin must be paired with an End.
type Loading interface {
	Begin()
	End()
}

// Indicator is an in-memory Loading that counts nested Begin calls
type Indicator struct {
	mu       sync.Mutex
	depth    int
	onChange func(active bool)
}

// NewIndicator creates an idle indicator. onChange, when non-nil, fires on every idle/active switch.
func NewIndicator(onChange func(active bool)) *Indicator {
	return &Indicator{onChange: onChange}
}

// Begin implements Loading
func (l *Indicator) Begin() {
	l.mu.Lock()
	l.depth++
	activated := l.depth == 1
	fn := l.onChange
	l.mu.Unlock()

	if activated && fn != nil {
		fn(true)
	}
}

// End implements Loading. Extra calls are ignored.
func (l *Indicator) End() {
	l.mu.Lock()
	if l.depth == 0 {
		l.mu.Unlock()
		return
	}
	l.depth--
	deactivated := l.depth == 0
	fn := l.onChange
	l.mu.Unlock()

	if deactivated && fn != nil {
		fn(false)
	}
}

// Active reports whether any Begin is outstanding
func (l *Indicator) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth > 0
}
