// Package notice holds the modal notices and the loading indicator shared by the upload page and download panels.
package notice

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Well-known notice identifiers
const (
	PasswordInvalid  = "password-invalid-error"
	CopyComplete     = "copy-complete"
	DownloadFailed   = "download-failed"
	DownloadComplete = "download-complete"
	ValidationError  = "validation-error"
	BoxDeleted       = "box-deleted"
)

// PanelID returns the identifier of the download panel for box id
func PanelID(id int64) string {
	return fmt.Sprintf("download-%d", id)
}

// Notice is a modal dialog's content
type Notice struct {
	Header string
	Body   string
}

// Registry maps identifiers to notices and tracks which are open.
// Registering an existing id replaces it; the latest registration wins.
type Registry struct {
	mu       sync.RWMutex
	notices  map[string]Notice
	open     map[string]bool
	order    []string
	onChange func()
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		notices: make(map[string]Notice),
		open:    make(map[string]bool),
	}
}

// OnChange installs a callback fired after every open or close
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Register stores n under id
func (r *Registry) Register(id string, n Notice) {
	r.mu.Lock()
	r.notices[id] = n
	r.mu.Unlock()
}

// Unregister removes id and closes it if open
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	delete(r.notices, id)
	r.removeOpen(id)
	r.mu.Unlock()
}

// Registered reports whether id has been registered
func (r *Registry) Registered(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.notices[id]
	return ok
}

// Open shows notice id. Opening an unregistered id is logged and ignored.
func (r *Registry) Open(id string) {
	r.mu.Lock()
	if _, ok := r.notices[id]; !ok {
		r.mu.Unlock()
		logrus.Warnf("notice: open of unregistered id %q", id)
		return
	}
	// Reopening moves id to the top.
	r.removeOpen(id)
	r.open[id] = true
	r.order = append(r.order, id)
	fn := r.onChange
	r.mu.Unlock()

	logrus.Debugf("notice: opened %s", id)
	if fn != nil {
		fn()
	}
}

// Close hides notice id
func (r *Registry) Close(id string) {
	r.mu.Lock()
	changed := r.removeOpen(id)
	fn := r.onChange
	r.mu.Unlock()

	if changed {
		logrus.Debugf("notice: closed %s", id)
		if fn != nil {
			fn()
		}
	}
}

// IsOpen reports whether notice id is showing
func (r *Registry) IsOpen(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.open[id]
}

// Get returns the notice registered under id
func (r *Registry) Get(id string) (Notice, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notices[id]
	return n, ok
}

// Top returns the most recently opened notice still showing
func (r *Registry) Top() (string, Notice, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return "", Notice{}, false
	}
	id := r.order[len(r.order)-1]
	return id, r.notices[id], true
}

// OpenIDs returns the open notice ids, oldest first
func (r *Registry) OpenIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// removeOpen must be called with mu held
func (r *Registry) removeOpen(id string) bool {
	if !r.open[id] {
		return false
	}
	delete(r.open, id)
	for i, openID := range r.order {
		if openID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
