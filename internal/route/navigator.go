package route

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Navigator knows the current location and performs redirects
type Navigator interface {
	Location() string
	Redirect(to string)
}

// Recorder is a Navigator that tracks its location and every redirect. When
// Out is set it prints the command that reaches the redirect target.
type Recorder struct {
	mu        sync.Mutex
	location  string
	redirects []string
	Out       io.Writer
}

// NewRecorder creates a Recorder positioned at location
func NewRecorder(location string) *Recorder {
	return &Recorder{location: location}
}

// Location returns the current route
func (r *Recorder) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Visit moves to location without recording a redirect
func (r *Recorder) Visit(location string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = location
}

// Redirect moves to "to" and records it
func (r *Recorder) Redirect(to string) {
	r.mu.Lock()
	r.location = to
	r.redirects = append(r.redirects, to)
	out := r.Out
	r.mu.Unlock()

	if out != nil {
		fmt.Fprintf(out, "→ continue with: %s\n", CommandFor(to))
	}
}

// Redirects returns a copy of the redirect history
func (r *Recorder) Redirects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.redirects...)
}

// CommandFor maps a portal route to the gatectl command serving it
func CommandFor(path string) string {
	switch {
	case IsLogin(path):
		return "gatectl auth login"
	case path == PlatformHome:
		return "gatectl platform tenants"
	case strings.HasSuffix(path, "/dashboard"):
		return "gatectl admin home"
	case strings.HasSuffix(path, "/resident"):
		return "gatectl resident home"
	case strings.HasSuffix(path, "/security"):
		return "gatectl security home"
	default:
		return "gatectl auth status"
	}
}
