package tmux

import (
	"strings"
	"time"
)

// Session is one row of list-sessions output.
type Session struct {
	ID        string
	Name      string
	Attached  bool
	Windows   int
	CreatedAt time.Time
}

// Window is one row of list-windows output.
type Window struct {
	ID        string
	SessionID string
	Index     int
	Name      string
	Active    bool
	Panes     int
}

// PreviewSnapshot holds the bounded plain-text capture of a target.
type PreviewSnapshot struct {
	TargetID   string
	Text       string
	CapturedAt time.Time
}

// Lines splits the snapshot text for rendering.
func (p PreviewSnapshot) Lines() []string {
	if p.Text == "" {
		return nil
	}
	return strings.Split(p.Text, "\n")
}

// SessionBatch is the parsed result of a session listing.
type SessionBatch struct {
	Sessions []Session
	Skipped  int
}

// Degraded reports the skipped lines of the listing, or nil.
func (b SessionBatch) Degraded() error {
	if b.Skipped == 0 {
		return nil
	}
	return &ParseDegradedError{Op: "list-sessions", Skipped: b.Skipped}
}

// WindowBatch is the parsed result of a window listing.
type WindowBatch struct {
	Windows []Window
	Skipped int
}

// Degraded reports the skipped lines of the listing, or nil.
func (b WindowBatch) Degraded() error {
	if b.Skipped == 0 {
		return nil
	}
	return &ParseDegradedError{Op: "list-windows", Skipped: b.Skipped}
}
