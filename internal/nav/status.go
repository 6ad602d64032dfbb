package nav

import (
	"time"

	"github.com/atomicstack/tmuxito/internal/logging/events"
)

// Level grades a status line.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Status is the one-line message shown under the list. Persistent statuses
// stay until a listing succeeds; the rest expire.
type Status struct {
	Text       string
	Level      Level
	Persistent bool
	Expires    time.Time
}

func (s Status) visible(now time.Time) bool {
	if s.Text == "" {
		return false
	}
	return s.Persistent || now.Before(s.Expires)
}

func (c *Controller) setStatus(level Level, text string) {
	c.status = Status{Text: text, Level: level, Expires: c.now().Add(c.opts.StatusTTL)}
	c.traceStatus()
}

func (c *Controller) setPersistent(text string) {
	c.status = Status{Text: text, Level: LevelError, Persistent: true}
	c.traceStatus()
}

func (c *Controller) clearPersistent() {
	if c.status.Persistent {
		c.status = Status{}
	}
}

func (c *Controller) traceStatus() {
	level := "info"
	if c.status.Level == LevelError {
		level = "error"
	}
	events.Nav.Status(level, c.status.Text)
}

// Status returns the status line to show, if any.
func (c *Controller) Status() (Status, bool) {
	if !c.status.visible(c.now()) {
		return Status{}, false
	}
	return c.status, true
}
