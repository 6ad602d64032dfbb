package nav

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmuxito/internal/command"
	"github.com/atomicstack/tmuxito/internal/logging/events"
	"github.com/atomicstack/tmuxito/internal/state"
	"github.com/atomicstack/tmuxito/internal/tmux"
)

// Init lists sessions for the first time.
func (c *Controller) Init() tea.Cmd {
	return c.listSessionsCmd()
}

// Refresh re-lists the current scope and recaptures the preview.
func (c *Controller) Refresh() tea.Cmd {
	cmds := []tea.Cmd{c.relist()}
	if c.screen == ScreenWindows {
		// the header shows parent details from the session listing
		cmds = append(cmds, c.listSessionsCmd())
	}
	if req, ok := c.preview.Refresh(); ok {
		cmds = append(cmds, c.captureCmd(req))
	}
	return tea.Batch(cmds...)
}

// New creates a detached session and selects it once the re-list lands.
func (c *Controller) New(name string) tea.Cmd {
	name = strings.TrimSpace(name)
	if name == "" || c.guard() != nil {
		return nil
	}
	events.Session.Create(name)
	gw := c.gw
	return c.mutationCmd("new-session", name, name, func(ctx context.Context) error {
		return gw.NewSession(ctx, name)
	})
}

// Rename renames the session with ID ref. It is a no-op on the windows
// screen, for an empty name, for the current name and for a session that is
// no longer listed.
func (c *Controller) Rename(ref, name string) tea.Cmd {
	name = strings.TrimSpace(name)
	if c.screen != ScreenSessions || ref == "" || name == "" || c.guard() != nil {
		return nil
	}
	sess, ok := c.sessionByID(ref)
	if !ok || name == sess.Name {
		return nil
	}
	events.Session.Rename(sess.ID, name)
	gw := c.gw
	return c.mutationCmd("rename-session", sess.Name, name, func(ctx context.Context) error {
		return gw.RenameSession(ctx, ref, name)
	})
}

// RequestKill starts killing the selected session: immediately when
// confirmation is skipped, otherwise after ConfirmKill(true).
func (c *Controller) RequestKill() tea.Cmd {
	sess, err := c.selectedSession()
	if err != nil || c.guard() != nil {
		return nil
	}
	if c.opts.SkipKillConfirmation {
		return c.killCmd(sess)
	}
	events.Session.KillPrompt(sess.ID)
	c.pendingKill = &sess
	return nil
}

// ConfirmKill answers a pending kill request.
func (c *Controller) ConfirmKill(yes bool) tea.Cmd {
	if c.pendingKill == nil {
		return nil
	}
	sess := *c.pendingKill
	c.pendingKill = nil
	if !yes {
		events.Session.CancelKill(sess.ID)
		return nil
	}
	if c.guard() != nil {
		return nil
	}
	return c.killCmd(sess)
}

func (c *Controller) killCmd(sess tmux.Session) tea.Cmd {
	events.Session.Kill(sess.ID)
	gw := c.gw
	ref := sess.ID
	return c.mutationCmd("kill-session", sess.Name, "", func(ctx context.Context) error {
		return gw.KillSession(ctx, ref)
	})
}

// Attach hands the terminal to the selected session or window. The
// controller returns to the current screen when the client exits.
func (c *Controller) Attach() tea.Cmd {
	if c.guard() != nil {
		return nil
	}
	var target string
	switch c.screen {
	case ScreenSessions:
		sess, err := c.sessions.Selected()
		if err != nil {
			return nil
		}
		target = sess.ID
		events.Session.Attach(target)
	case ScreenWindows:
		win, err := c.windows.Selected()
		if err != nil {
			return nil
		}
		target = tmux.SessionTarget(win.SessionID) + ":" + win.ID
		events.Window.Attach(target)
	default:
		return nil
	}
	gw := c.gw
	return c.bus.Execute(command.Request{
		Label:  "attach",
		Target: target,
		Run: func(context.Context) tea.Msg {
			cmd, err := gw.AttachCommand(target)
			return AttachReadyMsg{Target: target, Cmd: cmd, Err: err}
		},
	})
}

// DrillIn opens the windows of the selected session.
func (c *Controller) DrillIn() tea.Cmd {
	if c.screen != ScreenSessions {
		return nil
	}
	sess, err := c.sessions.Selected()
	if err != nil {
		return nil
	}
	events.Window.DrillIn(sess.Name)
	events.Nav.Screen(c.screen.String(), ScreenWindows.String())
	c.screen = ScreenWindows
	c.windows = state.NewWindowList(sess)
	return tea.Batch(c.listWindowsCmd(sess), c.syncPreview())
}

// Back returns from the windows screen to the sessions screen.
func (c *Controller) Back() tea.Cmd {
	if c.screen != ScreenWindows {
		return nil
	}
	return c.leaveWindows()
}

// Filter narrows the list on the current screen.
func (c *Controller) Filter(text string) tea.Cmd {
	switch c.screen {
	case ScreenSessions:
		if !c.sessions.SetFilter(text) {
			return nil
		}
	case ScreenWindows:
		if !c.windows.SetFilter(text) {
			return nil
		}
	default:
		return nil
	}
	if text == "" {
		events.Filter.Cleared(c.screen.String())
	} else {
		events.Filter.Changed(c.screen.String(), text)
	}
	return c.syncPreview()
}

// FilterText returns the filter of the current screen.
func (c *Controller) FilterText() string {
	if c.screen == ScreenWindows && c.windows != nil {
		return c.windows.Filter()
	}
	return c.sessions.Filter()
}

// CycleSort advances the session sort key.
func (c *Controller) CycleSort() tea.Cmd {
	if c.screen != ScreenSessions {
		return nil
	}
	key := c.sessions.CycleSort()
	events.List.Sort(key.String())
	return c.syncPreview()
}

// Move shifts the selection on the current screen by delta.
func (c *Controller) Move(delta int) tea.Cmd {
	return c.moveWith(func(l selectable) bool { return l.Move(delta) })
}

func (c *Controller) Home() tea.Cmd {
	return c.moveWith(func(l selectable) bool { return l.Home() })
}

func (c *Controller) End() tea.Cmd {
	return c.moveWith(func(l selectable) bool { return l.End() })
}

// PageUp and PageDown move by page rows.
func (c *Controller) PageUp(page int) tea.Cmd {
	return c.moveWith(func(l selectable) bool { return l.PageUp(page) })
}

func (c *Controller) PageDown(page int) tea.Cmd {
	return c.moveWith(func(l selectable) bool { return l.PageDown(page) })
}

type selectable interface {
	Move(delta int) bool
	Home() bool
	End() bool
	PageUp(page int) bool
	PageDown(page int) bool
	Index() int
}

func (c *Controller) moveWith(fn func(selectable) bool) tea.Cmd {
	var list selectable
	switch c.screen {
	case ScreenSessions:
		list = c.sessions
	case ScreenWindows:
		list = c.windows
	default:
		return nil
	}
	if !fn(list) {
		return nil
	}
	events.List.Cursor(c.screen.String(), list.Index())
	return c.syncPreview()
}

func (c *Controller) sessionByID(id string) (tmux.Session, bool) {
	for _, sess := range c.sessions.All() {
		if sess.ID == id {
			return sess, true
		}
	}
	return tmux.Session{}, false
}

// selectedSession is the session rename and kill act on.
func (c *Controller) selectedSession() (tmux.Session, error) {
	if c.screen != ScreenSessions {
		return tmux.Session{}, state.ErrNoSelection
	}
	return c.sessions.Selected()
}
