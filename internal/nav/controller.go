// Package nav is the navigation state machine. It owns the session and
// window lists and the preview manager, turns user intents into gateway
// work scheduled as Bubble Tea commands, and folds the results back in on
// the update loop.
package nav

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmuxito/internal/command"
	"github.com/atomicstack/tmuxito/internal/logging"
	"github.com/atomicstack/tmuxito/internal/logging/events"
	"github.com/atomicstack/tmuxito/internal/preview"
	"github.com/atomicstack/tmuxito/internal/state"
	"github.com/atomicstack/tmuxito/internal/tmux"
)

// ErrUnavailable is reported when a mutating operation is refused because
// tmux could not be run.
var ErrUnavailable = errors.New("tmux unavailable")

// Gateway is the subset of tmux.Gateway the controller drives.
type Gateway interface {
	ListSessions(ctx context.Context) (string, error)
	ListWindows(ctx context.Context, session string) (string, error)
	CapturePane(ctx context.Context, target string) (string, error)
	NewSession(ctx context.Context, name string) error
	RenameSession(ctx context.Context, ref, name string) error
	KillSession(ctx context.Context, ref string) error
	AttachCommand(target string) (*exec.Cmd, error)
}

// Screen is the controller's navigation state.
type Screen int

const (
	ScreenSessions Screen = iota
	ScreenWindows
	ScreenAttached
)

func (s Screen) String() string {
	switch s {
	case ScreenSessions:
		return "sessions"
	case ScreenWindows:
		return "windows"
	case ScreenAttached:
		return "attached"
	default:
		return fmt.Sprintf("Screen(%d)", int(s))
	}
}

const DefaultStatusTTL = 4 * time.Second

// Options tune controller behaviour.
type Options struct {
	SkipKillConfirmation bool
	DefaultSort          state.SortKey
	StatusTTL            time.Duration
	Now                  func() time.Time
}

// Controller is driven from a single goroutine: the Bubble Tea update loop.
type Controller struct {
	gw   Gateway
	bus  *command.Bus
	opts Options

	screen   Screen
	returnTo Screen

	sessions *state.SessionList
	windows  *state.WindowList
	preview  *preview.Manager

	sessionSeq uint64
	windowSeq  uint64

	status      Status
	unavailable bool
	degraded    int
	loaded      bool

	pendingKill *tmux.Session
	focusName   string
}

// New returns a controller on the sessions screen. Nothing is listed until
// Init's command runs.
func New(gw Gateway, bus *command.Bus, opts Options) *Controller {
	if bus == nil {
		bus = command.New(context.Background())
	}
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = DefaultStatusTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		gw:       gw,
		bus:      bus,
		opts:     opts,
		screen:   ScreenSessions,
		sessions: state.NewSessionList(opts.DefaultSort),
		preview:  preview.NewManager(),
	}
}

func (c *Controller) now() time.Time { return c.opts.Now() }

func (c *Controller) Screen() Screen               { return c.screen }
func (c *Controller) Sessions() *state.SessionList { return c.sessions }
func (c *Controller) Preview() *preview.Manager    { return c.preview }
func (c *Controller) Unavailable() bool            { return c.unavailable }
func (c *Controller) SkipKillConfirmation() bool   { return c.opts.SkipKillConfirmation }

// Windows returns the drill-in list, or nil outside the windows screen.
func (c *Controller) Windows() *state.WindowList { return c.windows }

// Loaded reports whether a session listing has been applied.
func (c *Controller) Loaded() bool { return c.loaded }

// Degraded returns the number of listing lines skipped as unparseable since
// start.
func (c *Controller) Degraded() int { return c.degraded }

// PendingKill returns the session awaiting kill confirmation.
func (c *Controller) PendingKill() (tmux.Session, bool) {
	if c.pendingKill == nil {
		return tmux.Session{}, false
	}
	return *c.pendingKill, true
}

// Update applies a result message and returns any follow-up work. Messages
// the controller does not own return nil.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SessionsLoadedMsg:
		return c.applySessions(msg)
	case WindowsLoadedMsg:
		return c.applyWindows(msg)
	case PreviewLoadedMsg:
		c.preview.Resolve(msg.Result)
		return nil
	case PreviewTickMsg:
		if c.screen == ScreenAttached {
			return nil
		}
		if req, ok := c.preview.Tick(); ok {
			return c.captureCmd(req)
		}
		return nil
	case MutationDoneMsg:
		return c.applyMutation(msg)
	case AttachReadyMsg:
		return c.applyAttachReady(msg)
	case AttachDoneMsg:
		return c.applyAttachDone(msg)
	}
	return nil
}

func (c *Controller) applySessions(msg SessionsLoadedMsg) tea.Cmd {
	if msg.Seq != c.sessionSeq {
		events.Nav.Stale("sessions", msg.Seq, c.sessionSeq)
		return nil
	}
	if msg.Err != nil {
		if !errors.Is(msg.Err, tmux.ErrNoServer) {
			c.fail(msg.Err)
			return nil
		}
		// no server is an empty listing, not an error
		msg.Batch = tmux.SessionBatch{}
	}
	c.loaded = true
	c.unavailable = false
	c.clearPersistent()
	c.noteDegraded(msg.Batch.Degraded())
	c.sessions.SetSessions(msg.Batch.Sessions)
	if c.focusName != "" {
		c.sessions.SelectName(c.focusName)
		c.focusName = ""
	}
	events.List.Loaded("sessions", len(msg.Batch.Sessions), msg.Batch.Skipped)
	if c.screen != ScreenSessions {
		return nil
	}
	return c.syncPreview()
}

func (c *Controller) applyWindows(msg WindowsLoadedMsg) tea.Cmd {
	if c.screen != ScreenWindows || c.windows == nil ||
		msg.Parent.ID != c.windows.Parent().ID || msg.Seq != c.windowSeq {
		events.Nav.Stale("windows", msg.Seq, c.windowSeq)
		return nil
	}
	if msg.Err != nil {
		if tmux.IsTargetMissing(msg.Err) {
			c.setStatus(LevelError, fmt.Sprintf("session %s no longer exists", msg.Parent.Name))
			return c.leaveWindows()
		}
		c.fail(msg.Err)
		return nil
	}
	c.unavailable = false
	c.clearPersistent()
	c.noteDegraded(msg.Batch.Degraded())
	c.windows.SetWindows(msg.Batch.Windows)
	events.List.Loaded("windows", len(msg.Batch.Windows), msg.Batch.Skipped)
	return c.syncPreview()
}

func (c *Controller) applyMutation(msg MutationDoneMsg) tea.Cmd {
	if msg.Err != nil {
		c.fail(msg.Err)
	} else {
		switch msg.Op {
		case "new-session":
			c.focusName = msg.Name
			c.setStatus(LevelInfo, "created session "+msg.Name)
		case "rename-session":
			c.focusName = msg.Name
			c.setStatus(LevelInfo, fmt.Sprintf("renamed %s to %s", msg.Target, msg.Name))
		case "kill-session":
			c.setStatus(LevelInfo, "killed session "+msg.Target)
		}
	}
	return c.relist()
}

func (c *Controller) applyAttachReady(msg AttachReadyMsg) tea.Cmd {
	if msg.Err != nil {
		c.fail(msg.Err)
		return nil
	}
	c.returnTo = c.screen
	events.Nav.Screen(c.screen.String(), ScreenAttached.String())
	c.screen = ScreenAttached
	target := msg.Target
	return tea.ExecProcess(msg.Cmd, func(err error) tea.Msg {
		return AttachDoneMsg{Target: target, Err: err}
	})
}

func (c *Controller) applyAttachDone(msg AttachDoneMsg) tea.Cmd {
	if c.screen != ScreenAttached {
		return nil
	}
	events.Nav.Screen(c.screen.String(), c.returnTo.String())
	c.screen = c.returnTo
	if msg.Err != nil {
		logging.Error(fmt.Errorf("attach %s: %w", msg.Target, msg.Err))
		c.setStatus(LevelError, "attach failed: "+msg.Err.Error())
	}
	return c.Refresh()
}

// fail applies the error policy to a gateway failure.
func (c *Controller) fail(err error) {
	switch {
	case err == nil, errors.Is(err, state.ErrNoSelection), errors.Is(err, tmux.ErrNoServer):
		return
	case errors.Is(err, tmux.ErrBinaryMissing), errors.Is(err, tmux.ErrSpawnFailure), errors.Is(err, tmux.ErrDuplicateID):
		logging.Error(err)
		c.unavailable = true
		events.Nav.Unavailable(err)
		c.setPersistent(err.Error())
	case errors.Is(err, tmux.ErrOperationRejected):
		c.setStatus(LevelError, tmux.Reason(err))
	default:
		logging.Error(err)
		c.setStatus(LevelError, err.Error())
	}
}

func (c *Controller) noteDegraded(err error) {
	var perr *tmux.ParseDegradedError
	if errors.As(err, &perr) {
		c.degraded += perr.Skipped
		events.Parse.Degraded(perr.Op, perr.Skipped)
	}
}

// guard refuses mutating work while tmux is unavailable.
func (c *Controller) guard() error {
	if c.unavailable {
		events.Nav.Unavailable(ErrUnavailable)
		return ErrUnavailable
	}
	return nil
}

// previewTarget is the id the preview should show for the current
// selection.
func (c *Controller) previewTarget() string {
	switch c.screen {
	case ScreenSessions:
		if sess, err := c.sessions.Selected(); err == nil {
			return sess.ID
		}
	case ScreenWindows:
		if c.windows == nil {
			return ""
		}
		if win, err := c.windows.Selected(); err == nil {
			return win.ID
		}
		return c.windows.Parent().ID
	}
	return ""
}

func (c *Controller) syncPreview() tea.Cmd {
	if req, ok := c.preview.Select(c.previewTarget()); ok {
		return c.captureCmd(req)
	}
	return nil
}

func (c *Controller) relist() tea.Cmd {
	if c.screen == ScreenWindows && c.windows != nil {
		return c.listWindowsCmd(c.windows.Parent())
	}
	return c.listSessionsCmd()
}

func (c *Controller) leaveWindows() tea.Cmd {
	parent := ""
	if c.windows != nil {
		parent = c.windows.Parent().Name
	}
	events.Window.Back(parent)
	events.Nav.Screen(c.screen.String(), ScreenSessions.String())
	c.screen = ScreenSessions
	c.windows = nil
	c.windowSeq++
	return tea.Batch(c.listSessionsCmd(), c.syncPreview())
}

func (c *Controller) listSessionsCmd() tea.Cmd {
	c.sessionSeq++
	seq := c.sessionSeq
	gw := c.gw
	return c.bus.Execute(command.Request{
		Label: "list-sessions",
		Run: func(ctx context.Context) tea.Msg {
			out, err := gw.ListSessions(ctx)
			if err != nil {
				return SessionsLoadedMsg{Seq: seq, Err: err}
			}
			batch, err := tmux.ParseSessions(out)
			return SessionsLoadedMsg{Seq: seq, Batch: batch, Err: err}
		},
	})
}

func (c *Controller) listWindowsCmd(parent tmux.Session) tea.Cmd {
	c.windowSeq++
	seq := c.windowSeq
	gw := c.gw
	return c.bus.Execute(command.Request{
		Label:  "list-windows",
		Target: parent.ID,
		Run: func(ctx context.Context) tea.Msg {
			out, err := gw.ListWindows(ctx, parent.ID)
			if err != nil {
				return WindowsLoadedMsg{Seq: seq, Parent: parent, Err: err}
			}
			batch, err := tmux.ParseWindows(out, parent.ID)
			return WindowsLoadedMsg{Seq: seq, Parent: parent, Batch: batch, Err: err}
		},
	})
}

// captureForgetter is implemented by gateways that share concurrent
// captures of one target.
type captureForgetter interface {
	ForgetCapture(target string)
}

func (c *Controller) captureCmd(req preview.Request) tea.Cmd {
	gw := c.gw
	now := c.opts.Now
	if f, ok := gw.(captureForgetter); ok && req.Forced {
		f.ForgetCapture(req.Target)
	}
	return c.bus.Execute(command.Request{
		Label:  "capture-pane",
		Target: req.Target,
		Run: func(ctx context.Context) tea.Msg {
			out, err := gw.CapturePane(ctx, req.Target)
			if err != nil {
				return PreviewLoadedMsg{Result: preview.Result{Request: req, Err: err}}
			}
			return PreviewLoadedMsg{Result: preview.Result{
				Request:  req,
				Snapshot: tmux.ParsePreview(req.Target, out, now()),
			}}
		},
	})
}

func (c *Controller) mutationCmd(op, target, name string, run func(ctx context.Context) error) tea.Cmd {
	return c.bus.Execute(command.Request{
		Label:  op,
		Target: target,
		Run: func(ctx context.Context) tea.Msg {
			return MutationDoneMsg{Op: op, Target: target, Name: name, Err: run(ctx)}
		},
	})
}
