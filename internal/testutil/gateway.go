package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/tmuxito/internal/tmux"
)

// FakeGateway serves tmux-formatted listings from in-memory state so the
// parser and controller run against realistic output without a server.
type FakeGateway struct {
	mu sync.Mutex

	Sessions []tmux.Session
	Windows  map[string][]tmux.Window
	Captures map[string]string

	// Err, when set, fails every call. CaptureErr fails captures per target.
	Err        error
	CaptureErr map[string]error

	Calls    []string
	Attached []string
	nextID   int
}

// NewFakeGateway returns a gateway seeded with sessions.
func NewFakeGateway(sessions ...tmux.Session) *FakeGateway {
	return &FakeGateway{
		Sessions:   append([]tmux.Session(nil), sessions...),
		Windows:    map[string][]tmux.Window{},
		Captures:   map[string]string{},
		CaptureErr: map[string]error{},
		nextID:     len(sessions) + 1,
	}
}

func (f *FakeGateway) record(call string) {
	f.Calls = append(f.Calls, call)
}

// CallLog returns a copy of the recorded calls.
func (f *FakeGateway) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *FakeGateway) ListSessions(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list-sessions")
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Sessions) == 0 {
		return "", &tmux.Error{Kind: tmux.ErrNoServer, Op: "list-sessions", Message: "no server running on /tmp/fake"}
	}
	return FormatSessions(f.Sessions), nil
}

func (f *FakeGateway) ListWindows(ctx context.Context, session string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list-windows " + session)
	if f.Err != nil {
		return "", f.Err
	}
	if f.find(session) < 0 {
		return "", rejected("list-windows", session, "can't find session: "+session)
	}
	return FormatWindows(f.Windows[session]), nil
}

func (f *FakeGateway) CapturePane(ctx context.Context, target string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("capture-pane " + target)
	if f.Err != nil {
		return "", f.Err
	}
	if err := f.CaptureErr[target]; err != nil {
		return "", err
	}
	return f.Captures[target], nil
}

// ForgetCapture only records the call; the fake never shares captures.
func (f *FakeGateway) ForgetCapture(target string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("forget-capture " + target)
}

func (f *FakeGateway) NewSession(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("new-session " + name)
	if f.Err != nil {
		return f.Err
	}
	if f.find("="+name) >= 0 {
		return rejected("new-session", name, "duplicate session: "+name)
	}
	id := fmt.Sprintf("$%d", f.nextID)
	f.nextID++
	f.Sessions = append(f.Sessions, tmux.Session{
		ID:        id,
		Name:      name,
		Windows:   1,
		CreatedAt: time.Unix(1700000000+int64(f.nextID), 0),
	})
	return nil
}

func (f *FakeGateway) RenameSession(ctx context.Context, ref, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("rename-session " + ref + " " + name)
	if f.Err != nil {
		return f.Err
	}
	idx := f.find(ref)
	if idx < 0 {
		return rejected("rename-session", ref, "can't find session: "+ref)
	}
	f.Sessions[idx].Name = name
	return nil
}

func (f *FakeGateway) KillSession(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("kill-session " + ref)
	if f.Err != nil {
		return f.Err
	}
	idx := f.find(ref)
	if idx < 0 {
		return rejected("kill-session", ref, "can't find session: "+ref)
	}
	f.Sessions = append(f.Sessions[:idx], f.Sessions[idx+1:]...)
	return nil
}

func (f *FakeGateway) AttachCommand(target string) (*exec.Cmd, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("attach " + target)
	if f.Err != nil {
		return nil, f.Err
	}
	f.Attached = append(f.Attached, target)
	return exec.Command("true"), nil
}

// find locates a session by id, by "=name" or by bare name.
func (f *FakeGateway) find(ref string) int {
	name := strings.TrimPrefix(ref, "=")
	for i, sess := range f.Sessions {
		if sess.ID == ref || sess.Name == name {
			return i
		}
	}
	return -1
}

func rejected(op, target, msg string) error {
	return &tmux.Error{Kind: tmux.ErrOperationRejected, Op: op, Target: target, Message: msg}
}

// FormatSessions renders sessions the way list-sessions does with
// tmux.SessionFormat.
func FormatSessions(sessions []tmux.Session) string {
	var b strings.Builder
	for _, sess := range sessions {
		attached := 0
		if sess.Attached {
			attached = 1
		}
		var created int64
		if !sess.CreatedAt.IsZero() {
			created = sess.CreatedAt.Unix()
		}
		fmt.Fprintf(&b, "%s\t%d\t%d\t%d\t%s\n", sess.Name, sess.Windows, created, attached, sess.ID)
	}
	return b.String()
}

// FormatWindows renders windows the way list-windows does with
// tmux.WindowFormat.
func FormatWindows(windows []tmux.Window) string {
	var b strings.Builder
	for _, win := range windows {
		active := 0
		if win.Active {
			active = 1
		}
		panes := max(win.Panes, 1)
		fmt.Fprintf(&b, "%d\t%s\t%d\t%s\t%s\t%d\n", win.Index, win.Name, active, win.ID, win.SessionID, panes)
	}
	return b.String()
}
