package tmux

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/atomicstack/tmuxito/internal/logging/events"
)

const (
	DefaultBinary  = "tmux"
	DefaultTimeout = 5 * time.Second

	// PreviewLines bounds both the capture request and the parsed snapshot.
	PreviewLines = 200
)

// Fields are tab separated; tmux never emits a tab inside these values.
const (
	SessionFormat = "#{session_name}\t#{session_windows}\t#{session_created}\t#{session_attached}\t#{session_id}"
	WindowFormat  = "#{window_index}\t#{window_name}\t#{window_active}\t#{window_id}\t#{session_id}\t#{window_panes}"
)

// Options configures a Gateway.
type Options struct {
	Binary     string
	SocketPath string
	Timeout    time.Duration
	// InsideTmux selects switch-client over attach-session for attach.
	InsideTmux bool
}

// Gateway runs tmux subcommands as argv vectors and classifies their
// failures. It is safe for concurrent use.
type Gateway struct {
	binary     string
	socketPath string
	timeout    time.Duration
	insideTmux bool

	captures singleflight.Group
}

// NewGateway returns a gateway for the given options, filling defaults.
func NewGateway(opts Options) *Gateway {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = DefaultBinary
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{
		binary:     binary,
		socketPath: strings.TrimSpace(opts.SocketPath),
		timeout:    timeout,
		insideTmux: opts.InsideTmux,
	}
}

// SocketPath returns the socket passed to every invocation, if any.
func (g *Gateway) SocketPath() string { return g.socketPath }

// LookupBinary resolves the tmux executable on PATH.
func LookupBinary(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultBinary
	}
	path, err := lookPath(name)
	if err != nil {
		return "", &Error{Kind: ErrBinaryMissing, Op: "lookup", Target: name, Err: err}
	}
	return path, nil
}

// ListSessions returns raw list-sessions output in SessionFormat.
func (g *Gateway) ListSessions(ctx context.Context) (string, error) {
	return g.run(ctx, "list-sessions", "", "list-sessions", "-F", SessionFormat)
}

// ListWindows returns raw list-windows output for one session in WindowFormat.
func (g *Gateway) ListWindows(ctx context.Context, session string) (string, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return "", &Error{Kind: ErrOperationRejected, Op: "list-windows", Message: "session required"}
	}
	return g.run(ctx, "list-windows", session, "list-windows", "-t", SessionTarget(session), "-F", WindowFormat)
}

// CapturePane returns the plain-text content of target's active pane.
// Concurrent captures of one target share a single process.
func (g *Gateway) CapturePane(ctx context.Context, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", &Error{Kind: ErrOperationRejected, Op: "capture-pane", Message: "target required"}
	}
	v, err, _ := g.captures.Do(target, func() (interface{}, error) {
		return g.run(ctx, "capture-pane", target,
			"capture-pane", "-p", "-J", "-t", target, "-S", fmt.Sprintf("-%d", PreviewLines))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ForgetCapture detaches target from any capture in flight, so the next
// CapturePane spawns a new process instead of sharing the older result.
func (g *Gateway) ForgetCapture(target string) {
	g.captures.Forget(strings.TrimSpace(target))
}

// NewSession creates a detached session.
func (g *Gateway) NewSession(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return &Error{Kind: ErrOperationRejected, Op: "new-session", Message: "session name required"}
	}
	_, err := g.run(ctx, "new-session", name, "new-session", "-d", "-s", name)
	return err
}

// RenameSession renames the session addressed by ref (id or name).
func (g *Gateway) RenameSession(ctx context.Context, ref, name string) error {
	if strings.TrimSpace(name) == "" {
		return &Error{Kind: ErrOperationRejected, Op: "rename-session", Target: ref, Message: "session name required"}
	}
	_, err := g.run(ctx, "rename-session", ref, "rename-session", "-t", SessionTarget(ref), name)
	return err
}

// KillSession destroys the session addressed by ref (id or name).
func (g *Gateway) KillSession(ctx context.Context, ref string) error {
	_, err := g.run(ctx, "kill-session", ref, "kill-session", "-t", SessionTarget(ref))
	return err
}

// AttachCommand builds the interactive command handing the terminal to
// target. The caller runs it; it is not started here.
func (g *Gateway) AttachCommand(target string) (*exec.Cmd, error) {
	path, err := LookupBinary(g.binary)
	if err != nil {
		return nil, err
	}
	sub := "attach-session"
	if g.insideTmux {
		sub = "switch-client"
	}
	args := append(baseArgs(g.socketPath), sub, "-t", target)
	events.Gateway.Exec(sub, target, args)
	return exec.Command(path, args...), nil
}

func (g *Gateway) run(ctx context.Context, op, target string, args ...string) (string, error) {
	path, err := LookupBinary(g.binary)
	if err != nil {
		events.Gateway.Failure(op, target, err, 0)
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	full := append(baseArgs(g.socketPath), args...)
	events.Gateway.Exec(op, target, full)
	start := time.Now()
	output, err := runExecCommand(ctx, path, full...).Output()
	elapsed := time.Since(start)
	if err != nil {
		classified := classify(ctx, op, target, err)
		events.Gateway.Failure(op, target, classified, elapsed)
		return "", classified
	}
	events.Gateway.Success(op, target, len(output), elapsed)
	return string(output), nil
}
