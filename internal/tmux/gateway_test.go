package tmux

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"testing"
	"time"
)

type stubCommander struct {
	output []byte
	err    error
}

func (s *stubCommander) Output() ([]byte, error) {
	return s.output, s.err
}

type blockingCommander struct {
	ctx context.Context
}

func (b *blockingCommander) Output() ([]byte, error) {
	<-b.ctx.Done()
	return nil, errors.New("signal: killed")
}

type gatedCommander struct {
	started chan<- struct{}
	release <-chan struct{}
	output  []byte
}

func (g *gatedCommander) Output() ([]byte, error) {
	close(g.started)
	<-g.release
	return g.output, nil
}

type execCall struct {
	name string
	args []string
}

func withStubExec(t *testing.T, fn func(ctx context.Context, name string, args ...string) commander) *[]execCall {
	t.Helper()
	prevRun := runExecCommand
	prevLook := lookPath
	calls := &[]execCall{}
	runExecCommand = func(ctx context.Context, name string, args ...string) commander {
		*calls = append(*calls, execCall{name: name, args: append([]string(nil), args...)})
		return fn(ctx, name, args...)
	}
	lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	t.Cleanup(func() {
		runExecCommand = prevRun
		lookPath = prevLook
	})
	return calls
}

func exitWith(stderr string) error {
	return &exec.ExitError{Stderr: []byte(stderr)}
}

func TestListSessionsUsesSocketAndFormat(t *testing.T) {
	calls := withStubExec(t, func(ctx context.Context, name string, args ...string) commander {
		return &stubCommander{output: []byte("main\t1\t1\t0\t$1\n")}
	})
	gw := NewGateway(Options{SocketPath: "/tmp/tmuxito.sock"})
	out, err := gw.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "main\t1\t1\t0\t$1\n" {
		t.Fatalf("expected raw output, got %q", out)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one exec, got %d", len(*calls))
	}
	call := (*calls)[0]
	if call.name != "/usr/bin/tmux" {
		t.Fatalf("expected resolved binary, got %q", call.name)
	}
	want := []string{"-S", "/tmp/tmuxito.sock", "list-sessions", "-F", SessionFormat}
	if !reflect.DeepEqual(call.args, want) {
		t.Fatalf("expected args %v, got %v", want, call.args)
	}
}

func TestGatewayClassifiesFailures(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		kind       error
		reason     string
		targetGone bool
	}{
		{
			name:       "no server",
			err:        exitWith("no server running on /tmp/tmux-1000/default\n"),
			kind:       ErrNoServer,
			targetGone: true,
		},
		{
			name:       "socket missing",
			err:        exitWith("error connecting to /tmp/tmux-1000/default (No such file or directory)\n"),
			kind:       ErrNoServer,
			targetGone: true,
		},
		{
			name:       "unknown session",
			err:        exitWith("can't find session: ghost\n"),
			kind:       ErrOperationRejected,
			reason:     "can't find session: ghost",
			targetGone: true,
		},
		{
			name:   "duplicate session",
			err:    exitWith("duplicate session: main\n"),
			kind:   ErrOperationRejected,
			reason: "duplicate session: main",
		},
		{
			name: "spawn",
			err:  errors.New("fork/exec /usr/bin/tmux: permission denied"),
			kind: ErrSpawnFailure,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withStubExec(t, func(ctx context.Context, name string, args ...string) commander {
				return &stubCommander{err: tc.err}
			})
			gw := NewGateway(Options{})
			err := gw.KillSession(context.Background(), "ghost")
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			for _, other := range []error{ErrNoServer, ErrOperationRejected, ErrSpawnFailure, ErrBinaryMissing} {
				if other != tc.kind && errors.Is(err, other) {
					t.Fatalf("error %v also matched %v", err, other)
				}
			}
			if tc.reason != "" && Reason(err) != tc.reason {
				t.Fatalf("expected reason %q, got %q", tc.reason, Reason(err))
			}
			if IsTargetMissing(err) != tc.targetGone {
				t.Fatalf("expected IsTargetMissing=%v for %v", tc.targetGone, err)
			}
		})
	}
}

func TestGatewayBinaryMissing(t *testing.T) {
	calls := withStubExec(t, func(ctx context.Context, name string, args ...string) commander {
		return &stubCommander{}
	})
	lookPath = func(file string) (string, error) {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
	gw := NewGateway(Options{Binary: "tmux-missing"})
	if _, err := gw.ListSessions(context.Background()); !errors.Is(err, ErrBinaryMissing) {
		t.Fatalf("expected binary missing, got %v", err)
	}
	if _, err := gw.AttachCommand("$1"); !errors.Is(err, ErrBinaryMissing) {
		t.Fatalf("expected binary missing from attach, got %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("expected no exec when binary is missing, got %d", len(*calls))
	}
}

func TestGatewayTimeoutIsSpawnFailure(t *testing.T) {
	withStubExec(t, func(ctx context.Context, name string, args ...string) commander {
		return &blockingCommander{ctx: ctx}
	})
	gw := NewGateway(Options{Timeout: 10 * time.Millisecond})
	_, err := gw.CapturePane(context.Background(), "$1")
	if !errors.Is(err, ErrSpawnFailure) {
		t.Fatalf("expected spawn failure on timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline in chain, got %v", err)
	}
}

func TestSessionTargets(t *testing.T) {
	calls := withStubExec(t, func(ctx context.Context, name string, args ...string) commander {
		return &stubCommander{}
	})
	gw := NewGateway(Options{})
	ctx := context.Background()
	if err := gw.KillSession(ctx, "$3"); err != nil {
		t.Fatalf("kill by id: %v", err)
	}
	if err := gw.KillSession(ctx, "work"); err != nil {
		t.Fatalf("kill by name: %v", err)
	}
	if err := gw.KillSession(ctx, "$foo"); err != nil {
		t.Fatalf("kill by dollar name: %v", err)
	}
	if err := gw.KillSession(ctx, "=$foo"); err != nil {
		t.Fatalf("kill by exact-name id: %v", err)
	}
	if err := gw.RenameSession(ctx, "$3", "renamed"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := gw.NewSession(ctx, "fresh"); err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := gw.ListWindows(ctx, "$3"); err != nil {
		t.Fatalf("list windows: %v", err)
	}
	want := [][]string{
		{"kill-session", "-t", "$3"},
		{"kill-session", "-t", "=work"},
		{"kill-session", "-t", "=$foo"},
		{"kill-session", "-t", "=$foo"},
		{"rename-session", "-t", "$3", "renamed"},
		{"new-session", "-d", "-s", "fresh"},
		{"list-windows", "-t", "$3", "-F", WindowFormat},
	}
	if len(*calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(*calls))
	}
	for i, call := range *calls {
		if !reflect.DeepEqual(call.args, want[i]) {
			t.Fatalf("call %d: expected %v, got %v", i, want[i], call.args)
		}
	}
}

func TestGatewayRejectsEmptyArguments(t *testing.T) {
	calls := withStubExec(t, func(ctx context.Context, name string, args ...string) commander {
		return &stubCommander{}
	})
	gw := NewGateway(Options{})
	ctx := context.Background()
	if err := gw.NewSession(ctx, "  "); !errors.Is(err, ErrOperationRejected) {
		t.Fatalf("expected rejection for empty name, got %v", err)
	}
	if err := gw.RenameSession(ctx, "$1", ""); !errors.Is(err, ErrOperationRejected) {
		t.Fatalf("expected rejection for empty rename, got %v", err)
	}
	if _, err := gw.CapturePane(ctx, ""); !errors.Is(err, ErrOperationRejected) {
		t.Fatalf("expected rejection for empty target, got %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("expected no exec, got %d", len(*calls))
	}
}

func TestCapturePaneArgs(t *testing.T) {
	calls := withStubExec(t, func(ctx context.Context, name string, args ...string) commander {
		return &stubCommander{output: []byte("hello\n")}
	})
	gw := NewGateway(Options{})
	out, err := gw.CapturePane(context.Background(), "@2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello\n" {
		t.Fatalf("unexpected output %q", out)
	}
	want := []string{"capture-pane", "-p", "-J", "-t", "@2", "-S", "-200"}
	if got := (*calls)[0].args; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAttachCommandInsideAndOutsideTmux(t *testing.T) {
	withStubExec(t, func(ctx context.Context, name string, args ...string) commander {
		return &stubCommander{}
	})
	outside := NewGateway(Options{SocketPath: "/tmp/s"})
	cmd, err := outside.AttachCommand("$1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"/usr/bin/tmux", "-S", "/tmp/s", "attach-session", "-t", "$1"}
	if !reflect.DeepEqual(cmd.Args, want) {
		t.Fatalf("expected %v, got %v", want, cmd.Args)
	}
	inside := NewGateway(Options{InsideTmux: true})
	cmd, err = inside.AttachCommand("@4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = []string{"/usr/bin/tmux", "switch-client", "-t", "@4"}
	if !reflect.DeepEqual(cmd.Args, want) {
		t.Fatalf("expected %v, got %v", want, cmd.Args)
	}
}

func TestErrorMessageFormatting(t *testing.T) {
	err := &Error{Kind: ErrOperationRejected, Op: "kill-session", Target: "$1", Message: "can't find session: $1"}
	if got := err.Error(); got != "kill-session $1: can't find session: $1" {
		t.Fatalf("unexpected message %q", got)
	}
	err = &Error{Kind: ErrNoServer, Op: "list-sessions"}
	if got := err.Error(); got != "list-sessions: no tmux server running" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestForgetCaptureStartsFreshProcess(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	n := 0
	calls := withStubExec(t, func(ctx context.Context, name string, args ...string) commander {
		n++
		if n == 1 {
			return &gatedCommander{started: started, release: release, output: []byte("old\n")}
		}
		return &stubCommander{output: []byte("new\n")}
	})
	gw := NewGateway(Options{})

	first := make(chan string, 1)
	go func() {
		out, _ := gw.CapturePane(context.Background(), "$1")
		first <- out
	}()
	<-started

	gw.ForgetCapture("$1")
	out, err := gw.CapturePane(context.Background(), "$1")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if out != "new\n" {
		t.Fatalf("forced capture shared the older process, got %q", out)
	}
	close(release)
	if got := <-first; got != "old\n" {
		t.Fatalf("first capture = %q", got)
	}
	if len(*calls) != 2 {
		t.Fatalf("expected two processes, got %d", len(*calls))
	}
}
