package tmux_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/tmuxito/internal/testutil"
	"github.com/atomicstack/tmuxito/internal/tmux"
)

func TestGatewayIntegration(t *testing.T) {
	socket, cleanup, logDir := testutil.StartTmuxServer(t)
	defer cleanup()
	t.Cleanup(func() {
		testutil.AssertNoServerCrash(t, logDir)
	})

	gw := tmux.NewGateway(tmux.Options{SocketPath: socket, Timeout: 5 * time.Second})
	ctx := context.Background()

	const name = "tmuxito-integration"
	if err := gw.NewSession(ctx, name); err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	sess := waitForSession(t, gw, name)
	if sess.Windows < 1 {
		t.Fatalf("expected at least one window, got %#v", sess)
	}
	if !strings.HasPrefix(sess.ID, "$") {
		t.Fatalf("expected server id, got %q", sess.ID)
	}

	out, err := gw.ListWindows(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ListWindows failed: %v", err)
	}
	windows, err := tmux.ParseWindows(out, sess.ID)
	if err != nil {
		t.Fatalf("ParseWindows failed: %v", err)
	}
	if len(windows.Windows) == 0 || windows.Skipped != 0 {
		t.Fatalf("unexpected window batch %#v", windows)
	}

	if _, err := gw.CapturePane(ctx, sess.ID); err != nil {
		t.Fatalf("CapturePane failed: %v", err)
	}

	if err := gw.RenameSession(ctx, sess.ID, name+"-renamed"); err != nil {
		t.Fatalf("RenameSession failed: %v", err)
	}
	renamed := waitForSession(t, gw, name+"-renamed")
	if renamed.ID != sess.ID {
		t.Fatalf("expected rename to keep id %s, got %s", sess.ID, renamed.ID)
	}

	if err := gw.NewSession(ctx, name+"-renamed"); !errors.Is(err, tmux.ErrOperationRejected) {
		t.Fatalf("expected duplicate name rejection, got %v", err)
	}

	if err := gw.KillSession(ctx, sess.ID); err != nil {
		t.Fatalf("KillSession failed: %v", err)
	}
	err = gw.KillSession(ctx, sess.ID)
	if !tmux.IsTargetMissing(err) {
		t.Fatalf("expected missing target after kill, got %v", err)
	}
}

func TestGatewayNoServerIntegration(t *testing.T) {
	testutil.RequireTmux(t)
	gw := tmux.NewGateway(tmux.Options{SocketPath: t.TempDir() + "/absent.sock"})
	_, err := gw.ListSessions(context.Background())
	if !errors.Is(err, tmux.ErrNoServer) {
		t.Fatalf("expected no server, got %v", err)
	}
}

func waitForSession(t *testing.T, gw *tmux.Gateway, name string) tmux.Session {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		out, err := gw.ListSessions(context.Background())
		if err == nil {
			batch, perr := tmux.ParseSessions(out)
			if perr != nil {
				t.Fatalf("ParseSessions failed: %v", perr)
			}
			for _, sess := range batch.Sessions {
				if sess.Name == name {
					return sess
				}
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("session %q did not appear", name)
	return tmux.Session{}
}
