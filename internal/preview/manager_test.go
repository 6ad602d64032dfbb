package preview

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/tmuxito/internal/tmux"
)

func snapshot(target, text string) tmux.PreviewSnapshot {
	return tmux.PreviewSnapshot{TargetID: target, Text: text, CapturedAt: time.Unix(1700000000, 0)}
}

func TestSelectIssuesRequestAndAppliesResult(t *testing.T) {
	m := NewManager()
	req, ok := m.Select("$1")
	if !ok || req.Target != "$1" || req.Seq != 1 {
		t.Fatalf("Select returned %+v, %v", req, ok)
	}
	if _, ok := m.Select("$1"); ok {
		t.Fatalf("re-selecting the same target should not issue a request")
	}
	if got := m.Resolve(Result{Request: req, Snapshot: snapshot("$1", "hello")}); got != Applied {
		t.Fatalf("Resolve = %v", got)
	}
	snap, ok := m.Snapshot()
	if !ok || snap.Text != "hello" {
		t.Fatalf("snapshot = %+v, %v", snap, ok)
	}
}

func TestLateResultForPreviousTargetIsDiscarded(t *testing.T) {
	m := NewManager()
	reqX, _ := m.Select("$x")
	reqY, _ := m.Select("$y")

	if _, ok := m.Snapshot(); ok {
		t.Fatalf("changing target should clear the snapshot")
	}
	if got := m.Resolve(Result{Request: reqY, Snapshot: snapshot("$y", "y")}); got != Applied {
		t.Fatalf("resolve Y = %v", got)
	}
	if got := m.Resolve(Result{Request: reqX, Snapshot: snapshot("$x", "x")}); got != Stale {
		t.Fatalf("resolve X = %v", got)
	}
	snap, _ := m.Snapshot()
	if snap.Text != "y" {
		t.Fatalf("preview shows %q, want y", snap.Text)
	}
}

func TestOlderResultForSameTargetIsDiscarded(t *testing.T) {
	m := NewManager()
	first, _ := m.Select("$a")
	second, ok := m.Refresh()
	if !ok || second.Seq <= first.Seq {
		t.Fatalf("refresh returned %+v, %v", second, ok)
	}
	if first.Forced || !second.Forced {
		t.Fatalf("only the refresh should be forced: %+v, %+v", first, second)
	}
	if got := m.Resolve(Result{Request: second, Snapshot: snapshot("$a", "new")}); got != Applied {
		t.Fatalf("resolve second = %v", got)
	}
	if got := m.Resolve(Result{Request: first, Snapshot: snapshot("$a", "old")}); got != Stale {
		t.Fatalf("resolve first = %v", got)
	}
	if snap, _ := m.Snapshot(); snap.Text != "new" {
		t.Fatalf("preview shows %q", snap.Text)
	}
}

func TestTickSkipsWhileInFlight(t *testing.T) {
	m := NewManager()
	if _, ok := m.Tick(); ok {
		t.Fatalf("tick without a target should not issue")
	}
	req, _ := m.Select("$a")
	if _, ok := m.Tick(); ok {
		t.Fatalf("tick should wait for the outstanding capture")
	}
	m.Resolve(Result{Request: req, Snapshot: snapshot("$a", "a")})
	next, ok := m.Tick()
	if !ok || next.Seq != req.Seq+1 {
		t.Fatalf("tick after resolve = %+v, %v", next, ok)
	}
}

func TestMissingTargetClearsPreview(t *testing.T) {
	m := NewManager()
	req, _ := m.Select("$a")
	m.Resolve(Result{Request: req, Snapshot: snapshot("$a", "a")})
	next, _ := m.Tick()
	missing := &tmux.Error{Kind: tmux.ErrOperationRejected, Op: "capture-pane", Target: "$a", Message: "can't find session: $a"}
	if got := m.Resolve(Result{Request: next, Err: missing}); got != Cleared {
		t.Fatalf("resolve = %v", got)
	}
	if _, ok := m.Snapshot(); ok {
		t.Fatalf("snapshot should be cleared")
	}
	if m.Err() != nil {
		t.Fatalf("a vanished target is not an error: %v", m.Err())
	}
}

func TestFailureKeepsErrorUntilNextSuccess(t *testing.T) {
	m := NewManager()
	req, _ := m.Select("$a")
	boom := &tmux.Error{Kind: tmux.ErrSpawnFailure, Op: "capture-pane", Err: errors.New("boom")}
	if got := m.Resolve(Result{Request: req, Err: boom}); got != Failed {
		t.Fatalf("resolve = %v", got)
	}
	if !errors.Is(m.Err(), tmux.ErrSpawnFailure) {
		t.Fatalf("Err() = %v", m.Err())
	}
	next, _ := m.Tick()
	m.Resolve(Result{Request: next, Snapshot: snapshot("$a", "ok")})
	if m.Err() != nil {
		t.Fatalf("error should clear after success")
	}
}

func TestEmptyTargetAndReset(t *testing.T) {
	m := NewManager()
	req, _ := m.Select("$a")
	m.Resolve(Result{Request: req, Snapshot: snapshot("$a", "a")})
	if _, ok := m.Select(""); ok {
		t.Fatalf("empty target should not issue")
	}
	if _, ok := m.Snapshot(); ok {
		t.Fatalf("empty target should clear the snapshot")
	}
	m.Select("$b")
	m.Reset()
	if m.Target() != "" {
		t.Fatalf("Reset left target %q", m.Target())
	}
	if _, ok := m.Tick(); ok {
		t.Fatalf("tick after reset should not issue")
	}
}

func TestReselectAdoptsInFlightCapture(t *testing.T) {
	m := NewManager()
	reqX, _ := m.Select("$x")
	reqY, _ := m.Select("$y")
	m.Resolve(Result{Request: reqY, Snapshot: snapshot("$y", "y")})
	if _, ok := m.Select("$x"); ok {
		t.Fatalf("capture of $x is still in flight; no new request expected")
	}
	if got := m.Resolve(Result{Request: reqX, Snapshot: snapshot("$x", "x")}); got != Applied {
		t.Fatalf("adopted capture = %v", got)
	}
	if snap, _ := m.Snapshot(); snap.Text != "x" {
		t.Fatalf("preview shows %q", snap.Text)
	}
}

func TestFailureKeepsPreviousSnapshot(t *testing.T) {
	m := NewManager()
	req, _ := m.Select("$a")
	m.Resolve(Result{Request: req, Snapshot: snapshot("$a", "a")})
	next, _ := m.Tick()
	m.Resolve(Result{Request: next, Err: &tmux.Error{Kind: tmux.ErrSpawnFailure, Op: "capture-pane"}})
	if snap, ok := m.Snapshot(); !ok || snap.Text != "a" {
		t.Fatalf("snapshot = %+v, %v", snap, ok)
	}
	if Failed.String() != "failed" || Stale.String() != "stale" {
		t.Fatalf("unexpected outcome names")
	}
}
