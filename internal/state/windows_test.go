package state

import (
	"errors"
	"testing"

	"github.com/atomicstack/tmuxito/internal/tmux"
)

func windowFixture() []tmux.Window {
	return []tmux.Window{
		{ID: "@1", SessionID: "$0", Index: 0, Name: "editor"},
		{ID: "@2", SessionID: "$0", Index: 1, Name: "logs", Active: true},
		{ID: "@3", SessionID: "$0", Index: 2, Name: "shell"},
	}
}

func TestWindowListFirstLoadSelectsActive(t *testing.T) {
	l := NewWindowList(tmux.Session{ID: "$0", Name: "work"})
	if l.Loaded() {
		t.Fatalf("new list should not be loaded")
	}
	if _, err := l.Selected(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	l.SetWindows(windowFixture())
	win, err := l.Selected()
	if err != nil || win.ID != "@2" {
		t.Fatalf("selected %+v, %v", win, err)
	}
	if l.Parent().Name != "work" {
		t.Fatalf("parent = %+v", l.Parent())
	}
}

func TestWindowListRelistFollowsSelection(t *testing.T) {
	l := NewWindowList(tmux.Session{ID: "$0"})
	l.SetWindows(windowFixture())
	l.End()
	// the active flag moved, but the selection stays on the chosen window
	next := windowFixture()
	next[1].Active = false
	next[0].Active = true
	l.SetWindows(next)
	if win, _ := l.Selected(); win.ID != "@3" {
		t.Fatalf("selected %+v", win)
	}
	l.SetWindows(next[:2])
	if win, _ := l.Selected(); win.ID != "@2" {
		t.Fatalf("clamped selection %+v", win)
	}
}

func TestWindowListFilter(t *testing.T) {
	l := NewWindowList(tmux.Session{ID: "$0"})
	l.SetWindows(windowFixture())
	l.SetFilter("SH")
	if l.Len() != 1 {
		t.Fatalf("len = %d", l.Len())
	}
	if win, _ := l.Selected(); win.Name != "shell" {
		t.Fatalf("selected %+v", win)
	}
	l.SetFilter("")
	if l.Len() != 3 || l.Index() != 2 {
		t.Fatalf("cleared: len=%d index=%d", l.Len(), l.Index())
	}
	if l.Move(1) {
		t.Fatalf("move past the end should not change selection")
	}
	l.Home()
	if l.Index() != 0 {
		t.Fatalf("home index = %d", l.Index())
	}
}
