package command

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type doneMsg struct{ target string }

func TestExecuteRunsRequest(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "bus")
	bus := New(ctx)
	var seen context.Context
	cmd := bus.Execute(Request{Label: "capture", Target: "$1", Run: func(ctx context.Context) tea.Msg {
		seen = ctx
		return doneMsg{target: "$1"}
	}})
	if cmd == nil {
		t.Fatalf("expected command")
	}
	msg, ok := cmd().(doneMsg)
	if !ok || msg.target != "$1" {
		t.Fatalf("unexpected message %#v", msg)
	}
	if seen == nil || seen.Value(key{}) != "bus" {
		t.Fatalf("request did not receive the bus context")
	}
}

func TestExecuteWithoutRunIsNoop(t *testing.T) {
	bus := New(nil)
	if msg := bus.Execute(Request{Label: "empty"})(); msg != nil {
		t.Fatalf("expected nil message, got %#v", msg)
	}
	if msg := bus.Execute(Request{Label: "nil", Run: func(context.Context) tea.Msg { return nil }})(); msg != nil {
		t.Fatalf("expected nil message, got %#v", msg)
	}
}
