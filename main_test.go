package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/atomicstack/tmuxito/internal/app"
	"github.com/atomicstack/tmuxito/internal/config"
	"github.com/atomicstack/tmuxito/internal/state"
	"github.com/atomicstack/tmuxito/internal/tmux"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Checks) != 3 {
		t.Fatalf("expected 3 check entries, got %d", len(info.Checks))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Checks[i].Name != name {
			t.Fatalf("expected check %d name %q, got %q", i, name, info.Checks[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			SocketPath:      "socket-path",
			TmuxBinary:      "tmux",
			Timeout:         5 * time.Second,
			PreviewInterval: 3 * time.Second,
			DefaultSort:     state.SortDate,
			Theme:           "dark",
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"socket":           "socket-path",
			"timeout":          "5s",
			"preview-interval": "3s",
			"sort":             "date",
		},
		Args: []string{"--socket", "socket-path"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["socket"] != "socket-path" {
		t.Fatalf("expected socket flag %q, got %v", "socket-path", flagsValue["socket"])
	}
	if flagsValue["timeout"] != "5s" {
		t.Fatalf("expected timeout 5s, got %v", flagsValue["timeout"])
	}
	if flagsValue["sort"] != "date" {
		t.Fatalf("expected sort date, got %v", flagsValue["sort"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}

func TestExitCode(t *testing.T) {
	missing := &tmux.Error{Kind: tmux.ErrBinaryMissing, Op: "lookup", Target: "tmux"}
	if got := exitCode(missing); got != 2 {
		t.Fatalf("missing binary exit code = %d, want 2", got)
	}
	if got := exitCode(fmt.Errorf("wrapped: %w", missing)); got != 2 {
		t.Fatalf("wrapped missing binary exit code = %d, want 2", got)
	}
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Fatalf("generic exit code = %d, want 1", got)
	}
}
