package testutil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// BuildBinary compiles the tmuxito command into a temporary directory.
func BuildBinary(t *testing.T) string {
	t.Helper()
	RequireTmux(t)
	tdir := t.TempDir()
	bin := filepath.Join(tdir, "tmuxito")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = repoRoot(t)
	cmd.Env = append(os.Environ(), "GOCACHE="+filepath.Join(tdir, ".gocache"))
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return bin
}

// WaitForText polls target until its capture contains want. A non-zero code
// written to exitPath by the launcher aborts the wait early.
func WaitForText(t *testing.T, ctx context.Context, socket, target, want, exitPath string) string {
	t.Helper()
	loggedPaneMissing := false
	last := ""
	for {
		select {
		case <-ctx.Done():
			t.Fatalf("timeout waiting for %q in %s: %v\nlast capture:\n%s", want, target, ctx.Err(), last)
		case <-time.After(50 * time.Millisecond):
			if code := readExitCode(exitPath); code != "" && code != "0" {
				t.Fatalf("tmuxito exited early with code %s\nlast capture:\n%s", code, last)
			}
			out, err := CapturePane(t, socket, target)
			if err != nil {
				if errors.Is(err, ErrPaneUnavailable) {
					if !loggedPaneMissing {
						t.Logf("waiting for pane %s to become available", target)
						loggedPaneMissing = true
					}
					continue
				}
				t.Fatalf("capture-pane error: %v", err)
			}
			last = out
			if strings.Contains(out, want) {
				return out
			}
		}
	}
}

// WaitForExit waits until the launcher script records the program's exit code.
func WaitForExit(t *testing.T, ctx context.Context, exitPath string) string {
	t.Helper()
	for {
		if code := readExitCode(exitPath); code != "" {
			return code
		}
		select {
		case <-ctx.Done():
			t.Fatalf("timeout waiting for exit: %v", ctx.Err())
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func readExitCode(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func repoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
