package tmux

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

type commander interface {
	Output() ([]byte, error)
}

type realCommander struct {
	cmd *exec.Cmd
}

func (r realCommander) Output() ([]byte, error) {
	return r.cmd.Output()
}

var (
	runExecCommand = func(ctx context.Context, name string, args ...string) commander {
		return realCommander{cmd: exec.CommandContext(ctx, name, args...)}
	}
	lookPath = exec.LookPath
)

func baseArgs(socketPath string) []string {
	if strings.TrimSpace(socketPath) == "" {
		return []string{}
	}
	return []string{"-S", socketPath}
}

// SessionTarget returns the -t value addressing a session by server id, or
// by exact name otherwise. Refs already carrying the exact-name prefix pass
// through.
func SessionTarget(ref string) string {
	if isServerID(ref, '$') || strings.HasPrefix(ref, "=") {
		return ref
	}
	return "=" + ref
}

// isServerID reports whether ref is a tmux id such as $3 or @12.
func isServerID(ref string, sigil byte) bool {
	if len(ref) < 2 || ref[0] != sigil {
		return false
	}
	for i := 1; i < len(ref); i++ {
		if ref[i] < '0' || ref[i] > '9' {
			return false
		}
	}
	return true
}

// WindowTarget returns the -t value addressing a window.
func WindowTarget(w Window) string {
	if strings.HasPrefix(w.ID, "@") {
		return w.ID
	}
	return SessionTarget(w.SessionID) + ":" + strconv.Itoa(w.Index)
}
