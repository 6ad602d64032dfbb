package tmux

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Failure kinds. Match them with errors.Is.
var (
	ErrBinaryMissing     = errors.New("tmux binary not found")
	ErrNoServer          = errors.New("no tmux server running")
	ErrOperationRejected = errors.New("tmux rejected the operation")
	ErrSpawnFailure      = errors.New("tmux could not be run")
	ErrParseDegraded     = errors.New("tmux output partially unparseable")
	ErrDuplicateID       = errors.New("duplicate id in tmux output")
)

// Error is a classified gateway failure.
type Error struct {
	Kind    error
	Op      string
	Target  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Target != "" {
		b.WriteString(" ")
		b.WriteString(e.Target)
	}
	b.WriteString(": ")
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		fmt.Fprintf(&b, "%v: %v", e.Kind, e.Err)
	default:
		fmt.Fprint(&b, e.Kind)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

// ParseDegradedError counts listing lines the parser had to skip.
type ParseDegradedError struct {
	Op      string
	Skipped int
}

func (e *ParseDegradedError) Error() string {
	return fmt.Sprintf("%s: skipped %d malformed line(s)", e.Op, e.Skipped)
}

func (e *ParseDegradedError) Is(target error) bool { return target == ErrParseDegraded }

// IsTargetMissing reports whether err means the addressed session, window or
// pane no longer exists.
func IsTargetMissing(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoServer) {
		return true
	}
	var gerr *Error
	if !errors.As(err, &gerr) || gerr.Kind != ErrOperationRejected {
		return false
	}
	msg := strings.ToLower(gerr.Message)
	return strings.Contains(msg, "can't find") || strings.Contains(msg, "session not found")
}

// Reason returns the text worth showing to a user for err.
func Reason(err error) string {
	var gerr *Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func classify(ctx context.Context, op, target string, err error) error {
	if ctx.Err() != nil {
		return &Error{Kind: ErrSpawnFailure, Op: op, Target: target, Err: ctx.Err()}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := firstLine(string(exitErr.Stderr))
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "no server running") || strings.Contains(lower, "error connecting to") {
			return &Error{Kind: ErrNoServer, Op: op, Target: target, Message: msg, Err: err}
		}
		if msg == "" {
			msg = exitErr.Error()
		}
		return &Error{Kind: ErrOperationRejected, Op: op, Target: target, Message: msg, Err: err}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return &Error{Kind: ErrBinaryMissing, Op: op, Target: target, Err: err}
	}
	return &Error{Kind: ErrSpawnFailure, Op: op, Target: target, Err: err}
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
