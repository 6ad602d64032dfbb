package tmux

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

const (
	fieldSeparator = "\t"

	// MaxPreviewBytes caps a snapshot after line bounding.
	MaxPreviewBytes = 64 << 10
)

var (
	errMissingName  = errors.New("missing session name")
	errMissingIndex = errors.New("missing window index")
)

// ParseSessionLine parses one SessionFormat line. Extra trailing fields are
// ignored and missing ones take defaults; only the name is required. Without
// a session id the ID is the exact-name target "=name".
func ParseSessionLine(line string) (Session, error) {
	fields := strings.Split(strings.TrimRight(line, "\r"), fieldSeparator)
	name := fields[0]
	if strings.TrimSpace(name) == "" {
		return Session{}, errMissingName
	}
	sess := Session{ID: "=" + name, Name: name, Windows: 1}
	if v, ok := field(fields, 1); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			sess.Windows = n
		}
	}
	if v, ok := field(fields, 2); ok {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil && ts > 0 {
			sess.CreatedAt = time.Unix(ts, 0)
		}
	}
	if v, ok := field(fields, 3); ok {
		if n, err := strconv.Atoi(v); err == nil {
			sess.Attached = n > 0
		}
	}
	if v, ok := field(fields, 4); ok {
		sess.ID = v
	}
	return sess, nil
}

// ParseSessions parses list-sessions output, preserving input order.
// Malformed lines are skipped and counted; a repeated id fails the batch.
func ParseSessions(text string) (SessionBatch, error) {
	var batch SessionBatch
	seen := make(map[string]struct{})
	for _, line := range recordLines(text) {
		sess, err := ParseSessionLine(line)
		if err != nil {
			batch.Skipped++
			continue
		}
		if _, dup := seen[sess.ID]; dup {
			return SessionBatch{}, fmt.Errorf("list-sessions: %w: %s", ErrDuplicateID, sess.ID)
		}
		seen[sess.ID] = struct{}{}
		batch.Sessions = append(batch.Sessions, sess)
	}
	return batch, nil
}

// ParseWindowLine parses one WindowFormat line listed for sessionID.
func ParseWindowLine(line, sessionID string) (Window, error) {
	fields := strings.Split(strings.TrimRight(line, "\r"), fieldSeparator)
	index, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Window{}, errMissingIndex
	}
	win := Window{SessionID: sessionID, Index: index, Panes: 1}
	if len(fields) > 1 {
		win.Name = fields[1]
	}
	if v, ok := field(fields, 2); ok {
		win.Active = v == "1"
	}
	if v, ok := field(fields, 4); ok {
		win.SessionID = v
	}
	if v, ok := field(fields, 5); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			win.Panes = n
		}
	}
	if v, ok := field(fields, 3); ok {
		win.ID = v
	} else {
		win.ID = fmt.Sprintf("%s:%d", win.SessionID, index)
	}
	return win, nil
}

// ParseWindows parses list-windows output for one session.
func ParseWindows(text, sessionID string) (WindowBatch, error) {
	var batch WindowBatch
	seen := make(map[string]struct{})
	for _, line := range recordLines(text) {
		win, err := ParseWindowLine(line, sessionID)
		if err != nil {
			batch.Skipped++
			continue
		}
		if _, dup := seen[win.ID]; dup {
			return WindowBatch{}, fmt.Errorf("list-windows: %w: %s", ErrDuplicateID, win.ID)
		}
		seen[win.ID] = struct{}{}
		batch.Windows = append(batch.Windows, win)
	}
	return batch, nil
}

// ParsePreview turns raw capture output into a bounded plain-text snapshot
// holding the most recent lines.
func ParsePreview(target, text string, capturedAt time.Time) PreviewSnapshot {
	lines := splitPreviewLines(ansi.Strip(strings.ReplaceAll(text, "\r\n", "\n")))
	if len(lines) > PreviewLines {
		lines = lines[len(lines)-PreviewLines:]
	}
	body := strings.Join(lines, "\n")
	if len(body) > MaxPreviewBytes {
		body = body[len(body)-MaxPreviewBytes:]
		if idx := strings.IndexByte(body, '\n'); idx >= 0 {
			body = body[idx+1:]
		}
		body = strings.ToValidUTF8(body, "")
	}
	return PreviewSnapshot{TargetID: target, Text: body, CapturedAt: capturedAt}
}

func field(fields []string, i int) (string, bool) {
	if i >= len(fields) {
		return "", false
	}
	v := strings.TrimSpace(fields[i])
	return v, v != ""
}

func recordLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	normalised := strings.ReplaceAll(text, "\r\n", "\n")
	normalised = strings.ReplaceAll(normalised, "\r", "\n")
	raw := strings.Split(normalised, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
