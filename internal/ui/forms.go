package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmuxito/internal/logging/events"
	"github.com/atomicstack/tmuxito/internal/tmux"
)

type sessionFormMode int

const (
	sessionFormCreate sessionFormMode = iota
	sessionFormRename
)

// SessionForm collects a session name for new and rename.
type SessionForm struct {
	input    textinput.Model
	existing map[string]struct{}
	mode     sessionFormMode
	target   tmux.Session
	err      string
}

// newSessionForm opens a form. A rename form is pinned to target's ID so a
// re-list while it is open cannot redirect the rename.
func newSessionForm(mode sessionFormMode, target tmux.Session, names []string) *SessionForm {
	ti := textinput.New()
	ti.Placeholder = "session-name"
	ti.CharLimit = 64
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	if mode == sessionFormRename {
		ti.SetValue(target.Name)
	}
	f := &SessionForm{input: ti, mode: mode, target: target}
	f.SetSessions(names)
	return f
}

func (f *SessionForm) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *SessionForm) InputView() string { return f.input.View() }
func (f *SessionForm) Error() string     { return f.err }
func (f *SessionForm) Target() string    { return f.target.Name }
func (f *SessionForm) TargetID() string  { return f.target.ID }
func (f *SessionForm) IsRename() bool    { return f.mode == sessionFormRename }

func (f *SessionForm) Title() string {
	if f.mode == sessionFormRename {
		return fmt.Sprintf("Rename %s", f.target.Name)
	}
	return "New session"
}

func (f *SessionForm) Help() string {
	if f.mode == sessionFormRename {
		return "enter rename · esc cancel · ctrl+u clear"
	}
	return "enter create · esc cancel · ctrl+u clear"
}

// SetSessions refreshes the names used for the duplicate check. The session
// being renamed does not collide with itself.
func (f *SessionForm) SetSessions(names []string) {
	f.existing = make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" || (f.mode == sessionFormRename && name == f.target.Name) {
			continue
		}
		f.existing[name] = struct{}{}
	}
	f.err = f.validateName(f.Value())
}

// Update returns a follow-up command plus whether the form was submitted or
// dismissed.
func (f *SessionForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if m, ok := msg.(tea.KeyMsg); ok {
		switch m.String() {
		case "ctrl+u":
			if f.input.Value() != "" {
				f.input.SetValue("")
				f.input.CursorStart()
				f.err = ""
			}
			return nil, false, false
		case "esc":
			if f.mode == sessionFormRename {
				events.Session.CancelRename(f.target.ID, events.SessionReasonEscape)
			} else {
				events.Session.CancelNew(events.SessionReasonEscape)
			}
			return nil, false, true
		case "enter":
			value := f.Value()
			if f.mode == sessionFormRename {
				if value == "" {
					events.Session.CancelRename(f.target.ID, events.SessionReasonEmpty)
					return nil, false, true
				}
				if value == f.target.Name {
					events.Session.CancelRename(f.target.ID, events.SessionReasonSame)
					return nil, false, true
				}
			}
			if value == "" {
				f.err = "Session name required"
				return nil, false, false
			}
			if err := f.validateName(value); err != "" {
				f.err = err
				return nil, false, false
			}
			f.err = ""
			return nil, true, false
		}
	}
	updated, cmd := f.input.Update(msg)
	f.input = updated
	f.err = f.validateName(f.Value())
	return cmd, false, false
}

// validateName reports problems with a non-empty name. tmux rewrites '.'
// and ':' in session names, so they are refused up front.
func (f *SessionForm) validateName(name string) string {
	if name == "" {
		return ""
	}
	if strings.ContainsAny(name, ".:") {
		return "Session name cannot contain '.' or ':'"
	}
	if _, exists := f.existing[name]; exists {
		return "Session already exists"
	}
	return ""
}

func (m *Model) startSessionForm(mode sessionFormMode, target tmux.Session) {
	names := m.ctrl.Sessions().Names()
	if mode == sessionFormRename {
		events.Session.RenamePrompt(target.ID)
	} else {
		events.Session.NewPrompt(len(names))
	}
	m.form = newSessionForm(mode, target, names)
	m.mode = ModeSessionForm
}

func (m *Model) handleSessionForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.form == nil {
		return false, nil
	}
	if _, ok := msg.(tea.KeyMsg); !ok {
		return false, nil
	}
	cmd, done, cancel := m.form.Update(msg)
	if cancel {
		m.form = nil
		m.mode = ModeList
		return true, cmd
	}
	if done {
		name := m.form.Value()
		rename, ref := m.form.IsRename(), m.form.TargetID()
		m.form = nil
		m.mode = ModeList
		if rename {
			return true, m.ctrl.Rename(ref, name)
		}
		return true, m.ctrl.New(name)
	}
	return true, cmd
}

func (m *Model) viewSessionForm(header string) string {
	lines := []string{header, "", m.styles.Title.Render(m.form.Title()), "", m.form.InputView()}
	if err := m.form.Error(); err != "" {
		lines = append(lines, "", m.styles.Error.Render(err))
	}
	lines = append(lines, "", m.styles.Footer.Render(m.form.Help()))
	return strings.Join(lines, "\n")
}
