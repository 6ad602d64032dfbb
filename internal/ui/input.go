package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmuxito/internal/theme"
)

func newFilterInput(styles *theme.Styles) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter"
	ti.CharLimit = 128
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.PromptStyle = *styles.FilterPrompt
	ti.TextStyle = *styles.Filter
	ti.PlaceholderStyle = *styles.FilterPlaceholder
	return ti
}

func (m *Model) openFilter() {
	m.filter.SetValue(m.ctrl.FilterText())
	m.filter.CursorEnd()
	m.filter.Focus()
	m.filterScreen = m.ctrl.Screen()
	m.mode = ModeFilter
}

func (m *Model) closeFilter() {
	m.filter.Blur()
	m.mode = ModeList
}

// handleFilterKey edits the filter text. Enter keeps the filter, esc clears
// it, and the arrow keys still move the selection while typing.
func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "ctrl+c":
		return tea.Quit
	case msg.String() == "enter":
		m.closeFilter()
		return nil
	case msg.String() == "esc":
		m.closeFilter()
		m.filter.SetValue("")
		return m.ctrl.Filter("")
	case msg.String() == "ctrl+u":
		m.filter.SetValue("")
		return m.ctrl.Filter("")
	case key.Matches(msg, m.keys.Up):
		return m.ctrl.Move(-1)
	case key.Matches(msg, m.keys.Down):
		return m.ctrl.Move(1)
	}
	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.ctrl.Filter(m.filter.Value()))
}
