package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmuxito/internal/logging/events"
	"github.com/atomicstack/tmuxito/internal/nav"
	"github.com/atomicstack/tmuxito/internal/tmux"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.ctrl.Screen() == nav.ScreenAttached {
		return nil
	}
	switch m.mode {
	case ModeFilter:
		return m.handleFilterKey(keyMsg)
	case ModeConfirmKill:
		return m.handleConfirmKey(keyMsg)
	case ModeReference:
		return m.handleReferenceKey(keyMsg)
	}
	return m.handleListKey(keyMsg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		events.App.Exit(0, "quit key")
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.openReference()
		return nil
	case key.Matches(msg, k.Up):
		return m.ctrl.Move(-1)
	case key.Matches(msg, k.Down):
		return m.ctrl.Move(1)
	case key.Matches(msg, k.PageUp):
		return m.ctrl.PageUp(m.pageSize())
	case key.Matches(msg, k.PageDown):
		return m.ctrl.PageDown(m.pageSize())
	case key.Matches(msg, k.Home):
		return m.ctrl.Home()
	case key.Matches(msg, k.End):
		return m.ctrl.End()
	case key.Matches(msg, k.Attach):
		return m.ctrl.Attach()
	case key.Matches(msg, k.DrillIn):
		return m.ctrl.DrillIn()
	case key.Matches(msg, k.Back):
		return m.handleBack()
	case key.Matches(msg, k.Filter):
		m.openFilter()
		return nil
	case key.Matches(msg, k.Sort):
		return m.ctrl.CycleSort()
	case key.Matches(msg, k.Refresh):
		return m.ctrl.Refresh()
	case key.Matches(msg, k.New):
		if m.ctrl.Unavailable() {
			return nil
		}
		m.startSessionForm(sessionFormCreate, tmux.Session{})
		return nil
	case key.Matches(msg, k.Rename):
		sess, err := m.ctrl.Sessions().Selected()
		if err != nil || m.ctrl.Unavailable() {
			return nil
		}
		m.startSessionForm(sessionFormRename, sess)
		return nil
	case key.Matches(msg, k.Kill):
		cmd := m.ctrl.RequestKill()
		if _, pending := m.ctrl.PendingKill(); pending {
			m.mode = ModeConfirmKill
		}
		return cmd
	}
	return nil
}

// handleBack leaves the windows screen; on the sessions screen it clears an
// active filter instead.
func (m *Model) handleBack() tea.Cmd {
	if m.ctrl.Screen() == nav.ScreenWindows {
		return m.ctrl.Back()
	}
	if m.ctrl.FilterText() != "" {
		m.filter.SetValue("")
		return m.ctrl.Filter("")
	}
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeList
		return m.ctrl.ConfirmKill(true)
	case "n", "N", "esc", "q":
		m.mode = ModeList
		return m.ctrl.ConfirmKill(false)
	case "ctrl+c":
		return tea.Quit
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = resize.Width
	m.height = resize.Height
	m.help.Width = resize.Width
	m.resizeReference()
	return nil
}
