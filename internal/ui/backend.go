package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmuxito/internal/backend"
	"github.com/atomicstack/tmuxito/internal/nav"
)

func waitForBackendEvent(t *backend.Ticker) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-t.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	if eventMsg.event.Kind == backend.KindPreviewTick {
		cmd = m.ctrl.Update(nav.PreviewTickMsg{At: eventMsg.event.At})
	}
	if m.ticker == nil {
		return cmd
	}
	return tea.Batch(cmd, waitForBackendEvent(m.ticker))
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.ticker = nil
	return nil
}
