package ui

import (
	"reflect"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmuxito/internal/backend"
	"github.com/atomicstack/tmuxito/internal/nav"
	"github.com/atomicstack/tmuxito/internal/theme"
)

type Mode int

const (
	ModeList Mode = iota
	ModeFilter
	ModeSessionForm
	ModeConfirmKill
	ModeReference
)

func (m Mode) String() string {
	switch m {
	case ModeFilter:
		return "filter"
	case ModeSessionForm:
		return "form"
	case ModeConfirmKill:
		return "confirm-kill"
	case ModeReference:
		return "reference"
	default:
		return "list"
	}
}

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Controller *nav.Controller
	// Ticker drives preview refreshes; nil disables them.
	Ticker *backend.Ticker
	Styles *theme.Styles
}

// Model implements the Bubble Tea model for the session navigator.
type Model struct {
	ctrl   *nav.Controller
	ticker *backend.Ticker
	styles *theme.Styles

	keys   keyMap
	help   help.Model
	filter textinput.Model
	form   *SessionForm
	mode   Mode

	// reference scrolls the tmux quick reference.
	reference viewport.Model

	// filterScreen is the screen the filter bar was opened on.
	filterScreen nav.Screen

	width   int
	height  int
	offsets map[nav.Screen]int

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the UI around a controller.
func NewModel(opts Options) *Model {
	styles := opts.Styles
	if styles == nil {
		styles = theme.Default()
	}
	h := help.New()
	h.Styles.ShortKey = *styles.Footer
	h.Styles.ShortDesc = *styles.Muted
	h.Styles.FullKey = *styles.Footer
	h.Styles.FullDesc = *styles.Muted
	m := &Model{
		ctrl:    opts.Controller,
		ticker:  opts.Ticker,
		styles:  styles,
		keys:    defaultKeyMap(),
		help:    h,
		filter:  newFilterInput(styles),
		mode:    ModeList,
		offsets: map[nav.Screen]int{},
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.ctrl.Init()}
	if m.ticker != nil {
		cmds = append(cmds, waitForBackendEvent(m.ticker))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if m.mode == ModeSessionForm {
		if handled, cmd := m.handleSessionForm(msg); handled {
			cmds = append(cmds, cmd)
			return m, m.finishUpdate(cmds)
		}
	}
	if handler := m.handlerFor(msg); handler != nil {
		cmds = append(cmds, handler(msg))
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):            m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):     m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):       m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):        m.handleBackendDoneMsg,
		reflect.TypeOf(nav.SessionsLoadedMsg{}): m.handleControllerMsg,
		reflect.TypeOf(nav.WindowsLoadedMsg{}):  m.handleControllerMsg,
		reflect.TypeOf(nav.PreviewLoadedMsg{}):  m.handleControllerMsg,
		reflect.TypeOf(nav.MutationDoneMsg{}):   m.handleControllerMsg,
		reflect.TypeOf(nav.AttachReadyMsg{}):    m.handleControllerMsg,
		reflect.TypeOf(nav.AttachDoneMsg{}):     m.handleControllerMsg,
		reflect.TypeOf(nav.PreviewTickMsg{}):    m.handleControllerMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleControllerMsg(msg tea.Msg) tea.Cmd {
	cmd := m.ctrl.Update(msg)
	if _, ok := msg.(nav.SessionsLoadedMsg); ok && m.form != nil {
		m.form.SetSessions(m.ctrl.Sessions().Names())
	}
	return cmd
}

// finishUpdate reconciles the UI mode with controller state that may have
// moved underneath it.
func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.mode == ModeFilter && m.ctrl.Screen() != m.filterScreen {
		m.closeFilter()
	}
	if m.mode == ModeConfirmKill {
		if _, pending := m.ctrl.PendingKill(); !pending {
			m.mode = ModeList
		}
	}
	m.keys.applyScreen(m.ctrl.Screen() == nav.ScreenWindows)
	return tea.Batch(cmds...)
}

// Mode reports the current input mode.
func (m *Model) Mode() Mode { return m.mode }

// Controller exposes the navigation controller.
func (m *Model) Controller() *nav.Controller { return m.ctrl }
