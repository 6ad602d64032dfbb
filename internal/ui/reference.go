package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmuxito/internal/format/table"
)

const referenceTitle = "tmux quick reference"

type referenceSection struct {
	title  string
	prefix bool
	rows   [][]string
}

var tmuxReference = []referenceSection{
	{
		title: "Setup",
		rows: [][]string{
			{"tmux", "Start a new unnamed session"},
			{"tmux new -s name", "Start a new named session"},
			{"tmux ls", "List all sessions"},
			{"tmux a", "Attach to the last session"},
			{"tmux a -t name", "Attach to a specific session"},
			{"tmux kill-session -t name", "Kill a session"},
			{"tmux kill-server", "Kill tmux server and all sessions"},
		},
	},
	{
		title:  "Sessions",
		prefix: true,
		rows: [][]string{
			{"$", "Rename current session"},
			{"d", "Detach from current session"},
			{"s", "Interactive session list"},
			{"(", "Switch to previous session"},
			{")", "Switch to next session"},
			{"L", "Switch to last (most recently used) session"},
		},
	},
	{
		title:  "Windows",
		prefix: true,
		rows: [][]string{
			{"c", "Create new window"},
			{",", "Rename current window"},
			{"w", "Interactive window list"},
			{"n", "Next window"},
			{"p", "Previous window"},
			{"0-9", "Switch to window by number"},
			{"&", "Kill current window"},
			{"f", "Find window by name"},
			{".", "Move window to a different index"},
		},
	},
	{
		title:  "Panes",
		prefix: true,
		rows: [][]string{
			{"%", "Split pane vertically (left/right)"},
			{"\"", "Split pane horizontally (top/bottom)"},
			{"o", "Cycle to next pane"},
			{"q", "Show pane numbers (press number to jump)"},
			{"x", "Kill current pane"},
			{"z", "Toggle zoom on current pane"},
			{"{", "Swap pane with the previous one"},
			{"}", "Swap pane with the next one"},
			{"↑ ↓ ← →", "Navigate between panes"},
			{"alt+↑ ↓ ← →", "Resize current pane"},
			{"!", "Break pane into its own window"},
			{"space", "Cycle through preset layouts"},
		},
	},
	{
		title:  "Copy mode",
		prefix: true,
		rows: [][]string{
			{"[", "Enter copy mode"},
			{"]", "Paste most recent buffer"},
			{"space", "Start selection (in copy mode)"},
			{"enter", "Copy selection and exit copy mode"},
			{"q", "Quit copy mode"},
			{"g / G", "Jump to top / bottom of history"},
			{"/", "Search forward"},
			{"?", "Search backward"},
		},
	},
	{
		title:  "Other",
		prefix: true,
		rows: [][]string{
			{"?", "List all keybindings"},
			{":", "Open tmux command prompt"},
			{"t", "Show clock"},
			{"~", "Show previous messages"},
			{"r", "Reload tmux config"},
		},
	},
}

// navigatorSection lists tmuxito's own bindings from the key map.
func navigatorSection(k keyMap) referenceSection {
	section := referenceSection{title: "Navigator keys"}
	for _, group := range k.FullHelp() {
		for _, b := range group {
			h := b.Help()
			section.rows = append(section.rows, []string{h.Key, h.Desc})
		}
	}
	return section
}

var referenceKeys = struct {
	Close  key.Binding
	Top    key.Binding
	Bottom key.Binding
}{
	Close:  key.NewBinding(key.WithKeys("esc", "q", "?")),
	Top:    key.NewBinding(key.WithKeys("home", "g")),
	Bottom: key.NewBinding(key.WithKeys("end", "G")),
}

// renderReference lays out every section with aligned key columns.
func (m *Model) renderReference() string {
	sections := append(append([]referenceSection(nil), tmuxReference...), navigatorSection(defaultKeyMap()))
	var lines []string
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		title := section.title
		if section.prefix {
			title += "  (prefix = ctrl+b)"
		}
		lines = append(lines, m.styles.Header.Render(title))
		for _, row := range table.Format(section.rows, nil) {
			lines = append(lines, "  "+m.styles.Item.Render(row))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) openReference() {
	m.reference = viewport.New(m.width, m.referenceHeight())
	m.reference.SetContent(m.renderReference())
	m.mode = ModeReference
}

func (m *Model) referenceHeight() int {
	return max(m.height-2, 1)
}

func (m *Model) resizeReference() {
	m.reference.Width = m.width
	m.reference.Height = m.referenceHeight()
}

func (m *Model) handleReferenceKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "ctrl+c":
		return tea.Quit
	case key.Matches(msg, referenceKeys.Close):
		m.mode = ModeList
		return nil
	case key.Matches(msg, referenceKeys.Top):
		m.reference.GotoTop()
		return nil
	case key.Matches(msg, referenceKeys.Bottom):
		m.reference.GotoBottom()
		return nil
	}
	var cmd tea.Cmd
	m.reference, cmd = m.reference.Update(msg)
	return cmd
}

func (m *Model) viewReference() string {
	title := m.styles.Title.Render(truncateText("tmuxito"+headerSeparator+referenceTitle, m.width))
	body := m.renderReference()
	if m.width > 0 && m.height > 0 {
		body = m.reference.View()
	}
	footer := fmt.Sprintf("esc/q/? close · ↑/↓ pgup/pgdn scroll · %3.0f%%", m.reference.ScrollPercent()*100)
	return strings.Join([]string{title, body, m.styles.Footer.Render(truncateText(footer, m.width))}, "\n")
}
