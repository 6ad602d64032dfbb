package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/tmuxito/internal/format/table"
	"github.com/atomicstack/tmuxito/internal/nav"
	"github.com/atomicstack/tmuxito/internal/tmux"
)

const (
	previewPanelMinWidth = 40  // below this the preview moves under the list
	previewPanelFraction = 0.5 // share of the width given to the side preview
	previewMinRows       = 4
	headerSeparator      = " · "
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.header()
	if m.mode == ModeSessionForm && m.form != nil {
		return m.viewSessionForm(header)
	}
	if m.mode == ModeReference {
		return m.viewReference()
	}
	if m.ctrl.Screen() == nav.ScreenAttached {
		return header + "\n" + m.styles.Muted.Render("attached; waiting for the client to exit")
	}

	bottom := m.bottomLines()
	bodyH := -1
	if m.height > 0 {
		bodyH = max(m.height-1-len(bottom), 1)
	}

	var body string
	switch {
	case m.sidePreviewWidth() > 0 && bodyH > 0:
		prevW := m.sidePreviewWidth()
		listW := m.width - prevW
		left := m.renderList(listW, bodyH)
		right := m.renderPreviewPanel(prevW, bodyH)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	case bodyH >= 2*previewMinRows && m.width > 0:
		prevH := bodyH / 2
		listH := bodyH - prevH
		body = m.renderList(m.width, listH) + "\n" + m.renderPreviewPanel(m.width, prevH)
	default:
		body = m.renderList(m.width, bodyH)
	}

	lines := []string{m.styles.Title.Render(truncateText(header, m.width)), body}
	lines = append(lines, bottom...)
	return strings.Join(lines, "\n")
}

// header renders the context line, for example
// "tmuxito · sessions · sort: name · filter: dev".
func (m *Model) header() string {
	segments := []string{"tmuxito"}
	switch m.ctrl.Screen() {
	case nav.ScreenWindows:
		if w := m.ctrl.Windows(); w != nil {
			segments = append(segments, w.Parent().Name+" › windows")
		} else {
			segments = append(segments, "windows")
		}
	case nav.ScreenAttached:
		segments = append(segments, "attached")
	default:
		segments = append(segments, "sessions", "sort: "+m.ctrl.Sessions().SortKey().String())
	}
	if f := m.ctrl.FilterText(); f != "" {
		segments = append(segments, "filter: "+f)
	}
	if n := m.ctrl.Degraded(); n > 0 {
		segments = append(segments, fmt.Sprintf("%d unreadable lines", n))
	}
	return strings.Join(segments, headerSeparator)
}

func (m *Model) sidePreviewWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * previewPanelFraction)
	if w < previewPanelMinWidth {
		return 0
	}
	return w
}

// listRows is the number of list rows that fit on screen; -1 means
// unbounded.
func (m *Model) listRows() int {
	if m.height <= 0 {
		return -1
	}
	bodyH := max(m.height-1-len(m.bottomLines()), 1)
	if m.sidePreviewWidth() == 0 && bodyH >= 2*previewMinRows {
		return bodyH - bodyH/2
	}
	return bodyH
}

func (m *Model) pageSize() int {
	if rows := m.listRows(); rows > 0 {
		return rows
	}
	return 10
}

// renderList draws the current list padded to exactly width columns and,
// when height > 0, exactly height rows.
func (m *Model) renderList(width, height int) string {
	labels, cursor := m.listLabels()
	lines := make([]styledLine, 0, len(labels))
	if len(labels) == 0 {
		lines = append(lines, styledLine{text: m.emptyText(), style: m.styles.Muted})
	} else {
		start, end := 0, len(labels)
		if height > 0 && len(labels) > height {
			start = m.scrollOffset(cursor, height, len(labels))
			end = start + height
		}
		for idx := start; idx < end; idx++ {
			lines = append(lines, m.buildItemLine(labels[idx], idx == cursor, width))
		}
	}
	if height > 0 {
		for len(lines) < height {
			lines = append(lines, styledLine{})
		}
	}
	rows := strings.Split(renderLines(applyWidth(lines, width)), "\n")
	if width > 0 {
		for i, row := range rows {
			if w := lipgloss.Width(row); w < width {
				rows[i] = row + strings.Repeat(" ", width-w)
			}
		}
	}
	return strings.Join(rows, "\n")
}

// scrollOffset keeps the cursor inside the visible window of the list.
func (m *Model) scrollOffset(cursor, height, total int) int {
	screen := m.ctrl.Screen()
	off := m.offsets[screen]
	if cursor >= 0 && cursor < off {
		off = cursor
	}
	if cursor >= off+height {
		off = cursor - height + 1
	}
	off = min(max(off, 0), total-height)
	m.offsets[screen] = off
	return off
}

// listLabels formats the visible records of the current screen into
// aligned columns.
func (m *Model) listLabels() ([]string, int) {
	if m.ctrl.Screen() == nav.ScreenWindows {
		w := m.ctrl.Windows()
		if w == nil {
			return nil, -1
		}
		rows := make([][]string, 0, w.Len())
		for _, win := range w.Visible() {
			active := ""
			if win.Active {
				active = "active"
			}
			panes := max(win.Panes, 1)
			paneCount := fmt.Sprintf("%d %s", panes, plural(panes, "pane", "panes"))
			rows = append(rows, []string{fmt.Sprintf("%d:", win.Index), win.Name, paneCount, active})
		}
		return table.Format(rows, []table.Alignment{table.AlignRight, table.AlignLeft, table.AlignRight}), w.Index()
	}
	s := m.ctrl.Sessions()
	rows := make([][]string, 0, s.Len())
	for _, sess := range s.Visible() {
		rows = append(rows, sessionRow(sess))
	}
	return table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight}), s.Index()
}

func sessionRow(sess tmux.Session) []string {
	windows := fmt.Sprintf("%d %s", sess.Windows, plural(sess.Windows, "window", "windows"))
	attached := ""
	if sess.Attached {
		attached = "attached"
	}
	created := ""
	if !sess.CreatedAt.IsZero() {
		created = "created " + humanize.Time(sess.CreatedAt)
	}
	return []string{sess.Name, windows, attached, created}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (m *Model) emptyText() string {
	if !m.ctrl.Loaded() {
		return "Loading…"
	}
	if f := m.ctrl.FilterText(); f != "" {
		return fmt.Sprintf("No matches for %q", f)
	}
	if m.ctrl.Screen() == nav.ScreenWindows {
		return "(no windows)"
	}
	return "No tmux sessions. Press n to create one."
}

func (m *Model) buildItemLine(label string, selected bool, width int) styledLine {
	lineStyle := m.styles.Item
	indicatorStyle := m.styles.ItemIndicator
	if selected {
		lineStyle = m.styles.SelectedItem
		indicatorStyle = m.styles.SelectedIndicator
	}
	text := "▌ " + label
	if width > 0 {
		if pad := width - lipgloss.Width(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
	}
	return styledLine{text: text, style: lineStyle, prefixStyle: indicatorStyle, highlightFrom: 1}
}

// previewTitle names what the preview shows.
func (m *Model) previewTitle() string {
	switch m.ctrl.Screen() {
	case nav.ScreenWindows:
		if w := m.ctrl.Windows(); w != nil {
			if win, err := w.Selected(); err == nil {
				return fmt.Sprintf("%s:%d %s", w.Parent().Name, win.Index, win.Name)
			}
			return w.Parent().Name
		}
	case nav.ScreenSessions:
		if sess, err := m.ctrl.Sessions().Selected(); err == nil {
			return sess.Name
		}
	}
	return ""
}

// renderPreviewPanel builds the bordered preview box with exactly height
// rows and width columns. The tail of the capture is shown.
func (m *Model) renderPreviewPanel(width, height int) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)
	border := m.styles.PreviewBorder

	title := "Preview"
	if label := m.previewTitle(); label != "" {
		title = "Preview: " + label
	}
	pm := m.ctrl.Preview()
	snap, has := pm.Snapshot()
	age := ""
	if has && !snap.CapturedAt.IsZero() {
		age = " " + humanize.Time(snap.CapturedAt) + " "
	}

	var content []string
	bodyStyle := m.styles.PreviewBody
	switch {
	case has:
		content = snap.Lines()
		if len(content) > innerH {
			content = content[len(content)-innerH:]
		}
	case pm.Err() != nil:
	case pm.Target() != "":
		content = []string{"Loading…"}
		bodyStyle = m.styles.Muted
	default:
		content = []string{"(nothing selected)"}
		bodyStyle = m.styles.Muted
	}
	if err := pm.Err(); err != nil {
		// the error takes the bottom row under the last good capture
		msg := "capture failed: " + tmux.Reason(err)
		if len(content) >= innerH {
			content = content[len(content)-innerH+1:]
		}
		content = append(content, msg)
	}

	titleSeg := " " + title + " "
	dashes := width - 4 - lipgloss.Width(titleSeg) - lipgloss.Width(age)
	if dashes < 0 {
		age = ""
		dashes = width - 4 - lipgloss.Width(titleSeg)
	}
	if dashes < 0 {
		titleSeg = truncate.StringWithTail(titleSeg, uint(max(width-4, 1)), "…")
		dashes = max(width-4-lipgloss.Width(titleSeg), 0)
	}
	rows := make([]string, 0, height)
	rows = append(rows, border.Render(tlc+hz)+
		m.styles.PreviewTitle.Render(titleSeg)+
		border.Render(strings.Repeat(hz, dashes))+
		m.styles.Muted.Render(age)+
		border.Render(hz+trc))
	errRow := -1
	if pm.Err() != nil {
		errRow = len(content) - 1
	}
	for i := 0; i < innerH; i++ {
		var line string
		if i < len(content) {
			line = content[i]
		}
		w := lipgloss.Width(line)
		if w > innerW {
			line = truncate.StringWithTail(line, uint(innerW-1), "…")
			w = lipgloss.Width(line)
		}
		if w < innerW {
			line += strings.Repeat(" ", innerW-w)
		}
		style := bodyStyle
		if i == errRow {
			style = m.styles.PreviewError
		}
		rows = append(rows, border.Render(vt)+style.Render(line)+border.Render(vt))
	}
	rows = append(rows, border.Render(blc+strings.Repeat(hz, innerW)+brc))
	return strings.Join(rows, "\n")
}

// bottomLines renders status, prompt and help below the body.
func (m *Model) bottomLines() []string {
	lines := []string{m.statusLine()}
	switch m.mode {
	case ModeFilter:
		lines = append(lines, m.filter.View())
	case ModeConfirmKill:
		prompt := "Kill session? (y/n)"
		if sess, ok := m.ctrl.PendingKill(); ok {
			prompt = fmt.Sprintf("Kill session %s? (y/n)", sess.Name)
		}
		lines = append(lines, m.styles.Confirm.Render(prompt))
	default:
		lines = append(lines, m.help.View(m.keys))
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.Split(line, "\n")...)
	}
	return out
}

func (m *Model) statusLine() string {
	st, ok := m.ctrl.Status()
	if !ok {
		return ""
	}
	text := truncateText(st.Text, m.width)
	if st.Level == nav.LevelError {
		return m.styles.Error.Render(text)
	}
	return m.styles.Info.Render(text)
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		line.text = truncateText(line.text, width)
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	if width == 1 {
		return truncate.String(text, 1)
	}
	return truncate.StringWithTail(text, uint(width-1), "…")
}
