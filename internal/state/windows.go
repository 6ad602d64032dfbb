package state

import (
	"strings"

	"github.com/atomicstack/tmuxito/internal/tmux"
)

// WindowList is the drill-in view over one session's windows, kept in server
// order.
type WindowList struct {
	parent  tmux.Session
	all     []tmux.Window
	visible []tmux.Window
	filter  string
	cursor  cursor
	loaded  bool
}

// NewWindowList returns an empty window list for parent.
func NewWindowList(parent tmux.Session) *WindowList {
	return &WindowList{parent: parent, cursor: cursor{index: -1}}
}

func (l *WindowList) Parent() tmux.Session { return l.parent }

// Loaded reports whether a listing has been applied yet.
func (l *WindowList) Loaded() bool { return l.loaded }

// SetWindows replaces the listing. The first listing selects the active
// window; later ones follow the previously selected window.
func (l *WindowList) SetWindows(windows []tmux.Window) {
	prev := ""
	if win, err := l.Selected(); err == nil {
		prev = win.ID
	}
	first := !l.loaded
	l.loaded = true
	l.all = append([]tmux.Window(nil), windows...)
	l.recompute(prev)
	if first {
		for i, win := range l.visible {
			if win.Active {
				l.cursor.index = i
				break
			}
		}
	}
}

// SetFilter narrows the windows by name.
func (l *WindowList) SetFilter(filter string) bool {
	if filter == l.filter {
		return false
	}
	prev := ""
	if win, err := l.Selected(); err == nil {
		prev = win.ID
	}
	l.filter = filter
	l.recompute(prev)
	if strings.TrimSpace(filter) != "" && len(l.visible) > 0 {
		names := make([]string, len(l.visible))
		for i, win := range l.visible {
			names[i] = win.Name
		}
		l.cursor.set(BestMatchIndex(names, filter), len(l.visible))
	}
	return true
}

func (l *WindowList) Select(i int) bool      { return l.cursor.set(i, len(l.visible)) }
func (l *WindowList) Move(delta int) bool    { return l.cursor.move(delta, len(l.visible)) }
func (l *WindowList) Home() bool             { return l.Select(0) }
func (l *WindowList) End() bool              { return l.Select(len(l.visible) - 1) }
func (l *WindowList) PageUp(page int) bool   { return l.Move(-pageSize(page, len(l.visible))) }
func (l *WindowList) PageDown(page int) bool { return l.Move(pageSize(page, len(l.visible))) }

// Selected returns the selected window or ErrNoSelection.
func (l *WindowList) Selected() (tmux.Window, error) {
	if l.cursor.index < 0 || l.cursor.index >= len(l.visible) {
		return tmux.Window{}, ErrNoSelection
	}
	return l.visible[l.cursor.index], nil
}

func (l *WindowList) Visible() []tmux.Window { return l.visible }
func (l *WindowList) Index() int             { return l.cursor.index }
func (l *WindowList) Len() int               { return len(l.visible) }
func (l *WindowList) Filter() string         { return l.filter }

func (l *WindowList) recompute(prevID string) {
	l.visible = l.visible[:0:0]
	for _, win := range l.all {
		if MatchesFilter(win.Name, l.filter) {
			l.visible = append(l.visible, win)
		}
	}
	if prevID != "" {
		for i, win := range l.visible {
			if win.ID == prevID {
				l.cursor.index = i
				return
			}
		}
	}
	l.cursor.clamp(len(l.visible))
}
