package state

import (
	"errors"
	"strings"

	"github.com/atomicstack/tmuxito/internal/tmux"
)

// ErrNoSelection is returned when an operation needs a selected entry and the
// displayed list has none.
var ErrNoSelection = errors.New("nothing selected")

// ViewState is the user-controlled part of the session list.
type ViewState struct {
	Sort     SortKey
	Filter   string
	Selected int
}

// Recompute derives the displayed sequence: sort(filter(sessions)). The input
// is not modified.
func Recompute(sessions []tmux.Session, key SortKey, filter string) []tmux.Session {
	out := make([]tmux.Session, 0, len(sessions))
	for _, sess := range sessions {
		if MatchesFilter(sess.Name, filter) {
			out = append(out, sess)
		}
	}
	SortSessions(out, key)
	return out
}

// SessionList holds the last listing and the view derived from it. After
// every change the selection follows the previously selected session when it
// is still displayed, and is clamped otherwise.
type SessionList struct {
	all     []tmux.Session
	visible []tmux.Session
	sortKey SortKey
	filter  string
	cursor  cursor
}

// NewSessionList returns an empty list sorted by key.
func NewSessionList(key SortKey) *SessionList {
	return &SessionList{sortKey: key, cursor: cursor{index: -1}}
}

// SetSessions replaces the underlying listing.
func (l *SessionList) SetSessions(sessions []tmux.Session) {
	prev := l.selectedID()
	l.all = append([]tmux.Session(nil), sessions...)
	l.recompute(prev)
}

// SetFilter changes the filter. When the filter is non-empty the selection
// moves to the best match among the displayed sessions.
func (l *SessionList) SetFilter(filter string) bool {
	if filter == l.filter {
		return false
	}
	l.filter = filter
	l.recompute(l.selectedID())
	if strings.TrimSpace(filter) != "" && len(l.visible) > 0 {
		l.cursor.set(BestMatchIndex(l.names(), filter), len(l.visible))
	}
	return true
}

// SetSort changes the sort key.
func (l *SessionList) SetSort(key SortKey) {
	if key == l.sortKey {
		return
	}
	l.sortKey = key
	l.recompute(l.selectedID())
}

// CycleSort advances the sort key and returns the new one.
func (l *SessionList) CycleSort() SortKey {
	l.SetSort(l.sortKey.Next())
	return l.sortKey
}

// Select moves the selection to index i, clamped to the displayed range.
func (l *SessionList) Select(i int) bool { return l.cursor.set(i, len(l.visible)) }

// Move shifts the selection by delta.
func (l *SessionList) Move(delta int) bool { return l.cursor.move(delta, len(l.visible)) }

// Home selects the first session.
func (l *SessionList) Home() bool { return l.Select(0) }

// End selects the last session.
func (l *SessionList) End() bool { return l.Select(len(l.visible) - 1) }

// PageUp moves up by page entries.
func (l *SessionList) PageUp(page int) bool {
	return l.Move(-pageSize(page, len(l.visible)))
}

// PageDown moves down by page entries.
func (l *SessionList) PageDown(page int) bool {
	return l.Move(pageSize(page, len(l.visible)))
}

// SelectID selects the displayed session with id, if any.
func (l *SessionList) SelectID(id string) bool {
	if idx := l.indexOf(id); idx >= 0 {
		return l.Select(idx)
	}
	return false
}

// SelectName selects the displayed session named name, if any.
func (l *SessionList) SelectName(name string) bool {
	for i, sess := range l.visible {
		if sess.Name == name {
			return l.Select(i)
		}
	}
	return false
}

// Selected returns the selected session or ErrNoSelection.
func (l *SessionList) Selected() (tmux.Session, error) {
	if l.cursor.index < 0 || l.cursor.index >= len(l.visible) {
		return tmux.Session{}, ErrNoSelection
	}
	return l.visible[l.cursor.index], nil
}

// Visible returns the displayed sequence. Callers must not modify it.
func (l *SessionList) Visible() []tmux.Session { return l.visible }

// All returns the unfiltered listing in server order.
func (l *SessionList) All() []tmux.Session { return l.all }

// Names returns the names of every listed session, filtered or not.
func (l *SessionList) Names() []string {
	names := make([]string, len(l.all))
	for i, sess := range l.all {
		names[i] = sess.Name
	}
	return names
}

func (l *SessionList) Index() int       { return l.cursor.index }
func (l *SessionList) Len() int         { return len(l.visible) }
func (l *SessionList) Filter() string   { return l.filter }
func (l *SessionList) SortKey() SortKey { return l.sortKey }

// View returns the current view state.
func (l *SessionList) View() ViewState {
	return ViewState{Sort: l.sortKey, Filter: l.filter, Selected: l.cursor.index}
}

func (l *SessionList) recompute(prevID string) {
	l.visible = Recompute(l.all, l.sortKey, l.filter)
	if prevID != "" {
		if idx := l.indexOf(prevID); idx >= 0 {
			l.cursor.index = idx
			return
		}
	}
	l.cursor.clamp(len(l.visible))
}

func (l *SessionList) selectedID() string {
	if sess, err := l.Selected(); err == nil {
		return sess.ID
	}
	return ""
}

func (l *SessionList) indexOf(id string) int {
	for i, sess := range l.visible {
		if sess.ID == id {
			return i
		}
	}
	return -1
}

func (l *SessionList) names() []string {
	names := make([]string, len(l.visible))
	for i, sess := range l.visible {
		names[i] = sess.Name
	}
	return names
}
