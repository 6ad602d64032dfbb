package state

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atomicstack/tmuxito/internal/tmux"
)

// SortKey orders the session list.
type SortKey int

const (
	SortName SortKey = iota
	SortDate
	SortAttached
)

var sortKeyNames = [...]string{"name", "date", "attached"}

func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
	return sortKeyNames[k]
}

// Next returns the key that follows k in the name → date → attached cycle.
func (k SortKey) Next() SortKey {
	return (k + 1) % SortKey(len(sortKeyNames))
}

// ParseSortKey accepts name, date (or created) and attached.
func ParseSortKey(value string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "name", "":
		return SortName, nil
	case "date", "created":
		return SortDate, nil
	case "attached":
		return SortAttached, nil
	default:
		return SortName, fmt.Errorf("unknown sort key %q (want name, date or attached)", value)
	}
}

// SortSessions orders sessions in place. The sort is stable, so sessions with
// equal keys keep their input order.
func SortSessions(sessions []tmux.Session, key SortKey) {
	var less func(a, b tmux.Session) bool
	switch key {
	case SortDate:
		less = func(a, b tmux.Session) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortAttached:
		less = func(a, b tmux.Session) bool {
			if a.Attached != b.Attached {
				return a.Attached
			}
			return nameLess(a, b)
		}
	default:
		less = nameLess
	}
	sort.SliceStable(sessions, func(i, j int) bool { return less(sessions[i], sessions[j]) })
}

// nameLess compares case-folded names, then exact names.
func nameLess(a, b tmux.Session) bool {
	fa, fb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if fa != fb {
		return fa < fb
	}
	return a.Name < b.Name
}
