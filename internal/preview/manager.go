// Package preview tracks which target the preview pane shows and decides
// whether a capture result may be displayed.
//
// Every capture is tagged with a sequence number. A result is applied only
// when it belongs to the current target and is newer than the last result
// applied for it, so a slow capture for an earlier selection can never
// replace the preview of the current one.
package preview

import (
	"github.com/atomicstack/tmuxito/internal/logging/events"
	"github.com/atomicstack/tmuxito/internal/tmux"
)

// Request asks for a capture of Target; Seq identifies it. Forced requests
// must not share a capture that was already running.
type Request struct {
	Target string
	Seq    uint64
	Forced bool
}

// Result carries a finished capture back to the Manager.
type Result struct {
	Request
	Snapshot tmux.PreviewSnapshot
	Err      error
}

// Outcome describes what Resolve did with a result.
type Outcome int

const (
	Applied Outcome = iota
	Stale
	Cleared
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Stale:
		return "stale"
	case Cleared:
		return "cleared"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Manager is not safe for concurrent use; it is driven from the UI update
// loop while captures run elsewhere.
type Manager struct {
	target   string
	seq      uint64
	inflight map[string]uint64
	// applied is the newest sequence shown for the current target.
	applied uint64

	snapshot tmux.PreviewSnapshot
	has      bool
	err      error
}

func NewManager() *Manager {
	return &Manager{inflight: make(map[string]uint64)}
}

// Select makes target current. Changing the target clears the displayed
// snapshot and returns a request for the new one unless a capture of that
// target is already in flight, which is then adopted. An empty target
// clears the preview.
func (m *Manager) Select(target string) (Request, bool) {
	if target == m.target {
		return Request{}, false
	}
	m.target = target
	m.applied = 0
	m.snapshot = tmux.PreviewSnapshot{}
	m.has = false
	m.err = nil
	if target == "" {
		return Request{}, false
	}
	return m.issue()
}

// Tick returns a refresh request for the current target unless one is
// already outstanding.
func (m *Manager) Tick() (Request, bool) {
	if m.target == "" {
		return Request{}, false
	}
	return m.issue()
}

// Refresh is Tick without the in-flight check. Any earlier request for the
// target becomes stale once the newer one is applied.
func (m *Manager) Refresh() (Request, bool) {
	if m.target == "" {
		return Request{}, false
	}
	delete(m.inflight, m.target)
	req, ok := m.issue()
	req.Forced = ok
	return req, ok
}

func (m *Manager) issue() (Request, bool) {
	if _, busy := m.inflight[m.target]; busy {
		return Request{}, false
	}
	m.seq++
	m.inflight[m.target] = m.seq
	events.Preview.Request(m.target, m.seq)
	return Request{Target: m.target, Seq: m.seq}, true
}

// Resolve folds a finished capture into the manager.
func (m *Manager) Resolve(res Result) Outcome {
	if seq, ok := m.inflight[res.Target]; ok && seq == res.Seq {
		delete(m.inflight, res.Target)
	}
	if res.Target != m.target || res.Seq <= m.applied {
		events.Preview.Stale(res.Target, res.Seq)
		return Stale
	}
	m.applied = res.Seq
	if res.Err != nil {
		if tmux.IsTargetMissing(res.Err) {
			m.snapshot = tmux.PreviewSnapshot{}
			m.has = false
			m.err = nil
			events.Preview.Cleared(res.Target)
			return Cleared
		}
		// the previous snapshot stays visible next to the error
		m.err = res.Err
		events.Preview.Failed(res.Target, res.Err)
		return Failed
	}
	m.snapshot = res.Snapshot
	m.has = true
	m.err = nil
	events.Preview.Applied(res.Target, res.Seq, len(res.Snapshot.Lines()))
	return Applied
}

// Snapshot returns the displayed capture, if any.
func (m *Manager) Snapshot() (tmux.PreviewSnapshot, bool) { return m.snapshot, m.has }

// Err returns the error of the last failed capture for the current target.
func (m *Manager) Err() error { return m.err }

func (m *Manager) Target() string { return m.target }

// Reset forgets the target and every in-flight request.
func (m *Manager) Reset() {
	m.target = ""
	m.applied = 0
	m.snapshot = tmux.PreviewSnapshot{}
	m.has = false
	m.err = nil
	m.inflight = make(map[string]uint64)
}
