package nav

import (
	"os/exec"
	"time"

	"github.com/atomicstack/tmuxito/internal/preview"
	"github.com/atomicstack/tmuxito/internal/tmux"
)

// SessionsLoadedMsg carries a parsed session listing.
type SessionsLoadedMsg struct {
	Seq   uint64
	Batch tmux.SessionBatch
	Err   error
}

// WindowsLoadedMsg carries a parsed window listing for Parent.
type WindowsLoadedMsg struct {
	Seq    uint64
	Parent tmux.Session
	Batch  tmux.WindowBatch
	Err    error
}

// PreviewLoadedMsg carries a finished capture.
type PreviewLoadedMsg struct {
	Result preview.Result
}

// MutationDoneMsg reports the outcome of new, rename or kill.
type MutationDoneMsg struct {
	Op     string
	Target string
	Name   string
	Err    error
}

// AttachReadyMsg carries the prepared attach command; the controller hands
// the terminal over when it arrives.
type AttachReadyMsg struct {
	Target string
	Cmd    *exec.Cmd
	Err    error
}

// AttachDoneMsg is delivered when the attached client exits.
type AttachDoneMsg struct {
	Target string
	Err    error
}

// PreviewTickMsg triggers a periodic preview refresh.
type PreviewTickMsg struct {
	At time.Time
}
