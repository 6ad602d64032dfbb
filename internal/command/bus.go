// Package command runs gateway work off the UI loop and traces each request.
package command

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/atomicstack/tmuxito/internal/logging/events"
)

// Request is one unit of background work. Run receives the bus context and
// returns the message delivered to the update loop.
type Request struct {
	ID     string
	Label  string
	Target string
	Run    func(ctx context.Context) tea.Msg
}

// Bus turns requests into Bubble Tea commands.
type Bus struct {
	ctx context.Context
}

// New returns a bus whose requests run under ctx.
func New(ctx context.Context) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx}
}

// Execute wraps req into a command while emitting trace logs. A request
// without an ID gets a fresh one.
func (b *Bus) Execute(req Request) tea.Cmd {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	label := req.Label
	if req.Target != "" {
		label = req.Label + " " + req.Target
	}
	events.Command.Queue(req.ID, label)
	ctx := b.ctx
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, label)
			return nil
		}
		start := time.Now()
		msg := req.Run(ctx)
		if msg == nil {
			events.Command.NoOp(req.ID, label)
			return nil
		}
		events.Command.Result(req.ID, label, fmt.Sprintf("%T", msg), time.Since(start))
		return msg
	}
}
