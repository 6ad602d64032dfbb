package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmuxito/internal/backend"
	"github.com/atomicstack/tmuxito/internal/command"
	"github.com/atomicstack/tmuxito/internal/nav"
	"github.com/atomicstack/tmuxito/internal/state"
	"github.com/atomicstack/tmuxito/internal/theme"
	"github.com/atomicstack/tmuxito/internal/tmux"
	"github.com/atomicstack/tmuxito/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath           string
	TmuxBinary           string
	Timeout              time.Duration
	PreviewInterval      time.Duration
	DefaultSort          state.SortKey
	SkipKillConfirmation bool
	Theme                string
}

var (
	lookupBinary = tmux.LookupBinary
	runProgram   = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
)

// Build wires the gateway, controller and model for cfg without starting the
// program. The returned stop function releases the preview ticker.
func Build(ctx context.Context, cfg Config) (*ui.Model, func(), error) {
	binary, err := lookupBinary(cfg.TmuxBinary)
	if err != nil {
		return nil, nil, err
	}
	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve socket path: %w", err)
	}
	styles, err := theme.ForTheme(cfg.Theme)
	if err != nil {
		return nil, nil, err
	}

	gw := tmux.NewGateway(tmux.Options{
		Binary:     binary,
		SocketPath: socketPath,
		Timeout:    cfg.Timeout,
		InsideTmux: tmux.InsideTmux(),
	})
	ctrl := nav.New(gw, command.New(ctx), nav.Options{
		SkipKillConfirmation: cfg.SkipKillConfirmation,
		DefaultSort:          cfg.DefaultSort,
	})

	var ticker *backend.Ticker
	if cfg.PreviewInterval > 0 {
		ticker = backend.NewTicker(cfg.PreviewInterval)
	}
	stop := func() {
		if ticker != nil {
			ticker.Stop()
		}
	}
	model := ui.NewModel(ui.Options{
		Controller: ctrl,
		Ticker:     ticker,
		Styles:     styles,
	})
	return model, stop, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model, stop, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer stop()

	err = runProgram(model)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
