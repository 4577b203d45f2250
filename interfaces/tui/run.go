package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"thoughtgraph/application/visualization"
	"thoughtgraph/domain/config"
	"thoughtgraph/infrastructure/watch"
)

// Options configures an interactive run
type Options struct {
	Session *visualization.Session
	Config  *config.DomainConfig
	Logger  *zap.Logger

	// Watcher, when set, rebuilds the graph whenever the store changes
	Watcher *watch.StoreWatcher

	// Probe defaults to ProbeTerminal
	Probe Probe

	Input  io.Reader
	Output io.Writer
}

// Run shows the graph view until the user quits or ctx is cancelled. When
// no terminal is available the session is marked unavailable and the probe
// error is returned without starting the program.
func Run(ctx context.Context, opts Options) error {
	probe := opts.Probe
	if probe == nil {
		probe = ProbeTerminal
	}
	if err := probe(); err != nil {
		opts.Session.MarkUnavailable("The interactive graph needs a terminal. Use `thoughts export` for a static view.")
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	programCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	model := NewModel(programCtx, opts.Session, opts.Config, opts.Logger)

	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(programCtx),
	}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	program := tea.NewProgram(model, programOpts...)
	model.SetSender(program.Send)

	g.Go(func() error {
		// the watcher stops with the program
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	if opts.Watcher != nil {
		g.Go(func() error {
			return opts.Watcher.Run(programCtx, func() { program.Send(storeChangedMsg{}) })
		})
	}

	err := g.Wait()
	opts.Session.Close()
	return err
}
