package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
	"github.com/DOUGSKEEZ/montyctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// Watch launches the live now-playing dashboard over a sync session.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/montyctl-watch.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	store, err := r.openCache()
	if err != nil {
		r.logger.Warn("snapshot cache unavailable, continuing without persistence", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	session, err := r.newSession(store)
	if err != nil {
		return fmt.Errorf("failed to build session: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session.Start(ctx)
	defer session.Stop()

	model := ui.NewModel(ctx, session.Store(), r.pianobar, session.Hint)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}

	return nil
}
