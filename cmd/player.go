package main

import (
	"context"
	"fmt"

	"github.com/DOUGSKEEZ/montyctl/internal/formatter"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlayerStatus fetches and prints the hub's current player state.
func (r *Runner) PlayerStatus(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	state, err := r.pianobar.GetSyncState(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch player status: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(state, false)
	}

	r.output.Write(formatter.FormatSnapshot(state.State))
	return nil
}

// PlayerControl returns an action dispatching the named pianobar control.
func (r *Runner) PlayerControl(action string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		loadConfigFlag(r, cmd)

		r.logger.Info("dispatching player control", "action", action)
		if err := r.pianobar.Control(ctx, action, nil); err != nil {
			return fmt.Errorf("control %s failed: %w", action, err)
		}

		r.writePlainln("✓ %s", action)
		return nil
	}
}

// PlayerStations lists available Pandora stations.
func (r *Runner) PlayerStations(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	stations, err := r.pianobar.GetStations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stations: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stations, false)
	}

	if len(stations) == 0 {
		r.writePlainln("No stations available (is the player running?)")
		return nil
	}

	for _, st := range stations {
		r.writePlainln("%s) %s", st.ID, st.Name)
	}
	return nil
}

// PlayerSelectStation switches the hub to the given station.
func (r *Runner) PlayerSelectStation(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: station id", shared.ErrMissingArgument)
	}

	r.logger.Info("selecting station", "id", id)
	if err := r.pianobar.SelectStation(ctx, id); err != nil {
		return fmt.Errorf("failed to select station: %w", err)
	}

	r.writePlainln("✓ station %s selected", id)
	return nil
}
