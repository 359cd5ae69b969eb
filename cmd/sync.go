package main

import (
	"context"
	"fmt"

	"github.com/DOUGSKEEZ/montyctl/internal/formatter"
	"github.com/urfave/cli/v3"
)

// SyncState performs a one-shot authoritative pull and prints the result.
func (r *Runner) SyncState(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	state, err := r.pianobar.GetSyncState(ctx)
	if err != nil {
		return fmt.Errorf("failed to pull sync-state: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(state, cmd.Bool("pretty"))
	}

	r.output.Write(formatter.FormatSnapshot(state.State))
	return nil
}
