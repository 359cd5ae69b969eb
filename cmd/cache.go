package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/DOUGSKEEZ/montyctl/internal/cache"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheShow prints the cached snapshot and its version tag.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	store, err := r.openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	version := store.StoredVersion()
	if version == "" {
		version = "(unset)"
	}
	r.writePlainln("Cache version: %s (build expects %s)", version, cache.Version)

	snap, err := store.LoadSnapshot()
	if err != nil {
		if errors.Is(err, shared.ErrCacheMiss) {
			r.writePlainln("No cached snapshot")
			return nil
		}
		return fmt.Errorf("failed to read cache: %w", err)
	}

	return r.writeJSON(snap, true)
}

// CacheClear removes the cached snapshot.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	loadConfigFlag(r, cmd)

	store, err := r.openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.writePlainln("✓ cache cleared")
	return nil
}
