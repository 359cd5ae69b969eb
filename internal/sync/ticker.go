package sync

import (
	"context"
	"time"
)

// DefaultTickInterval is the local progress cadence between server pushes.
const DefaultTickInterval = time.Second

// progressTicker advances the elapsed-seconds counter once per interval for
// perceived smoothness between hub updates. The gating (player on, playing,
// known duration, clamp) lives in [Store.Tick]; stopping is immediate on
// ctx cancellation, so no timer outlives the session.
type progressTicker struct {
	store    *Store
	interval time.Duration
}

func newProgressTicker(store *Store, interval time.Duration) *progressTicker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &progressTicker{store: store, interval: interval}
}

func (p *progressTicker) run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.store.Tick()
		}
	}
}
