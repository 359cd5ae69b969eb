package sync

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
)

// Reconciler timer defaults.
const (
	DefaultPushDebounce = 2 * time.Second
	DefaultPullInterval = 10 * time.Second
)

// SyncAPI is the slice of the pianobar service the reconciler needs.
type SyncAPI interface {
	GetSyncState(ctx context.Context) (*models.SyncStateResponse, error)
	PushSyncState(ctx context.Context, shared models.SharedRuntimeState, clientID string) error
}

// reconciler keeps the local replica and the hub's authoritative snapshot
// from drifting apart. Pulls happen on a fixed interval regardless of push
// activity, self-healing from missed WebSocket frames; pushes are best-effort
// hints behind a trailing debounce so bursts of local changes collapse into
// one POST. Failures on either path are logged and absorbed.
type reconciler struct {
	api      SyncAPI
	store    *Store
	clientID string
	debounce time.Duration
	interval time.Duration
	logger   *log.Logger

	hints chan struct{}
}

func newReconciler(api SyncAPI, store *Store, clientID string, debounce, interval time.Duration, logger *log.Logger) *reconciler {
	if debounce <= 0 {
		debounce = DefaultPushDebounce
	}
	if interval <= 0 {
		interval = DefaultPullInterval
	}
	return &reconciler{
		api:      api,
		store:    store,
		clientID: clientID,
		debounce: debounce,
		interval: interval,
		logger:   logger,
		hints:    make(chan struct{}, 1),
	}
}

// Hint requests a best-effort push of local shared state. Safe from any
// goroutine; repeated hints within the debounce window collapse.
func (r *reconciler) Hint() {
	select {
	case r.hints <- struct{}{}:
	default:
	}
}

// pullOnce fetches the authoritative snapshot and merges it. Called
// synchronously on session start, before any push can fire, so a stale local
// default never overwrites a fresher hub snapshot.
func (r *reconciler) pullOnce(ctx context.Context) error {
	resp, err := r.api.GetSyncState(ctx)
	if err != nil {
		return err
	}
	if !resp.Success {
		r.logger.Warn("sync-state pull reported failure")
		return nil
	}
	r.store.ApplyPull(resp.State)
	return nil
}

func (r *reconciler) push(ctx context.Context) {
	if err := r.api.PushSyncState(ctx, r.store.SharedHint(), r.clientID); err != nil {
		r.logger.Warn("sync-state push failed", "error", err)
	}
}

// run drives the periodic pull and the debounced push until ctx is done.
func (r *reconciler) run(ctx context.Context) {
	pull := time.NewTicker(r.interval)
	defer pull.Stop()

	debounce := time.NewTimer(r.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case <-pull.C:
			if err := r.pullOnce(ctx); err != nil {
				r.logger.Warn("sync-state pull failed", "error", err)
			}

		case <-r.hints:
			// trailing debounce: restart the window on every new hint
			if pending && !debounce.Stop() {
				<-debounce.C
			}
			debounce.Reset(r.debounce)
			pending = true

		case <-debounce.C:
			pending = false
			r.push(ctx)
		}
	}
}
