package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
)

// fakeSyncAPI serves a canned pull response and records pushes.
type fakeSyncAPI struct {
	mu       gosync.Mutex
	resp     *models.SyncStateResponse
	pullErr  error
	pushes   []models.SharedRuntimeState
	pushedID string
}

func (f *fakeSyncAPI) GetSyncState(ctx context.Context) (*models.SyncStateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return f.resp, nil
}

func (f *fakeSyncAPI) PushSyncState(ctx context.Context, state models.SharedRuntimeState, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, state)
	f.pushedID = clientID
	return nil
}

func (f *fakeSyncAPI) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func TestPullOnce(t *testing.T) {
	t.Run("applies the authoritative snapshot", func(t *testing.T) {
		store := NewStore()
		api := &fakeSyncAPI{resp: &models.SyncStateResponse{
			Success: true,
			State: models.SyncState{
				Shared: models.SharedRuntimeState{IsRunning: true, IsPlaying: true, CurrentStation: "2"},
				Track:  &models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237},
			},
		}}
		r := newReconciler(api, store, "client-1", time.Second, time.Minute, shared.NewLogger(nil))

		if err := r.pullOnce(context.Background()); err != nil {
			t.Fatalf("pullOnce failed: %v", err)
		}

		v := store.View()
		if v.Shared.CurrentStation != "2" || v.Track.Title != "Peg" {
			t.Errorf("state after pull = shared %+v track %+v", v.Shared, v.Track)
		}
	})

	t.Run("unsuccessful response leaves state alone", func(t *testing.T) {
		store := NewStore()
		api := &fakeSyncAPI{resp: &models.SyncStateResponse{Success: false}}
		r := newReconciler(api, store, "client-1", time.Second, time.Minute, shared.NewLogger(nil))

		if err := r.pullOnce(context.Background()); err != nil {
			t.Fatalf("pullOnce failed: %v", err)
		}
		if v := store.View(); v.Shared.IsRunning {
			t.Errorf("state mutated by failed pull: %+v", v.Shared)
		}
	})

	t.Run("transport error surfaces", func(t *testing.T) {
		store := NewStore()
		api := &fakeSyncAPI{pullErr: shared.ErrHubUnavailable}
		r := newReconciler(api, store, "client-1", time.Second, time.Minute, shared.NewLogger(nil))

		if err := r.pullOnce(context.Background()); !errors.Is(err, shared.ErrHubUnavailable) {
			t.Errorf("err = %v, want ErrHubUnavailable", err)
		}
	})
}

func TestReconcilerDebouncedPush(t *testing.T) {
	store := NewStore()
	store.ApplyStatus(models.SourcePianobar, models.SharedRuntimeState{IsRunning: true, IsPlaying: true})
	api := &fakeSyncAPI{resp: &models.SyncStateResponse{Success: true}}
	r := newReconciler(api, store, "client-9", 20*time.Millisecond, time.Hour, shared.NewLogger(nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.run(ctx)
	}()

	// a burst of hints collapses into one push after the window
	for i := 0; i < 5; i++ {
		r.Hint()
	}

	deadline := time.After(5 * time.Second)
	for api.pushCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("push never fired")
		case <-time.After(time.Millisecond):
		}
	}

	// let a second window elapse to catch stray extra pushes
	time.Sleep(60 * time.Millisecond)
	if got := api.pushCount(); got != 1 {
		t.Errorf("push count = %d, want 1", got)
	}

	api.mu.Lock()
	pushed, id := api.pushes[0], api.pushedID
	api.mu.Unlock()
	if !pushed.IsPlaying {
		t.Errorf("pushed state = %+v, want the store's shared replica", pushed)
	}
	if id != "client-9" {
		t.Errorf("pushed client id = %q, want client-9", id)
	}

	cancel()
	<-done
}

func TestReconcilerPeriodicPull(t *testing.T) {
	store := NewStore()
	api := &fakeSyncAPI{resp: &models.SyncStateResponse{
		Success: true,
		State: models.SyncState{
			Shared: models.SharedRuntimeState{IsRunning: true, CurrentStation: "7"},
		},
	}}
	r := newReconciler(api, store, "client-1", time.Hour, 10*time.Millisecond, shared.NewLogger(nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.run(ctx)
	}()

	deadline := time.After(5 * time.Second)
	for store.View().Shared.CurrentStation != "7" {
		select {
		case <-deadline:
			t.Fatal("periodic pull never applied")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	<-done
}
