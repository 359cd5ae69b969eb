package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/DOUGSKEEZ/montyctl/internal/cache"
	"github.com/DOUGSKEEZ/montyctl/internal/models"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
)

// LibraryAPI is the slice of the jukebox service the session needs for
// one-shot library refetches.
type LibraryAPI interface {
	GetLibrary(ctx context.Context) ([]models.JukeboxTrack, error)
}

// Options configures a Session. URL, Pianobar and Logger are required;
// everything else has working defaults.
type Options struct {
	URL      string
	Pianobar SyncAPI
	Jukebox  LibraryAPI   // optional, enables library refetch
	Cache    *cache.Store // optional, enables snapshot persistence
	Dialer   Dialer       // optional, defaults to gorilla/websocket
	Logger   *log.Logger
	ClientID string // optional, generated when empty

	ReconnectDelay time.Duration
	MaxReconnects  int
	PushDebounce   time.Duration
	PullInterval   time.Duration
	TickInterval   time.Duration
}

// Session is a live synchronization session against the hub: one socket, one
// reconciler, one progress ticker, all feeding one owned Store.
type Session struct {
	store    *Store
	conn     *connManager
	rec      *reconciler
	ticker   *progressTicker
	cache    *cache.Store
	jukebox  LibraryAPI
	logger   *log.Logger
	clientID string

	cancel context.CancelFunc
	wg     gosync.WaitGroup
}

// NewSession wires a session from options. It does not touch the network;
// call Start to begin synchronizing.
func NewSession(opts Options) (*Session, error) {
	if opts.Pianobar == nil {
		return nil, fmt.Errorf("%w: pianobar service is required", shared.ErrInvalidArgument)
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("%w: websocket url is required", shared.ErrInvalidArgument)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Dialer == nil {
		opts.Dialer = NewDialer()
	}
	if opts.ClientID == "" {
		opts.ClientID = shared.GenerateID()
	}

	store := NewStore()
	rt := newRouter(store, opts.Logger)

	conn := newConnManager(opts.URL, opts.Dialer, store, rt.dispatch, opts.Logger)
	if opts.ReconnectDelay > 0 {
		conn.delay = opts.ReconnectDelay
	}
	if opts.MaxReconnects > 0 {
		conn.maxAttempts = opts.MaxReconnects
	}

	rec := newReconciler(opts.Pianobar, store, opts.ClientID, opts.PushDebounce, opts.PullInterval, opts.Logger)

	return &Session{
		store:    store,
		conn:     conn,
		rec:      rec,
		ticker:   newProgressTicker(store, opts.TickInterval),
		cache:    opts.Cache,
		jukebox:  opts.Jukebox,
		logger:   opts.Logger,
		clientID: opts.ClientID,
	}, nil
}

// Store exposes the session's state for reads and subscriptions.
func (s *Session) Store() *Store {
	return s.store
}

// ClientID returns the per-session identifier included in push hints.
func (s *Session) ClientID() string {
	return s.clientID
}

// Hint schedules a debounced push of local shared state to the hub.
func (s *Session) Hint() {
	s.rec.Hint()
}

// Start restores the cached snapshot, performs the blocking authoritative
// pull, then launches the socket, reconciler, ticker and persistence loops.
// A failed initial pull is not fatal: the session continues on the
// provisional cache and self-heals on the next poll.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	if s.cache != nil {
		if s.cache.Validate(cache.Version) {
			if snap, err := s.cache.LoadSnapshot(); err == nil {
				s.store.RestoreTrack(*snap)
				s.logger.Debug("restored snapshot from cache", "title", snap.Title)
			} else if !errors.Is(err, shared.ErrCacheMiss) {
				s.logger.Warn("cache read failed", "error", err)
			}
		} else {
			s.logger.Info("cache version changed, starting from blank snapshot", "version", cache.Version)
		}
	}

	// Pull before any push can fire so stale local defaults never overwrite
	// a fresher hub snapshot.
	if err := s.rec.pullOnce(ctx); err != nil {
		s.logger.Warn("initial sync-state pull failed", "error", err)
	}

	for _, loop := range []func(context.Context){
		s.conn.run, s.rec.run, s.ticker.run, s.persistLoop,
	} {
		s.wg.Add(1)
		go func(loop func(context.Context)) {
			defer s.wg.Done()
			loop(ctx)
		}(loop)
	}
}

// Stop cancels all session goroutines and waits for them to exit. Pending
// reconnect timers are cancelled and the socket closed; no callbacks fire
// after Stop returns.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// persistLoop mirrors every snapshot mutation to the cache and performs the
// one-shot library refetch when a jukebox save lands.
func (s *Session) persistLoop(ctx context.Context) {
	sub := s.store.Subscribe()
	var lastSaved models.PlaybackSnapshot

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub:
			v := s.store.View()

			if s.cache != nil && v.Track != lastSaved {
				if err := s.cache.SaveSnapshot(v.Track); err != nil {
					s.logger.Warn("snapshot persist failed", "error", err)
				} else {
					lastSaved = v.Track
				}
			}

			if v.Jukebox.LibraryStale && s.jukebox != nil {
				if tracks, err := s.jukebox.GetLibrary(ctx); err != nil {
					s.logger.Warn("library refetch failed", "error", err)
					s.store.ClearLibraryStale()
				} else {
					s.store.SetLibrary(tracks)
				}
			}
		}
	}
}
