package sync

import (
	"sync"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
)

// View is an immutable copy of the session state handed to observers.
type View struct {
	Track             models.PlaybackSnapshot
	Shared            models.SharedRuntimeState
	Jukebox           models.JukeboxState
	Stations          []models.Station
	Library           []models.JukeboxTrack
	ActiveSource      string
	Connected         bool
	ReconnectAttempts int
}

// Store owns the in-memory session state. All mutation happens through its
// action methods under a single mutex; reads go through View. Observers get
// a coalescing change signal via Subscribe.
type Store struct {
	mu sync.RWMutex

	track       models.PlaybackSnapshot
	trackSource string // source that last wrote track metadata
	shared      models.SharedRuntimeState
	jukebox     models.JukeboxState
	stations    []models.Station
	library     []models.JukeboxTrack

	activeSource      string
	connected         bool
	reconnectAttempts int

	subs []chan struct{}
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Subscribe returns a channel that receives a signal after state changes.
// Signals coalesce: a slow reader sees at least one signal for any burst
// of mutations, not one per mutation. Each subscriber gets its own channel.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := s.subs
	s.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// View returns a copy of the current state.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		Track:             s.track,
		Shared:            s.shared,
		Jukebox:           s.jukebox,
		ActiveSource:      s.activeSource,
		Connected:         s.connected,
		ReconnectAttempts: s.reconnectAttempts,
	}
	v.Stations = append(v.Stations, s.stations...)
	v.Library = append(v.Library, s.library...)
	v.Jukebox.Queue = append([]models.JukeboxTrack(nil), s.jukebox.Queue...)
	return v
}

// SetConnected records socket state; attempts reset to zero on connect.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	if connected {
		s.reconnectAttempts = 0
	}
	s.mu.Unlock()
	s.notify()
}

// RecordReconnectAttempt increments the bounded reconnect counter and
// returns the new value.
func (s *Store) RecordReconnectAttempt() int {
	s.mu.Lock()
	s.reconnectAttempts++
	n := s.reconnectAttempts
	s.mu.Unlock()
	s.notify()
	return n
}

// ApplyStatus updates the running/playing flags from a status frame. When the
// new state indicates active playback the reporting source claims the
// transport (last writer wins); only a source-killed frame demotes it.
func (s *Store) ApplyStatus(source string, status models.SharedRuntimeState) {
	s.mu.Lock()
	s.shared = status
	if status.IsPlaying {
		s.activeSource = source
	}
	s.mu.Unlock()
	s.notify()
}

// ApplySong merges an incoming track into the snapshot. A song is new when
// title or artist differs from the stored value; a new song takes the
// server-provided elapsed seconds wholesale. For the same song the local
// elapsed count is preserved, moving only forward if the server is ahead,
// so network jitter never shows as a rewind.
func (s *Store) ApplySong(source string, incoming models.PlaybackSnapshot) {
	s.mu.Lock()
	if s.track.SameSong(incoming.Title, incoming.Artist) {
		if incoming.SongPlayed < s.track.SongPlayed {
			incoming.SongPlayed = s.track.SongPlayed
		}
		if incoming.Rating < s.track.Rating {
			// love is optimistic and sticky within a song
			incoming.Rating = s.track.Rating
		}
	}
	incoming.Clamp()
	s.track = incoming
	s.trackSource = source
	s.mu.Unlock()
	s.notify()
}

// ApplyLove marks the current track loved.
func (s *Store) ApplyLove() {
	s.mu.Lock()
	s.track.Rating = models.RatingLoved
	s.mu.Unlock()
	s.notify()
}

// SetStations replaces the station list.
func (s *Store) SetStations(stations []models.Station) {
	s.mu.Lock()
	s.stations = stations
	s.mu.Unlock()
	s.notify()
}

// KillSource handles a source-killed frame. The active-source marker is
// cleared only when the killed source is the one currently active, so a
// just-claimed new source is never clobbered. Track metadata owned by the
// killed source is dropped either way.
func (s *Store) KillSource(source string) {
	s.mu.Lock()
	changed := false
	if s.activeSource == source {
		s.activeSource = ""
		changed = true
	}
	if s.trackSource == source {
		s.track = models.PlaybackSnapshot{}
		s.trackSource = ""
		changed = true
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// SetQueue replaces the jukebox queue.
func (s *Store) SetQueue(queue []models.JukeboxTrack) {
	s.mu.Lock()
	s.jukebox.Queue = queue
	s.mu.Unlock()
	s.notify()
}

// SetSaveStatus records the outcome of a jukebox save and flags the library
// for a one-shot refetch on success.
func (s *Store) SetSaveStatus(status string) {
	s.mu.Lock()
	s.jukebox.SaveStatus = status
	if status == "complete" {
		s.jukebox.LibraryStale = true
	}
	s.mu.Unlock()
	s.notify()
}

// SetJukeboxProgress records the jukebox playback position.
func (s *Store) SetJukeboxProgress(seconds int) {
	s.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	s.jukebox.Progress = seconds
	s.mu.Unlock()
	s.notify()
}

// ClearLibraryStale drops the refetch flag without replacing the library,
// used when a refetch attempt fails so it doesn't loop.
func (s *Store) ClearLibraryStale() {
	s.mu.Lock()
	s.jukebox.LibraryStale = false
	s.mu.Unlock()
}

// SetLibrary stores a fetched library and clears the stale flag.
func (s *Store) SetLibrary(tracks []models.JukeboxTrack) {
	s.mu.Lock()
	s.library = tracks
	s.jukebox.LibraryStale = false
	s.mu.Unlock()
	s.notify()
}

// RestoreTrack seeds the snapshot from the persistent cache. The restored
// value is provisional; the first authoritative pull may replace it.
func (s *Store) RestoreTrack(snap models.PlaybackSnapshot) {
	snap.Clamp()
	s.mu.Lock()
	s.track = snap
	s.mu.Unlock()
	s.notify()
}

// Tick advances elapsed seconds by one while the player is on, playing, and
// the song duration is known, clamped to the duration. Returns whether the
// counter moved.
func (s *Store) Tick() bool {
	s.mu.Lock()
	advanced := false
	if s.shared.IsRunning && s.shared.IsPlaying && s.track.SongDuration > 0 &&
		s.track.SongPlayed < s.track.SongDuration {
		s.track.SongPlayed++
		advanced = true
	}
	s.mu.Unlock()
	if advanced {
		s.notify()
	}
	return advanced
}

// ApplyPull merges an authoritative sync-state snapshot. Server values win
// for every field they provide, except elapsed seconds for the same song,
// which stays with the local ticker (see ApplySong).
func (s *Store) ApplyPull(state models.SyncState) {
	s.mu.Lock()
	s.shared = state.Shared
	s.mu.Unlock()
	s.notify()

	if state.Track != nil {
		s.ApplySong(models.SourcePianobar, *state.Track)
	}
}

// SharedHint returns the replica shared state for a best-effort push.
func (s *Store) SharedHint() models.SharedRuntimeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shared
}
