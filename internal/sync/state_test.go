package sync

import (
	"testing"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
)

func playingState() models.SharedRuntimeState {
	return models.SharedRuntimeState{IsRunning: true, IsPlaying: true, CurrentStation: "0"}
}

func TestApplySong(t *testing.T) {
	t.Run("new song takes server progress wholesale", func(t *testing.T) {
		s := NewStore()
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237, SongPlayed: 40})
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Aja", Artist: "Steely Dan", SongDuration: 480, SongPlayed: 5})

		v := s.View()
		if v.Track.Title != "Aja" || v.Track.SongPlayed != 5 {
			t.Errorf("got %q at %ds, want Aja at 5s", v.Track.Title, v.Track.SongPlayed)
		}
	})

	t.Run("same song keeps local progress against a lagging server", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, playingState())
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237, SongPlayed: 8})

		for i := 0; i < 3; i++ {
			s.Tick()
		}

		// server repeats the song with an older elapsed count
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237, SongPlayed: 5})

		if got := s.View().Track.SongPlayed; got != 11 {
			t.Errorf("SongPlayed = %d, want 11 (local count preserved)", got)
		}
	})

	t.Run("same song moves forward when server is ahead", func(t *testing.T) {
		s := NewStore()
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237, SongPlayed: 5})
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237, SongPlayed: 90})

		if got := s.View().Track.SongPlayed; got != 90 {
			t.Errorf("SongPlayed = %d, want 90", got)
		}
	})

	t.Run("artist change alone is a new song", func(t *testing.T) {
		s := NewStore()
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Layla", Artist: "Derek and the Dominos", SongDuration: 427, SongPlayed: 300})
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Layla", Artist: "Eric Clapton", SongDuration: 285, SongPlayed: 0})

		v := s.View()
		if v.Track.SongPlayed != 0 || v.Track.SongDuration != 285 {
			t.Errorf("got %d/%d, want fresh 0/285", v.Track.SongPlayed, v.Track.SongDuration)
		}
	})

	t.Run("love sticks across same-song refreshes", func(t *testing.T) {
		s := NewStore()
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237})
		s.ApplyLove()
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237, Rating: models.RatingNeutral})

		if got := s.View().Track.Rating; got != models.RatingLoved {
			t.Errorf("Rating = %d, want loved", got)
		}
	})

	t.Run("incoming snapshot is clamped", func(t *testing.T) {
		s := NewStore()
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 100, SongPlayed: 500})

		if got := s.View().Track.SongPlayed; got != 100 {
			t.Errorf("SongPlayed = %d, want clamped to 100", got)
		}
	})
}

func TestTick(t *testing.T) {
	t.Run("advances while running and playing", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, playingState())
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 10, SongPlayed: 0})

		if !s.Tick() {
			t.Fatal("expected tick to advance")
		}
		if got := s.View().Track.SongPlayed; got != 1 {
			t.Errorf("SongPlayed = %d, want 1", got)
		}
	})

	t.Run("paused player does not advance", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, models.SharedRuntimeState{IsRunning: true, IsPlaying: false})
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 10, SongPlayed: 3})

		if s.Tick() {
			t.Error("expected no advance while paused")
		}
		if got := s.View().Track.SongPlayed; got != 3 {
			t.Errorf("SongPlayed = %d, want 3", got)
		}
	})

	t.Run("unknown duration does not advance", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, playingState())
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan"})

		if s.Tick() {
			t.Error("expected no advance with zero duration")
		}
	})

	t.Run("clamps at song duration", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, playingState())
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 3, SongPlayed: 2})

		s.Tick()
		for i := 0; i < 5; i++ {
			if s.Tick() {
				t.Fatal("ticked past song duration")
			}
		}
		if got := s.View().Track.SongPlayed; got != 3 {
			t.Errorf("SongPlayed = %d, want pinned at 3", got)
		}
	})
}

func TestApplyStatus(t *testing.T) {
	t.Run("playing source claims the transport", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, playingState())
		if got := s.View().ActiveSource; got != models.SourcePianobar {
			t.Errorf("ActiveSource = %q, want pianobar", got)
		}

		s.ApplyStatus(models.SourceJukebox, models.SharedRuntimeState{IsRunning: true, IsPlaying: true})
		if got := s.View().ActiveSource; got != models.SourceJukebox {
			t.Errorf("ActiveSource = %q, want jukebox after takeover", got)
		}
	})

	t.Run("paused status leaves the claim alone", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, playingState())
		s.ApplyStatus(models.SourcePianobar, models.SharedRuntimeState{IsRunning: true, IsPlaying: false})

		if got := s.View().ActiveSource; got != models.SourcePianobar {
			t.Errorf("ActiveSource = %q, want pianobar retained", got)
		}
	})
}

func TestKillSource(t *testing.T) {
	t.Run("kills the active source and its track", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, playingState())
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237})

		s.KillSource(models.SourcePianobar)

		v := s.View()
		if v.ActiveSource != "" {
			t.Errorf("ActiveSource = %q, want cleared", v.ActiveSource)
		}
		if v.Track.Title != "" {
			t.Errorf("Track.Title = %q, want cleared", v.Track.Title)
		}
	})

	t.Run("stale kill does not demote a newer source", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, playingState())
		s.ApplyStatus(models.SourceJukebox, models.SharedRuntimeState{IsRunning: true, IsPlaying: true})
		s.ApplySong(models.SourceJukebox, models.PlaybackSnapshot{Title: "Roygbiv", Artist: "Boards of Canada", SongDuration: 150})

		// pianobar's delayed death notice arrives after jukebox took over
		s.KillSource(models.SourcePianobar)

		v := s.View()
		if v.ActiveSource != models.SourceJukebox {
			t.Errorf("ActiveSource = %q, want jukebox preserved", v.ActiveSource)
		}
		if v.Track.Title != "Roygbiv" {
			t.Errorf("Track.Title = %q, want jukebox track preserved", v.Track.Title)
		}
	})
}

func TestApplyPull(t *testing.T) {
	t.Run("server shared state wins", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, models.SharedRuntimeState{IsRunning: true, IsPlaying: false})

		s.ApplyPull(models.SyncState{
			Shared: models.SharedRuntimeState{IsRunning: true, IsPlaying: true, CurrentStation: "4", BluetoothConnected: true},
		})

		v := s.View()
		if !v.Shared.IsPlaying || v.Shared.CurrentStation != "4" || !v.Shared.BluetoothConnected {
			t.Errorf("Shared = %+v, want server values", v.Shared)
		}
	})

	t.Run("same-song pull preserves local progress", func(t *testing.T) {
		s := NewStore()
		s.ApplyStatus(models.SourcePianobar, playingState())
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237, SongPlayed: 60})

		s.ApplyPull(models.SyncState{
			Shared: playingState(),
			Track:  &models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237, SongPlayed: 55},
		})

		if got := s.View().Track.SongPlayed; got != 60 {
			t.Errorf("SongPlayed = %d, want 60 (no rewind on pull)", got)
		}
	})

	t.Run("nil track leaves snapshot untouched", func(t *testing.T) {
		s := NewStore()
		s.ApplySong(models.SourcePianobar, models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237})

		s.ApplyPull(models.SyncState{Shared: playingState()})

		if got := s.View().Track.Title; got != "Peg" {
			t.Errorf("Track.Title = %q, want untouched", got)
		}
	})
}

func TestConnectedAndAttempts(t *testing.T) {
	s := NewStore()

	for i := 1; i <= 3; i++ {
		if got := s.RecordReconnectAttempt(); got != i {
			t.Errorf("attempt %d recorded as %d", i, got)
		}
	}

	s.SetConnected(true)
	v := s.View()
	if !v.Connected || v.ReconnectAttempts != 0 {
		t.Errorf("after connect: connected=%v attempts=%d, want true/0", v.Connected, v.ReconnectAttempts)
	}

	s.SetConnected(false)
	if s.View().Connected {
		t.Error("expected disconnected")
	}
}

func TestSubscribe(t *testing.T) {
	t.Run("mutation signals each subscriber once", func(t *testing.T) {
		s := NewStore()
		a := s.Subscribe()
		b := s.Subscribe()

		s.ApplyLove()

		for name, ch := range map[string]<-chan struct{}{"a": a, "b": b} {
			select {
			case <-ch:
			default:
				t.Errorf("subscriber %s got no signal", name)
			}
		}
	})

	t.Run("burst of mutations coalesces", func(t *testing.T) {
		s := NewStore()
		ch := s.Subscribe()

		for i := 0; i < 10; i++ {
			s.SetJukeboxProgress(i)
		}

		<-ch
		select {
		case <-ch:
			t.Error("expected at most one buffered signal")
		default:
		}
	})
}

func TestSaveStatusAndLibrary(t *testing.T) {
	s := NewStore()

	s.SetSaveStatus("failed")
	if s.View().Jukebox.LibraryStale {
		t.Error("failed save should not mark library stale")
	}

	s.SetSaveStatus("complete")
	if !s.View().Jukebox.LibraryStale {
		t.Error("completed save should mark library stale")
	}

	s.SetLibrary([]models.JukeboxTrack{{ID: "t1", Title: "Roygbiv"}})
	v := s.View()
	if v.Jukebox.LibraryStale {
		t.Error("SetLibrary should clear the stale flag")
	}
	if len(v.Library) != 1 || v.Library[0].ID != "t1" {
		t.Errorf("Library = %+v, want the stored track", v.Library)
	}
}
