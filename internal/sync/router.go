package sync

import (
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
)

// Inbound frame types on the pianobar feed.
const (
	msgStatus       = "status"
	msgSong         = "song"
	msgLove         = "love"
	msgStations     = "stations"
	msgSourceKilled = "source-killed"

	msgQueueUpdated     = "queue-updated"
	msgSaveComplete     = "save-complete"
	msgSaveFailed       = "save-failed"
	msgPlaybackProgress = "playback-progress"
)

// Envelope is the hub's inbound message shape. Source distinguishes the two
// playback engines; frames without one belong to pianobar.
type Envelope struct {
	Type   string          `json:"type"`
	Source string          `json:"source,omitempty"`
	Data   json.RawMessage `json:"data"`
}

// router dispatches decoded frames to exactly one store mutation. Unknown
// types are ignored without error.
type router struct {
	store  *Store
	logger *log.Logger
}

func newRouter(store *Store, logger *log.Logger) *router {
	return &router{store: store, logger: logger}
}

func (r *router) dispatch(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.logger.Debug("dropping undecodable frame", "error", err)
		return
	}

	source := env.Source
	if source == "" {
		source = models.SourcePianobar
	}

	switch env.Type {
	case msgStatus:
		var status models.SharedRuntimeState
		if err := json.Unmarshal(env.Data, &status); err != nil {
			r.logger.Debug("bad status frame", "error", err)
			return
		}
		r.store.ApplyStatus(source, status)

	case msgSong:
		var snap models.PlaybackSnapshot
		if err := json.Unmarshal(env.Data, &snap); err != nil {
			r.logger.Debug("bad song frame", "error", err)
			return
		}
		r.store.ApplySong(source, snap)

	case msgLove:
		r.store.ApplyLove()

	case msgStations:
		r.store.SetStations(models.ParseStations(env.Data))

	case msgSourceKilled:
		killed := source
		var data struct {
			Source string `json:"source"`
		}
		if err := json.Unmarshal(env.Data, &data); err == nil && data.Source != "" {
			killed = data.Source
		}
		r.store.KillSource(killed)

	case msgQueueUpdated:
		var data struct {
			Queue []models.JukeboxTrack `json:"queue"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			r.logger.Debug("bad queue frame", "error", err)
			return
		}
		r.store.SetQueue(data.Queue)

	case msgSaveComplete:
		r.store.SetSaveStatus("complete")

	case msgSaveFailed:
		r.store.SetSaveStatus("failed")

	case msgPlaybackProgress:
		var data struct {
			Position int `json:"position"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			r.logger.Debug("bad progress frame", "error", err)
			return
		}
		r.store.SetJukeboxProgress(data.Position)

	default:
		// forward compatibility: newer hubs may emit types we don't know
		r.logger.Debug("ignoring unknown frame type", "type", env.Type)
	}
}
