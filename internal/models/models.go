// package models defines the data model for the Monty music dashboard client
package models

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Playback source identifiers as they appear in hub WebSocket frames.
const (
	SourcePianobar = "pianobar"
	SourceJukebox  = "jukebox"
)

// Track ratings. The hub's protocol has no un-love message.
const (
	RatingNeutral = 0
	RatingLoved   = 1
)

// PlaybackSnapshot is a point-in-time view of what is currently playing.
//
// Field names match the hub's JSON wire shape. Strings are empty when unknown.
type PlaybackSnapshot struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Album        string `json:"album"`
	StationName  string `json:"stationName"`
	SongDuration int    `json:"songDuration"`
	SongPlayed   int    `json:"songPlayed"`
	Rating       int    `json:"rating"`
	CoverArt     string `json:"coverArt,omitempty"`
	DetailURL    string `json:"detailUrl,omitempty"`
}

// Clamp enforces the snapshot invariants in place: non-negative durations and
// songPlayed never exceeding songDuration when the duration is known.
func (s *PlaybackSnapshot) Clamp() {
	if s.SongDuration < 0 {
		s.SongDuration = 0
	}
	if s.SongPlayed < 0 {
		s.SongPlayed = 0
	}
	if s.SongDuration > 0 && s.SongPlayed > s.SongDuration {
		s.SongPlayed = s.SongDuration
	}
}

// SameSong reports whether an incoming title/artist pair describes the track
// already held by the snapshot. A change in either field means a new song.
func (s PlaybackSnapshot) SameSong(title, artist string) bool {
	return s.Title == title && s.Artist == artist
}

// SharedRuntimeState holds the cross-device session flags owned by the hub.
// The client keeps a read-mostly replica of these fields.
type SharedRuntimeState struct {
	IsRunning          bool   `json:"isRunning"`
	IsPlaying          bool   `json:"isPlaying"`
	CurrentStation     string `json:"currentStation"`
	BluetoothConnected bool   `json:"bluetoothConnected"`
}

// SyncState is the payload of the hub's sync-state endpoint.
type SyncState struct {
	Shared SharedRuntimeState `json:"shared"`
	Track  *PlaybackSnapshot  `json:"track"`
}

// SyncStateResponse wraps SyncState in the hub's response envelope.
type SyncStateResponse struct {
	Success bool      `json:"success"`
	State   SyncState `json:"state"`
}

// Station identifies a Pandora station/playlist selectable on the hub.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// legacy pianobar station dumps look like "3) Jazz Fusion Radio"
var legacyStationLine = regexp.MustCompile(`^\s*(\d+)\)\s*(.+?)\s*$`)

// ParseStations decodes a station list that arrives either as a JSON array of
// {id, name} objects or as newline-delimited legacy text. Malformed lines are
// dropped, never surfaced as errors.
func ParseStations(raw json.RawMessage) []Station {
	var stations []Station
	if err := json.Unmarshal(raw, &stations); err == nil {
		return stations
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}

	var out []Station
	for _, line := range strings.Split(text, "\n") {
		m := legacyStationLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, Station{ID: m[1], Name: m[2]})
	}
	return out
}

// JukeboxTrack is an entry in the jukebox queue or library.
type JukeboxTrack struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Source   string `json:"source"` // "youtube" or "local"
	URL      string `json:"url,omitempty"`
	Duration int    `json:"duration"`
}

// JukeboxState mirrors the hub's on-demand player sub-state.
type JukeboxState struct {
	Queue        []JukeboxTrack `json:"queue"`
	SaveStatus   string         `json:"saveStatus,omitempty"` // "", "complete" or "failed"
	Progress     int            `json:"progress"`             // seconds into the current jukebox track
	LibraryStale bool           `json:"-"`                    // set when the library needs a one-shot refetch
}
