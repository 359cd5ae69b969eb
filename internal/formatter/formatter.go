// package formatter provides functions to export jukebox library data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
)

// ExportLibraryToCSV converts a jukebox library to CSV with columns: ID, Title, Artist, Source, Duration
func ExportLibraryToCSV(tracks []models.JukeboxTrack) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Source", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Source,
			strconv.Itoa(track.Duration),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportLibraryToMarkdown converts a jukebox library to a Markdown track listing
func ExportLibraryToMarkdown(tracks []models.JukeboxTrack, title string) []byte {
	var buf bytes.Buffer

	if title == "" {
		title = "Jukebox Library"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	for i, track := range tracks {
		duration := shared.FormatClock(track.Duration)
		sourcePart := ""
		if track.Source != "" {
			sourcePart = fmt.Sprintf(" (%s)", track.Source)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, sourcePart, duration))
	}

	return buf.Bytes()
}

// ExportLibraryToText converts a jukebox library to plain text, one track per line
func ExportLibraryToText(tracks []models.JukeboxTrack) []byte {
	var buf bytes.Buffer

	for _, track := range tracks {
		buf.WriteString(fmt.Sprintf("%s\t%s - %s\t[%s]\n", track.ID, track.Artist, track.Title, shared.FormatClock(track.Duration)))
	}

	return buf.Bytes()
}

// FormatSnapshot renders a one-line-per-field summary of the current playback
// state for the `sync` command's plain output.
func FormatSnapshot(state models.SyncState) []byte {
	var buf bytes.Buffer

	status := "Off"
	if state.Shared.IsRunning {
		if state.Shared.IsPlaying {
			status = "Playing"
		} else {
			status = "Paused"
		}
	}
	buf.WriteString(fmt.Sprintf("Status:   %s\n", status))

	if state.Track != nil && state.Track.Title != "" {
		buf.WriteString(fmt.Sprintf("Song:     %s - %s\n", state.Track.Artist, state.Track.Title))
		if state.Track.Album != "" {
			buf.WriteString(fmt.Sprintf("Album:    %s\n", state.Track.Album))
		}
		if state.Track.StationName != "" {
			buf.WriteString(fmt.Sprintf("Station:  %s\n", state.Track.StationName))
		}
		buf.WriteString(fmt.Sprintf("Position: %s / %s\n",
			shared.FormatClock(state.Track.SongPlayed), shared.FormatClock(state.Track.SongDuration)))
		if state.Track.Rating == models.RatingLoved {
			buf.WriteString("Loved:    yes\n")
		}
	}

	if state.Shared.BluetoothConnected {
		buf.WriteString("Speaker:  bluetooth connected\n")
	}

	return buf.Bytes()
}
