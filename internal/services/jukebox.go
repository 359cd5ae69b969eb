// Jukebox hub client
//
// Drives the hub's on-demand player: YouTube URLs and local library tracks
// queued behind /api/jukebox.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
)

// JukeboxService implements the hub's on-demand player API.
type JukeboxService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	inFlight   atomic.Bool
}

// NewJukeboxService creates a jukebox client for the given hub base URL.
// A nil client falls back to http.DefaultClient.
func NewJukeboxService(baseURL string, client *http.Client) *JukeboxService {
	if baseURL == "" {
		baseURL = defaultHubBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &JukeboxService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
	}
}

// post dispatches a jukebox action, applying the same locked-button guard
// as the pianobar dispatcher.
func (j *JukeboxService) post(ctx context.Context, action string, payload map[string]any) error {
	if !j.inFlight.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", shared.ErrControlBusy, action)
	}
	defer j.inFlight.Store(false)

	if !j.limiter.Allow() {
		return fmt.Errorf("%w: %s", shared.ErrControlBusy, action)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.baseURL+"/api/jukebox/"+action, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	var ack controlResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !ack.Success {
		return fmt.Errorf("%w: %s: %s", shared.ErrControlRejected, action, ack.Message)
	}

	return nil
}

// Play resumes jukebox playback.
func (j *JukeboxService) Play(ctx context.Context) error { return j.post(ctx, "play", nil) }

// Pause pauses jukebox playback.
func (j *JukeboxService) Pause(ctx context.Context) error { return j.post(ctx, "pause", nil) }

// Next advances to the next queued track.
func (j *JukeboxService) Next(ctx context.Context) error { return j.post(ctx, "next", nil) }

// Stop halts playback and clears the transport.
func (j *JukeboxService) Stop(ctx context.Context) error { return j.post(ctx, "stop", nil) }

// Seek jumps to an absolute position (seconds) in the current track.
func (j *JukeboxService) Seek(ctx context.Context, seconds int) error {
	return j.post(ctx, "seek", map[string]any{"position": seconds})
}

// PlayYouTube queues and plays a YouTube URL.
func (j *JukeboxService) PlayYouTube(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}
	return j.post(ctx, "playYouTube", map[string]any{"url": url})
}

// PlayLocal queues and plays a track from the hub's local library.
func (j *JukeboxService) PlayLocal(ctx context.Context, trackID string) error {
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}
	return j.post(ctx, "playLocal", map[string]any{"id": trackID})
}

// GetLibrary fetches the hub's saved track library.
func (j *JukeboxService) GetLibrary(ctx context.Context) ([]models.JukeboxTrack, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"/api/jukebox/getLibrary", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: getLibrary returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var library struct {
		Success bool                  `json:"success"`
		Tracks  []models.JukeboxTrack `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&library); err != nil {
		return nil, fmt.Errorf("failed to decode library: %w", err)
	}

	return library.Tracks, nil
}
