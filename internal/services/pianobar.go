// Pandora (pianobar) hub client
//
// Talks to the hub's /api/pianobar surface: the generic control dispatcher,
// the sync-state pull/push endpoints, and the station list.
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

// Control actions accepted by the hub's pianobar dispatcher.
const (
	ActionStart         = "start"
	ActionStop          = "stop"
	ActionPlay          = "play"
	ActionPause         = "pause"
	ActionNext          = "next"
	ActionLove          = "love"
	ActionSelectStation = "selectStation"
)

// controlResponse is the hub's acknowledgment envelope for control actions.
type controlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PianobarService implements the hub's Pandora player API.
type PianobarService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	inFlight   atomic.Bool
}

// NewPianobarService creates a pianobar client for the given hub base URL.
// A nil client falls back to http.DefaultClient.
func NewPianobarService(baseURL string, client *http.Client) *PianobarService {
	if baseURL == "" {
		baseURL = defaultHubBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &PianobarService{
		baseURL:    baseURL,
		httpClient: client,
		// locked-button guard: at most 2 control presses per second, burst 1
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
}

// Control dispatches a player action through the hub's generic control
// endpoint. A second call while one is pending, or a call arriving faster
// than the limiter allows, returns [shared.ErrControlBusy].
func (p *PianobarService) Control(ctx context.Context, action string, payload map[string]any) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", shared.ErrControlBusy, action)
	}
	defer p.inFlight.Store(false)

	if !p.limiter.Allow() {
		return fmt.Errorf("%w: %s", shared.ErrControlBusy, action)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode control payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/pianobar/"+action, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	var ack controlResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("failed to decode control response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !ack.Success {
		return fmt.Errorf("%w: %s: %s", shared.ErrControlRejected, action, ack.Message)
	}

	return nil
}

// Start launches the pianobar process on the hub.
func (p *PianobarService) Start(ctx context.Context) error { return p.Control(ctx, ActionStart, nil) }

// Stop shuts down the pianobar process on the hub.
func (p *PianobarService) Stop(ctx context.Context) error { return p.Control(ctx, ActionStop, nil) }

// Play resumes playback.
func (p *PianobarService) Play(ctx context.Context) error { return p.Control(ctx, ActionPlay, nil) }

// Pause pauses playback.
func (p *PianobarService) Pause(ctx context.Context) error { return p.Control(ctx, ActionPause, nil) }

// Next skips to the next track.
func (p *PianobarService) Next(ctx context.Context) error { return p.Control(ctx, ActionNext, nil) }

// Love marks the current track as loved. There is no un-love.
func (p *PianobarService) Love(ctx context.Context) error { return p.Control(ctx, ActionLove, nil) }

// SelectStation switches playback to the given station.
func (p *PianobarService) SelectStation(ctx context.Context, stationID string) error {
	return p.Control(ctx, ActionSelectStation, map[string]any{"stationId": stationID})
}

// GetSyncState performs the authoritative sync-state pull.
func (p *PianobarService) GetSyncState(ctx context.Context) (*models.SyncStateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/pianobar/sync-state", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: sync-state returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var state models.SyncStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode sync-state: %w", err)
	}

	return &state, nil
}

// PushSyncState sends local shared-state hints to the hub. Best effort: the
// hub may ignore the hint, and callers treat failures as non-fatal.
func (p *PianobarService) PushSyncState(ctx context.Context, sharedState models.SharedRuntimeState, clientID string) error {
	payload := map[string]any{"shared": sharedState}
	if clientID != "" {
		payload["clientId"] = clientID
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode sync-state push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/pianobar/sync-state", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sync-state push returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return nil
}

// GetStatus polls the player status endpoint. This is the degraded-mode
// refresh that keeps running whether or not the socket is up.
func (p *PianobarService) GetStatus(ctx context.Context) (*models.SharedRuntimeState, error) {
	state, err := p.GetSyncState(ctx)
	if err != nil {
		return nil, err
	}
	shared := state.State.Shared
	return &shared, nil
}

// GetStations fetches the station list. The hub may answer with either the
// JSON array form or the legacy pianobar text dump.
func (p *PianobarService) GetStations(ctx context.Context) ([]models.Station, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/pianobar/stations", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stations: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: stations returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return models.ParseStations(body), nil
}
