package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
)

func TestControl(t *testing.T) {
	t.Run("posts to the action endpoint", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}))
		defer server.Close()

		svc := NewPianobarService(server.URL, server.Client())
		if err := svc.Control(context.Background(), ActionNext, nil); err != nil {
			t.Fatalf("Control failed: %v", err)
		}
		if gotPath != "/api/pianobar/next" {
			t.Errorf("path = %q, want /api/pianobar/next", gotPath)
		}
	})

	t.Run("select station sends the id payload", func(t *testing.T) {
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotBody)
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}))
		defer server.Close()

		svc := NewPianobarService(server.URL, server.Client())
		if err := svc.SelectStation(context.Background(), "4"); err != nil {
			t.Fatalf("SelectStation failed: %v", err)
		}
		if gotBody["stationId"] != "4" {
			t.Errorf("payload = %v, want stationId=4", gotBody)
		}
	})

	t.Run("hub rejection surfaces as ErrControlRejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "player not running"})
		}))
		defer server.Close()

		svc := NewPianobarService(server.URL, server.Client())
		err := svc.Play(context.Background())
		if !errors.Is(err, shared.ErrControlRejected) {
			t.Errorf("err = %v, want ErrControlRejected", err)
		}
	})

	t.Run("rapid presses hit the locked-button guard", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}))
		defer server.Close()

		svc := NewPianobarService(server.URL, server.Client())
		if err := svc.Next(context.Background()); err != nil {
			t.Fatalf("first press failed: %v", err)
		}
		if err := svc.Next(context.Background()); !errors.Is(err, shared.ErrControlBusy) {
			t.Errorf("second press err = %v, want ErrControlBusy", err)
		}
	})
}

func TestGetSyncState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pianobar/sync-state" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.SyncStateResponse{
			Success: true,
			State: models.SyncState{
				Shared: models.SharedRuntimeState{IsRunning: true, IsPlaying: true, CurrentStation: "0"},
				Track:  &models.PlaybackSnapshot{Title: "Peg", Artist: "Steely Dan", SongDuration: 237},
			},
		})
	}))
	defer server.Close()

	svc := NewPianobarService(server.URL, server.Client())
	resp, err := svc.GetSyncState(context.Background())
	if err != nil {
		t.Fatalf("GetSyncState failed: %v", err)
	}
	if !resp.Success || resp.State.Track == nil || resp.State.Track.Title != "Peg" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestPushSyncState(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	svc := NewPianobarService(server.URL, server.Client())
	state := models.SharedRuntimeState{IsRunning: true, IsPlaying: false, CurrentStation: "3"}
	if err := svc.PushSyncState(context.Background(), state, "client-7"); err != nil {
		t.Fatalf("PushSyncState failed: %v", err)
	}

	if gotBody["clientId"] != "client-7" {
		t.Errorf("clientId = %v, want client-7", gotBody["clientId"])
	}
	pushed, ok := gotBody["shared"].(map[string]any)
	if !ok || pushed["currentStation"] != "3" {
		t.Errorf("shared payload = %v", gotBody["shared"])
	}
}

func TestGetStations(t *testing.T) {
	t.Run("json array response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":"0","name":"Jazz Fusion Radio"}]`))
		}))
		defer server.Close()

		svc := NewPianobarService(server.URL, server.Client())
		stations, err := svc.GetStations(context.Background())
		if err != nil {
			t.Fatalf("GetStations failed: %v", err)
		}
		if len(stations) != 1 || stations[0].Name != "Jazz Fusion Radio" {
			t.Errorf("stations = %+v", stations)
		}
	})

	t.Run("legacy text response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("0) Jazz Fusion Radio\n1) Quickmix\n"))
		}))
		defer server.Close()

		svc := NewPianobarService(server.URL, server.Client())
		stations, err := svc.GetStations(context.Background())
		if err != nil {
			t.Fatalf("GetStations failed: %v", err)
		}
		if len(stations) != 2 || stations[1].ID != "1" {
			t.Errorf("stations = %+v", stations)
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		svc := NewPianobarService(server.URL, server.Client())
		if _, err := svc.GetStations(context.Background()); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("err = %v, want ErrAPIRequest", err)
		}
	})
}
