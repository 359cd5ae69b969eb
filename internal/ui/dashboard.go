package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
	"github.com/DOUGSKEEZ/montyctl/internal/sync"
)

// Controller is the slice of the pianobar service the dashboard dispatches
// through.
type Controller interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Love(ctx context.Context) error
	SelectStation(ctx context.Context, stationID string) error
	GetStations(ctx context.Context) ([]models.Station, error)
}

type stateChangedMsg struct{}

type controlDoneMsg struct {
	action string
	err    error
}

type stationsLoadedMsg struct {
	stations []models.Station
	err      error
}

// stationItem wraps [models.Station] to implement [list.Item].
type stationItem struct {
	station models.Station
}

func (i stationItem) FilterValue() string { return i.station.Name }
func (i stationItem) Title() string       { return i.station.Name }
func (i stationItem) Description() string { return fmt.Sprintf("station %s", i.station.ID) }

// Model renders the live dashboard over a sync session's store.
type Model struct {
	ctx     context.Context
	store   *sync.Store
	control Controller
	hint    func()

	width  int
	height int

	view         sync.View
	showStations bool
	stationList  list.Model
	help         help.Model
	keys         keyMap
	err          error

	sub <-chan struct{}
}

// NewModel creates the dashboard model. hint schedules a shared-state push
// after a successful local control action and may be nil.
func NewModel(ctx context.Context, store *sync.Store, control Controller, hint func()) *Model {
	if hint == nil {
		hint = func() {}
	}
	return &Model{
		ctx:     ctx,
		store:   store,
		control: control,
		hint:    hint,
		view:    store.View(),
		help:    help.New(),
		keys:    newKeyMap(),
		sub:     store.Subscribe(),
	}
}

// Init arms the store listener and kicks off the station fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.fetchStations())
}

// listen blocks on the store's change signal and surfaces it as a message,
// re-armed after every delivery.
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case <-m.sub:
			return stateChangedMsg{}
		}
	}
}

func (m *Model) fetchStations() tea.Cmd {
	return func() tea.Msg {
		stations, err := m.control.GetStations(m.ctx)
		return stationsLoadedMsg{stations: stations, err: err}
	}
}

func (m *Model) dispatch(action string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return controlDoneMsg{action: action, err: fn(m.ctx)}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.stationList.Width() == 0 {
			m.stationList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case stateChangedMsg:
		m.view = m.store.View()
		return m, m.listen()

	case stationsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.stations))
		for i, st := range msg.stations {
			items[i] = stationItem{station: st}
		}
		m.stationList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.stationList.Title = "Stations"
		m.stationList.SetSize(m.width-4, m.height-8)
		return m, nil

	case controlDoneMsg:
		if msg.err != nil {
			// a rejected double press is expected, not an error banner
			if !errors.Is(msg.err, shared.ErrControlBusy) {
				m.err = msg.err
			}
			return m, nil
		}
		m.err = nil
		m.hint()
		return m, nil

	case tea.KeyMsg:
		if m.showStations {
			return m.handleStationKeys(msg)
		}
		return m.handleDashboardKeys(msg)
	}

	return m, nil
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.playPause):
		if m.view.Shared.IsPlaying {
			return m, m.dispatch("pause", m.control.Pause)
		}
		return m, m.dispatch("play", m.control.Play)

	case key.Matches(msg, m.keys.next):
		return m, m.dispatch("next", m.control.Next)

	case key.Matches(msg, m.keys.love):
		// optimistic: the hub echoes a love frame, but don't wait for it
		m.store.ApplyLove()
		return m, m.dispatch("love", m.control.Love)

	case key.Matches(msg, m.keys.stations):
		m.showStations = true
		return m, nil

	case key.Matches(msg, m.keys.detail):
		if m.view.Track.DetailURL != "" {
			shared.OpenBrowser(m.view.Track.DetailURL)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleStationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.showStations = false
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if item, ok := m.stationList.SelectedItem().(stationItem); ok {
			m.showStations = false
			id := item.station.ID
			return m, m.dispatch("selectStation", func(ctx context.Context) error {
				return m.control.SelectStation(ctx, id)
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.stationList, cmd = m.stationList.Update(msg)
	return m, cmd
}

// View renders the dashboard or the station picker overlay.
func (m *Model) View() string {
	if m.showStations {
		return m.stationList.View()
	}

	var b strings.Builder
	v := m.view

	b.WriteString(styles.title.Render("Monty Music"))
	b.WriteString("\n")

	b.WriteString(m.statusLine(v))
	b.WriteString("\n\n")

	if v.Track.Title == "" {
		b.WriteString(styles.help.Render("Nothing playing"))
		b.WriteString("\n")
	} else {
		b.WriteString(styles.accent.Render(v.Track.Title))
		if v.Track.Rating == models.RatingLoved {
			b.WriteString(" " + styles.err.Render("♥"))
		}
		b.WriteString("\n")
		b.WriteString(v.Track.Artist)
		if v.Track.Album != "" {
			b.WriteString(" • " + v.Track.Album)
		}
		b.WriteString("\n")
		if v.Track.StationName != "" {
			b.WriteString(styles.help.Render(v.Track.StationName))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.progressLine(v.Track))
		b.WriteString("\n")
	}

	if len(v.Jukebox.Queue) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render(fmt.Sprintf("Jukebox queue: %d", len(v.Jukebox.Queue))))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) statusLine(v sync.View) string {
	conn := styles.err.Render("○ offline")
	if v.Connected {
		conn = styles.ok.Render("● live")
	}

	state := "Off"
	if v.Shared.IsRunning {
		if v.Shared.IsPlaying {
			state = "Playing"
		} else {
			state = "Paused"
		}
	}

	line := fmt.Sprintf("%s  %s", conn, state)
	if v.ActiveSource != "" {
		line += "  " + styles.help.Render("["+v.ActiveSource+"]")
	}
	if v.Shared.BluetoothConnected {
		line += "  " + styles.ok.Render("BT")
	}
	return line
}

func (m *Model) progressLine(track models.PlaybackSnapshot) string {
	width := m.width - 20
	if width < 10 {
		width = 10
	}

	filled := 0
	if track.SongDuration > 0 {
		filled = width * track.SongPlayed / track.SongDuration
		if filled > width {
			filled = width
		}
	}

	bar := styles.accent.Render(strings.Repeat("█", filled)) + styles.help.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s/%s", bar, shared.FormatClock(track.SongPlayed), shared.FormatClock(track.SongDuration))
}
