package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the key bindings for the dashboard.
type keyMap struct {
	playPause key.Binding
	next      key.Binding
	love      key.Binding
	stations  key.Binding
	detail    key.Binding
	back      key.Binding
	enter     key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next song"),
		),
		love: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "love song"),
		),
		stations: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stations"),
		),
		detail: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open song page"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.next, k.love, k.stations, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.playPause, k.next, k.love},
		{k.stations, k.detail, k.enter},
		{k.back, k.quit},
	}
}
