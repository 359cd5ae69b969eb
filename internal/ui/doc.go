// Package ui implements the live "now playing" dashboard using bubbletea's Elm architecture.
//
// The dashboard is a single-view [Model] over a running sync session's store:
// track metadata, a progress bar ticked locally between hub pushes, the
// connection badge, and the active playback source. A station picker
// (charmbracelet/bubbles/list) overlays the dashboard on demand.
//
// State flows one way: the Model never mutates playback state directly. Key
// presses dispatch control actions through the pianobar service, and the
// view re-renders when the store's change signal fires (delivered to
// bubbletea as a message by a self-re-arming listen command).
//
// Keyboard bindings: space play/pause, n next, l love, s station picker,
// o open song detail page, q quit.
package ui
