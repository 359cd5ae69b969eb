// Package models defines domain entities shared across the montyctl client.
//
// The package contains three categories of types:
//
// 1. Playback state: snapshots of the hub's music players
//   - [PlaybackSnapshot] : the "now playing" track with elapsed/total seconds
//   - [SharedRuntimeState] : cross-device session flags (running, playing, station, bluetooth)
//   - [JukeboxState] / [JukeboxTrack] : on-demand player queue and library entries
//
// 2. Wire envelopes: shapes exchanged with the hub's REST surface
//   - [SyncState] / [SyncStateResponse] : the sync-state pull/push payloads
//
// 3. Stations: [Station] plus [ParseStations], which accepts both the JSON
// array form and the legacy newline-delimited pianobar dump.
//
// Invariants (clamped by [PlaybackSnapshot.Clamp]): songPlayed and songDuration
// are non-negative and songPlayed never exceeds a known songDuration.
package models
