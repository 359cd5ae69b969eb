// Package sync implements the realtime state synchronization session between
// montyctl and the Monty hub's music players.
//
// A [Session] wires four cooperating pieces around one owned [Store]:
//
//  1. Connection manager: dials the hub's pianobar WebSocket feed, retries
//     with a fixed delay and a bounded attempt counter, and hands raw frames
//     to the router in arrival order.
//  2. Message router: classifies frames by type (and source) and applies
//     exactly one state mutation per frame; unknown types are no-ops.
//  3. Reconciler: pulls the authoritative sync-state snapshot on start and on
//     a fixed interval, and pushes local shared-state hints behind a trailing
//     debounce. Pulled values win for every field except elapsed seconds,
//     which stays with the local ticker for the same song.
//  4. Progress ticker: advances elapsed seconds once per second while the
//     player is on and playing, clamped to the song duration.
//
// The Store is the only shared mutable resource; all mutation goes through
// its synchronized action methods, and observers coalesce on a change signal
// channel rather than receiving individual events.
package sync
