// Package services implements HTTP clients for the Monty hub's REST surface.
//
// Three clients share the same construction idiom (base URL plus injected
// *http.Client, context on every call):
//
//   - [PianobarService] : Pandora player control, sync-state pull/push, stations
//   - [JukeboxService] : on-demand YouTube/library player control and library fetch
//   - [APIService] : raw GET/POST passthrough for debugging hub endpoints
//
// Control actions are guarded against double-fire: each service holds an
// in-flight flag and a rate limiter, so a second press while a control call
// is pending is rejected with [shared.ErrControlBusy] instead of racing.
package services
