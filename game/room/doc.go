// Package room owns the set of active two-player race rooms.
//
// The Registry is the single source of truth for room existence and
// membership. It maintains three maps: room code to room, connection id to
// room code, and (room code, player id) to the player's latest progress
// snapshot. Every operation takes the registry lock, so concurrent calls
// from different connections interleave safely: of two simultaneous joins
// against the same waiting room exactly one succeeds.
//
// Callers receive value snapshots of rooms, never the registry's own
// mutable state.
package room
