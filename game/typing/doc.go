// Package typing implements the keystroke judgment state machine shared by
// solo and multiplayer races.
//
// The judge is a pure function: Apply takes the current State and one key and
// returns the next State without touching the original. Both the client-side
// prediction and any server-side replay of a race run the same transitions,
// so word advancement, error accounting and race completion are decided in
// exactly one place.
//
// Usage:
//
//	state := typing.NewState(typing.ModeMultiplayer, words, time.Now())
//	state = typing.Apply(state, "t", time.Now())
//	state = typing.Apply(state, typing.KeySpace, time.Now())
//	stats := typing.ComputeStats(state, time.Now())
//
// Keys are "Backspace", " " (space), or a single printable character.
// Anything out of range (backspace at word start, characters past the end of
// a word) is a defined no-op, never an error.
package typing
