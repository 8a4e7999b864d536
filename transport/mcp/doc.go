// Package mcp provides the Model Context Protocol surface of the typerace
// server.
//
// The package exposes a thin client that proxies every tool call to the REST
// API, so MCP and HTTP callers always observe the same state.
//
// MCP Tools:
//   - list_rooms: List live race rooms with status and players
//   - get_leaderboard: Ranked solo results with mode/period filters
//   - generate_words: Produce a practice word list from the race corpus
//   - create_guest: Create a guest account and token
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: POST /mcp endpoint on the main server
//
// Races themselves run over the websocket protocol; MCP covers the read-only
// and account operations an agent needs around them.
package mcp
