// Package api provides the HTTP REST surface of the typerace server.
//
// Endpoints:
//
// Auth:
//   - POST /api/auth/guest - Create a guest account and token
//   - GET /api/auth/me - Resolve the caller's account from its token
//   - POST /api/auth/logout - Stateless logout acknowledgement
//
// Rooms:
//   - GET /api/rooms - List live race rooms
//
// Results and rankings:
//   - POST /api/games/results - Store a solo race result (registered users)
//   - GET /api/leaderboard - Ranked results with mode/period/page filters
//
// Practice material:
//   - GET /api/words - Generate a shuffled practice word list
//
// WebSocket:
//   - /ws - Upgrade to the race protocol (optional token query parameter)
//
// All endpoints accept and return JSON. Errors are returned as
// {"error": "message"} with an appropriate HTTP status code.
package api
