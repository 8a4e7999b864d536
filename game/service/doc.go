// Package service exposes the RaceService interface shared by the REST API
// and MCP layers: guest accounts, room listings, solo result submission and
// the leaderboard.
package service
