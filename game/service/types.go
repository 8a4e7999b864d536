package service

import (
	"time"

	"typerace/storage"
)

// GuestSession is a freshly created guest account with its signed token.
type GuestSession struct {
	Token string       `json:"token"`
	User  storage.User `json:"user"`
}

// RoomInfo summarizes one live room for listings.
type RoomInfo struct {
	Code          string    `json:"code"`
	Status        string    `json:"status"`
	HostUsername  string    `json:"host_username"`
	GuestUsername string    `json:"guest_username,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ResultSubmission is a client-reported solo race outcome.
type ResultSubmission struct {
	WordsTyped int     `json:"words_typed"`
	TotalWords int     `json:"total_words"`
	Errors     int     `json:"errors"`
	WPM        float64 `json:"wpm"`
	Accuracy   float64 `json:"accuracy"`
	ElapsedMs  int64   `json:"elapsed_ms"`
	GameMode   string  `json:"game_mode"`
}

// LeaderboardQuery selects a leaderboard slice. Period is one of "daily",
// "weekly", "monthly" or "all" (empty means all).
type LeaderboardQuery struct {
	GameMode string `json:"game_mode,omitempty"`
	Period   string `json:"period,omitempty"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// LeaderboardPage is one page of ranked entries.
type LeaderboardPage struct {
	Entries  []storage.LeaderboardEntry `json:"entries"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"page_size"`
	GameMode string                     `json:"game_mode,omitempty"`
	Period   string                     `json:"period,omitempty"`
}
