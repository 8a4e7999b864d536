package websocket

import (
	"github.com/google/uuid"

	"typerace/game/room"
)

// CommandType tags an inbound client message. The set is closed; unknown
// types are answered with an error notification.
type CommandType string

const (
	CmdCreateRoom     CommandType = "create_room"
	CmdJoinRoom       CommandType = "join_room"
	CmdLeaveRoom      CommandType = "leave_room"
	CmdStartGame      CommandType = "start_game"
	CmdUpdateProgress CommandType = "update_progress"
	CmdPlayerFinished CommandType = "player_finished"
)

// Command is the inbound message envelope. Exactly one payload field is
// meaningful per type.
type Command struct {
	Type     CommandType     `json:"type"`
	RoomCode string          `json:"room_code,omitempty"`
	Progress *ProgressUpdate `json:"progress,omitempty"`
	Stats    *FinishedStats  `json:"stats,omitempty"`
}

// ProgressUpdate is a player's periodic, client-computed progress report.
type ProgressUpdate struct {
	CurrentWordIndex int     `json:"current_word_index"`
	CurrentCharIndex int     `json:"current_char_index"`
	WPM              float64 `json:"wpm"`
	Errors           int     `json:"errors"`
	IsFinished       bool    `json:"is_finished"`
}

// FinishedStats is a player's final, client-computed race result.
type FinishedStats struct {
	WordsTyped int     `json:"words_typed"`
	TotalWords int     `json:"total_words"`
	Errors     int     `json:"errors"`
	WPM        float64 `json:"wpm"`
	Accuracy   float64 `json:"accuracy"`
	ElapsedMs  int64   `json:"elapsed_ms"`
}

// NotificationType tags an outbound server message.
type NotificationType string

const (
	NoteRoomCreated      NotificationType = "room_created"
	NoteRoomJoined       NotificationType = "room_joined"
	NoteJoinFailed       NotificationType = "join_failed"
	NotePlayerJoined     NotificationType = "player_joined"
	NotePlayerLeft       NotificationType = "player_left"
	NoteRoomClosed       NotificationType = "room_closed"
	NoteGameStarting     NotificationType = "game_starting"
	NoteGameStarted      NotificationType = "game_started"
	NoteOpponentProgress NotificationType = "opponent_progress"
	NoteOpponentFinished NotificationType = "opponent_finished"
	NoteGameEnded        NotificationType = "game_ended"
	NoteError            NotificationType = "error"
)

// PlayerInfo identifies a player on the wire.
type PlayerInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// RoomCreatedPayload answers a create_room command.
type RoomCreatedPayload struct {
	RoomCode string     `json:"room_code"`
	Host     PlayerInfo `json:"host"`
}

// RoomJoinedPayload answers a successful join_room command.
type RoomJoinedPayload struct {
	RoomCode string     `json:"room_code"`
	Host     PlayerInfo `json:"host"`
	Guest    PlayerInfo `json:"guest"`
	Words    []string   `json:"words"`
}

// GameStartingPayload announces the pre-race countdown to the whole room.
type GameStartingPayload struct {
	CountdownSeconds int `json:"countdown_seconds"`
}

// GameStartedPayload carries the word list and the shared wall-clock start
// time both clients measure elapsed time from.
type GameStartedPayload struct {
	Words     []string `json:"words"`
	StartTime int64    `json:"start_time"`
}

// PlayerResult is one finisher's reported outcome.
type PlayerResult struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	WordsTyped int       `json:"words_typed"`
	WPM        float64   `json:"wpm"`
	Accuracy   float64   `json:"accuracy"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	IsWinner   bool      `json:"is_winner"`
}

// GameEndedPayload closes out a race for both players.
type GameEndedPayload struct {
	Winner PlayerResult `json:"winner"`
	Loser  PlayerResult `json:"loser"`
}

// Notification is the outbound message envelope. Type selects which payload
// field is populated; Reason accompanies join_failed, room_closed and error.
type Notification struct {
	Type             NotificationType     `json:"type"`
	Reason           string               `json:"reason,omitempty"`
	RoomCreated      *RoomCreatedPayload  `json:"room_created,omitempty"`
	RoomJoined       *RoomJoinedPayload   `json:"room_joined,omitempty"`
	PlayerJoined     *PlayerInfo          `json:"player_joined,omitempty"`
	GameStarting     *GameStartingPayload `json:"game_starting,omitempty"`
	GameStarted      *GameStartedPayload  `json:"game_started,omitempty"`
	OpponentProgress *room.Progress       `json:"opponent_progress,omitempty"`
	OpponentFinished *PlayerResult        `json:"opponent_finished,omitempty"`
	GameEnded        *GameEndedPayload    `json:"game_ended,omitempty"`
}

func errorNote(reason string) Notification {
	return Notification{Type: NoteError, Reason: reason}
}

func playerInfo(p room.Player) PlayerInfo {
	return PlayerInfo{ID: p.ID, Username: p.Username}
}
