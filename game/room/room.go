package room

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a room.
//
// Waiting -> Playing -> Finished, with Abandoned reachable from Waiting or
// Playing when the host leaves. Finished and Abandoned are terminal; a
// finished room is removed right after its end notification, so callers
// normally observe it only transiently.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusFinished  Status = "finished"
	StatusAbandoned Status = "abandoned"
)

// Player identifies one race participant. ID and Username are immutable for
// the lifetime of the room; ConnID is the transport handle and is replaced
// if the player reconnects.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	ConnID   string    `json:"-"`
}

// Progress is the latest known state of one player's race, overwritten in
// place on every update. The server stores and relays it verbatim; the
// figures are client-reported and trusted (cooperative, not adversarial).
type Progress struct {
	PlayerID  uuid.UUID `json:"player_id"`
	Username  string    `json:"username"`
	WordIndex int       `json:"current_word_index"`
	CharIndex int       `json:"current_char_index"`
	WPM       float64   `json:"wpm"`
	Errors    int       `json:"errors"`
	Finished  bool      `json:"is_finished"`

	// Set only once the player reports a finish, so the end-of-game
	// results carry each finisher's own reported figures.
	Accuracy  float64 `json:"accuracy,omitempty"`
	ElapsedMs int64   `json:"elapsed_ms,omitempty"`
}

// Room is a value snapshot of one race room as seen at a single registry
// operation.
type Room struct {
	Code       string    `json:"code"`
	Host       Player    `json:"host"`
	Guest      *Player   `json:"guest,omitempty"`
	Status     Status    `json:"status"`
	Words      []string  `json:"words,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Opponent returns the other participant from the given player's point of
// view, or nil when the room has no guest.
func (r Room) Opponent(playerID uuid.UUID) *Player {
	if r.Host.ID == playerID {
		return r.Guest
	}
	host := r.Host
	return &host
}

// raceRoom is the registry-owned mutable state behind Room snapshots.
type raceRoom struct {
	code       string
	host       Player
	guest      *Player
	status     Status
	words      []string
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time
}

func (r *raceRoom) snapshot() Room {
	snap := Room{
		Code:       r.code,
		Host:       r.host,
		Status:     r.status,
		CreatedAt:  r.createdAt,
		StartedAt:  r.startedAt,
		FinishedAt: r.finishedAt,
	}
	if r.guest != nil {
		guest := *r.guest
		snap.Guest = &guest
	}
	if len(r.words) > 0 {
		snap.Words = append([]string(nil), r.words...)
	}
	return snap
}
