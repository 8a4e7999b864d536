package room

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotJoinable  = errors.New("room not joinable")
	ErrRoomNotStartable = errors.New("room not ready to start")
)

const (
	codeLength  = 6
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type progressKey struct {
	code     string
	playerID uuid.UUID
}

// Registry handles race room lifecycle. All methods are safe for concurrent
// use; each one runs as a single transaction under the registry lock.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*raceRoom
	conns    map[string]string
	progress map[progressKey]Progress
}

// NewRegistry creates an empty room registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]*raceRoom),
		conns:    make(map[string]string),
		progress: make(map[progressKey]Progress),
	}
}

// Create registers a new waiting room hosted by the given player and returns
// its snapshot. The generated code is unique among currently active rooms;
// codes of removed rooms are immediately reusable.
func (g *Registry) Create(hostID uuid.UUID, username, connID string) Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := g.generateCode()
	r := &raceRoom{
		code:      code,
		host:      Player{ID: hostID, Username: username, ConnID: connID},
		status:    StatusWaiting,
		createdAt: time.Now(),
	}
	g.rooms[code] = r
	g.conns[connID] = code
	return r.snapshot()
}

// Join adds a guest to a waiting room. It fails with ErrRoomNotFound for an
// unknown code and ErrRoomNotJoinable when the room is not waiting or
// already has a guest; the registry, not the caller, is the authority that
// serializes two racing joins.
func (g *Registry) Join(code string, guestID uuid.UUID, username, connID string) (Room, error) {
	code = normalizeCode(code)

	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[code]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	if r.status != StatusWaiting || r.guest != nil {
		return Room{}, ErrRoomNotJoinable
	}

	r.guest = &Player{ID: guestID, Username: username, ConnID: connID}
	g.conns[connID] = code
	return r.snapshot(), nil
}

// Get returns a snapshot of the room with the given code.
func (g *Registry) Get(code string) (Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.rooms[normalizeCode(code)]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return r.snapshot(), nil
}

// GetByConn returns the room the given connection belongs to.
func (g *Registry) GetByConn(connID string) (Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	code, ok := g.conns[connID]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	r, ok := g.rooms[code]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return r.snapshot(), nil
}

// Start transitions a waiting room with a guest to playing, assigns the word
// list and zeroes both players' progress snapshots. Host authorization is
// the coordinator's concern; the registry only enforces the state machine.
func (g *Registry) Start(code string, words []string) (Room, error) {
	code = normalizeCode(code)

	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[code]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	if r.status != StatusWaiting || r.guest == nil {
		return Room{}, ErrRoomNotStartable
	}

	r.words = append([]string(nil), words...)
	r.status = StatusPlaying
	r.startedAt = time.Now()

	g.progress[progressKey{code, r.host.ID}] = Progress{PlayerID: r.host.ID, Username: r.host.Username}
	g.progress[progressKey{code, r.guest.ID}] = Progress{PlayerID: r.guest.ID, Username: r.guest.Username}

	return r.snapshot(), nil
}

// RecordProgress upserts a player's progress snapshot. Last write wins; the
// registry neither reorders nor deduplicates updates.
func (g *Registry) RecordProgress(code string, playerID uuid.UUID, p Progress) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.progress[progressKey{normalizeCode(code), playerID}] = p
}

// OpponentProgress returns the current snapshot of the other participant.
func (g *Registry) OpponentProgress(code string, playerID uuid.UUID) (Progress, bool) {
	code = normalizeCode(code)

	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.rooms[code]
	if !ok {
		return Progress{}, false
	}

	var opponentID uuid.UUID
	switch {
	case r.host.ID == playerID && r.guest != nil:
		opponentID = r.guest.ID
	case r.host.ID != playerID:
		opponentID = r.host.ID
	default:
		return Progress{}, false
	}

	p, ok := g.progress[progressKey{code, opponentID}]
	return p, ok
}

// Finish marks a playing room finished. Removal is a separate, explicit
// step so the caller can emit the end-of-game notification first.
func (g *Registry) Finish(code string) (Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[normalizeCode(code)]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	r.status = StatusFinished
	r.finishedAt = time.Now()
	return r.snapshot(), nil
}

// Remove deletes the room, both connection index entries and both progress
// snapshots. It is idempotent.
func (g *Registry) Remove(code string) {
	code = normalizeCode(code)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeLocked(code)
}

func (g *Registry) removeLocked(code string) {
	r, ok := g.rooms[code]
	if !ok {
		return
	}
	delete(g.rooms, code)
	delete(g.conns, r.host.ConnID)
	delete(g.progress, progressKey{code, r.host.ID})
	if r.guest != nil {
		delete(g.conns, r.guest.ConnID)
		delete(g.progress, progressKey{code, r.guest.ID})
	}
}

// Leave removes the connection from its room. A leaving host abandons the
// room, which is deleted along with the guest's connection index entry so a
// later leave from the orphaned guest is a no-op. A leaving guest clears the
// guest slot and the room stays available. The returned snapshot reflects
// the room after the transition; ok is false when the connection was not in
// any room.
func (g *Registry) Leave(connID string) (Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	code, ok := g.conns[connID]
	if !ok {
		return Room{}, false
	}
	delete(g.conns, connID)

	r, ok := g.rooms[code]
	if !ok {
		return Room{}, false
	}

	if r.host.ConnID == connID {
		r.status = StatusAbandoned
		snap := r.snapshot()
		g.removeLocked(code)
		return snap, true
	}

	if r.guest != nil && r.guest.ConnID == connID {
		delete(g.progress, progressKey{code, r.guest.ID})
		r.guest = nil
		return r.snapshot(), true
	}

	return Room{}, false
}

// IsHost reports whether the connection is the host of the given room.
func (g *Registry) IsHost(code, connID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.rooms[normalizeCode(code)]
	return ok && r.host.ConnID == connID
}

// List returns snapshots of all active rooms.
func (g *Registry) List() []Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		result = append(result, r.snapshot())
	}
	return result
}

// Count returns the number of active rooms.
func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// generateCode draws 6-character codes until one misses every live room.
// Must be called with the lock held.
func (g *Registry) generateCode() string {
	buf := make([]byte, codeLength)
	for {
		for i := range buf {
			buf[i] = codeCharset[rand.IntN(len(codeCharset))]
		}
		code := string(buf)
		if _, taken := g.rooms[code]; !taken {
			return code
		}
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
