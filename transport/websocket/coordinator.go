package websocket

import (
	"log"
	"time"

	"github.com/google/uuid"

	"typerace/game/room"
)

// DefaultCountdown is the pre-race countdown broadcast before every start.
const DefaultCountdown = 3 * time.Second

// Peer is the already-authenticated identity of one connection, resolved at
// upgrade time.
type Peer struct {
	ConnID   string
	ID       uuid.UUID
	Username string
}

// Sender delivers a notification to a single connection. Delivery is
// best-effort: a stale or congested peer is dropped, never retried.
type Sender interface {
	SendTo(connID string, n Notification)
}

// WordSource produces the target word list for a race.
type WordSource func(count int) []string

// Coordinator bridges connections to the room registry. It owns notification
// fan-out and the pre-race countdown; all room state lives in the registry.
type Coordinator struct {
	registry  *room.Registry
	sender    Sender
	genWords  WordSource
	wordCount int
	countdown time.Duration
}

// NewCoordinator creates a coordinator over the given registry and sender.
func NewCoordinator(registry *room.Registry, sender Sender, genWords WordSource, wordCount int, countdown time.Duration) *Coordinator {
	return &Coordinator{
		registry:  registry,
		sender:    sender,
		genWords:  genWords,
		wordCount: wordCount,
		countdown: countdown,
	}
}

// HandleCommand dispatches one inbound command from a connection.
func (c *Coordinator) HandleCommand(p Peer, cmd Command) {
	switch cmd.Type {
	case CmdCreateRoom:
		c.createRoom(p)
	case CmdJoinRoom:
		c.joinRoom(p, cmd.RoomCode)
	case CmdLeaveRoom:
		c.leaveRoom(p)
	case CmdStartGame:
		c.startGame(p)
	case CmdUpdateProgress:
		if cmd.Progress != nil {
			c.updateProgress(p, *cmd.Progress)
		}
	case CmdPlayerFinished:
		if cmd.Stats != nil {
			c.playerFinished(p, *cmd.Stats)
		}
	default:
		c.sender.SendTo(p.ConnID, errorNote("unknown command"))
	}
}

// Disconnect handles a dropped connection; it is equivalent to an explicit
// leave_room command.
func (c *Coordinator) Disconnect(p Peer) {
	c.leaveRoom(p)
}

func (c *Coordinator) createRoom(p Peer) {
	if _, err := c.registry.GetByConn(p.ConnID); err == nil {
		c.sender.SendTo(p.ConnID, errorNote("already in a room"))
		return
	}

	r := c.registry.Create(p.ID, p.Username, p.ConnID)
	log.Printf("Room %s created by %s", r.Code, p.Username)

	c.sender.SendTo(p.ConnID, Notification{
		Type:        NoteRoomCreated,
		RoomCreated: &RoomCreatedPayload{RoomCode: r.Code, Host: playerInfo(r.Host)},
	})
}

func (c *Coordinator) joinRoom(p Peer, code string) {
	r, err := c.registry.Join(code, p.ID, p.Username, p.ConnID)
	if err != nil {
		c.sender.SendTo(p.ConnID, Notification{Type: NoteJoinFailed, Reason: "Room not found or not available"})
		return
	}
	log.Printf("Player %s joined room %s", p.Username, r.Code)

	guest := playerInfo(*r.Guest)
	c.sender.SendTo(r.Host.ConnID, Notification{Type: NotePlayerJoined, PlayerJoined: &guest})
	c.sender.SendTo(p.ConnID, Notification{
		Type: NoteRoomJoined,
		RoomJoined: &RoomJoinedPayload{
			RoomCode: r.Code,
			Host:     playerInfo(r.Host),
			Guest:    guest,
			Words:    []string{},
		},
	})
}

func (c *Coordinator) leaveRoom(p Peer) {
	// A leaver in a playing room whose opponent already finished forfeits:
	// the race is finalized instead of dangling forever on a finish signal
	// that will never come.
	if r, err := c.registry.GetByConn(p.ConnID); err == nil && r.Status == room.StatusPlaying {
		if opp, ok := c.registry.OpponentProgress(r.Code, p.ID); ok && opp.Finished {
			c.finalizeForfeit(p, r, opp)
			return
		}
	}

	left, ok := c.registry.Leave(p.ConnID)
	if !ok {
		return
	}

	if left.Status == room.StatusAbandoned {
		log.Printf("Room %s abandoned by host %s", left.Code, p.Username)
		if left.Guest != nil {
			c.sender.SendTo(left.Guest.ConnID, Notification{Type: NoteRoomClosed, Reason: "Host left the room"})
		}
		return
	}

	log.Printf("Player %s left room %s", p.Username, left.Code)
	c.sender.SendTo(left.Host.ConnID, Notification{Type: NotePlayerLeft})
}

func (c *Coordinator) startGame(p Peer) {
	r, err := c.registry.GetByConn(p.ConnID)
	if err != nil {
		c.sender.SendTo(p.ConnID, errorNote("Room not found"))
		return
	}
	if !c.registry.IsHost(r.Code, p.ConnID) {
		c.sender.SendTo(p.ConnID, errorNote("Only the host can start the game"))
		return
	}
	if r.Guest == nil {
		c.sender.SendTo(p.ConnID, errorNote("Waiting for opponent to join"))
		return
	}

	countdownSeconds := int(c.countdown / time.Second)
	c.broadcast(r, Notification{
		Type:         NoteGameStarting,
		GameStarting: &GameStartingPayload{CountdownSeconds: countdownSeconds},
	})

	// The countdown is the only scheduled delay in the engine. It runs in
	// its own goroutine so this connection's read loop and every other room
	// keep processing.
	go func() {
		time.Sleep(c.countdown)

		words := c.genWords(c.wordCount)
		started, err := c.registry.Start(r.Code, words)
		if err != nil {
			// Room abandoned or emptied during the countdown.
			if current, gerr := c.registry.Get(r.Code); gerr == nil {
				c.broadcast(current, errorNote("Failed to start game"))
			}
			return
		}
		log.Printf("Game started in room %s", started.Code)

		c.broadcast(started, Notification{
			Type: NoteGameStarted,
			GameStarted: &GameStartedPayload{
				Words:     started.Words,
				StartTime: time.Now().UnixMilli(),
			},
		})
	}()
}

func (c *Coordinator) updateProgress(p Peer, u ProgressUpdate) {
	r, err := c.registry.GetByConn(p.ConnID)
	if err != nil || r.Status != room.StatusPlaying {
		return
	}

	prog := room.Progress{
		PlayerID:  p.ID,
		Username:  p.Username,
		WordIndex: u.CurrentWordIndex,
		CharIndex: u.CurrentCharIndex,
		WPM:       u.WPM,
		Errors:    u.Errors,
		Finished:  u.IsFinished,
	}
	c.registry.RecordProgress(r.Code, p.ID, prog)

	// Relay to the opponent only; a player never hears its own echo.
	if opp := r.Opponent(p.ID); opp != nil {
		c.sender.SendTo(opp.ConnID, Notification{Type: NoteOpponentProgress, OpponentProgress: &prog})
	}
}

func (c *Coordinator) playerFinished(p Peer, stats FinishedStats) {
	r, err := c.registry.GetByConn(p.ConnID)
	if err != nil || r.Status != room.StatusPlaying {
		return
	}

	prog := room.Progress{
		PlayerID:  p.ID,
		Username:  p.Username,
		WordIndex: stats.WordsTyped,
		WPM:       stats.WPM,
		Errors:    stats.Errors,
		Finished:  true,
		Accuracy:  stats.Accuracy,
		ElapsedMs: stats.ElapsedMs,
	}
	c.registry.RecordProgress(r.Code, p.ID, prog)

	oppProgress, hasOpp := c.registry.OpponentProgress(r.Code, p.ID)

	if opp := r.Opponent(p.ID); opp != nil {
		result := resultFromProgress(prog)
		c.sender.SendTo(opp.ConnID, Notification{Type: NoteOpponentFinished, OpponentFinished: &result})
	}

	if !hasOpp || !oppProgress.Finished {
		// Wait for the second finish signal; the room stays playing.
		return
	}

	c.finalize(r, prog, oppProgress)
}

// finalize ends a race once both finish reports are in: mark finished, emit
// the results to the whole room, then remove it from the registry.
func (c *Coordinator) finalize(r room.Room, a, b room.Progress) {
	if _, err := c.registry.Finish(r.Code); err != nil {
		return
	}

	winner, loser := decideWinner(r, a, b)
	log.Printf("Game ended in room %s, winner %s", r.Code, winner.Username)

	c.broadcast(r, Notification{
		Type:      NoteGameEnded,
		GameEnded: &GameEndedPayload{Winner: winner, Loser: loser},
	})
	c.registry.Remove(r.Code)
}

// finalizeForfeit ends a race when a player leaves after the opponent has
// already finished: the remaining finisher wins outright.
func (c *Coordinator) finalizeForfeit(leaver Peer, r room.Room, opp room.Progress) {
	if _, err := c.registry.Finish(r.Code); err != nil {
		return
	}

	leaverProg, _ := c.registry.OpponentProgress(r.Code, opp.PlayerID)
	winner := resultFromProgress(opp)
	winner.IsWinner = true
	loser := resultFromProgress(leaverProg)
	loser.ID = leaver.ID
	loser.Username = leaver.Username

	log.Printf("Game ended in room %s, %s forfeited", r.Code, leaver.Username)

	if remaining := r.Opponent(leaver.ID); remaining != nil {
		c.sender.SendTo(remaining.ConnID, Notification{
			Type:      NoteGameEnded,
			GameEnded: &GameEndedPayload{Winner: winner, Loser: loser},
		})
	}
	c.registry.Remove(r.Code)
}

// decideWinner applies the symmetric tie-break: higher WPM wins, then lower
// elapsed time, then lower error count, then the host as the stable final
// ordering.
func decideWinner(r room.Room, a, b room.Progress) (winner, loser PlayerResult) {
	aWins := false
	switch {
	case a.WPM != b.WPM:
		aWins = a.WPM > b.WPM
	case a.ElapsedMs != b.ElapsedMs:
		aWins = a.ElapsedMs < b.ElapsedMs
	case a.Errors != b.Errors:
		aWins = a.Errors < b.Errors
	default:
		aWins = a.PlayerID == r.Host.ID
	}

	if !aWins {
		a, b = b, a
	}
	winner = resultFromProgress(a)
	winner.IsWinner = true
	loser = resultFromProgress(b)
	return winner, loser
}

func resultFromProgress(p room.Progress) PlayerResult {
	return PlayerResult{
		ID:         p.PlayerID,
		Username:   p.Username,
		WordsTyped: p.WordIndex,
		WPM:        p.WPM,
		Accuracy:   p.Accuracy,
		ElapsedMs:  p.ElapsedMs,
	}
}

// broadcast sends a notification to every participant of the room snapshot.
func (c *Coordinator) broadcast(r room.Room, n Notification) {
	c.sender.SendTo(r.Host.ConnID, n)
	if r.Guest != nil {
		c.sender.SendTo(r.Guest.ConnID, n)
	}
}
