package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"typerace/game/room"
)

func fixedIdentity(id uuid.UUID, username string) IdentityFunc {
	return func(r *http.Request) (uuid.UUID, string) {
		return id, username
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(fixedIdentity(uuid.New(), "alice"))

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("Expected empty hub, got %d clients", hub.ClientCount())
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(fixedIdentity(uuid.New(), "alice"))

	client := &Client{
		hub:  hub,
		send: make(chan []byte, sendBufferSize),
		peer: Peer{ConnID: "conn-1", ID: uuid.New(), Username: "alice"},
	}

	hub.register(client)
	if hub.ClientCount() != 1 {
		t.Errorf("Expected 1 client, got %d", hub.ClientCount())
	}

	hub.unregister(client)
	if hub.ClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.ClientCount())
	}

	// Double unregister must not close the send channel twice.
	hub.unregister(client)
}

func TestHubSendTo(t *testing.T) {
	hub := NewHub(fixedIdentity(uuid.New(), "alice"))

	client := &Client{
		hub:  hub,
		send: make(chan []byte, sendBufferSize),
		peer: Peer{ConnID: "conn-1", ID: uuid.New(), Username: "alice"},
	}
	hub.register(client)

	hub.SendTo("conn-1", errorNote("test failure"))

	select {
	case data := <-client.send:
		var note Notification
		if err := json.Unmarshal(data, &note); err != nil {
			t.Fatalf("Failed to unmarshal notification: %v", err)
		}
		if note.Type != NoteError || note.Reason != "test failure" {
			t.Errorf("unexpected notification: %+v", note)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}

	// Unknown connections are a silent no-op.
	hub.SendTo("conn-unknown", errorNote("dropped"))
}

func TestHubSendTo_DropsCongestedClient(t *testing.T) {
	hub := NewHub(fixedIdentity(uuid.New(), "alice"))

	client := &Client{
		hub:  hub,
		send: make(chan []byte, 1),
		peer: Peer{ConnID: "conn-1", ID: uuid.New(), Username: "alice"},
	}
	hub.register(client)

	hub.SendTo("conn-1", errorNote("first"))
	hub.SendTo("conn-1", errorNote("second"))

	if hub.ClientCount() != 0 {
		t.Errorf("expected congested client unregistered, got %d clients", hub.ClientCount())
	}
}

func TestWebSocketRoundTrip(t *testing.T) {
	playerID := uuid.New()
	hub := NewHub(fixedIdentity(playerID, "alice"))
	registry := room.NewRegistry()
	coordinator := NewCoordinator(registry, hub, func(int) []string { return testWords }, len(testWords), time.Millisecond)
	hub.SetCoordinator(coordinator)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	if err := conn.WriteJSON(Command{Type: CmdCreateRoom}); err != nil {
		t.Fatalf("Failed to send command: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var note Notification
	if err := conn.ReadJSON(&note); err != nil {
		t.Fatalf("Failed to read notification: %v", err)
	}
	if note.Type != NoteRoomCreated {
		t.Fatalf("expected room_created, got %s", note.Type)
	}
	if note.RoomCreated.Host.ID != playerID || note.RoomCreated.Host.Username != "alice" {
		t.Errorf("expected resolved identity on the wire, got %+v", note.RoomCreated.Host)
	}
	if registry.Count() != 1 {
		t.Errorf("expected 1 registered room, got %d", registry.Count())
	}

	t.Run("malformed command answered with error", func(t *testing.T) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
			t.Fatalf("Failed to send: %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(time.Second))
		var note Notification
		if err := conn.ReadJSON(&note); err != nil {
			t.Fatalf("Failed to read notification: %v", err)
		}
		if note.Type != NoteError {
			t.Errorf("expected error notification, got %s", note.Type)
		}
	})

	t.Run("disconnect leaves the room", func(t *testing.T) {
		conn.Close()
		waitFor(t, func() bool { return hub.ClientCount() == 0 })
		waitFor(t, func() bool { return registry.Count() == 0 })
	})
}
