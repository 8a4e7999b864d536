package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound queue per client before the connection is dropped.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// IdentityFunc resolves the authenticated player for an upgrade request.
// Implementations fall back to a synthesized guest identity when the request
// carries no valid credentials.
type IdentityFunc func(r *http.Request) (id uuid.UUID, username string)

// Client is one websocket connection with its resolved identity.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	peer Peer
}

// Hub maintains the set of connected clients and delivers notifications to
// them by connection id.
type Hub struct {
	coordinator *Coordinator
	identity    IdentityFunc

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a hub. The coordinator is attached afterwards via
// SetCoordinator because the two reference each other (the coordinator sends
// through the hub).
func NewHub(identity IdentityFunc) *Hub {
	return &Hub{
		identity: identity,
		clients:  make(map[string]*Client),
	}
}

// SetCoordinator wires the command handler. Must be called before ServeWS.
func (h *Hub) SetCoordinator(c *Coordinator) {
	h.coordinator = c
}

// ServeWS upgrades an HTTP request, resolves the caller's identity once, and
// starts the client's read and write pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	id, username := h.identity(r)
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		peer: Peer{ConnID: uuid.NewString(), ID: id, Username: username},
	}

	h.register(client)
	log.Printf("Client connected: %s (%s)", client.peer.ConnID, username)

	go client.writePump()
	go client.readPump()
}

// SendTo implements Sender. Marshaling failures and unknown or congested
// connections drop the message; relays are best-effort by design.
func (h *Hub) SendTo(connID string, n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("Failed to marshal notification: %v", err)
		return
	}

	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		// Client can't keep up; cut it loose.
		h.unregister(client)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client.peer.ConnID] = client
	h.mu.Unlock()
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.peer.ConnID]
	if ok {
		delete(h.clients, client.peer.ConnID)
		close(client.send)
	}
	h.mu.Unlock()

	if ok {
		log.Printf("Client disconnected: %s", client.peer.ConnID)
	}
}

// readPump pumps commands from the websocket connection to the coordinator.
func (c *Client) readPump() {
	defer func() {
		c.hub.coordinator.Disconnect(c.peer)
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.hub.SendTo(c.peer.ConnID, errorNote("malformed command"))
			continue
		}
		c.hub.coordinator.HandleCommand(c.peer, cmd)
	}
}

// writePump pumps notifications from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
