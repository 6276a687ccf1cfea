package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/darling/digsite/game/service"
	"github.com/darling/digsite/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
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

// Message is the outbound WebSocket envelope. A "game" event carries the
// board view, a "party" event carries the roster.
type Message struct {
	Event   string     `json:"event"`
	Board   [][]string `json:"board,omitempty"`
	Players []string   `json:"players,omitempty"`
}

// inboundMessage is what clients send: {"event":"move","data":"up"} to move,
// {"event":"game"} to start a fresh dig.
type inboundMessage struct {
	Event string `json:"event"`
	Data  string `json:"data,omitempty"`
}

// outbound is a marshaled message routed to one room.
type outbound struct {
	roomID string
	data   []byte
}

// Client represents a WebSocket client
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	roomID   string
	playerID string
}

// Hub maintains the set of active clients per room and fans game and party
// events out to them. It also implements service.Broadcaster, so the game
// controller can push updates without knowing about connections.
type Hub struct {
	// Registered clients by room ID
	rooms map[string]map[*Client]bool

	// Outbound messages routed by room
	broadcast chan outbound

	// Rooms torn down by the controller
	closeRoom chan string

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	svc     service.GameService
	metrics *metrics.Metrics
}

// NewHub creates a new WebSocket hub. The game service is attached later via
// SetService because the controller itself needs the hub as its broadcaster.
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan outbound, 16),
		closeRoom:  make(chan string),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		metrics:    m,
	}
}

// SetService attaches the game service the hub dispatches inbound events to.
// Must be called before ServeWS.
func (h *Hub) SetService(svc service.GameService) {
	h.svc = svc
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.broadcastToRoom(msg.roomID, msg.data)

		case roomID := <-h.closeRoom:
			h.closeRoomClients(roomID)
		}
	}
}

// ServeWS upgrades the request and joins the player to the room. The caller
// has already resolved the room and player identity.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomID, playerID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		roomID:   roomID,
		playerID: playerID,
	}

	client.hub.register <- client

	// Start the writer before joining so the join broadcasts reach this
	// client too.
	go client.writePump()

	if err := h.svc.Join(r.Context(), roomID, playerID); err != nil {
		log.Printf("Join failed for %s in room %s: %v", playerID, roomID, err)
		h.unregister <- client
		conn.Close()
		return
	}

	go client.readPump()
}

// BroadcastBoard sends the board view to everyone in the room.
func (h *Hub) BroadcastBoard(roomID string, board [][]string) {
	h.enqueue(roomID, Message{Event: "game", Board: board})
}

// BroadcastRoster sends the player list to everyone in the room.
func (h *Hub) BroadcastRoster(roomID string, players []string) {
	h.enqueue(roomID, Message{Event: "party", Players: players})
}

// CloseRoom disconnects every client in the room. Used when the room's state
// is gone or beyond repair.
func (h *Hub) CloseRoom(roomID string) {
	h.closeRoom <- roomID
}

func (h *Hub) enqueue(roomID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal WebSocket message: %v", err)
		return
	}
	h.broadcast <- outbound{roomID: roomID, data: data}
}

// registerClient adds a client to a room
func (h *Hub) registerClient(client *Client) {
	if h.rooms[client.roomID] == nil {
		h.rooms[client.roomID] = make(map[*Client]bool)
	}
	h.rooms[client.roomID][client] = true
	h.metrics.ConnectedPeers.Inc()

	log.Printf("Client %s registered for room %s (total clients: %d)",
		client.playerID, client.roomID, len(h.rooms[client.roomID]))
}

// unregisterClient removes a client from a room
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.rooms[client.roomID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)
			h.metrics.ConnectedPeers.Dec()

			// Clean up empty rooms
			if len(clients) == 0 {
				delete(h.rooms, client.roomID)
			}

			log.Printf("Client %s unregistered from room %s (remaining clients: %d)",
				client.playerID, client.roomID, len(clients))
		}
	}
}

// broadcastToRoom sends marshaled data to all clients in a room
func (h *Hub) broadcastToRoom(roomID string, data []byte) {
	if clients, ok := h.rooms[roomID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// Client's send channel is full, close it
				h.unregisterClient(client)
			}
		}
	}
}

// closeRoomClients drops every client in a room
func (h *Hub) closeRoomClients(roomID string) {
	for client := range h.rooms[roomID] {
		h.unregisterClient(client)
	}
}

// readPump pumps messages from the WebSocket connection to the game service
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		if _, err := c.hub.svc.Leave(context.Background(), c.roomID, c.playerID); err != nil {
			log.Printf("Leave failed for %s in room %s: %v", c.playerID, c.roomID, err)
		}
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

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Malformed message from %s: %v", c.playerID, err)
			break
		}

		if err := c.dispatch(msg); err != nil {
			// The room or board is gone; the connection cannot recover.
			log.Printf("Dropping %s from room %s: %v", c.playerID, c.roomID, err)
			break
		}
	}
}

// dispatch routes an inbound event to the game service. Unknown events are
// ignored so newer clients don't kill older servers.
func (c *Client) dispatch(msg inboundMessage) error {
	ctx := context.Background()
	switch msg.Event {
	case "move":
		return c.hub.svc.Move(ctx, c.roomID, c.playerID, msg.Data)
	case "game":
		return c.hub.svc.NewGame(ctx, c.roomID)
	default:
		log.Printf("Unknown event %q from %s", msg.Event, c.playerID)
		return nil
	}
}

// writePump pumps messages from the hub to the WebSocket connection
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
