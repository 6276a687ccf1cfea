package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/darling/digsite/game/service"
	"github.com/darling/digsite/metrics"
)

// fakeService records dispatched intents so tests can assert routing without
// a real board behind the hub.
type fakeService struct {
	mu      sync.Mutex
	joins   []string
	moves   []string
	leaves  []string
	newGame int
	joinErr error
	moveErr error
}

func (f *fakeService) Join(ctx context.Context, roomID, playerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins = append(f.joins, roomID+"/"+playerID)
	return f.joinErr
}

func (f *fakeService) Move(ctx context.Context, roomID, playerID, direction string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, direction)
	return f.moveErr
}

func (f *fakeService) NewGame(ctx context.Context, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newGame++
	return nil
}

func (f *fakeService) Leave(ctx context.Context, roomID, playerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaves = append(f.leaves, roomID+"/"+playerID)
	return false, nil
}

func (f *fakeService) Snapshot(ctx context.Context, roomID string) (*service.RoomSnapshot, error) {
	return &service.RoomSnapshot{ID: roomID}, nil
}

func (f *fakeService) Rooms(ctx context.Context) []service.RoomInfo {
	return nil
}

func newTestHub() (*Hub, *fakeService) {
	hub := NewHub(metrics.NewNop())
	svc := &fakeService{}
	hub.SetService(svc)
	return hub, svc
}

func TestNewHub(t *testing.T) {
	hub, _ := newTestHub()

	if hub.rooms == nil {
		t.Error("Hub rooms map is nil")
	}

	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}

	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}

	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub, _ := newTestHub()

	client := &Client{
		hub:      hub,
		roomID:   "cove",
		playerID: "ada",
		send:     make(chan []byte, 256),
	}

	hub.registerClient(client)

	if _, exists := hub.rooms["cove"]; !exists {
		t.Error("Room was not created")
	}

	if !hub.rooms["cove"][client] {
		t.Error("Client was not registered in room")
	}

	if len(hub.rooms["cove"]) != 1 {
		t.Errorf("Expected 1 client in room, got %d", len(hub.rooms["cove"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub, _ := newTestHub()

	client := &Client{
		hub:      hub,
		roomID:   "cove",
		playerID: "ada",
		send:     make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.rooms["cove"]; exists {
		t.Error("Room should have been cleaned up after last client unregistered")
	}
}

func TestHubMultipleClientsInRoom(t *testing.T) {
	hub, _ := newTestHub()

	client1 := &Client{
		hub:      hub,
		roomID:   "cove",
		playerID: "ada",
		send:     make(chan []byte, 256),
	}
	client2 := &Client{
		hub:      hub,
		roomID:   "cove",
		playerID: "bob",
		send:     make(chan []byte, 256),
	}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.rooms["cove"]) != 2 {
		t.Errorf("Expected 2 clients in room, got %d", len(hub.rooms["cove"]))
	}

	hub.unregisterClient(client1)

	if len(hub.rooms["cove"]) != 1 {
		t.Errorf("Expected 1 client remaining in room, got %d", len(hub.rooms["cove"]))
	}

	if !hub.rooms["cove"][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastBoard(t *testing.T) {
	hub, _ := newTestHub()

	client := &Client{
		hub:      hub,
		roomID:   "cove",
		playerID: "ada",
		send:     make(chan []byte, 256),
	}
	hub.registerClient(client)

	view := [][]string{{"#", "#"}, {".", "1"}}
	hub.BroadcastBoard("cove", view)
	hub.broadcastToRoom("cove", (<-hub.broadcast).data)

	select {
	case data := <-client.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if msg.Event != "game" {
			t.Errorf("Expected event 'game', got %s", msg.Event)
		}
		if len(msg.Board) != 2 || msg.Board[1][1] != "1" {
			t.Errorf("Board not correctly transmitted: %v", msg.Board)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}
}

func TestHubBroadcastRoster(t *testing.T) {
	hub, _ := newTestHub()

	client := &Client{
		hub:      hub,
		roomID:   "cove",
		playerID: "ada",
		send:     make(chan []byte, 256),
	}
	hub.registerClient(client)

	hub.BroadcastRoster("cove", []string{"ada", "bob"})
	hub.broadcastToRoom("cove", (<-hub.broadcast).data)

	select {
	case data := <-client.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if msg.Event != "party" {
			t.Errorf("Expected event 'party', got %s", msg.Event)
		}
		if len(msg.Players) != 2 || msg.Players[0] != "ada" {
			t.Errorf("Roster not correctly transmitted: %v", msg.Players)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}
}

func TestHubCloseRoomDropsClients(t *testing.T) {
	hub, _ := newTestHub()

	client := &Client{
		hub:      hub,
		roomID:   "cove",
		playerID: "ada",
		send:     make(chan []byte, 256),
	}
	hub.registerClient(client)

	hub.closeRoomClients("cove")

	if _, exists := hub.rooms["cove"]; exists {
		t.Error("Room should be gone after close")
	}
	if _, open := <-client.send; open {
		t.Error("Client send channel should be closed")
	}
}

func newWSServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		playerID := r.URL.Query().Get("player")
		hub.ServeWS(w, r, roomID, playerID)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWebSocketUpgradeAndJoin(t *testing.T) {
	hub, svc := newTestHub()
	go hub.Run()

	server := newWSServer(t, hub)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?room=cove&player=ada"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	svc.mu.Lock()
	joins := len(svc.joins)
	svc.mu.Unlock()
	if joins != 1 {
		t.Errorf("Expected 1 join call, got %d", joins)
	}

	conn.Close()
	time.Sleep(50 * time.Millisecond)

	svc.mu.Lock()
	leaves := len(svc.leaves)
	svc.mu.Unlock()
	if leaves != 1 {
		t.Errorf("Expected 1 leave call, got %d", leaves)
	}
}

func TestWebSocketDispatchesMoves(t *testing.T) {
	hub, svc := newTestHub()
	go hub.Run()

	server := newWSServer(t, hub)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?room=cove&player=ada"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(10 * time.Millisecond)

	if err := conn.WriteJSON(inboundMessage{Event: "move", Data: "up"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := conn.WriteJSON(inboundMessage{Event: "game"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.moves) != 1 || svc.moves[0] != "up" {
		t.Errorf("moves = %v, want [up]", svc.moves)
	}
	if svc.newGame != 1 {
		t.Errorf("newGame calls = %d, want 1", svc.newGame)
	}
}

func TestWebSocketServiceErrorTerminatesConnection(t *testing.T) {
	hub, svc := newTestHub()
	svc.moveErr = service.ErrRoomNotFound
	go hub.Run()

	server := newWSServer(t, hub)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?room=ghost&player=ada"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(10 * time.Millisecond)

	if err := conn.WriteJSON(inboundMessage{Event: "move", Data: "up"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the server to close the connection")
	}
}

func TestWebSocketJoinFailureClosesConnection(t *testing.T) {
	hub, svc := newTestHub()
	svc.joinErr = service.ErrRoomNotFound
	go hub.Run()

	server := newWSServer(t, hub)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?room=cove&player=ada"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the server to close the connection after failed join")
	}
}
