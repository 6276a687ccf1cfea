package service

import (
	"context"
	"errors"
)

// ErrRoomNotFound is returned when an event names a room that has no party.
// Events other than join presuppose an existing party; hitting this error
// means the caller violated protocol ordering, and the transport terminates
// the offending connection.
var ErrRoomNotFound = errors.New("party not initialized")

// GameService translates inbound player intents into registry and board
// operations and pushes the resulting broadcasts through the Broadcaster.
type GameService interface {
	// Join ensures the player's party exists, lazily generates the room's
	// board on first join, and broadcasts roster and board to the room.
	Join(ctx context.Context, roomID, playerID string) error

	// Move applies a direction token to the player's position and broadcasts
	// the updated board. Unrecognized tokens are a silent no-op.
	Move(ctx context.Context, roomID, playerID, direction string) error

	// NewGame regenerates the room's board and re-places every roster member
	// at the fresh spawn point.
	NewGame(ctx context.Context, roomID string) error

	// Leave removes the player; it reports true when the room emptied and was
	// torn down. Otherwise the remaining players receive a roster broadcast.
	Leave(ctx context.Context, roomID, playerID string) (bool, error)

	// Snapshot returns a read-only view of a room for the REST surface.
	Snapshot(ctx context.Context, roomID string) (*RoomSnapshot, error)

	// Rooms lists the live rooms.
	Rooms(ctx context.Context) []RoomInfo
}

// Broadcaster delivers outbound events to every member of a room. The
// websocket hub implements it.
type Broadcaster interface {
	// BroadcastBoard pushes a rendered board snapshot to the room.
	BroadcastBoard(roomID string, view [][]string)

	// BroadcastRoster pushes the current player list to the room.
	BroadcastRoster(roomID string, players []string)

	// CloseRoom forcibly disconnects every client in the room. Used when a
	// room is fatally broken or fully torn down.
	CloseRoom(roomID string)
}

// RoomSnapshot is a read-only view of one room.
type RoomSnapshot struct {
	ID      string     `json:"id"`
	Players []string   `json:"players"`
	Board   [][]string `json:"board,omitempty"`
}

// RoomInfo summarizes a live room.
type RoomInfo struct {
	ID       string `json:"id"`
	Players  int    `json:"players"`
	HasBoard bool   `json:"has_board"`
}
