// Package websocket provides the real-time transport for dig rooms.
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections, grouped by room. Each client connection is handled
// by a pair of goroutines that manage reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded with an event envelope:
//   - Incoming: {"event": "move", "data": "up"} or {"event": "game"}
//   - Outgoing: {"event": "game", "board": [[...]]} after every board change,
//     {"event": "party", "players": [...]} after every roster change
//
// Room Integration:
//
// Clients specify their room via query parameter (?room=cove) when
// establishing the connection. Updates are broadcast only to clients
// connected to the same room. Joining and leaving the underlying party is
// handled by the hub itself; disconnecting is leaving.
//
// Usage:
//
//	hub := websocket.NewHub(m)
//	hub.SetService(svc)
//	go hub.Run()
//
// Concurrency:
//
// All room bookkeeping happens on the hub's event loop, so broadcast methods
// are safe to call from any goroutine.
package websocket
