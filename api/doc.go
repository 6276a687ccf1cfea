// Package api provides the HTTP surface of the dig server.
//
// The api package implements:
//   - WebSocket upgrade handling with connection-time authentication
//   - Read-only REST endpoints for rooms and rule sets
//   - Health check and Prometheus metrics endpoints
//
// Endpoints:
//
// Play:
//   - GET /ws?room=<id> - Join a room over WebSocket. The player identity
//     comes from the configured authenticator (bearer token or guest).
//
// Rooms:
//   - GET /api/rooms - List live rooms with player counts
//   - GET /api/rooms/{id} - Roster and rendered board snapshot for one room
//
// Rule Sets:
//   - GET /api/rules - List available rule set names
//   - GET /api/rules/{name} - Get a rule set (board size, bones, spawn)
//
// Operational:
//   - GET /healthz - Liveness check
//   - GET /metrics - Prometheus metrics
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Rooms are never created over REST; joining over WebSocket creates them and
// the last player leaving destroys them. The REST surface only observes.
package api
