// Package party implements the session layer: a concurrent registry of rooms
// and, per room, a roster plus one exclusively-guarded board.
//
// Concurrency model:
//
// The registry map is guarded by a read-write lock, so lookups for one room
// never block on activity in another. Each party carries its own mutex; at
// most one board mutation executes at a time per room, and concurrent
// requests against the same room serialize in arbitrary order. Requests
// against different rooms run fully in parallel.
//
// The board guard is only exposed through scoped closures (WithBoard,
// EnsureBoard, ResetBoard) so it is released on every exit path, including
// failures. Critical sections must stay CPU-only; holding the guard across a
// blocking call would stall every player in the room.
package party
