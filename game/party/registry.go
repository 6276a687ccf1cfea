package party

import (
	"log"
	"sort"
	"sync"
)

// Registry is the concurrent mapping from room id to Party. Entries are
// created on first join and removed when a party's roster empties. Lookups on
// unrelated rooms never contend beyond the registry's read lock; per-board
// serialization lives inside each Party.
type Registry struct {
	mu      sync.RWMutex
	parties map[string]*Party
}

// NewRegistry creates an empty registry. One registry is constructed at
// service startup and threaded into every handler as a dependency.
func NewRegistry() *Registry {
	return &Registry{parties: make(map[string]*Party)}
}

// Ensure inserts a party for roomID if absent and adds playerID to its
// roster. Idempotent.
func (r *Registry) Ensure(roomID, playerID string) *Party {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.parties[roomID]
	if !ok {
		p = New(roomID)
		r.parties[roomID] = p
	}
	// Roster add happens under the registry lock so a concurrent leave cannot
	// tear the party down between insert and add.
	p.AddPlayer(playerID)
	return p
}

// Get returns the party for roomID. Absence is not an error; callers handle
// the false case.
func (r *Registry) Get(roomID string) (*Party, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parties[roomID]
	return p, ok
}

// OnPlayerLeft removes the player from the room's roster. When the roster
// empties, the party (and its board) is deleted from the registry and
// OnPlayerLeft returns true.
func (r *Registry) OnPlayerLeft(roomID, playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.parties[roomID]
	if !ok {
		return false
	}
	if p.RemovePlayer(playerID) {
		delete(r.parties, roomID)
		log.Printf("Party %s deleted", roomID)
		return true
	}
	return false
}

// Delete force-removes a room, regardless of roster. Used when a room is
// declared fatally broken.
func (r *Registry) Delete(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.parties, roomID)
}

// Rooms returns the current room ids in sorted order.
func (r *Registry) Rooms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.parties))
	for id := range r.parties {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of live parties.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parties)
}
