package party

import (
	"errors"
	"sort"
	"sync"

	"github.com/darling/digsite/game/board"
)

// ErrNoBoard is returned by WithBoard when the party has no live board yet.
// An event that presupposes a board (move, new-game) arriving before the
// first generation is a protocol-ordering violation by the caller.
var ErrNoBoard = errors.New("party board not initialized")

// Party is one room's roster and its exclusively-guarded board. The board is
// nil until the first generation and is replaced wholesale on new-game. All
// board access goes through the scoped WithBoard/EnsureBoard/ResetBoard
// closures, which guarantee the guard is released on every exit path.
type Party struct {
	ID string

	mu      sync.Mutex
	players map[string]struct{}
	board   *board.Board
}

// New creates an empty party for the given room id.
func New(id string) *Party {
	return &Party{
		ID:      id,
		players: make(map[string]struct{}),
	}
}

// AddPlayer adds a player id to the roster. Idempotent.
func (p *Party) AddPlayer(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.players[id] = struct{}{}
}

// RemovePlayer drops a player id from the roster and reports whether the
// roster is now empty.
func (p *Party) RemovePlayer(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.players, id)
	return len(p.players) == 0
}

// Players returns the roster in sorted order.
func (p *Party) Players() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.players))
	for id := range p.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the roster size.
func (p *Party) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.players)
}

// HasBoard reports whether the party has a live board.
func (p *Party) HasBoard() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board != nil
}

// WithBoard runs fn with exclusive access to the party's board. The guard is
// held for the duration of fn, so fn must be short and must not block on I/O.
// Returns ErrNoBoard if no board has been generated yet.
func (p *Party) WithBoard(fn func(b *board.Board) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.board == nil {
		return ErrNoBoard
	}
	return fn(p.board)
}

// EnsureBoard creates the board via gen if none exists, then runs fn on it
// under the guard. gen runs inside the critical section; keep it CPU-only.
func (p *Party) EnsureBoard(gen func() (*board.Board, error), fn func(b *board.Board) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.board == nil {
		b, err := gen()
		if err != nil {
			return err
		}
		p.board = b
	}
	return fn(p.board)
}

// ResetBoard replaces the board with a freshly generated one and runs fn on
// it. On generation failure the old board is kept untouched.
func (p *Party) ResetBoard(gen func() (*board.Board, error), fn func(b *board.Board) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, err := gen()
	if err != nil {
		return err
	}
	p.board = b
	return fn(p.board)
}
