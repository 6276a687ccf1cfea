package board

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/darling/digsite/geometry"
)

var (
	// ErrTooManyBones is returned when the requested bone count exceeds the
	// number of cells eligible to hold one. It is detected before sampling so
	// generation can never degrade into a retry loop.
	ErrTooManyBones = errors.New("bone count exceeds eligible cells")

	// ErrOutOfRange marks an index or coordinate computation that escaped the
	// board bounds. It indicates an internal invariant violation.
	ErrOutOfRange = errors.New("position out of range")
)

// Board owns one game's cells, visibility bitmap, and player positions.
// Cells are stored row-major; the visibility bitmap has one bit per cell and
// starts all-hidden. Board is not safe for concurrent use; callers serialize
// access (see party.Party).
type Board struct {
	size    geometry.Size
	cells   []Cell
	visible bitset
	players map[string]geometry.Point
	spawn   geometry.Point
}

// Generate creates a board of the given size, places exactly bones hazards
// uniformly at random outside the exclusion zone around spawn, derives
// neighbor counts, and reveals the initial region around the spawn point.
//
// The exclusion zone is the Moore neighborhood of spawn clamped to the board,
// so the spawn cell and everything adjacent to it is guaranteed bone-free and
// the first reveal always flood-fills.
func Generate(rng *rand.Rand, size geometry.Size, bones int, spawn geometry.Point) (*Board, error) {
	bounds := size.Area()
	if !bounds.Contains(spawn) {
		return nil, fmt.Errorf("spawn %s outside %s board: %w", spawn, size, ErrOutOfRange)
	}

	b := &Board{
		size:    size,
		cells:   make([]Cell, size.Count()),
		visible: newBitset(size.Count()),
		players: make(map[string]geometry.Point),
		spawn:   spawn,
	}

	exclusion := bounds.Intersect(geometry.AroundPoint(spawn, 1))

	// Every cell outside the exclusion zone is eligible to hold a bone.
	eligible := make([]int, 0, len(b.cells))
	for i := range b.cells {
		if !exclusion.Contains(bounds.PointFromIndex(i)) {
			eligible = append(eligible, i)
		}
	}

	if bones > len(eligible) {
		return nil, fmt.Errorf("%d bones on a %s board with %d eligible cells: %w",
			bones, size, len(eligible), ErrTooManyBones)
	}

	// Partial Fisher-Yates: the first `bones` entries end up as a uniform
	// sample without replacement.
	for i := 0; i < bones; i++ {
		j := i + rng.Intn(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}
	for _, idx := range eligible[:bones] {
		b.cells[idx] = Bone
	}

	b.applyCounts()
	b.Flood(spawn)

	return b, nil
}

// applyCounts sets the neighbor-bone count of every empty cell. Bones are
// skipped; their stored value stays opaque.
func (b *Board) applyCounts() {
	bounds := b.size.Area()
	for i, c := range b.cells {
		if !c.IsBone() {
			continue
		}
		around := bounds.Intersect(geometry.AroundPoint(bounds.PointFromIndex(i), 1))
		for n := 0; n < around.Size().Count(); n++ {
			j := bounds.IndexFromPoint(around.PointFromIndex(n))
			if !b.cells[j].IsBone() {
				b.cells[j]++
			}
		}
	}
}

// Flood reveals cells outward from p. It uses an explicit frontier queue so
// reveal depth is bounded by board size rather than the call stack. A cell
// with a zero count propagates to its hidden in-bounds Moore neighbors;
// numbered cells and bones are revealed but terminal. Calling Flood on an
// already-visible point is a no-op.
func (b *Board) Flood(p geometry.Point) {
	bounds := b.size.Area()
	if !bounds.Contains(p) {
		return
	}

	queue := []geometry.Point{p}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		i := bounds.IndexFromPoint(cur)
		if b.visible.get(i) {
			continue
		}
		b.visible.set(i)

		if b.cells[i] != 0 {
			continue
		}

		around := bounds.Intersect(geometry.AroundPoint(cur, 1))
		for n := 0; n < around.Size().Count(); n++ {
			next := around.PointFromIndex(n)
			if !b.visible.get(bounds.IndexFromPoint(next)) {
				queue = append(queue, next)
			}
		}
	}
}

// AddPlayer registers the player at the spawn point. Adding an existing
// player leaves their position untouched.
func (b *Board) AddPlayer(id string) {
	if _, ok := b.players[id]; !ok {
		b.players[id] = b.spawn
	}
}

// RemovePlayer drops the player marker from the board.
func (b *Board) RemovePlayer(id string) {
	delete(b.players, id)
}

// MovePlayer shifts the player by delta. A candidate position outside the
// board leaves the player where they are; out-of-bounds movement is a silent
// no-op, not an error. Unknown players are ignored.
func (b *Board) MovePlayer(id string, delta geometry.Point) {
	pos, ok := b.players[id]
	if !ok {
		return
	}
	candidate := pos.Add(delta)
	if b.size.Area().Contains(candidate) {
		b.players[id] = candidate
	}
}

// PlayerPosition returns the player's current position.
func (b *Board) PlayerPosition(id string) (geometry.Point, bool) {
	p, ok := b.players[id]
	return p, ok
}

// Size returns the board dimensions.
func (b *Board) Size() geometry.Size {
	return b.size
}

// Spawn returns the fixed spawn point.
func (b *Board) Spawn() geometry.Point {
	return b.spawn
}

// Revealed reports whether the cell at p has been revealed.
func (b *Board) Revealed(p geometry.Point) bool {
	bounds := b.size.Area()
	if !bounds.Contains(p) {
		return false
	}
	return b.visible.get(bounds.IndexFromPoint(p))
}

// Output renders the board as rows of display symbols. Hidden cells render as
// "#" regardless of content; revealed cells render their symbol; player
// markers override whatever cell they stand on. This is the only view that
// crosses the room boundary.
func (b *Board) Output() [][]string {
	bounds := b.size.Area()

	symbols := make([]string, len(b.cells))
	for i, c := range b.cells {
		if b.visible.get(i) {
			symbols[i] = c.Symbol()
		} else {
			symbols[i] = hiddenSymbol
		}
	}

	for id, pos := range b.players {
		symbols[bounds.IndexFromPoint(pos)] = playerMarker(id)
	}

	rows := make([][]string, b.size.Y)
	for y := 0; y < b.size.Y; y++ {
		rows[y] = symbols[y*b.size.X : (y+1)*b.size.X]
	}
	return rows
}

// String renders the board with row/column rulers for debugging.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < b.size.X; x++ {
		fmt.Fprintf(&sb, "%d ", x%10)
	}
	sb.WriteByte('\n')
	for y, row := range b.Output() {
		fmt.Fprintf(&sb, "%2d ", y)
		sb.WriteString(strings.Join(row, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// playerMarker derives the single-character display marker for a player id.
func playerMarker(id string) string {
	if id == "" {
		return "@"
	}
	return strings.ToUpper(string([]rune(id)[0]))
}
