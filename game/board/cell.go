package board

import "strconv"

// Cell is a single board cell. A negative value marks a bone (hazard); a
// non-negative value is an empty cell carrying the exact number of bones in
// its clamped Moore neighborhood, which generation keeps in [0,8].
type Cell int8

// Bone is the hazard cell. Its neighbor count is opaque.
const Bone Cell = -1

// IsBone reports whether the cell is a hazard.
func (c Cell) IsBone() bool {
	return c < 0
}

// Count returns the neighbor-bone count of an empty cell. Calling it on a
// bone is meaningless; it returns 0.
func (c Cell) Count() int {
	if c < 0 {
		return 0
	}
	return int(c)
}

// Symbol returns the display symbol for a revealed cell: "b" for a bone, "."
// for a zero-count empty cell, the digit otherwise.
func (c Cell) Symbol() string {
	switch {
	case c.IsBone():
		return boneSymbol
	case c == 0:
		return zeroSymbol
	default:
		return strconv.Itoa(int(c))
	}
}

// Display symbols shared by Symbol and Output.
const (
	hiddenSymbol = "#"
	boneSymbol   = "b"
	zeroSymbol   = "."
)
