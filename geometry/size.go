package geometry

import "fmt"

// Size holds board dimensions. Unlike an Area, a Size counts whole cells, so
// a 10x10 size spans the inclusive area (0,0)..(9,9).
type Size struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Count returns the total number of cells the size holds.
func (s Size) Count() int {
	return s.X * s.Y
}

// Area returns the inclusive area covered by the size, anchored at the origin.
// A non-positive dimension yields an inverted (empty) area.
func (s Size) Area() Area {
	return Area{Min: Origin, Max: Point{X: s.X - 1, Y: s.Y - 1}}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.X, s.Y)
}
