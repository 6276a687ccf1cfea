package geometry

import "fmt"

// Area is the inclusive axis-aligned rectangle between two points. Min is the
// top-left corner and Max the bottom-right; an area whose Max is smaller than
// its Min on either axis is empty. Intersect can produce such inverted areas
// for disjoint inputs, so callers must check Empty before counting cells.
type Area struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// AroundPoint returns the box of radius r centered at p. Radius 1 yields the
// 3x3 Moore neighborhood. The result is not clamped to any bounds.
func AroundPoint(p Point, radius int) Area {
	r := Point{X: radius, Y: radius}
	return Area{Min: p.Sub(r), Max: p.Add(r)}
}

// Contains reports whether p lies inside the area, boundaries included.
func (a Area) Contains(p Point) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X && p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

// Empty reports whether the area covers no cells.
func (a Area) Empty() bool {
	return a.Max.X < a.Min.X || a.Max.Y < a.Min.Y
}

// Intersect returns the overlap of the two areas. Disjoint areas produce an
// inverted result for which Empty reports true.
func (a Area) Intersect(b Area) Area {
	return Area{
		Min: Point{X: max(a.Min.X, b.Min.X), Y: max(a.Min.Y, b.Min.Y)},
		Max: Point{X: min(a.Max.X, b.Max.X), Y: min(a.Max.Y, b.Max.Y)},
	}
}

// Normalize translates the area so that Min sits at the origin.
func (a Area) Normalize() Area {
	return Area{Min: Origin, Max: a.Max.Sub(a.Min)}
}

// Size returns the cell dimensions of the area. Empty areas report a zero
// size rather than a negative one.
func (a Area) Size() Size {
	if a.Empty() {
		return Size{}
	}
	n := a.Normalize()
	return Size{X: n.Max.X + 1, Y: n.Max.Y + 1}
}

// PointFromIndex maps a row-major cell index within the area back to an
// absolute point. The index must be in [0, a.Size().Count()).
func (a Area) PointFromIndex(i int) Point {
	w := a.Size().X
	return Point{X: a.Min.X + i%w, Y: a.Min.Y + i/w}
}

// IndexFromPoint maps an absolute point inside the area to its row-major cell
// index.
func (a Area) IndexFromPoint(p Point) int {
	w := a.Size().X
	return (p.Y-a.Min.Y)*w + (p.X - a.Min.X)
}

// Clamp returns p constrained to the area boundaries.
func (a Area) Clamp(p Point) Point {
	return Point{
		X: min(max(p.X, a.Min.X), a.Max.X),
		Y: min(max(p.Y, a.Min.Y), a.Max.Y),
	}
}

func (a Area) String() string {
	return fmt.Sprintf("(%s, %s)", a.Min, a.Max)
}
