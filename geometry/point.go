package geometry

import (
	"fmt"
	"math"
)

// Point is a signed coordinate in 2D space. Coordinates are signed so that
// spawn-relative arithmetic (e.g. the box around a point near the origin) can
// go negative before being clamped to board bounds.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin is the zero point.
var Origin = Point{}

// Add returns the component-wise sum of p and q, saturating at the integer
// range instead of wrapping.
func (p Point) Add(q Point) Point {
	return Point{X: satAdd(p.X, q.X), Y: satAdd(p.Y, q.Y)}
}

// Sub returns the component-wise difference p - q, saturating at the integer
// range instead of wrapping.
func (p Point) Sub(q Point) Point {
	return Point{X: satSub(p.X, q.X), Y: satSub(p.Y, q.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func satAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	if b < 0 && a < math.MinInt-b {
		return math.MinInt
	}
	return a + b
}

func satSub(a, b int) int {
	if b < 0 && a > math.MaxInt+b {
		return math.MaxInt
	}
	if b > 0 && a < math.MinInt+b {
		return math.MinInt
	}
	return a - b
}
