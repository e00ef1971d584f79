package model

import (
	"fmt"
	"math"
)

// CoordEps is the tolerance used when comparing coordinates. It absorbs
// floating-point drift accumulated by repeated movement steps.
const CoordEps = 1e-9

// Point is an immutable 2D coordinate. All operations return new values.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint returns the point (x, y).
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Equal reports whether both coordinates match within CoordEps.
func (p Point) Equal(q Point) bool {
	return math.Abs(p.X-q.X) <= CoordEps && math.Abs(p.Y-q.Y) <= CoordEps
}

// String renders the point as "(x, y)" with full float precision.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// MoveToward returns the point reached by moving from p toward target by at
// most maxStep, never overshooting the target.
func (p Point) MoveToward(target Point, maxStep float64) Point {
	d := p.DistanceTo(target)
	if d <= maxStep || d == 0 {
		return target
	}
	dir := target.Sub(p).Scale(1 / d)
	return p.Add(dir.Scale(maxStep))
}
