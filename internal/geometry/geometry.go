// Package geometry provides the integer raster helpers used to draw masks:
// line drawing, polygon fill, ellipse enumeration and vertex math.
package geometry

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/kyiku/wordsearch-back/internal/grid"
)

// PointSet is a set of (x, y) points.
type PointSet = mapset.Set[grid.Point]

// Rect is an inclusive rectangle in (x, y) order.
type Rect struct {
	Min grid.Point `json:"min"`
	Max grid.Point `json:"max"`
}

// Width returns the number of columns covered by the rectangle.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X + 1
}

// Height returns the number of rows covered by the rectangle.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y + 1
}

// RoundHalfUp rounds n to the nearest integer, with halves rounded up.
func RoundHalfUp(n float64) float64 {
	return math.Floor(n + 0.5)
}

// ConnectPoints draws a line from p1 to p2 with Bresenham's algorithm.
// Every stepped point, endpoints included, is returned; those on the grid are
// also marked active. The drawn set does not depend on endpoint order.
func ConnectPoints(p1, p2 grid.Point, ag *grid.ActivityGrid) PointSet {
	if p2.X < p1.X || (p2.X == p1.X && p2.Y < p1.Y) {
		p1, p2 = p2, p1
	}

	pts := mapset.New[grid.Point]()
	mark := func(x, y int) {
		p := grid.Point{X: x, Y: y}
		pts.Put(p)
		if ag != nil {
			ag.Mark(p)
		}
	}

	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)
	sx, sy := 1, 1
	if p1.X > p2.X {
		sx = -1
	}
	if p1.Y > p2.Y {
		sy = -1
	}

	x, y := p1.X, p1.Y
	if dx > dy {
		e := float64(dx) / 2
		for x != p2.X {
			mark(x, y)
			e -= float64(dy)
			if e < 0 {
				y += sy
				e += float64(dx)
			}
			x += sx
		}
	} else {
		e := float64(dy) / 2
		for y != p2.Y {
			mark(x, y)
			e -= float64(dx)
			if e < 0 {
				x += sx
				e += float64(dy)
			}
			y += sy
		}
	}
	mark(x, y)

	return pts
}

// DrawPath connects consecutive vertices. When closed is true the last
// vertex is joined back to the first.
func DrawPath(vertices []grid.Point, closed bool, ag *grid.ActivityGrid) {
	n := len(vertices)
	if n == 0 {
		return
	}
	if n == 1 {
		ConnectPoints(vertices[0], vertices[0], ag)
		return
	}
	for i := 0; i < n-1; i++ {
		ConnectPoints(vertices[i], vertices[i+1], ag)
	}
	if closed {
		ConnectPoints(vertices[n-1], vertices[0], ag)
	}
}

// PointInPolygon reports whether p lies inside the polygon using an
// even-odd ray cast. The vertex loop is closed implicitly.
func PointInPolygon(p grid.Point, vertices []grid.Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}

	x, y := float64(p.X), float64(p.Y)
	crossings := 0
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]
		x1, y1 := float64(a.X), float64(a.Y)
		x2, y2 := float64(b.X), float64(b.Y)
		if (y < y1) != (y < y2) && x < (x2-x1)*(y-y1)/(y2-y1)+x1 {
			crossings++
		}
	}
	return crossings%2 == 1
}

// FillPolygon activates every grid point inside the polygon. Only points
// within the bounding box of the cells already active are tested, so the
// outline is expected to be drawn first.
func FillPolygon(vertices []grid.Point, ag *grid.ActivityGrid) {
	box, ok := BoundingBox(ag)
	if !ok {
		return
	}
	for y := box.Min.Y; y <= box.Max.Y; y++ {
		for x := box.Min.X; x <= box.Max.X; x++ {
			p := grid.Point{X: x, Y: y}
			if PointInPolygon(p, vertices) {
				ag.Mark(p)
			}
		}
	}
}

// SplitPath splits a closed vertex path into two open halves that both start
// at the first vertex: one runs forward to the midpoint, the other runs
// backwards through the reversed second half.
func SplitPath(vertices []grid.Point) (left, right []grid.Point) {
	n := len(vertices)
	if n == 0 {
		return nil, nil
	}

	leftEnd := n/2 + 2
	if n%2 == 0 {
		leftEnd = n/2 + 1
	}
	if leftEnd > n {
		leftEnd = n
	}
	left = append(left, vertices[:leftEnd]...)

	right = append(right, vertices[0])
	for i := 0; i < n/2; i++ {
		right = append(right, vertices[n-1-i])
	}
	return left, right
}

// BoundingBox returns the tightest rectangle holding every active cell.
// ok is false when no cell is active.
func BoundingBox(ag *grid.ActivityGrid) (Rect, bool) {
	size := ag.Size()
	minX, minY := size, size
	maxX, maxY := -1, -1
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !ag.Active(y, x) {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return Rect{}, false
	}
	return Rect{Min: grid.Point{X: minX, Y: minY}, Max: grid.Point{X: maxX, Y: maxY}}, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
