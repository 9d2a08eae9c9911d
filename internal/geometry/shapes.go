package geometry

import (
	"math"

	"github.com/kyiku/wordsearch-back/internal/grid"
)

// CosSinFromDegrees returns (cos, sin) for an angle in degrees.
// Multiples of 90 degrees return exact values.
func CosSinFromDegrees(degrees float64) (float64, float64) {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	switch d {
	case 0:
		return 1, 0
	case 90:
		return 0, 1
	case 180:
		return -1, 0
	case 270:
		return 0, -1
	}
	rad := d * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}

// RegularPolygonVertices returns the vertices of a regular polygon. The first
// vertex points north when rotation is zero.
func RegularPolygonVertices(sides, radius int, center grid.Point, rotation float64) []grid.Point {
	pts := make([]grid.Point, 0, sides)
	step := 360.0 / float64(sides)
	angle := rotation - 90
	for i := 0; i < sides; i++ {
		pts = append(pts, polar(angle, float64(radius), center))
		angle += step
	}
	return pts
}

// StarVertices returns the vertices of a star, alternating between outer
// and inner radius.
func StarVertices(points, outer, inner int, center grid.Point, rotation float64) []grid.Point {
	pts := make([]grid.Point, 0, points*2)
	step := 180.0 / float64(points)
	angle := rotation - 90
	for i := 0; i < points; i++ {
		pts = append(pts, polar(angle, float64(outer), center))
		angle += step
		pts = append(pts, polar(angle, float64(inner), center))
		angle += step
	}
	return pts
}

func polar(angle, radius float64, center grid.Point) grid.Point {
	c, s := CosSinFromDegrees(angle)
	return grid.Point{
		X: int(RoundHalfUp(c*radius + float64(center.X))),
		Y: int(RoundHalfUp(s*radius + float64(center.Y))),
	}
}

// EllipsePoints enumerates the points of a filled ellipse of the given
// width and height around origin. The origin shifts one cell up or left when
// an odd dimension is drawn on an even sized grid so the shape stays centered.
func EllipsePoints(width, height int, origin grid.Point, gridSize int) []grid.Point {
	wr := float64(width) / 2
	hr := float64(height) / 2
	ratio := wr / hr

	spanX := searchSpan(width)
	spanY := searchSpan(height)

	xOff := origin.X
	if gridSize%2 == 0 && width%2 != 0 {
		xOff--
	}
	yOff := origin.Y
	if gridSize%2 == 0 && height%2 != 0 {
		yOff--
	}

	minX := -float64(spanX)/2 + 1
	maxX := float64(spanX)/2 - 1
	minY := -float64(spanY)/2 + 1
	maxY := float64(spanY)/2 - 1

	pts := make([]grid.Point, 0)
	for y := minY; y < maxY+1; y++ {
		for x := minX; x < maxX+1; x++ {
			if math.Hypot(x, y*ratio) <= wr {
				pts = append(pts, grid.Point{X: int(x + float64(xOff)), Y: int(y + float64(yOff))})
			}
		}
	}
	return pts
}

// searchSpan is the number of candidate offsets scanned along one axis.
func searchSpan(dim int) int {
	r := float64(dim) / 2
	if dim%2 == 0 {
		return int(math.Ceil(r-0.5))*2 + 1
	}
	return int(math.Ceil(r)) * 2
}
