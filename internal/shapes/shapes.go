// Package shapes provides preset masks that scale with the puzzle size.
package shapes

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kyiku/wordsearch-back/internal/geometry"
	"github.com/kyiku/wordsearch-back/internal/grid"
	"github.com/kyiku/wordsearch-back/internal/mask"
)

// Factory creates a fresh preset mask.
type Factory func() *mask.Mask

var presets = map[string]Factory{
	"circle":   Circle,
	"club":     Club,
	"diamond":  Diamond,
	"donut":    Donut,
	"fish":     Fish,
	"flower":   Flower,
	"heart":    Heart,
	"hexagon":  Hexagon,
	"octagon":  Octagon,
	"oval":     Oval,
	"pentagon": Pentagon,
	"spade":    Spade,
	"square":   Square,
	"star5":    Star5,
	"star6":    Star6,
	"star8":    Star8,
	"tree":     Tree,
	"triangle": Triangle,
}

// Names returns the preset names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns a new preset mask. Matching ignores case, spaces,
// dashes and underscores.
func ByName(name string) (*mask.Mask, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	f, ok := presets[key]
	if !ok {
		return nil, fmt.Errorf("unknown shape: %q", name)
	}
	return f(), nil
}

func preset(name string, minSize int, compose mask.ComposeFunc) *mask.Mask {
	return &mask.Mask{
		Kind:    mask.KindCompound,
		Method:  mask.Intersection,
		Name:    name,
		MinSize: minSize,
		Compose: compose,
	}
}

func ellipse(w, h int, center *grid.Point, method mask.Method) *mask.Mask {
	return &mask.Mask{
		Kind:    mask.KindEllipse,
		Method:  method,
		Ellipse: mask.EllipseParams{Width: w, Height: h, Center: center},
	}
}

func rectangle(w, h int, origin grid.Point, method mask.Method) *mask.Mask {
	return &mask.Mask{
		Kind:      mask.KindRectangle,
		Method:    method,
		Rectangle: mask.RectangleParams{Width: w, Height: h, Origin: origin},
	}
}

func regularPolygon(sides int, rotation float64, method mask.Method) *mask.Mask {
	return &mask.Mask{
		Kind:    mask.KindRegularPolygon,
		Method:  method,
		Polygon: mask.RegularPolygonParams{Sides: sides, Rotation: rotation},
	}
}

func pt(x, y int) *grid.Point {
	return &grid.Point{X: x, Y: y}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func dimensionError(name string, size int) error {
	return &mask.ParamError{Kind: mask.KindCompound, Reason: fmt.Sprintf("invalid %s dimensions for puzzle size %d", name, size)}
}

// Circle fills the largest circle that fits the puzzle.
func Circle() *mask.Mask {
	m := ellipse(0, 0, nil, mask.Intersection)
	m.Name = "circle"
	return m
}

// Oval is an ellipse 1.5 times wider than it is tall.
func Oval() *mask.Mask {
	return preset("oval", 0, func(size int) ([]*mask.Mask, error) {
		w := int(float64(size) * 0.9)
		h := int(float64(w) / 1.5)
		if w <= 0 || h <= 0 {
			return nil, dimensionError("oval", size)
		}
		return []*mask.Mask{ellipse(w, h, pt(size/2, size/2), mask.Intersection)}, nil
	})
}

// Square is the largest centered square with an even side.
func Square() *mask.Mask {
	return preset("square", 0, func(size int) ([]*mask.Mask, error) {
		side := size - size%2
		offset := (size - side) / 2
		if side <= 0 {
			return nil, dimensionError("square", size)
		}
		return []*mask.Mask{rectangle(side, side, grid.Point{X: offset, Y: offset}, mask.Intersection)}, nil
	})
}

func polygonPreset(name string, sides, minSize int, rotation float64) *mask.Mask {
	m := regularPolygon(sides, rotation, mask.Intersection)
	m.Name = name
	m.MinSize = minSize
	return m
}

// Triangle is an upward pointing triangle.
func Triangle() *mask.Mask { return polygonPreset("triangle", 3, 0, 0) }

// Diamond is a square standing on a corner.
func Diamond() *mask.Mask { return polygonPreset("diamond", 4, 0, 90) }

// Pentagon is a regular pentagon.
func Pentagon() *mask.Mask { return polygonPreset("pentagon", 5, 5, 0) }

// Hexagon is a regular hexagon.
func Hexagon() *mask.Mask { return polygonPreset("hexagon", 6, 6, 90) }

// Octagon is a regular octagon with a flat top.
func Octagon() *mask.Mask { return polygonPreset("octagon", 8, 8, 22.5) }

func starPreset(name string, points, minSize int) *mask.Mask {
	return &mask.Mask{
		Kind:    mask.KindStar,
		Method:  mask.Intersection,
		Name:    name,
		MinSize: minSize,
		Star:    mask.StarParams{Points: points},
	}
}

// Star5 is a five pointed star.
func Star5() *mask.Mask { return starPreset("star5", 5, 10) }

// Star8 is an eight pointed star.
func Star8() *mask.Mask { return starPreset("star8", 8, 12) }

// Star6 overlaps an upward and a downward triangle.
func Star6() *mask.Mask {
	return preset("star6", 6, func(int) ([]*mask.Mask, error) {
		return []*mask.Mask{
			regularPolygon(3, 0, mask.Intersection),
			regularPolygon(3, 180, mask.Additive),
		}, nil
	})
}

// DonutRatio returns the outer and hole diameters of a donut for size.
func DonutRatio(size int) (donut, hole int) {
	donut = size
	if size%2 == 0 {
		donut = size - 1
	}
	hole = max(3, int(math.Pow(float64(size-2), 2))/(3*(size-1)))
	hole = min(hole, size/2)
	if hole%2 == 0 {
		hole++
	}
	return donut, hole
}

// Donut is a circle with a centered hole.
func Donut() *mask.Mask {
	return preset("donut", 6, func(size int) ([]*mask.Mask, error) {
		donut, hole := DonutRatio(size)
		return []*mask.Mask{
			ellipse(donut, donut, nil, mask.Intersection),
			ellipse(hole, hole, nil, mask.Subtractive),
		}, nil
	})
}

// Tree is a triangle on a rectangular trunk.
func Tree() *mask.Mask {
	return preset("tree", 10, func(size int) ([]*mask.Mask, error) {
		top := regularPolygon(3, 0, mask.Intersection)
		if _, err := top.Generate(size); err != nil {
			return nil, err
		}
		verts := top.ResolvedPoints()
		minX, maxX, bottom := verts[0].X, verts[0].X, verts[0].Y
		for _, v := range verts[1:] {
			minX = min(minX, v.X)
			maxX = max(maxX, v.X)
			bottom = max(bottom, v.Y)
		}
		topWidth := maxX - minX + 1

		trunk := topWidth / 4
		if trunk < 2 {
			trunk = max(2, topWidth/3)
		}
		if trunk%2 == 0 {
			trunk++
		}
		trunk = max(3, trunk)
		height := max(2, size-bottom)

		x := size/2 - trunk/2
		if size%2 == 0 {
			x--
		}
		if x < 0 || x >= size {
			return nil, dimensionError("tree trunk", size)
		}
		return []*mask.Mask{top, rectangle(trunk, height, grid.Point{X: x, Y: bottom}, mask.Additive)}, nil
	})
}

// Club is the playing card suit: three circles on a stem.
func Club() *mask.Mask {
	return preset("club", 18, func(size int) ([]*mask.Mask, error) {
		center := size / 2
		centerOffset := size%2 - 1
		es := center - (center%2 - 1)
		base := es/4 - (es/4%2 - 1)
		if es <= 0 || base <= 0 {
			return nil, dimensionError("club", size)
		}
		return []*mask.Mask{
			ellipse(es, es, pt(center, center-es/2), mask.Intersection),
			ellipse(es, es, pt(center-es/2, center+es/4), mask.Additive),
			ellipse(es, es, pt(center+es/2, center+es/4), mask.Additive),
			rectangle(base, center, grid.Point{X: center - base/2 + centerOffset, Y: center}, mask.Additive),
			rectangle(es, 2, grid.Point{X: center - es/2 + centerOffset, Y: size - 2}, mask.Additive),
		}, nil
	})
}

// Fish is an oval body with a notched tail fin.
func Fish() *mask.Mask {
	return preset("fish", 18, func(size int) ([]*mask.Mask, error) {
		center := size / 2
		bodyW := int(math.Floor(float64(size) / 1.25))
		h := int(math.Floor(float64(size) / 1.5))
		bodyH := h - (h%2 - 1)
		if bodyW <= 0 || bodyH <= 0 {
			return nil, dimensionError("fish", size)
		}
		bodyX := size - bodyW/2
		if size%2 != 0 && bodyW%2 != 0 {
			bodyX--
		}
		return []*mask.Mask{
			ellipse(bodyW, bodyH, pt(bodyX, center), mask.Intersection),
			ellipse(bodyH, bodyH, pt(0, center), mask.Additive),
			ellipse(bodyH, bodyH, pt(floorDiv(-bodyH, 4), center), mask.Subtractive),
		}, nil
	})
}

// Flower is a circle split into four petals.
func Flower() *mask.Mask {
	return preset("flower", 9, func(size int) ([]*mask.Mask, error) {
		fs := size - (size-1)%2
		cw := fs/2 - (fs/2-1)%2
		if fs <= 0 || cw <= 0 {
			return nil, dimensionError("flower", size)
		}
		diag1 := make([]grid.Point, 0, fs)
		diag2 := make([]grid.Point, 0, fs)
		for i := 0; i < fs; i++ {
			diag1 = append(diag1, grid.Point{X: i, Y: i})
			diag2 = append(diag2, grid.Point{X: fs - 1 - i, Y: i})
		}
		return []*mask.Mask{
			ellipse(fs, fs, nil, mask.Intersection),
			mask.NewBitmap(diag1).WithMethod(mask.Subtractive),
			mask.NewBitmap(diag2).WithMethod(mask.Subtractive),
			ellipse(1, cw, nil, mask.Subtractive),
			ellipse(cw, 1, nil, mask.Subtractive),
		}, nil
	})
}

// Heart is two circles over a point.
func Heart() *mask.Mask {
	return preset("heart", 8, func(size int) ([]*mask.Mask, error) {
		es := size/2 + size%2
		offset := 0
		if size%2 != 0 && es%2 == 0 {
			offset = 1
		}
		ec := size/2 - es/2 + offset
		rightX := size/2 + ec
		if size%2 == 0 {
			rightX--
		}
		left := ellipse(es, es, pt(ec, ec), mask.Intersection)
		right := ellipse(es, es, pt(rightX, ec), mask.Additive)
		lg, err := left.Generate(size)
		if err != nil {
			return nil, err
		}
		rg, err := right.Generate(size)
		if err != nil {
			return nil, err
		}
		lbox, lok := geometry.BoundingBox(lg)
		rbox, rok := geometry.BoundingBox(rg)
		if !lok || !rok {
			return nil, dimensionError("heart", size)
		}

		x1 := lbox.Min.X
		y1 := columnEdge(lg, x1, false)
		x4 := lbox.Max.X
		y4 := columnEdge(lg, x4, true)
		poly, err := mask.NewPolygon([]grid.Point{
			{X: x1, Y: y1},
			{X: lbox.Max.Y, Y: rbox.Max.Y * 2},
			{X: rbox.Max.X, Y: y1},
			{X: x4, Y: y4},
		})
		if err != nil {
			return nil, err
		}
		return []*mask.Mask{left, right, poly.WithMethod(mask.Additive)}, nil
	})
}

// columnEdge returns the first (top) or last active row of column x.
func columnEdge(ag *grid.ActivityGrid, x int, top bool) int {
	edge := -1
	for y := 0; y < ag.Size(); y++ {
		if !ag.Active(y, x) {
			continue
		}
		if top {
			return y
		}
		edge = y
	}
	return edge
}

// Spade is the playing card suit: an upside down heart on a stem.
func Spade() *mask.Mask {
	return preset("spade", 18, func(size int) ([]*mask.Mask, error) {
		center := size / 2
		centerOffset := size%2 - 1
		es := center - (center%2 - 1)
		base := es/4 - (es/4%2 - 1)
		if es <= 0 || base <= 0 {
			return nil, dimensionError("spade", size)
		}
		left := ellipse(es, es, pt(center-es/2, center+es/4), mask.Intersection)
		right := ellipse(es, es, pt(center+es/2, center+es/4), mask.Additive)
		if _, err := left.Generate(size); err != nil {
			return nil, err
		}
		if _, err := right.Generate(size); err != nil {
			return nil, err
		}

		lp, rp := left.ResolvedPoints(), right.ResolvedPoints()
		leftTop, rightTop := lp[0].Y, rp[0].Y
		for _, p := range lp {
			leftTop = min(leftTop, p.Y)
		}
		for _, p := range rp {
			rightTop = min(rightTop, p.Y)
		}
		leftX, rightX := math.MaxInt, math.MinInt
		for _, p := range lp {
			if p.Y == leftTop {
				leftX = min(leftX, p.X)
			}
		}
		for _, p := range rp {
			if p.Y == rightTop {
				rightX = max(rightX, p.X)
			}
		}

		poly, err := mask.NewPolygon([]grid.Point{
			{X: center + centerOffset, Y: 0},
			{X: leftX, Y: leftTop},
			{X: center + centerOffset, Y: center},
			{X: rightX, Y: rightTop},
		})
		if err != nil {
			return nil, err
		}
		return []*mask.Mask{
			left,
			right,
			rectangle(es, 2, grid.Point{X: center - es/2 + centerOffset, Y: size - 2}, mask.Additive),
			rectangle(base, center, grid.Point{X: center - base/2 + centerOffset, Y: center}, mask.Additive),
			poly.WithMethod(mask.Additive),
		}, nil
	})
}
