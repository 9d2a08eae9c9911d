// Package mask builds activity grids that restrict where letters may be
// placed. Every shape is a Mask value tagged with its Kind; Generate draws it
// at a given puzzle size.
package mask

import (
	"fmt"
	"image"
	"strings"

	"github.com/kyiku/wordsearch-back/internal/geometry"
	"github.com/kyiku/wordsearch-back/internal/grid"
)

// Kind identifies the mask variant.
type Kind int

// Mask kinds.
const (
	KindBitmap Kind = iota + 1
	KindImage
	KindEllipse
	KindPolygon
	KindRectangle
	KindRegularPolygon
	KindStar
	KindCompound
)

var kindNames = map[Kind]string{
	KindBitmap:         "bitmap",
	KindImage:          "image",
	KindEllipse:        "ellipse",
	KindPolygon:        "polygon",
	KindRectangle:      "rectangle",
	KindRegularPolygon: "regular_polygon",
	KindStar:           "star",
	KindCompound:       "compound",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts a kind name into a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown mask type: %q", s)
}

// EllipseParams describes an ellipse. Zero values fall back to the puzzle
// size (width, height) and the puzzle center.
type EllipseParams struct {
	Width  int
	Height int
	Center *grid.Point
}

// RectangleParams describes an axis aligned rectangle with its top-left
// corner at Origin.
type RectangleParams struct {
	Width  int
	Height int
	Origin grid.Point
}

// RegularPolygonParams describes a regular polygon. A zero Radius defaults
// to the puzzle radius and a nil Center to (radius, radius).
type RegularPolygonParams struct {
	Sides    int
	Radius   int
	Center   *grid.Point
	Rotation float64
}

// StarParams describes a pointed star. Zero radii default to the puzzle
// radius (outer) and half of it (inner).
type StarParams struct {
	Points      int
	OuterRadius int
	InnerRadius int
	Center      *grid.Point
	Rotation    float64
}

// ComposeFunc builds the children of a compound mask for a puzzle size.
type ComposeFunc func(size int) ([]*Mask, error)

// Mask is a shape that produces an activity grid.
type Mask struct {
	Kind   Kind
	Method Method
	// Static masks keep the points computed at their first size and redraw
	// them at later sizes. Other masks recompute their points on every size
	// change.
	Static  bool
	MinSize int
	Name    string

	Points    []grid.Point
	Ellipse   EllipseParams
	Rectangle RectangleParams
	Polygon   RegularPolygonParams
	Star      StarParams
	Image     ImageParams
	Masks     []*Mask
	Compose   ComposeFunc

	resolved bool
	points   []grid.Point
	size     int
	activity *grid.ActivityGrid
	img      image.Image
	// transforms are replayed on every Generate.
	transforms []func(*grid.ActivityGrid)
}

// NewBitmap creates a mask from explicit (x, y) points.
func NewBitmap(points []grid.Point) *Mask {
	return &Mask{
		Kind:   KindBitmap,
		Method: Intersection,
		Static: true,
		Points: append(make([]grid.Point, 0, len(points)), points...),
	}
}

// NewPolygon creates a filled polygon from three or more vertices.
// The path is closed automatically.
func NewPolygon(points []grid.Point) (*Mask, error) {
	if len(points) < 3 {
		return nil, &ParamError{Kind: KindPolygon, Reason: "minimum of 3 points required"}
	}
	return &Mask{
		Kind:   KindPolygon,
		Method: Intersection,
		Static: true,
		Points: append(make([]grid.Point, 0, len(points)), points...),
	}, nil
}

// NewRectangle creates a filled rectangle.
func NewRectangle(width, height int, origin grid.Point) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, &ParamError{Kind: KindRectangle, Reason: "width and height must be positive"}
	}
	return &Mask{
		Kind:      KindRectangle,
		Method:    Intersection,
		Static:    true,
		Rectangle: RectangleParams{Width: width, Height: height, Origin: origin},
	}, nil
}

// NewEllipse creates a filled ellipse.
func NewEllipse(p EllipseParams) (*Mask, error) {
	if p.Width < 0 || p.Height < 0 {
		return nil, &ParamError{Kind: KindEllipse, Reason: "width and height must be positive"}
	}
	return &Mask{
		Kind:    KindEllipse,
		Method:  Intersection,
		Ellipse: p,
	}, nil
}

// NewRegularPolygon creates a regular polygon mask.
func NewRegularPolygon(p RegularPolygonParams) (*Mask, error) {
	if p.Sides < 3 {
		return nil, &ParamError{Kind: KindRegularPolygon, Reason: "minimum of 3 vertices required"}
	}
	if p.Radius < 0 {
		return nil, &ParamError{Kind: KindRegularPolygon, Reason: "radius must be positive"}
	}
	return &Mask{
		Kind:    KindRegularPolygon,
		Method:  Intersection,
		Polygon: p,
	}, nil
}

// NewStar creates a star mask.
func NewStar(p StarParams) (*Mask, error) {
	if p.Points < 3 {
		return nil, &ParamError{Kind: KindStar, Reason: "minimum of 3 points required"}
	}
	if p.OuterRadius < 0 || p.InnerRadius < 0 {
		return nil, &ParamError{Kind: KindStar, Reason: "radius must be positive"}
	}
	return &Mask{
		Kind:   KindStar,
		Method: Intersection,
		Star:   p,
	}, nil
}

// NewCompound creates a mask that starts fully active and folds in each
// child using the child's own method.
func NewCompound(children ...*Mask) *Mask {
	return &Mask{
		Kind:   KindCompound,
		Method: Intersection,
		Static: true,
		Masks:  append(make([]*Mask, 0, len(children)), children...),
	}
}

// WithMethod sets the method and returns m.
func (m *Mask) WithMethod(method Method) *Mask {
	m.Method = method
	return m
}

// WithStatic sets the static flag and returns m.
func (m *Mask) WithStatic(static bool) *Mask {
	m.Static = static
	return m
}

// AddMask appends a child to a compound mask.
func (m *Mask) AddMask(child *Mask) {
	m.Masks = append(m.Masks, child)
}

// Label returns the preset name when set, otherwise the kind name.
func (m *Mask) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Kind.String()
}

// Size returns the size the mask was last generated at, or 0.
func (m *Mask) Size() int {
	return m.size
}

// Generated reports whether Generate has succeeded at least once.
func (m *Mask) Generated() bool {
	return m.activity != nil
}

// ResolvedPoints returns a copy of the points used for the last drawing.
// For polygon kinds these are the vertices.
func (m *Mask) ResolvedPoints() []grid.Point {
	return append([]grid.Point(nil), m.points...)
}

// Generate draws the mask at size and returns the resulting grid.
func (m *Mask) Generate(size int) (*grid.ActivityGrid, error) {
	if size <= 0 {
		return nil, &SizeError{Name: m.Label(), Size: size}
	}
	if m.MinSize > 0 && size < m.MinSize {
		return nil, &SizeError{Name: m.Label(), Size: size, MinSize: m.MinSize}
	}

	recompute := !m.resolved || (!m.Static && size != m.size)

	var ag *grid.ActivityGrid
	if m.Kind == KindCompound {
		var err error
		ag, err = m.generateCompound(size, recompute)
		if err != nil {
			return nil, err
		}
	} else {
		if recompute {
			pts, err := m.definingPoints(size)
			if err != nil {
				return nil, err
			}
			m.points = pts
			m.resolved = true
		}
		ag = grid.NewActivity(size, false)
		m.draw(ag)
	}
	for _, fn := range m.transforms {
		fn(ag)
	}

	m.size = size
	m.activity = ag
	return ag.Clone(), nil
}

func (m *Mask) generateCompound(size int, recompute bool) (*grid.ActivityGrid, error) {
	if m.Compose != nil && recompute {
		children, err := m.Compose(size)
		if err != nil {
			return nil, fmt.Errorf("failed to compose %s mask: %w", m.Label(), err)
		}
		m.Masks = children
	}
	m.resolved = true

	acc := grid.NewActivity(size, true)
	for _, child := range m.Masks {
		cg, err := child.Generate(size)
		if err != nil {
			return nil, err
		}
		Apply(acc, cg, child.Method)
	}
	return acc, nil
}

// definingPoints computes the points or vertices for a non-compound mask.
func (m *Mask) definingPoints(size int) ([]grid.Point, error) {
	switch m.Kind {
	case KindBitmap, KindPolygon:
		return append([]grid.Point(nil), m.Points...), nil
	case KindRectangle:
		r := m.Rectangle
		o := r.Origin
		return []grid.Point{
			{X: o.X, Y: o.Y},
			{X: o.X, Y: o.Y + r.Height - 1},
			{X: o.X + r.Width - 1, Y: o.Y + r.Height - 1},
			{X: o.X + r.Width - 1, Y: o.Y},
		}, nil
	case KindEllipse:
		e := m.Ellipse
		w, h := e.Width, e.Height
		if w == 0 {
			w = size
		}
		if h == 0 {
			h = size
		}
		center := grid.Point{X: size / 2, Y: size / 2}
		if e.Center != nil {
			center = *e.Center
		}
		return geometry.EllipsePoints(w, h, center, size), nil
	case KindRegularPolygon:
		p := m.Polygon
		radius := p.Radius
		if radius == 0 {
			radius = PuzzleRadius(size)
		}
		center := grid.Point{X: radius, Y: radius}
		if p.Center != nil {
			center = *p.Center
		}
		return geometry.RegularPolygonVertices(p.Sides, radius, center, p.Rotation), nil
	case KindStar:
		s := m.Star
		r := PuzzleRadius(size)
		outer, inner := s.OuterRadius, s.InnerRadius
		if outer == 0 {
			outer = r
		}
		if inner == 0 {
			inner = r / 2
		}
		center := grid.Point{X: r, Y: r}
		if s.Center != nil {
			center = *s.Center
		}
		return geometry.StarVertices(s.Points, outer, inner, center, s.Rotation), nil
	case KindImage:
		return m.imagePoints(size)
	}
	return nil, fmt.Errorf("unsupported mask kind: %d", m.Kind)
}

func (m *Mask) draw(ag *grid.ActivityGrid) {
	switch m.Kind {
	case KindBitmap, KindEllipse, KindImage:
		for _, p := range m.points {
			ag.Mark(p)
		}
	case KindPolygon, KindRectangle, KindRegularPolygon:
		geometry.DrawPath(m.points, true, ag)
		geometry.FillPolygon(m.points, ag)
	case KindStar:
		left, right := geometry.SplitPath(m.points)
		geometry.DrawPath(left, false, ag)
		geometry.DrawPath(right, false, ag)
		geometry.FillPolygon(m.points, ag)
	}
}

// PuzzleRadius is the default radius of a centered shape on a size x size
// grid.
func PuzzleRadius(size int) int {
	if size%2 == 0 {
		return size/2 - 1
	}
	return size / 2
}

// Grid returns a copy of the last generated grid.
func (m *Mask) Grid() (*grid.ActivityGrid, error) {
	if m.activity == nil {
		return nil, ErrMaskNotGenerated
	}
	return m.activity.Clone(), nil
}

// BoundingBox returns the bounding box of the generated grid.
func (m *Mask) BoundingBox() (geometry.Rect, bool, error) {
	if m.activity == nil {
		return geometry.Rect{}, false, ErrMaskNotGenerated
	}
	box, ok := geometry.BoundingBox(m.activity)
	return box, ok, nil
}

// Invert flips every cell of the generated grid. The method is unchanged.
// Transforms stick to the mask and are applied again by later calls to
// Generate, at any size.
func (m *Mask) Invert() error {
	return m.transform((*grid.ActivityGrid).Invert)
}

// FlipHorizontal mirrors the generated grid left to right.
func (m *Mask) FlipHorizontal() error {
	return m.transform((*grid.ActivityGrid).FlipHorizontal)
}

// FlipVertical mirrors the generated grid top to bottom.
func (m *Mask) FlipVertical() error {
	return m.transform((*grid.ActivityGrid).FlipVertical)
}

// Transpose swaps the rows and columns of the generated grid.
func (m *Mask) Transpose() error {
	return m.transform((*grid.ActivityGrid).Transpose)
}

func (m *Mask) transform(fn func(*grid.ActivityGrid)) error {
	if m.activity == nil {
		return ErrMaskNotGenerated
	}
	fn(m.activity)
	m.transforms = append(m.transforms, fn)
	return nil
}

// ResetTransforms drops the transforms recorded by Invert, the flips and
// Transpose. The next Generate draws the plain shape.
func (m *Mask) ResetTransforms() {
	m.transforms = nil
}
