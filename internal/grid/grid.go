// Package grid provides the square letter grid and the activity grid used
// to restrict letter placement.
package grid

import "strings"

// Empty marks a cell that holds no letter.
const Empty rune = 0

// Point is an (x, y) coordinate where x is the column and y is the row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is a (row, col) coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Point converts a cell into (x, y) order.
func (c Cell) Point() Point {
	return Point{X: c.Col, Y: c.Row}
}

// Grid is a size x size array of letters.
type Grid struct {
	size  int
	cells [][]rune
}

// New creates an empty grid.
func New(size int) *Grid {
	cells := make([][]rune, size)
	for i := range cells {
		cells[i] = make([]rune, size)
	}
	return &Grid{size: size, cells: cells}
}

// Size returns the grid dimension.
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether (row, col) lies on the grid.
func (g *Grid) InBounds(row, col int) bool {
	return inBounds(g.size, row, col)
}

// At returns the letter at (row, col), or Empty when out of bounds.
func (g *Grid) At(row, col int) rune {
	if !g.InBounds(row, col) {
		return Empty
	}
	return g.cells[row][col]
}

// Set writes a letter at (row, col). Out of bounds writes are ignored.
func (g *Grid) Set(row, col int, r rune) {
	if !g.InBounds(row, col) {
		return
	}
	g.cells[row][col] = r
}

// Rows returns the grid as rows of single-character strings.
// Empty cells are rendered as a space.
func (g *Grid) Rows() [][]string {
	rows := make([][]string, g.size)
	for r := range g.cells {
		rows[r] = make([]string, g.size)
		for c, ch := range g.cells[r] {
			if ch == Empty {
				rows[r][c] = " "
			} else {
				rows[r][c] = string(ch)
			}
		}
	}
	return rows
}

// Crop returns the rows and columns inside the inclusive rectangle
// [min, max] given in (x, y) order.
func (g *Grid) Crop(min, max Point) [][]string {
	rows := g.Rows()
	out := make([][]string, 0, max.Y-min.Y+1)
	for y := min.Y; y <= max.Y && y < g.size; y++ {
		out = append(out, rows[y][min.X:max.X+1])
	}
	return out
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := New(g.size)
	for r := range g.cells {
		copy(c.cells[r], g.cells[r])
	}
	return c
}

func (g *Grid) String() string {
	var sb strings.Builder
	for r, row := range g.Rows() {
		if r > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Join(row, " "))
	}
	return sb.String()
}

func inBounds(size, row, col int) bool {
	return row >= 0 && row < size && col >= 0 && col < size
}
