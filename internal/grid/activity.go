package grid

import "strings"

// Cell markers used when an activity grid is rendered as text.
const (
	ActiveMarker   = '*'
	InactiveMarker = '#'
)

// ActivityGrid marks which cells may hold letters. true means ACTIVE.
type ActivityGrid struct {
	size  int
	cells [][]bool
}

// NewActivity creates an activity grid with every cell set to active.
func NewActivity(size int, active bool) *ActivityGrid {
	cells := make([][]bool, size)
	for i := range cells {
		cells[i] = make([]bool, size)
		if active {
			for j := range cells[i] {
				cells[i][j] = true
			}
		}
	}
	return &ActivityGrid{size: size, cells: cells}
}

// ParseActivity builds an activity grid from rows of '*' and '#'.
// Any other character is treated as inactive.
func ParseActivity(rows []string) *ActivityGrid {
	ag := NewActivity(len(rows), false)
	for r, row := range rows {
		for c, ch := range []rune(row) {
			if c < ag.size && ch == ActiveMarker {
				ag.cells[r][c] = true
			}
		}
	}
	return ag
}

// Size returns the grid dimension.
func (a *ActivityGrid) Size() int {
	return a.size
}

// InBounds reports whether (row, col) lies on the grid.
func (a *ActivityGrid) InBounds(row, col int) bool {
	return inBounds(a.size, row, col)
}

// Active reports whether (row, col) is active. Out of bounds cells are inactive.
func (a *ActivityGrid) Active(row, col int) bool {
	if !a.InBounds(row, col) {
		return false
	}
	return a.cells[row][col]
}

// SetActive sets the state of (row, col). Out of bounds writes are ignored.
func (a *ActivityGrid) SetActive(row, col int, v bool) {
	if !a.InBounds(row, col) {
		return
	}
	a.cells[row][col] = v
}

// Mark activates the point p given in (x, y) order.
func (a *ActivityGrid) Mark(p Point) {
	a.SetActive(p.Y, p.X, true)
}

// Count returns the number of active cells.
func (a *ActivityGrid) Count() int {
	n := 0
	for _, row := range a.cells {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// ActivePoints returns every active cell in (x, y) order, row by row.
func (a *ActivityGrid) ActivePoints() []Point {
	pts := make([]Point, 0)
	for y, row := range a.cells {
		for x, v := range row {
			if v {
				pts = append(pts, Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// Invert flips every cell.
func (a *ActivityGrid) Invert() {
	for _, row := range a.cells {
		for c := range row {
			row[c] = !row[c]
		}
	}
}

// FlipHorizontal mirrors the grid left to right.
func (a *ActivityGrid) FlipHorizontal() {
	for _, row := range a.cells {
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
}

// FlipVertical mirrors the grid top to bottom.
func (a *ActivityGrid) FlipVertical() {
	for i, j := 0, len(a.cells)-1; i < j; i, j = i+1, j-1 {
		a.cells[i], a.cells[j] = a.cells[j], a.cells[i]
	}
}

// Transpose swaps rows and columns.
func (a *ActivityGrid) Transpose() {
	for r := 0; r < a.size; r++ {
		for c := r + 1; c < a.size; c++ {
			a.cells[r][c], a.cells[c][r] = a.cells[c][r], a.cells[r][c]
		}
	}
}

// Equal reports whether both grids have the same size and cells.
func (a *ActivityGrid) Equal(other *ActivityGrid) bool {
	if other == nil || a.size != other.size {
		return false
	}
	for r := range a.cells {
		for c := range a.cells[r] {
			if a.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy.
func (a *ActivityGrid) Clone() *ActivityGrid {
	c := NewActivity(a.size, false)
	for r := range a.cells {
		copy(c.cells[r], a.cells[r])
	}
	return c
}

// Rows renders the grid as rows of '*' (active) and '#' (inactive).
func (a *ActivityGrid) Rows() []string {
	rows := make([]string, a.size)
	for r, row := range a.cells {
		var sb strings.Builder
		for _, v := range row {
			if v {
				sb.WriteRune(ActiveMarker)
			} else {
				sb.WriteRune(InactiveMarker)
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

func (a *ActivityGrid) String() string {
	return strings.Join(a.Rows(), "\n")
}
