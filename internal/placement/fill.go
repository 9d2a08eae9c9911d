package placement

import (
	"github.com/sirupsen/logrus"

	"github.com/kyiku/wordsearch-back/internal/grid"
)

// fill writes a noise letter into every empty active cell. A letter must not
// match any of its eight neighbours and must not spell a placed word. After
// len(alphabet)*4 rejected candidates the neighbour rule is dropped and the
// alphabet is swept in random order. If no letter passes the sweep the one
// adding the fewest occurrences is used and the cell is recorded in
// UnsafeCells.
func (e *Engine) fill(g *grid.Grid, activity *grid.ActivityGrid, placed []string) {
	size := g.Size()
	limit := len(e.alphabet) * 4
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if g.At(row, col) != grid.Empty || !activity.Active(row, col) {
				continue
			}
			g.Set(row, col, e.noiseLetter(g, grid.Cell{Row: row, Col: col}, placed, limit))
		}
	}
}

func (e *Engine) noiseLetter(g *grid.Grid, cell grid.Cell, placed []string, limit int) rune {
	for i := 0; i < limit; i++ {
		ch := e.alphabet[e.rng.Intn(len(e.alphabet))]
		if hasNeighbor(g, cell, ch) {
			continue
		}
		if Safe(g, ch, cell, placed, "") {
			return ch
		}
	}

	var best rune
	fewest := -1
	for _, i := range e.rng.Perm(len(e.alphabet)) {
		ch := e.alphabet[i]
		n := added(g, ch, cell, placed, "")
		if n == 0 {
			return ch
		}
		if fewest < 0 || n < fewest {
			best, fewest = ch, n
		}
	}
	e.unsafe = append(e.unsafe, cell)
	e.log.WithFields(logrus.Fields{
		"cell":  cell,
		"extra": fewest,
	}).Warn("no safe noise letter")
	return best
}

func hasNeighbor(g *grid.Grid, cell grid.Cell, ch rune) bool {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if g.At(cell.Row+dr, cell.Col+dc) == ch {
				return true
			}
		}
	}
	return false
}
