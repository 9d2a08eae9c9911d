package placement

import (
	"strings"

	"github.com/kyiku/wordsearch-back/internal/grid"
	"github.com/kyiku/wordsearch-back/internal/validator"
	"github.com/kyiku/wordsearch-back/internal/word"
)

const (
	marker    = '*'
	separator = ' '
)

// axes are the four primary lines through a cell, each as a row and column
// step. Walking them in both directions covers all eight directions.
var axes = [4][2]int{
	{1, 1},  // NW to SE
	{0, 1},  // W to E
	{1, 0},  // N to S
	{-1, 1}, // SW to NE
}

// Safe reports whether writing c at cell leaves the number of occurrences of
// every placed word unchanged. Placed words that contain or are contained in
// exclude are ignored so a word never collides with itself while it is being
// written.
func Safe(g *grid.Grid, c rune, cell grid.Cell, placed []string, exclude string) bool {
	return added(g, c, cell, placed, exclude) == 0
}

// added returns how many occurrences of placed words writing c at cell would
// create.
func added(g *grid.Grid, c rune, cell grid.Cell, placed []string, exclude string) int {
	words := make([]string, 0, len(placed))
	radius := 0
	for _, p := range placed {
		if p == "" {
			continue
		}
		if exclude != "" && (strings.Contains(exclude, p) || strings.Contains(p, exclude)) {
			continue
		}
		words = append(words, p)
		if n := len([]rune(p)); n > radius {
			radius = n
		}
	}
	if len(words) == 0 {
		return 0
	}

	before, after := 0, 0
	for _, frag := range fragments(g, radius, cell) {
		filled := strings.ReplaceAll(frag, string(marker), string(c))
		for _, w := range words {
			rev := validator.Reverse(w)
			before += occurrences(frag, w, rev)
			after += occurrences(filled, w, rev)
		}
	}
	return after - before
}

func occurrences(s, w, rev string) int {
	n := strings.Count(s, w)
	if rev != w {
		n += strings.Count(s, rev)
	}
	return n
}

// fragments renders the four axes through cell out to radius-1 cells on each
// side. The cell itself is rendered as the marker and empty cells as a
// separator; cells off the grid are skipped.
func fragments(g *grid.Grid, radius int, cell grid.Cell) []string {
	out := make([]string, 0, len(axes))
	for _, ax := range axes {
		var b strings.Builder
		for i := -(radius - 1); i <= radius-1; i++ {
			r, c := cell.Row+ax[0]*i, cell.Col+ax[1]*i
			if !g.InBounds(r, c) {
				continue
			}
			switch {
			case i == 0:
				b.WriteRune(marker)
			case g.At(r, c) == grid.Empty:
				b.WriteRune(separator)
			default:
				b.WriteRune(g.At(r, c))
			}
		}
		out = append(out, b.String())
	}
	return out
}

// Extra counts the readings of text on g, in any of the eight directions,
// that do not lie exactly on the cells of own. A palindrome read backwards
// over its own cells is not extra.
func Extra(g *grid.Grid, text string, own []grid.Cell) int {
	letters := []rune(text)
	if len(letters) == 0 {
		return 0
	}
	mine := make(map[grid.Cell]struct{}, len(own))
	for _, c := range own {
		mine[c] = struct{}{}
	}

	extra := 0
	size := g.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if g.At(row, col) != letters[0] {
				continue
			}
			for _, d := range word.AllDirections() {
				if len(letters) == 1 && d != word.E {
					continue
				}
				dr, dc := d.Delta()
				match, onOwn := true, len(own) == len(letters)
				for i, ch := range letters {
					c := grid.Cell{Row: row + dr*i, Col: col + dc*i}
					if g.At(c.Row, c.Col) != ch {
						match = false
						break
					}
					if _, ok := mine[c]; !ok {
						onOwn = false
					}
				}
				if match && !onOwn {
					extra++
				}
			}
		}
	}
	return extra
}
