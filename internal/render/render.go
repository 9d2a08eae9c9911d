// Package render formats puzzles for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gookit/color"

	"github.com/kyiku/wordsearch-back/internal/grid"
	"github.com/kyiku/wordsearch-back/internal/model"
	"github.com/kyiku/wordsearch-back/internal/puzzle"
	"github.com/kyiku/wordsearch-back/internal/word"
)

// Solution letters are drawn in this style when colour is enabled.
var ColorSolution = color.Style{color.FgRed, color.OpBold}

const (
	title          = "WORD SEARCH"
	minHeaderWidth = 11
)

// Options controls Text.
type Options struct {
	// Solution marks the letters of every placed word. With Color they are
	// highlighted, otherwise the filler letters are blanked.
	Solution  bool
	Color     bool
	Lowercase bool
}

// Text renders the cropped puzzle followed by the word list, the allowed
// directions and the answer key.
func Text(p *puzzle.Puzzle, opts Options) string {
	rows := Rows(p, opts)
	width := minHeaderWidth
	if len(rows) > 0 && len(rows[0])*2-1 > width {
		width = len(rows[0])*2 - 1
	}
	hr := strings.Repeat("-", width)
	pad := (width - len(title)) / 2

	var sb strings.Builder
	sb.WriteString(hr + "\n")
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(hr + "\n")

	offset := ""
	if len(rows) > 0 && len(rows[0]) < 6 {
		offset = " "
	}
	for _, row := range rows {
		sb.WriteString(offset + strings.Join(row, " ") + "\n")
	}

	words := p.WordList()
	list := strings.Join(words, ", ")
	if opts.Lowercase {
		list = strings.ToLower(list)
	}
	if len(words) == 0 {
		list = "<ALL SECRET WORDS>"
	}
	keyIntro := "Answer Key"
	if len(p.SecretWords()) > 0 {
		keyIntro = "Answer Key (*Secret Words)"
	}
	key := strings.Join(p.KeyStrings(), ", ")
	if opts.Lowercase {
		key = lowerWords(key, p.PlacedWords())
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Find these words: %s\n", list)
	fmt.Fprintf(&sb, "* Words can go %s\n\n", Directions(p.Directions()))
	fmt.Fprintf(&sb, "%s: %s", keyIntro, key)
	return sb.String()
}

// Rows returns the cropped puzzle as rows of cells ready for printing.
func Rows(p *puzzle.Puzzle, opts Options) [][]string {
	rows := p.Cropped()
	if rows == nil {
		return nil
	}

	var offset grid.Point
	if box, ok := p.BoundingBox(); ok {
		offset = box.Min
	}
	solution := make(map[grid.Cell]struct{})
	if opts.Solution {
		for _, w := range p.PlacedWords() {
			for _, c := range w.Coordinates() {
				solution[grid.Cell{Row: c.Row - offset.Y, Col: c.Col - offset.X}] = struct{}{}
			}
		}
	}

	out := make([][]string, len(rows))
	for r, row := range rows {
		out[r] = make([]string, len(row))
		for c, ch := range row {
			if opts.Lowercase {
				ch = strings.ToLower(ch)
			}
			if opts.Solution {
				_, hit := solution[grid.Cell{Row: r, Col: c}]
				switch {
				case hit && opts.Color:
					ch = ColorSolution.Sprint(ch)
				case !hit && !opts.Color:
					ch = " "
				}
			}
			out[r][c] = ch
		}
	}
	return out
}

// Directions renders a direction set as "NE, E, SE and S".
func Directions(dirs word.DirectionSet) string {
	names := word.Names(dirs)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

// JSON renders the puzzle view, indented.
func JSON(p *puzzle.Puzzle) (string, error) {
	data, err := json.MarshalIndent(model.NewPuzzleView("", p), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode puzzle: %w", err)
	}
	return string(data), nil
}

func lowerWords(s string, words []*word.Word) string {
	for _, w := range words {
		s = strings.ReplaceAll(s, w.Text, strings.ToLower(w.Text))
	}
	return s
}
