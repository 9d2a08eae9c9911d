package word

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kyiku/wordsearch-back/internal/grid"
)

// ErrEmptyWord is returned when a word has no text after trimming.
var ErrEmptyWord = errors.New("word text is empty")

// Word is a puzzle word and its placement on the grid.
type Word struct {
	Text   string
	Secret bool

	start       *grid.Cell
	direction   Direction
	coordinates []grid.Cell
}

// Normalize trims and upper-cases text.
func Normalize(text string) string {
	return strings.ToUpper(strings.TrimSpace(text))
}

// New creates a word from text.
func New(text string, secret bool) (*Word, error) {
	t := Normalize(text)
	if t == "" {
		return nil, ErrEmptyWord
	}
	return &Word{Text: t, Secret: secret}, nil
}

// Len returns the number of letters in the word.
func (w *Word) Len() int {
	return len([]rune(w.Text))
}

// Placed reports whether the word has a start cell and direction.
func (w *Word) Placed() bool {
	return w.start != nil && w.direction.IsValid()
}

// Place records the placement of the word.
func (w *Word) Place(start grid.Cell, d Direction, coords []grid.Cell) {
	s := start
	w.start = &s
	w.direction = d
	w.coordinates = append([]grid.Cell(nil), coords...)
}

// Reset clears the placement.
func (w *Word) Reset() {
	w.start = nil
	w.direction = 0
	w.coordinates = nil
}

// Start returns the first cell of a placed word.
func (w *Word) Start() (grid.Cell, bool) {
	if w.start == nil {
		return grid.Cell{}, false
	}
	return *w.start, true
}

// Direction returns the direction of a placed word, or 0 when unplaced.
func (w *Word) Direction() Direction {
	return w.direction
}

// Coordinates returns the cell of every letter in order.
func (w *Word) Coordinates() []grid.Cell {
	return append([]grid.Cell(nil), w.coordinates...)
}

// KeyInfo is the answer key entry for a placed word. Rows and columns are
// 0-based.
type KeyInfo struct {
	Start     grid.Cell `json:"start"`
	Direction Direction `json:"direction"`
	Secret    bool      `json:"secret"`
}

// Key returns the answer key entry for the word.
func (w *Word) Key() (KeyInfo, bool) {
	if !w.Placed() {
		return KeyInfo{}, false
	}
	return KeyInfo{Start: *w.start, Direction: w.direction, Secret: w.Secret}, true
}

// KeyString renders the placement with 1-based coordinates relative to
// offset, e.g. "CAT E @ (2, 3)" where (column, row).
func (w *Word) KeyString(offset grid.Point) string {
	if !w.Placed() {
		return ""
	}
	prefix := ""
	if w.Secret {
		prefix = "*"
	}
	return fmt.Sprintf("%s%s %s @ (%d, %d)",
		prefix,
		w.Text,
		w.direction,
		w.start.Col+1-offset.X,
		w.start.Row+1-offset.Y,
	)
}
