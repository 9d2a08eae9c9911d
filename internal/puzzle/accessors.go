package puzzle

import (
	"sort"

	"github.com/kyiku/wordsearch-back/internal/geometry"
	"github.com/kyiku/wordsearch-back/internal/grid"
	"github.com/kyiku/wordsearch-back/internal/mask"
	"github.com/kyiku/wordsearch-back/internal/word"
)

// Words returns every word in insertion order.
func (p *Puzzle) Words() []*word.Word {
	return append([]*word.Word(nil), p.words...)
}

func (p *Puzzle) filter(keep func(*word.Word) bool) []*word.Word {
	var out []*word.Word
	for _, w := range p.words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

// PlacedWords returns the words currently on the grid.
func (p *Puzzle) PlacedWords() []*word.Word {
	return p.filter(func(w *word.Word) bool { return w.Placed() })
}

// HiddenWords returns the words shown in the word list.
func (p *Puzzle) HiddenWords() []*word.Word {
	return p.filter(func(w *word.Word) bool { return !w.Secret })
}

// SecretWords returns the words placed but not listed.
func (p *Puzzle) SecretWords() []*word.Word {
	return p.filter(func(w *word.Word) bool { return w.Secret })
}

// UnplacedHiddenWords returns hidden words that did not fit.
func (p *Puzzle) UnplacedHiddenWords() []*word.Word {
	return p.filter(func(w *word.Word) bool { return !w.Secret && !w.Placed() })
}

// WordList returns the placed hidden words sorted alphabetically.
func (p *Puzzle) WordList() []string {
	var out []string
	for _, w := range p.words {
		if !w.Secret && w.Placed() {
			out = append(out, w.Text)
		}
	}
	sort.Strings(out)
	return out
}

// Size returns the puzzle size, or zero before the first generation.
func (p *Puzzle) Size() int {
	return p.size
}

// Directions returns the directions for hidden words.
func (p *Puzzle) Directions() word.DirectionSet {
	return p.directions
}

// SecretDirections returns the directions for secret words.
func (p *Puzzle) SecretDirections() word.DirectionSet {
	return p.secretDirections
}

// Masks returns the applied masks in order.
func (p *Puzzle) Masks() []*mask.Mask {
	return append([]*mask.Mask(nil), p.masks...)
}

// Masked reports whether any mask has been applied.
func (p *Puzzle) Masked() bool {
	return len(p.masks) > 0
}

// Grid returns the generated grid, or nil before generation.
func (p *Puzzle) Grid() *grid.Grid {
	return p.grid
}

// Activity returns a copy of the puzzle activity grid.
func (p *Puzzle) Activity() *grid.ActivityGrid {
	if p.activity == nil {
		return nil
	}
	return p.activity.Clone()
}

// BoundingBox returns the smallest rectangle holding every active cell.
func (p *Puzzle) BoundingBox() (geometry.Rect, bool) {
	if p.activity == nil {
		return geometry.Rect{}, false
	}
	return geometry.BoundingBox(p.activity)
}

// Cropped returns the grid rows inside the bounding box.
func (p *Puzzle) Cropped() [][]string {
	if p.grid == nil {
		return nil
	}
	box, ok := p.BoundingBox()
	if !ok {
		return [][]string{}
	}
	return p.grid.Crop(box.Min, box.Max)
}

// Key maps each placed word to its 0-based start cell and direction.
func (p *Puzzle) Key() map[string]word.KeyInfo {
	key := make(map[string]word.KeyInfo)
	for _, w := range p.words {
		if info, ok := w.Key(); ok {
			key[w.Text] = info
		}
	}
	return key
}

// UnsafeNoise returns the noise cells of the last generation whose letter
// could not avoid spelling a placed word again.
func (p *Puzzle) UnsafeNoise() []grid.Cell {
	return p.engine.UnsafeCells()
}

// KeyStrings renders the answer key relative to the cropped puzzle, in
// word order.
func (p *Puzzle) KeyStrings() []string {
	var offset grid.Point
	if box, ok := p.BoundingBox(); ok {
		offset = box.Min
	}
	var out []string
	for _, w := range p.words {
		if s := w.KeyString(offset); s != "" {
			out = append(out, s)
		}
	}
	return out
}
