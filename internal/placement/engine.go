// Package placement lays words out on a grid and fills the remaining active
// cells with noise letters that do not spell any placed word.
package placement

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/kyiku/wordsearch-back/internal/grid"
	"github.com/kyiku/wordsearch-back/internal/validator"
	"github.com/kyiku/wordsearch-back/internal/word"
)

// Defaults
const (
	DefaultAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultMaxFitTries = 1000
	DefaultMaxWords    = 100
)

// Options configures an Engine.
type Options struct {
	Alphabet        string
	MaxFitTries     int
	MaxWords        int
	RequireAllWords bool
	// Seed is used when Rand is nil. Zero seeds from the clock.
	Seed   int64
	Rand   *rand.Rand
	Logger logrus.FieldLogger
}

// Engine places words on a grid.
type Engine struct {
	alphabet        []rune
	maxFitTries     int
	maxWords        int
	requireAllWords bool
	rng             *rand.Rand
	log             logrus.FieldLogger
	unsafe          []grid.Cell
}

// NewEngine creates an engine from opts, filling in defaults.
func NewEngine(opts Options) (*Engine, error) {
	alpha := opts.Alphabet
	if alpha == "" {
		alpha = DefaultAlphabet
	}
	letters := make([]rune, 0, len(alpha))
	for _, r := range strings.ToUpper(alpha) {
		if unicode.IsSpace(r) || r == ',' {
			continue
		}
		letters = append(letters, r)
	}
	if len(letters) == 0 {
		return nil, ErrEmptyAlphabet
	}

	e := &Engine{
		alphabet:        letters,
		maxFitTries:     opts.MaxFitTries,
		maxWords:        opts.MaxWords,
		requireAllWords: opts.RequireAllWords,
		rng:             opts.Rand,
		log:             opts.Logger,
	}
	if e.maxFitTries <= 0 {
		e.maxFitTries = DefaultMaxFitTries
	}
	if e.maxWords <= 0 {
		e.maxWords = DefaultMaxWords
	}
	if e.rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}
	if e.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.log = l
	}
	return e, nil
}

// UnsafeCells returns the noise cells of the last Generate that could not be
// filled without spelling a placed word a second time.
func (e *Engine) UnsafeCells() []grid.Cell {
	return append([]grid.Cell(nil), e.unsafe...)
}

// RequireAllWords reports whether unplaced hidden words are an error.
func (e *Engine) RequireAllWords() bool {
	return e.requireAllWords
}

// Generate places words on a new size×size grid restricted to the active
// cells of activity and fills the rest of the active cells with noise.
// Hidden words are placed before secret words. Secret words use secretDirs,
// or dirs when secretDirs is empty. Words rejected by a validator are
// skipped.
//
// Placement state of every word is reset first. When RequireAllWords is set
// and a hidden word is left unplaced the grid is still returned together with
// a *MissingWordError.
func (e *Engine) Generate(
	words []*word.Word,
	size int,
	dirs, secretDirs word.DirectionSet,
	activity *grid.ActivityGrid,
	validators []validator.Validator,
) (*grid.Grid, error) {
	if activity == nil {
		activity = grid.NewActivity(size, true)
	}
	if activity.Size() != size {
		return nil, fmt.Errorf("activity grid size %d does not match puzzle size %d", activity.Size(), size)
	}
	for _, w := range words {
		w.Reset()
		if w.Len() > size {
			return nil, &WordSizeError{Word: w.Text, Size: size}
		}
	}

	hiddenDirs := word.Sorted(dirs)
	secrets := hiddenDirs
	if secretDirs.Size() > 0 {
		secrets = word.Sorted(secretDirs)
	}

	e.unsafe = nil
	g := grid.New(size)
	placed := make([]string, 0, len(words))
	for _, w := range orderWords(words) {
		if len(validators) > 0 && !validator.All(validators, w.Text, placed) {
			e.log.WithField("word", w.Text).Debug("word rejected by validator")
			continue
		}
		d := hiddenDirs
		if w.Secret {
			d = secrets
		}
		if e.fitWord(g, activity, w, d, placed) {
			placed = append(placed, w.Text)
		} else {
			e.log.WithFields(logrus.Fields{
				"word":  w.Text,
				"tries": e.maxFitTries,
			}).Debug("word could not be placed")
		}
		if len(placed) >= e.maxWords {
			break
		}
	}

	if len(placed) > 0 {
		e.fill(g, activity, placed)
	}

	e.log.WithFields(logrus.Fields{
		"size":   size,
		"words":  len(words),
		"placed": len(placed),
		"unsafe": len(e.unsafe),
	}).Debug("grid generated")

	if e.requireAllWords {
		var missing []string
		for _, w := range words {
			if !w.Secret && !w.Placed() {
				missing = append(missing, w.Text)
			}
		}
		if len(missing) > 0 {
			return g, &MissingWordError{Words: missing}
		}
	}
	return g, nil
}

func orderWords(words []*word.Word) []*word.Word {
	out := make([]*word.Word, 0, len(words))
	for _, w := range words {
		if !w.Secret {
			out = append(out, w)
		}
	}
	for _, w := range words {
		if w.Secret {
			out = append(out, w)
		}
	}
	return out
}

// fitWord tries random start cells until the word is placed or the retry
// budget runs out.
func (e *Engine) fitWord(g *grid.Grid, activity *grid.ActivityGrid, w *word.Word, dirs []word.Direction, placed []string) bool {
	if len(dirs) == 0 {
		return false
	}
	for try := 0; try < e.maxFitTries; try++ {
		if err := e.tryFit(g, activity, w, dirs, placed); err == nil {
			return true
		}
	}
	return false
}

type fit struct {
	dir    word.Direction
	coords []grid.Cell
}

func (e *Engine) tryFit(g *grid.Grid, activity *grid.ActivityGrid, w *word.Word, dirs []word.Direction, placed []string) error {
	size := g.Size()
	row, col := e.rng.Intn(size), e.rng.Intn(size)
	letters := []rune(w.Text)

	if cur := g.At(row, col); cur != grid.Empty && cur != letters[0] {
		return errNoFit
	}
	if !activity.Active(row, col) {
		return errNoFit
	}

	fits := make([]fit, 0, len(dirs))
	for _, d := range dirs {
		if coords := testFit(g, activity, letters, row, col, d); coords != nil {
			fits = append(fits, fit{dir: d, coords: coords})
		}
	}
	if len(fits) == 0 {
		return errNoFit
	}
	chosen := fits[e.rng.Intn(len(fits))]

	previous := make([]rune, 0, len(letters))
	rollback := func() error {
		for n, prev := range previous {
			g.Set(chosen.coords[n].Row, chosen.coords[n].Col, prev)
		}
		return errNoFit
	}
	for i, ch := range letters {
		c := chosen.coords[i]
		cur := g.At(c.Row, c.Col)
		previous = append(previous, cur)
		if cur == ch {
			continue
		}
		if !Safe(g, ch, c, placed, w.Text) {
			return rollback()
		}
		g.Set(c.Row, c.Col, ch)
	}
	// the word itself must not be readable anywhere else
	if Extra(g, w.Text, chosen.coords) > 0 {
		return rollback()
	}

	w.Place(grid.Cell{Row: row, Col: col}, chosen.dir, chosen.coords)
	return nil
}

// testFit walks letters from (row, col) in direction d and returns the
// cells they would occupy, or nil if any cell is off the grid, inactive or
// holds a different letter.
func testFit(g *grid.Grid, activity *grid.ActivityGrid, letters []rune, row, col int, d word.Direction) []grid.Cell {
	dr, dc := d.Delta()
	coords := make([]grid.Cell, 0, len(letters))
	for _, ch := range letters {
		if !g.InBounds(row, col) || !activity.Active(row, col) {
			return nil
		}
		if cur := g.At(row, col); cur != grid.Empty && cur != ch {
			return nil
		}
		coords = append(coords, grid.Cell{Row: row, Col: col})
		row += dr
		col += dc
	}
	return coords
}
