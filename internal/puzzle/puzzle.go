// Package puzzle owns a word search puzzle: its words, size, directions and
// masks. Every mutation regenerates the grid.
//
// A Puzzle is not safe for concurrent use; callers such as the store guard
// it with their own lock.
package puzzle

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/kyiku/wordsearch-back/internal/grid"
	"github.com/kyiku/wordsearch-back/internal/mask"
	"github.com/kyiku/wordsearch-back/internal/placement"
	"github.com/kyiku/wordsearch-back/internal/validator"
	"github.com/kyiku/wordsearch-back/internal/word"
)

// Size limits
const (
	MinSize = 5
	MaxSize = 50
)

// Options configures a new Puzzle.
type Options struct {
	Words       []string
	SecretWords []string
	// Size of zero lets the puzzle pick one from its words.
	Size int
	// Directions defaults to word.DefaultLevel when empty.
	Directions       word.DirectionSet
	SecretDirections word.DirectionSet
	// Validators defaults to validator.Defaults when nil. Pass an empty
	// non-nil slice to disable validation.
	Validators []validator.Validator
	// Masks are applied in order before the first generation.
	Masks     []*mask.Mask
	Placement placement.Options
	Logger    logrus.FieldLogger
}

// Puzzle is a word search puzzle.
type Puzzle struct {
	words            []*word.Word
	size             int
	directions       word.DirectionSet
	secretDirections word.DirectionSet
	validators       []validator.Validator
	masks            []*mask.Mask
	grid             *grid.Grid
	activity         *grid.ActivityGrid
	engine           *placement.Engine
	log              logrus.FieldLogger
}

// New creates a puzzle and generates it when it has words.
func New(opts Options) (*Puzzle, error) {
	if opts.Placement.Logger == nil {
		opts.Placement.Logger = opts.Logger
	}
	engine, err := placement.NewEngine(opts.Placement)
	if err != nil {
		return nil, fmt.Errorf("failed to create placement engine: %w", err)
	}

	p := &Puzzle{
		directions:       opts.Directions,
		secretDirections: opts.SecretDirections,
		validators:       opts.Validators,
		masks:            append([]*mask.Mask(nil), opts.Masks...),
		engine:           engine,
		log:              opts.Logger,
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	if p.directions.Size() == 0 {
		p.directions, _ = word.Level(word.DefaultLevel)
	}
	if p.secretDirections.Size() == 0 {
		p.secretDirections = word.NewDirectionSet()
	}
	if p.validators == nil {
		p.validators = validator.Defaults()
	}
	if opts.Size != 0 {
		if err := validateSize(opts.Size); err != nil {
			return nil, err
		}
		p.size = opts.Size
	}

	p.addWords(opts.Words, false)
	p.addWords(opts.SecretWords, true)

	if len(p.words) > 0 {
		if err := p.Generate(false); err != nil {
			return p, err
		}
	}
	return p, nil
}

func validateSize(size int) error {
	if size < MinSize || size > MaxSize {
		return &SizeError{Size: size}
	}
	return nil
}

// CalcSize picks a puzzle size large enough for words along dirs.
func CalcSize(words []*word.Word, dirs word.DirectionSet) int {
	longest := 10
	for _, w := range words {
		if w.Len() > longest {
			longest = w.Len()
		}
	}
	mult := 1.0
	if len(words) > 15 {
		mult = float64(len(words)) / 15
	}
	lsize := 1.0
	if dirs.Size() > 0 {
		lsize = math.Log2(float64(dirs.Size()))
	}
	size := int(math.Round(float64(longest) + lsize*2*mult))
	if size > MaxSize {
		size = MaxSize
	}
	return size
}

// Generate lays out the words again. With resetSize, or when no size has
// been set, the size is recalculated from the words and directions.
func (p *Puzzle) Generate(resetSize bool) error {
	if len(p.words) == 0 {
		return ErrEmptyWordlist
	}
	if p.size == 0 || resetSize {
		if size := CalcSize(p.words, p.directions); size != p.size {
			p.size = size
			if err := p.reapplyMasks(); err != nil {
				return err
			}
		}
	}
	shortest := p.words[0].Len()
	for _, w := range p.words[1:] {
		if w.Len() < shortest {
			shortest = w.Len()
		}
	}
	if p.size < shortest {
		return &SizeError{Size: p.size, Shortest: shortest}
	}
	if p.activity == nil || p.activity.Size() != p.size {
		if err := p.reapplyMasks(); err != nil {
			return err
		}
	}

	g, err := p.engine.Generate(p.words, p.size, p.directions, p.secretDirections, p.activity, p.validators)
	if g != nil {
		p.grid = g
	}

	fields := logrus.Fields{
		"size":   p.size,
		"words":  len(p.words),
		"placed": len(p.PlacedWords()),
		"masks":  len(p.masks),
	}
	if n := len(p.engine.UnsafeCells()); n > 0 {
		fields["unsafe_noise"] = n
	}
	if err != nil {
		var missing *placement.MissingWordError
		if errors.As(err, &missing) {
			p.log.WithFields(fields).WithField("missing", missing.Words).Warn("puzzle generated with missing words")
			return err
		}
		return fmt.Errorf("failed to generate puzzle: %w", err)
	}
	p.log.WithFields(fields).Debug("puzzle generated")

	if !p.Masked() && len(p.PlacedWords()) == 0 {
		return ErrNoValidWords
	}
	return nil
}

// regenerate is Generate for mutations; a puzzle left without words is
// cleared instead of failing.
func (p *Puzzle) regenerate(resetSize bool) error {
	if len(p.words) == 0 {
		p.grid = nil
		return nil
	}
	return p.Generate(resetSize)
}

func (p *Puzzle) find(text string) int {
	for i, w := range p.words {
		if w.Text == text {
			return i
		}
	}
	return -1
}

// addWords appends new words, replacing an existing entry with the same
// text so its secret flag follows the latest call.
func (p *Puzzle) addWords(texts []string, secret bool) {
	for _, t := range texts {
		w, err := word.New(t, secret)
		if err != nil {
			continue
		}
		if i := p.find(w.Text); i >= 0 {
			p.words = append(p.words[:i], p.words[i+1:]...)
		}
		p.words = append(p.words, w)
	}
}

// AddWords adds words and regenerates.
func (p *Puzzle) AddWords(texts []string, secret, resetSize bool) error {
	p.addWords(texts, secret)
	return p.regenerate(resetSize)
}

// RemoveWords removes words and regenerates.
func (p *Puzzle) RemoveWords(texts []string, resetSize bool) error {
	for _, t := range texts {
		if i := p.find(word.Normalize(t)); i >= 0 {
			p.words = append(p.words[:i], p.words[i+1:]...)
		}
	}
	return p.regenerate(resetSize)
}

// ReplaceWords replaces every word and regenerates.
func (p *Puzzle) ReplaceWords(texts []string, secret, resetSize bool) error {
	p.words = nil
	p.addWords(texts, secret)
	return p.regenerate(resetSize)
}

// SetDirections sets the directions for hidden words and regenerates.
func (p *Puzzle) SetDirections(dirs word.DirectionSet) error {
	if dirs.Size() == 0 {
		return ErrNoDirections
	}
	p.directions = dirs
	return p.regenerate(false)
}

// SetSecretDirections sets the directions for secret words and
// regenerates. An empty set makes secret words use the hidden directions.
func (p *Puzzle) SetSecretDirections(dirs word.DirectionSet) error {
	p.secretDirections = dirs
	return p.regenerate(false)
}

// SetSize changes the size. Masks are redrawn at the new size.
func (p *Puzzle) SetSize(size int) error {
	if err := validateSize(size); err != nil {
		return err
	}
	if size == p.size {
		return nil
	}
	p.size = size
	if err := p.reapplyMasks(); err != nil {
		return err
	}
	return p.regenerate(false)
}

// SetValidators replaces the validators and regenerates.
func (p *Puzzle) SetValidators(validators []validator.Validator) error {
	p.validators = append([]validator.Validator{}, validators...)
	return p.regenerate(false)
}

// ApplyMask draws m at the puzzle size, combines it with the current
// activity using the mask's method and regenerates.
func (p *Puzzle) ApplyMask(m *mask.Mask) error {
	if err := p.combine(m); err != nil {
		return err
	}
	return p.regenerate(false)
}

// ApplyMasks applies each mask in order.
func (p *Puzzle) ApplyMasks(masks ...*mask.Mask) error {
	for _, m := range masks {
		if err := p.combine(m); err != nil {
			return err
		}
	}
	return p.regenerate(false)
}

func (p *Puzzle) combine(m *mask.Mask) error {
	if p.size == 0 {
		return ErrEmptyWordlist
	}
	mg, err := m.Generate(p.size)
	if err != nil {
		return fmt.Errorf("failed to generate %s mask: %w", m.Label(), err)
	}
	if p.activity == nil || p.activity.Size() != p.size {
		p.activity = grid.NewActivity(p.size, true)
	}
	mask.Apply(p.activity, mg, m.Method)
	for _, existing := range p.masks {
		if existing == m {
			return nil
		}
	}
	p.masks = append(p.masks, m)
	return nil
}

func (p *Puzzle) reapplyMasks() error {
	p.activity = grid.NewActivity(p.size, true)
	for _, m := range p.masks {
		if err := p.combine(m); err != nil {
			return err
		}
	}
	return nil
}

// RemoveMasks clears every mask and regenerates.
func (p *Puzzle) RemoveMasks() error {
	p.masks = nil
	if p.size > 0 {
		p.activity = grid.NewActivity(p.size, true)
	}
	return p.regenerate(false)
}

// RemoveStaticMasks drops static masks, redraws the rest and regenerates.
func (p *Puzzle) RemoveStaticMasks() error {
	kept := p.masks[:0]
	for _, m := range p.masks {
		if !m.Static {
			kept = append(kept, m)
		}
	}
	p.masks = kept
	if p.size == 0 {
		return nil
	}
	if err := p.reapplyMasks(); err != nil {
		return err
	}
	return p.regenerate(false)
}

func (p *Puzzle) transformActivity(fn func(*grid.ActivityGrid)) error {
	if p.activity == nil {
		return ErrEmptyWordlist
	}
	fn(p.activity)
	return p.regenerate(false)
}

// InvertMask swaps active and inactive cells of the puzzle activity.
func (p *Puzzle) InvertMask() error {
	return p.transformActivity((*grid.ActivityGrid).Invert)
}

// FlipMaskHorizontal mirrors the activity left to right.
func (p *Puzzle) FlipMaskHorizontal() error {
	return p.transformActivity((*grid.ActivityGrid).FlipHorizontal)
}

// FlipMaskVertical mirrors the activity top to bottom.
func (p *Puzzle) FlipMaskVertical() error {
	return p.transformActivity((*grid.ActivityGrid).FlipVertical)
}

// TransposeMask swaps rows and columns of the activity.
func (p *Puzzle) TransposeMask() error {
	return p.transformActivity((*grid.ActivityGrid).Transpose)
}
