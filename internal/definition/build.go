package definition

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kyiku/wordsearch-back/internal/grid"
	"github.com/kyiku/wordsearch-back/internal/mask"
	"github.com/kyiku/wordsearch-back/internal/placement"
	"github.com/kyiku/wordsearch-back/internal/puzzle"
	"github.com/kyiku/wordsearch-back/internal/shapes"
	"github.com/kyiku/wordsearch-back/internal/util"
	"github.com/kyiku/wordsearch-back/internal/validator"
)

// BuildOptions supplies what a definition cannot carry itself.
type BuildOptions struct {
	// ImageSource loads image masks; nil reads from the filesystem.
	ImageSource mask.ImageSource
	// MaxFitTries is used when the definition leaves it unset.
	MaxFitTries int
	Logger      logrus.FieldLogger
}

// Build creates and generates the puzzle described by d. A puzzle is also
// returned alongside a *placement.MissingWordError.
func (d *Definition) Build(opts BuildOptions) (*puzzle.Puzzle, error) {
	dirs, err := d.Level.Directions()
	if err != nil {
		return nil, &InvalidError{Err: fmt.Errorf("invalid level: %w", err)}
	}
	secretDirs, err := d.SecretLevel.Directions()
	if err != nil {
		return nil, &InvalidError{Err: fmt.Errorf("invalid secret_level: %w", err)}
	}

	var validators []validator.Validator
	if d.Validators != nil {
		validators = make([]validator.Validator, 0, len(d.Validators))
		for _, name := range d.Validators {
			v, ok := validator.ByName(name)
			if !ok {
				return nil, &InvalidError{Err: fmt.Errorf("unknown validator: %q", name)}
			}
			validators = append(validators, v)
		}
	}

	masks := make([]*mask.Mask, 0, len(d.Masks))
	for i, md := range d.Masks {
		m, err := BuildMask(md, opts.ImageSource)
		if err != nil {
			return nil, &InvalidError{Err: fmt.Errorf("masks[%d]: %w", i, err)}
		}
		masks = append(masks, m)
	}

	tries := d.MaxFitTries
	if tries == 0 {
		tries = opts.MaxFitTries
	}

	words := toKatakana(d.Words)
	secretWords := toKatakana(d.SecretWords)
	alphabet := d.Alphabet
	if alphabet == "" {
		alphabet = util.AlphabetFor(append(append([]string{}, words...), secretWords...))
	}

	return puzzle.New(puzzle.Options{
		Words:            words,
		SecretWords:      secretWords,
		Size:             d.Size,
		Directions:       dirs,
		SecretDirections: secretDirs,
		Validators:       validators,
		Masks:            masks,
		Placement: placement.Options{
			Alphabet:        alphabet,
			MaxFitTries:     tries,
			RequireAllWords: d.RequireAllWords,
			Seed:            d.Seed,
		},
		Logger: opts.Logger,
	})
}

// BuildMask turns a mask definition into a mask. Image masks load through
// src.
func BuildMask(md MaskDef, src mask.ImageSource) (*mask.Mask, error) {
	method, err := mask.ParseMethod(md.Method)
	if err != nil {
		return nil, err
	}

	m, err := buildShape(md, src)
	if err != nil {
		return nil, err
	}
	m.WithMethod(method)
	if md.Static != nil {
		m.WithStatic(*md.Static)
	}
	return m, nil
}

func buildShape(md MaskDef, src mask.ImageSource) (*mask.Mask, error) {
	if md.Shape != "" {
		return shapes.ByName(md.Shape)
	}

	kind, err := mask.ParseKind(md.Type)
	if err != nil {
		if preset, perr := shapes.ByName(md.Type); perr == nil {
			return preset, nil
		}
		return nil, err
	}

	switch kind {
	case mask.KindBitmap:
		return mask.NewBitmap(points(md.Points)), nil
	case mask.KindPolygon:
		return mask.NewPolygon(points(md.Points))
	case mask.KindRectangle:
		return mask.NewRectangle(md.Width, md.Height, grid.Point{X: md.Origin[0], Y: md.Origin[1]})
	case mask.KindEllipse:
		return mask.NewEllipse(mask.EllipseParams{Width: md.Width, Height: md.Height, Center: center(md.Center)})
	case mask.KindRegularPolygon:
		sides := md.Vertices
		if sides == 0 {
			sides = 3
		}
		return mask.NewRegularPolygon(mask.RegularPolygonParams{
			Sides:    sides,
			Radius:   md.Radius,
			Center:   center(md.Center),
			Rotation: md.Rotation,
		})
	case mask.KindStar:
		n := md.Vertices
		if n == 0 {
			n = 5
		}
		return mask.NewStar(mask.StarParams{
			Points:      n,
			OuterRadius: md.Radius,
			InnerRadius: md.InnerRadius,
			Center:      center(md.Center),
			Rotation:    md.Rotation,
		})
	case mask.KindImage:
		return mask.NewImage(mask.ImageParams{Ref: md.Image, Source: src, Threshold: md.Threshold})
	case mask.KindCompound:
		children := make([]*mask.Mask, 0, len(md.Masks))
		for i, cd := range md.Masks {
			child, err := BuildMask(cd, src)
			if err != nil {
				return nil, fmt.Errorf("masks[%d]: %w", i, err)
			}
			children = append(children, child)
		}
		return mask.NewCompound(children...), nil
	}
	return nil, fmt.Errorf("unsupported mask type: %s", kind)
}

func toKatakana(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = util.HiraganaToKatakana(t)
	}
	return out
}

func points(raw [][2]int) []grid.Point {
	pts := make([]grid.Point, 0, len(raw))
	for _, p := range raw {
		pts = append(pts, grid.Point{X: p[0], Y: p[1]})
	}
	return pts
}

func center(raw *[2]int) *grid.Point {
	if raw == nil {
		return nil
	}
	return &grid.Point{X: raw[0], Y: raw[1]}
}
