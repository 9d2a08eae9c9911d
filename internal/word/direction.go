// Package word provides puzzle words, compass directions and the direction
// sets ("levels") that control how words may be laid out.
package word

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Direction is one of the eight compass directions.
type Direction int

// Direction constants
const (
	N Direction = iota + 1
	NE
	E
	SE
	S
	SW
	W
	NW
)

// AllDirections returns all eight directions in compass order.
func AllDirections() []Direction {
	return []Direction{N, NE, E, SE, S, SW, W, NW}
}

// String returns the compass name of the direction.
func (d Direction) String() string {
	switch d {
	case N:
		return "N"
	case NE:
		return "NE"
	case E:
		return "E"
	case SE:
		return "SE"
	case S:
		return "S"
	case SW:
		return "SW"
	case W:
		return "W"
	case NW:
		return "NW"
	default:
		return "Unknown"
	}
}

// IsValid returns true if d is one of the eight directions.
func (d Direction) IsValid() bool {
	return d >= N && d <= NW
}

// Delta returns the row and column offsets for this direction.
func (d Direction) Delta() (rowDelta, colDelta int) {
	switch d {
	case N:
		return -1, 0
	case NE:
		return -1, 1
	case E:
		return 0, 1
	case SE:
		return 1, 1
	case S:
		return 1, 0
	case SW:
		return 1, -1
	case W:
		return 0, -1
	case NW:
		return -1, -1
	default:
		return 0, 0
	}
}

// ParseDirection converts a compass name (case insensitive) into a Direction.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, d := range AllDirections() {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid direction: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DirectionSet is a set of directions.
type DirectionSet = mapset.Set[Direction]

// NewDirectionSet creates a set holding dirs.
func NewDirectionSet(dirs ...Direction) DirectionSet {
	s := mapset.New[Direction]()
	for _, d := range dirs {
		s.Put(d)
	}
	return s
}

// Sorted returns the members of s in compass order.
func Sorted(s DirectionSet) []Direction {
	out := make([]Direction, 0, s.Size())
	s.Each(func(d Direction) {
		out = append(out, d)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Names returns the compass names of s in compass order.
func Names(s DirectionSet) []string {
	dirs := Sorted(s)
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return names
}

// EmptyLevel selects no directions at all.
const EmptyLevel = -1

// DefaultLevel is used when no level is given.
const DefaultLevel = 2

var levels = map[int][]Direction{
	EmptyLevel: {},
	1:          {E, S},
	2:          {NE, E, SE, S},
	3:          {N, NE, E, SE, S, SW, W, NW},
	4:          {N, NE, SE, SW, W, NW},
	5:          {N, NE, SE, S, SW, W, NW},
	6:          {NW, W, SW},
	7:          {NE, SE, SW, NW},
	8:          {N, E, S, W},
}

// Level returns the preset direction set for level.
func Level(level int) (DirectionSet, error) {
	dirs, ok := levels[level]
	if !ok {
		return DirectionSet{}, fmt.Errorf("invalid level: %d", level)
	}
	return NewDirectionSet(dirs...), nil
}

// ParseLevel accepts either a level number or a comma or space separated list
// of compass names such as "E,S,SE".
func ParseLevel(s string) (DirectionSet, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Level(n)
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return DirectionSet{}, fmt.Errorf("invalid level: %q", s)
	}

	set := NewDirectionSet()
	for _, f := range fields {
		d, err := ParseDirection(f)
		if err != nil {
			return DirectionSet{}, err
		}
		set.Put(d)
	}
	return set, nil
}
