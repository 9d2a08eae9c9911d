package mask

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kyiku/wordsearch-back/internal/grid"
)

// Method controls how a mask is combined with the grid it is applied to.
type Method int

// Mask methods.
const (
	Intersection Method = iota + 1
	Additive
	Subtractive
)

var methodNames = map[Method]string{
	Intersection: "intersection",
	Additive:     "additive",
	Subtractive:  "subtractive",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}

// ParseMethod accepts a method name or its number (1, 2 or 3).
// An empty string yields Intersection.
func ParseMethod(s string) (Method, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Intersection, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		m := Method(n)
		if !m.Valid() {
			return 0, fmt.Errorf("invalid mask method: %d", n)
		}
		return m, nil
	}
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid mask method: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	parsed, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Apply folds src into dst cell by cell using method:
// Intersection keeps cells active in both, Additive keeps cells active in
// either, Subtractive clears every cell active in src.
func Apply(dst, src *grid.ActivityGrid, method Method) {
	size := min(dst.Size(), src.Size())
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			a, b := dst.Active(r, c), src.Active(r, c)
			switch method {
			case Intersection:
				dst.SetActive(r, c, a && b)
			case Additive:
				dst.SetActive(r, c, a || b)
			case Subtractive:
				dst.SetActive(r, c, a && !b)
			}
		}
	}
}
