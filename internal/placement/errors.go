package placement

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyAlphabet is returned when the noise alphabet has no letters.
var ErrEmptyAlphabet = errors.New("alphabet is empty")

// errNoFit signals a failed placement attempt. It never leaves the package.
var errNoFit = errors.New("word does not fit")

// WordSizeError is returned when a word cannot fit on a grid of Size.
type WordSizeError struct {
	Word string
	Size int
}

func (e *WordSizeError) Error() string {
	return fmt.Sprintf("word %q (%d letters) is longer than puzzle size %d", e.Word, len([]rune(e.Word)), e.Size)
}

// MissingWordError is returned when RequireAllWords is set and hidden words
// could not be placed.
type MissingWordError struct {
	Words []string
}

func (e *MissingWordError) Error() string {
	return fmt.Sprintf("failed to place all words: %s", strings.Join(e.Words, ", "))
}
