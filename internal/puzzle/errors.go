package puzzle

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyWordlist is returned when a puzzle is generated without words.
	ErrEmptyWordlist = errors.New("no words have been added to the puzzle")
	// ErrNoValidWords is returned when an unmasked puzzle ends up with no
	// placed words, usually because validators rejected all of them.
	ErrNoValidWords = errors.New("no valid words have been added to the puzzle")
	// ErrNoDirections is returned by SetDirections for an empty set.
	ErrNoDirections = errors.New("directions must not be empty")
)

// SizeError is returned for a puzzle size outside MinSize..MaxSize or
// smaller than the shortest word.
type SizeError struct {
	Size     int
	Shortest int
}

func (e *SizeError) Error() string {
	if e.Shortest > 0 {
		return fmt.Sprintf("puzzle size %d is smaller than shortest word (%d letters)", e.Size, e.Shortest)
	}
	return fmt.Sprintf("puzzle size must be >= %d and <= %d, got %d", MinSize, MaxSize, e.Size)
}
