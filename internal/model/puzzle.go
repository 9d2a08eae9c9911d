// Package model provides data models for the application.
package model

import (
	"github.com/kyiku/wordsearch-back/internal/puzzle"
	"github.com/kyiku/wordsearch-back/internal/word"
)

// WebSocketConn defines the interface for WebSocket connections.
type WebSocketConn interface {
	WriteMessage(messageType int, data []byte) error
	WriteJSON(v interface{}) error
	Close() error
}

// KeyEntry is one answer key entry. Row and Col are 0-based and relative
// to the cropped puzzle.
type KeyEntry struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Direction string `json:"direction"`
	Secret    bool   `json:"secret"`
}

// PuzzleView is the JSON form of a puzzle sent to clients.
type PuzzleView struct {
	ID          string              `json:"id"`
	Size        int                 `json:"size"`
	Puzzle      [][]string          `json:"puzzle"`
	Words       []string            `json:"words"`
	Key         map[string]KeyEntry `json:"key"`
	KeyStrings  []string            `json:"key_strings"`
	Level       []string            `json:"level"`
	SecretLevel []string            `json:"secret_level"`
	Masked      bool                `json:"masked"`
	Masks       []string            `json:"masks"`
	Unplaced    []string            `json:"unplaced"`
	UnsafeNoise int                 `json:"unsafe_noise"`
}

// NewPuzzleView builds the view of p. Empty lists are rendered as [] rather
// than null.
func NewPuzzleView(id string, p *puzzle.Puzzle) PuzzleView {
	v := PuzzleView{
		ID:          id,
		Size:        p.Size(),
		Puzzle:      p.Cropped(),
		Words:       orEmpty(p.WordList()),
		Key:         make(map[string]KeyEntry),
		KeyStrings:  orEmpty(p.KeyStrings()),
		Level:       orEmpty(word.Names(p.Directions())),
		SecretLevel: orEmpty(word.Names(p.SecretDirections())),
		Masked:      p.Masked(),
		Masks:       []string{},
		Unplaced:    []string{},
		UnsafeNoise: len(p.UnsafeNoise()),
	}
	if v.Puzzle == nil {
		v.Puzzle = [][]string{}
	}

	var offsetX, offsetY int
	if box, ok := p.BoundingBox(); ok {
		offsetX, offsetY = box.Min.X, box.Min.Y
	}
	for text, info := range p.Key() {
		v.Key[text] = KeyEntry{
			Row:       info.Start.Row - offsetY,
			Col:       info.Start.Col - offsetX,
			Direction: info.Direction.String(),
			Secret:    info.Secret,
		}
	}
	for _, m := range p.Masks() {
		v.Masks = append(v.Masks, m.Label())
	}
	for _, w := range p.UnplacedHiddenWords() {
		v.Unplaced = append(v.Unplaced, w.Text)
	}
	return v
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
