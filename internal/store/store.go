// Package store keeps generated puzzles in memory.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kyiku/wordsearch-back/internal/puzzle"
)

// ErrNotFound is returned for unknown or expired puzzle ids.
var ErrNotFound = errors.New("puzzle not found")

// puzzleEntry holds a puzzle and its last access time for expiry checking.
// mu serialises work on the puzzle, which is not safe for concurrent use.
type puzzleEntry struct {
	mu         sync.Mutex
	puzzle     *puzzle.Puzzle
	accessedAt time.Time
}

// PuzzleStore manages puzzles in memory.
type PuzzleStore struct {
	puzzles map[string]*puzzleEntry
	mu      sync.RWMutex
	expiry  time.Duration // 0 means no expiry
	now     func() time.Time
}

// NewPuzzleStore creates a new PuzzleStore with no expiry.
func NewPuzzleStore() *PuzzleStore {
	return NewPuzzleStoreWithExpiry(0)
}

// NewPuzzleStoreWithExpiry creates a new PuzzleStore whose puzzles expire
// after going unused for expiry.
func NewPuzzleStoreWithExpiry(expiry time.Duration) *PuzzleStore {
	return &PuzzleStore{
		puzzles: make(map[string]*puzzleEntry),
		expiry:  expiry,
		now:     time.Now,
	}
}

// Create stores p and returns its new id.
func (s *PuzzleStore) Create(p *puzzle.Puzzle) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.puzzles[id] = &puzzleEntry{
		puzzle:     p,
		accessedAt: s.now(),
	}
	return id
}

// lookup returns a live entry. Expired entries are deleted.
func (s *PuzzleStore) lookup(id string) (*puzzleEntry, bool) {
	s.mu.RLock()
	entry, exists := s.puzzles[id]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if s.expired(entry) {
		s.mu.Lock()
		delete(s.puzzles, id)
		s.mu.Unlock()
		return nil, false
	}

	return entry, true
}

func (s *PuzzleStore) expired(entry *puzzleEntry) bool {
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.expiry > 0 && s.now().Sub(entry.accessedAt) > s.expiry
}

// View runs fn with the puzzle held locked. fn must not keep the puzzle.
func (s *PuzzleStore) View(id string, fn func(p *puzzle.Puzzle) error) error {
	entry, ok := s.lookup(id)
	if !ok {
		return ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.accessedAt = s.now()
	return fn(entry.puzzle)
}

// Update runs a mutation with the puzzle held locked, like View.
func (s *PuzzleStore) Update(id string, fn func(p *puzzle.Puzzle) error) error {
	return s.View(id, fn)
}

// Delete removes a puzzle by id.
func (s *PuzzleStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.puzzles, id)
}

// Count returns the number of stored puzzles, expired ones included until
// they are cleaned up.
func (s *PuzzleStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.puzzles)
}

// Cleanup removes every expired puzzle and returns how many were removed.
func (s *PuzzleStore) Cleanup() int {
	if s.expiry <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.puzzles {
		if s.expired(entry) {
			delete(s.puzzles, id)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until stop is closed.
func (s *PuzzleStore) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
