// Package pending persists the in-flight kick so a restarted process can
// resume polling its round.
package pending

import (
	"errors"
	"log"
	"os"
	"sync"

	"KickRelay/internal/model"
)

// Store keeps the in-flight kick with concurrency safety. An empty file
// path keeps it in memory only; so does the zero value.
type Store struct {
	mu       sync.Mutex
	kick     *model.PendingKick
	filePath string
}

// NewStore creates a Store, loading any kick left on disk.
func NewStore(filePath string) (*Store, error) {
	s := &Store{filePath: filePath}
	if filePath == "" {
		return s, nil
	}
	kick, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if kick != nil {
		log.Printf("[INFO] found pending kick: round %d (tx %s)", kick.SequenceNumber, kick.TxHash)
	}
	s.kick = kick
	return s, nil
}

// Get returns a copy of the pending kick.
func (s *Store) Get() (model.PendingKick, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kick == nil {
		return model.PendingKick{}, false
	}
	return *s.kick, true
}

// Put replaces the pending kick.
func (s *Store) Put(kick model.PendingKick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kick = &kick
	if s.filePath == "" {
		return nil
	}
	return SaveState(s.filePath, s.kick)
}

// Clear drops the pending kick if it is for seq.
func (s *Store) Clear(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kick == nil || s.kick.SequenceNumber != seq {
		return
	}
	s.kick = nil
	if s.filePath == "" {
		return
	}
	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[ERROR] failed to remove pending kick file: %v", err)
	}
}
