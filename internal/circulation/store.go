// internal/circulation/store.go
package circulation

import (
	"fmt"
	"sync"

	"shelfs/internal/liberr"
)

// Store keeps active loans in memory, in issue order.
type Store struct {
	mu    sync.RWMutex
	loans []*Loan
}

// NewStore creates an empty loan store.
func NewStore() *Store {
	return &Store{}
}

// Insert adds a new loan under its caller-supplied identifier.
func (s *Store) Insert(l *Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.loans {
		if existing.ID == l.ID {
			return fmt.Errorf("loan id %q: %w", l.ID, liberr.ErrDuplicateKey)
		}
	}

	clone := *l
	s.loans = append(s.loans, &clone)
	return nil
}

// Get returns a copy of the loan with the given id.
func (s *Store) Get(id string) (*Loan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.loans {
		if l.ID == id {
			clone := *l
			return &clone, true
		}
	}
	return nil, false
}

// Delete removes the loan with the given id, reporting whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.loans {
		if l.ID == id {
			s.loans = append(s.loans[:i], s.loans[i+1:]...)
			return true
		}
	}
	return false
}

// All returns copies of every loan in issue order.
func (s *Store) All() []*Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Loan, 0, len(s.loans))
	for _, l := range s.loans {
		clone := *l
		out = append(out, &clone)
	}
	return out
}

// ByUser returns every loan held by the given user.
func (s *Store) ByUser(userID string) []*Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Loan, 0)
	for _, l := range s.loans {
		if l.UserID == userID {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out
}

// Len reports the number of active loans.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loans)
}
