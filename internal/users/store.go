// internal/users/store.go
package users

import (
	"fmt"
	"strings"
	"sync"

	"shelfs/internal/liberr"
)

// Store keeps account records in memory, in insertion order. It owns its
// records: lookups return copies, mutations go through Update.
type Store struct {
	mu      sync.RWMutex
	records []*User
}

// NewStore creates an empty user store.
func NewStore() *Store {
	return &Store{}
}

// Insert adds a new record. The caller supplies the identifier, which lets
// the snapshot loader reinsert records under their original ids.
func (s *Store) Insert(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.ID == u.ID {
			return fmt.Errorf("user id %q: %w", u.ID, liberr.ErrDuplicateKey)
		}
		if existing.Username == u.Username {
			return fmt.Errorf("username %q: %w", u.Username, liberr.ErrDuplicateKey)
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("email %q: %w", u.Email, liberr.ErrDuplicateKey)
		}
	}

	clone := *u
	s.records = append(s.records, &clone)
	return nil
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.records {
		if u.ID == id {
			clone := *u
			return &clone, true
		}
	}
	return nil, false
}

// ByUsername returns the record with the exact username.
func (s *Store) ByUsername(username string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.records {
		if u.Username == username {
			clone := *u
			return &clone, true
		}
	}
	return nil, false
}

// ByEmail returns the record with the given email, matched case-insensitively.
func (s *Store) ByEmail(email string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.records {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, true
		}
	}
	return nil, false
}

// Update replaces the record with the same id. Username and email
// uniqueness is re-checked against all other records.
func (s *Store) Update(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, existing := range s.records {
		if existing.ID == u.ID {
			idx = i
			continue
		}
		if existing.Username == u.Username {
			return fmt.Errorf("username %q: %w", u.Username, liberr.ErrDuplicateKey)
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("email %q: %w", u.Email, liberr.ErrDuplicateKey)
		}
	}
	if idx < 0 {
		return fmt.Errorf("user %q: %w", u.ID, liberr.ErrNotFound)
	}

	clone := *u
	s.records[idx] = &clone
	return nil
}

// Delete removes the record with the given id, reporting whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.records {
		if u.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// All returns copies of every record in insertion order.
func (s *Store) All() []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*User, 0, len(s.records))
	for _, u := range s.records {
		clone := *u
		out = append(out, &clone)
	}
	return out
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
