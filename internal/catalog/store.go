// internal/catalog/store.go
package catalog

import (
	"fmt"
	"strings"
	"sync"

	"shelfs/internal/liberr"
)

// Store keeps book definitions and copies in memory, in insertion order.
// Lookups return copies of the records; mutations go through the Update
// methods. Every stored BookCopy references an existing definition.
type Store struct {
	mu          sync.RWMutex
	definitions []*BookDefinition
	copies      []*BookCopy
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{}
}

// InsertDefinition adds a new definition. ISBN uniqueness is enforced here;
// the upsert-by-ISBN policy lives in the service.
func (s *Store) InsertDefinition(d *BookDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.definitions {
		if existing.ID == d.ID {
			return fmt.Errorf("definition id %q: %w", d.ID, liberr.ErrDuplicateKey)
		}
		if existing.ISBN == d.ISBN {
			return fmt.Errorf("isbn %q: %w", d.ISBN, liberr.ErrDuplicateKey)
		}
	}

	clone := *d
	s.definitions = append(s.definitions, &clone)
	return nil
}

// InsertCopy adds a new copy. The referenced definition must already exist.
func (s *Store) InsertCopy(c *BookCopy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.definitionByID(c.DefinitionID) == nil {
		return fmt.Errorf("definition %q: %w", c.DefinitionID, liberr.ErrNotFound)
	}
	for _, existing := range s.copies {
		if existing.ID == c.ID {
			return fmt.Errorf("copy id %q: %w", c.ID, liberr.ErrDuplicateKey)
		}
		if strings.EqualFold(existing.Barcode, c.Barcode) {
			return fmt.Errorf("barcode %q: %w", c.Barcode, liberr.ErrDuplicateKey)
		}
	}

	clone := *c
	s.copies = append(s.copies, &clone)
	return nil
}

func (s *Store) definitionByID(id string) *BookDefinition {
	for _, d := range s.definitions {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// DefinitionByID returns a copy of the definition with the given id.
func (s *Store) DefinitionByID(id string) (*BookDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d := s.definitionByID(id); d != nil {
		clone := *d
		return &clone, true
	}
	return nil, false
}

// DefinitionByISBN returns the definition registered under the exact ISBN.
func (s *Store) DefinitionByISBN(isbn string) (*BookDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.definitions {
		if d.ISBN == isbn {
			clone := *d
			return &clone, true
		}
	}
	return nil, false
}

// CopyByID returns a copy of the BookCopy with the given id.
func (s *Store) CopyByID(id string) (*BookCopy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.copies {
		if c.ID == id {
			clone := *c
			return &clone, true
		}
	}
	return nil, false
}

// CopyByBarcode returns the BookCopy with the given barcode, matched
// case-insensitively.
func (s *Store) CopyByBarcode(barcode string) (*BookCopy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.copies {
		if strings.EqualFold(c.Barcode, barcode) {
			clone := *c
			return &clone, true
		}
	}
	return nil, false
}

// UpdateDefinition replaces the definition with the same id.
func (s *Store) UpdateDefinition(d *BookDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.definitions {
		if existing.ID == d.ID {
			clone := *d
			s.definitions[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("definition %q: %w", d.ID, liberr.ErrNotFound)
}

// UpdateCopy replaces the BookCopy with the same id.
func (s *Store) UpdateCopy(c *BookCopy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.copies {
		if existing.ID == c.ID {
			clone := *c
			s.copies[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("copy %q: %w", c.ID, liberr.ErrNotFound)
}

// DeleteCopy removes the BookCopy with the given id, reporting whether it
// existed. Definitions are never removed implicitly.
func (s *Store) DeleteCopy(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.copies {
		if c.ID == id {
			s.copies = append(s.copies[:i], s.copies[i+1:]...)
			return true
		}
	}
	return false
}

// Definitions returns copies of every definition in insertion order.
func (s *Store) Definitions() []*BookDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*BookDefinition, 0, len(s.definitions))
	for _, d := range s.definitions {
		clone := *d
		out = append(out, &clone)
	}
	return out
}

// Copies returns copies of every BookCopy in insertion order.
func (s *Store) Copies() []*BookCopy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*BookCopy, 0, len(s.copies))
	for _, c := range s.copies {
		clone := *c
		out = append(out, &clone)
	}
	return out
}

// CopiesOf returns every BookCopy belonging to the given definition.
func (s *Store) CopiesOf(definitionID string) []*BookCopy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*BookCopy
	for _, c := range s.copies {
		if c.DefinitionID == definitionID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out
}
