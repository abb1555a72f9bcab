// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"shelfs/internal/identifier"
	"shelfs/internal/liberr"
)

// service implements the Service interface.
type service struct {
	store  *Store
	logger *zap.Logger
	tracer trace.Tracer
}

// NewService creates a new catalog service instance backed by the given store.
func NewService(store *Store, logger *zap.Logger) Service {
	return &service{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("shelfs/catalog"),
	}
}

// AddBook registers a title by ISBN. A known ISBN never creates a second
// definition; it grows the existing definition's copy pool by one. A new
// ISBN creates the definition together with its first copy.
func (s *service) AddBook(ctx context.Context, isbn, title, author, publisher string) (*BookDefinition, *BookCopy, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.add_book",
		trace.WithAttributes(attribute.String("book.isbn", isbn)),
	)
	defer span.End()

	if existing, ok := s.store.DefinitionByISBN(isbn); ok {
		copyItem, err := s.AddCopy(ctx, existing.ID)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info("isbn already registered, added copy",
			zap.String("isbn", isbn),
			zap.String("barcode", copyItem.Barcode),
		)
		return existing, copyItem, nil
	}

	def := &BookDefinition{
		ID:        identifier.NewID(),
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Publisher: publisher,
	}
	if err := s.store.InsertDefinition(def); err != nil {
		return nil, nil, fmt.Errorf("failed to add definition: %w", err)
	}

	copyItem, err := s.AddCopy(ctx, def.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("book added",
		zap.String("isbn", isbn),
		zap.String("title", title),
		zap.String("barcode", copyItem.Barcode),
	)
	return def, copyItem, nil
}

// AddCopy adds one more physical copy of an existing definition, with a
// freshly generated barcode and Available status.
func (s *service) AddCopy(ctx context.Context, definitionID string) (*BookCopy, error) {
	_, span := s.tracer.Start(ctx, "catalog.add_copy")
	defer span.End()

	copyItem := &BookCopy{
		ID:           identifier.NewID(),
		Barcode:      identifier.NewBarcode(),
		DefinitionID: definitionID,
		Status:       StatusAvailable,
		AcquiredAt:   time.Now().UTC(),
	}
	if err := s.store.InsertCopy(copyItem); err != nil {
		return nil, fmt.Errorf("failed to add copy: %w", err)
	}
	return copyItem, nil
}

// RemoveCopy deletes the copy with the given barcode.
func (s *service) RemoveCopy(ctx context.Context, barcode string) error {
	_, span := s.tracer.Start(ctx, "catalog.remove_copy")
	defer span.End()

	copyItem, ok := s.store.CopyByBarcode(barcode)
	if !ok {
		return fmt.Errorf("barcode %q: %w", barcode, liberr.ErrNotFound)
	}
	s.store.DeleteCopy(copyItem.ID)

	s.logger.Info("copy removed", zap.String("barcode", barcode))
	return nil
}

// FindByISBN returns the definition registered under the exact ISBN.
func (s *service) FindByISBN(ctx context.Context, isbn string) (*BookDefinition, error) {
	_, span := s.tracer.Start(ctx, "catalog.find_by_isbn")
	defer span.End()

	def, ok := s.store.DefinitionByISBN(isbn)
	if !ok {
		return nil, fmt.Errorf("isbn %q: %w", isbn, liberr.ErrNotFound)
	}
	return def, nil
}

// FindByBarcode returns the copy with the given barcode.
func (s *service) FindByBarcode(ctx context.Context, barcode string) (*BookCopy, error) {
	_, span := s.tracer.Start(ctx, "catalog.find_by_barcode")
	defer span.End()

	copyItem, ok := s.store.CopyByBarcode(barcode)
	if !ok {
		return nil, fmt.Errorf("barcode %q: %w", barcode, liberr.ErrNotFound)
	}
	return copyItem, nil
}

// FindCopyByID returns the copy with the given record id. Circulation
// resolves loaned copies through this, since loans reference copy ids.
func (s *service) FindCopyByID(ctx context.Context, id string) (*BookCopy, error) {
	_, span := s.tracer.Start(ctx, "catalog.find_copy_by_id")
	defer span.End()

	copyItem, ok := s.store.CopyByID(id)
	if !ok {
		return nil, fmt.Errorf("copy %q: %w", id, liberr.ErrNotFound)
	}
	return copyItem, nil
}

// SearchByTitle returns all definitions whose title contains the query,
// case-insensitively. The result may be empty.
func (s *service) SearchByTitle(ctx context.Context, query string) []*BookDefinition {
	_, span := s.tracer.Start(ctx, "catalog.search_by_title")
	defer span.End()

	return s.search(query, func(d *BookDefinition) string { return d.Title })
}

// SearchByAuthor returns all definitions whose author contains the query,
// case-insensitively.
func (s *service) SearchByAuthor(ctx context.Context, query string) []*BookDefinition {
	_, span := s.tracer.Start(ctx, "catalog.search_by_author")
	defer span.End()

	return s.search(query, func(d *BookDefinition) string { return d.Author })
}

func (s *service) search(query string, field func(*BookDefinition) string) []*BookDefinition {
	needle := strings.ToLower(query)
	matches := make([]*BookDefinition, 0)
	for _, d := range s.store.Definitions() {
		if strings.Contains(strings.ToLower(field(d)), needle) {
			matches = append(matches, d)
		}
	}
	return matches
}

// UpdateDefinition overwrites the metadata of the definition registered
// under the given ISBN.
func (s *service) UpdateDefinition(ctx context.Context, isbn, title, author, publisher string) error {
	_, span := s.tracer.Start(ctx, "catalog.update_definition")
	defer span.End()

	def, ok := s.store.DefinitionByISBN(isbn)
	if !ok {
		return fmt.Errorf("isbn %q: %w", isbn, liberr.ErrNotFound)
	}

	def.Title = title
	def.Author = author
	def.Publisher = publisher
	if err := s.store.UpdateDefinition(def); err != nil {
		return fmt.Errorf("failed to update definition: %w", err)
	}

	s.logger.Info("definition updated", zap.String("isbn", isbn))
	return nil
}

// UpdateCopy writes back a modified copy record. The circulation service
// uses this to flip availability status.
func (s *service) UpdateCopy(ctx context.Context, copy *BookCopy) error {
	_, span := s.tracer.Start(ctx, "catalog.update_copy")
	defer span.End()

	if err := s.store.UpdateCopy(copy); err != nil {
		return fmt.Errorf("failed to update copy: %w", err)
	}
	return nil
}

// AvailableCopies returns the currently Available copies of the definition
// registered under the given ISBN.
func (s *service) AvailableCopies(ctx context.Context, isbn string) ([]*BookCopy, error) {
	_, span := s.tracer.Start(ctx, "catalog.available_copies")
	defer span.End()

	def, ok := s.store.DefinitionByISBN(isbn)
	if !ok {
		return nil, fmt.Errorf("isbn %q: %w", isbn, liberr.ErrNotFound)
	}

	available := make([]*BookCopy, 0)
	for _, c := range s.store.CopiesOf(def.ID) {
		if c.Status == StatusAvailable {
			available = append(available, c)
		}
	}
	return available, nil
}

// Definitions returns every definition in the catalog.
func (s *service) Definitions(ctx context.Context) []*BookDefinition {
	_, span := s.tracer.Start(ctx, "catalog.definitions")
	defer span.End()

	return s.store.Definitions()
}

// Copies returns every physical copy in the catalog.
func (s *service) Copies(ctx context.Context) []*BookCopy {
	_, span := s.tracer.Start(ctx, "catalog.copies")
	defer span.End()

	return s.store.Copies()
}
