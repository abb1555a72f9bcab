// internal/catalog/service.go
package catalog

import "context"

// Service defines the interface for the catalog service.
type Service interface {
	AddBook(ctx context.Context, isbn, title, author, publisher string) (*BookDefinition, *BookCopy, error)
	AddCopy(ctx context.Context, definitionID string) (*BookCopy, error)
	RemoveCopy(ctx context.Context, barcode string) error
	FindByISBN(ctx context.Context, isbn string) (*BookDefinition, error)
	FindByBarcode(ctx context.Context, barcode string) (*BookCopy, error)
	FindCopyByID(ctx context.Context, id string) (*BookCopy, error)
	SearchByTitle(ctx context.Context, query string) []*BookDefinition
	SearchByAuthor(ctx context.Context, query string) []*BookDefinition
	UpdateDefinition(ctx context.Context, isbn, title, author, publisher string) error
	UpdateCopy(ctx context.Context, copy *BookCopy) error
	AvailableCopies(ctx context.Context, isbn string) ([]*BookCopy, error)
	Definitions(ctx context.Context) []*BookDefinition
	Copies(ctx context.Context) []*BookCopy
}
