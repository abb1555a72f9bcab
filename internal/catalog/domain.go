// internal/catalog/domain.go
package catalog

import "time"

// CopyStatus is the availability state of a physical copy. Transitions are
// driven exclusively through the circulation service.
type CopyStatus string

const (
	StatusAvailable CopyStatus = "AVAILABLE"
	StatusBorrowed  CopyStatus = "BORROWED"
)

// BookDefinition is the catalog-level record for a title, keyed by ISBN.
// It is copy-count-agnostic; physical copies reference it by id.
type BookDefinition struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Publisher string `json:"publisher"`
}

// BookCopy is one physical, loanable instance of a definition, keyed by its
// human-facing barcode.
type BookCopy struct {
	ID           string     `json:"id"`
	Barcode      string     `json:"barcode"`
	DefinitionID string     `json:"bookDefId"`
	Status       CopyStatus `json:"status"`
	AcquiredAt   time.Time  `json:"acquisitionDate"`
}
