// internal/identifier/identifier.go

// Package identifier generates the unique record identifiers and the
// human-facing barcodes printed on physical copies.
package identifier

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a process-unique record identifier.
func NewID() string {
	return uuid.NewString()
}

// NewBarcode returns a human-readable barcode for a physical copy,
// e.g. "BC-9F86D081A3B4". Barcodes are matched case-insensitively.
func NewBarcode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("BC-%s", raw[:12])
}
