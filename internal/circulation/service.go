// internal/circulation/service.go
package circulation

import "context"

// Service defines the interface for the circulation service.
type Service interface {
	Issue(ctx context.Context, userID, barcode string) (*Loan, error)
	Return(ctx context.Context, loanID string) error
	Loans(ctx context.Context) []*Loan
	LoansByUser(ctx context.Context, userID string) []*Loan
	Overdue(ctx context.Context) []*Loan
	Count(ctx context.Context) int
}
