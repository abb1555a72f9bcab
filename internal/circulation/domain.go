// internal/circulation/domain.go
package circulation

import "time"

// Loan is an active borrowing relationship between a user and a physical
// copy. Loans are deleted on return; no history is kept.
type Loan struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CopyID    string    `json:"bookId"`
	CreatedAt time.Time `json:"createdAt"`
	DueDate   time.Time `json:"dueDate"`
}

// Overdue reports whether the loan's due date lies strictly before now.
func (l *Loan) Overdue(now time.Time) bool {
	return l.DueDate.Before(now)
}
