// internal/circulation/implementation.go
package circulation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"shelfs/internal/catalog"
	"shelfs/internal/identifier"
	"shelfs/internal/liberr"
	"shelfs/internal/users"
)

// Defaults matching the original deployment.
const (
	DefaultMaxActiveLoans = 2
	DefaultLoanPeriod     = 14 * 24 * time.Hour
)

// service implements the Service interface. It holds references to the user
// and catalog services so cross-entity constraints are validated without
// duplicating their data.
type service struct {
	store      *Store
	users      users.Service
	catalog    catalog.Service
	maxActive  int
	loanPeriod time.Duration

	logger *zap.Logger
	tracer trace.Tracer

	issuedCounter   metric.Int64Counter
	returnedCounter metric.Int64Counter
}

// NewService creates a new circulation service instance.
func NewService(store *Store, userSvc users.Service, catalogSvc catalog.Service, maxActive int, loanPeriod time.Duration, logger *zap.Logger) Service {
	if maxActive <= 0 {
		maxActive = DefaultMaxActiveLoans
	}
	if loanPeriod <= 0 {
		loanPeriod = DefaultLoanPeriod
	}

	meter := otel.Meter("shelfs/circulation")
	issued, _ := meter.Int64Counter("shelfs.loans.issued")
	returned, _ := meter.Int64Counter("shelfs.loans.returned")

	return &service{
		store:           store,
		users:           userSvc,
		catalog:         catalogSvc,
		maxActive:       maxActive,
		loanPeriod:      loanPeriod,
		logger:          logger,
		tracer:          otel.Tracer("shelfs/circulation"),
		issuedCounter:   issued,
		returnedCounter: returned,
	}
}

// Issue lends the copy with the given barcode to the given user. The new
// loan is due one loan period from now. Creating the loan and flipping the
// copy to Borrowed must appear atomic to the caller, so a failure to record
// the loan compensates the status flip.
func (s *service) Issue(ctx context.Context, userID, barcode string) (*Loan, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.issue",
		trace.WithAttributes(
			attribute.String("loan.user_id", userID),
			attribute.String("loan.barcode", barcode),
		),
	)
	defer span.End()

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if active := len(s.store.ByUser(user.ID)); active >= s.maxActive {
		return nil, fmt.Errorf("user %q already has %d active loans: %w", user.ID, active, liberr.ErrLoanLimitExceeded)
	}

	copyItem, err := s.catalog.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to get copy: %w", err)
	}
	if copyItem.Status != catalog.StatusAvailable {
		return nil, fmt.Errorf("copy %q has status %s: %w", copyItem.Barcode, copyItem.Status, liberr.ErrNotAvailable)
	}

	copyItem.Status = catalog.StatusBorrowed
	if err := s.catalog.UpdateCopy(ctx, copyItem); err != nil {
		return nil, fmt.Errorf("failed to mark copy borrowed: %w", err)
	}

	now := time.Now().UTC()
	loan := &Loan{
		ID:        identifier.NewID(),
		UserID:    user.ID,
		CopyID:    copyItem.ID,
		CreatedAt: now,
		DueDate:   now.Add(s.loanPeriod),
	}
	if err := s.store.Insert(loan); err != nil {
		// Roll the copy back to Available so no loanless Borrowed copy remains.
		copyItem.Status = catalog.StatusAvailable
		if compErr := s.catalog.UpdateCopy(ctx, copyItem); compErr != nil {
			s.logger.Error("failed to compensate copy status",
				zap.String("barcode", copyItem.Barcode),
				zap.Error(compErr),
			)
		}
		return nil, fmt.Errorf("failed to record loan: %w", err)
	}

	s.issuedCounter.Add(ctx, 1)
	s.logger.Info("loan issued",
		zap.String("loan_id", loan.ID),
		zap.String("user_id", user.ID),
		zap.String("barcode", copyItem.Barcode),
		zap.Time("due", loan.DueDate),
	)
	return loan, nil
}

// Return deletes the loan and restores the referenced copy to Available.
// Unknown loan ids fail with liberr.ErrNotFound and change no state.
func (s *service) Return(ctx context.Context, loanID string) error {
	ctx, span := s.tracer.Start(ctx, "circulation.return",
		trace.WithAttributes(attribute.String("loan.id", loanID)),
	)
	defer span.End()

	loan, ok := s.store.Get(loanID)
	if !ok {
		return fmt.Errorf("loan %q: %w", loanID, liberr.ErrNotFound)
	}

	// Restore availability before dropping the loan record, so a failure
	// here leaves the loan intact and retryable.
	copyItem, err := s.catalog.FindCopyByID(ctx, loan.CopyID)
	if err != nil {
		return fmt.Errorf("failed to resolve loaned copy: %w", err)
	}
	copyItem.Status = catalog.StatusAvailable
	if err := s.catalog.UpdateCopy(ctx, copyItem); err != nil {
		return fmt.Errorf("failed to restore copy availability: %w", err)
	}

	s.store.Delete(loan.ID)

	s.returnedCounter.Add(ctx, 1)
	s.logger.Info("loan returned",
		zap.String("loan_id", loan.ID),
		zap.String("user_id", loan.UserID),
		zap.String("barcode", copyItem.Barcode),
	)
	return nil
}

// Loans returns every active loan in issue order.
func (s *service) Loans(ctx context.Context) []*Loan {
	_, span := s.tracer.Start(ctx, "circulation.loans")
	defer span.End()

	return s.store.All()
}

// LoansByUser returns the active loans held by the given user.
func (s *service) LoansByUser(ctx context.Context, userID string) []*Loan {
	_, span := s.tracer.Start(ctx, "circulation.loans_by_user")
	defer span.End()

	return s.store.ByUser(userID)
}

// Overdue returns every loan whose due date lies strictly before the
// current time, evaluated at call time.
func (s *service) Overdue(ctx context.Context) []*Loan {
	_, span := s.tracer.Start(ctx, "circulation.overdue")
	defer span.End()

	now := time.Now().UTC()
	overdue := make([]*Loan, 0)
	for _, l := range s.store.All() {
		if l.Overdue(now) {
			overdue = append(overdue, l)
		}
	}
	return overdue
}

// Count reports the number of active loans.
func (s *service) Count(ctx context.Context) int {
	_, span := s.tracer.Start(ctx, "circulation.count")
	defer span.End()

	return s.store.Len()
}
