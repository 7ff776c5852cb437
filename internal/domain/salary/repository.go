package salary

import (
	"context"
	"time"
)

// CandidateFilter selects employees for a run.
type CandidateFilter struct {
	Month           int
	Year            int
	DepartmentID    *string
	IncludeInactive bool
}

type StructureRepository interface {
	Create(ctx context.Context, structure Structure) (Structure, error)
	GetCurrent(ctx context.Context, employeeID string) (Structure, error)
	ListHistory(ctx context.Context, employeeID string) ([]Structure, error)
}

type TransactionRepository interface {
	// ListCandidates returns employees matching filter that have no ledger
	// row for the period, each joined with its current structure.
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]Candidate, error)
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	GetByID(ctx context.Context, id string) (Transaction, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, int64, error)
	MarkApproved(ctx context.Context, id string, approvedBy string, approvedAt time.Time) error
	MarkPaid(ctx context.Context, id string, paymentDate time.Time, method PaymentMethod, ref *string, paidAt time.Time) error
	CountByPeriod(ctx context.Context, month, year int) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment Payment) (Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (Payment, error)
}
