package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) salary.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p salary.Payment) (salary.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payments (
			salary_transaction_id, payment_method, transaction_ref, amount, status, payment_date, processed_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		p.SalaryTransactionID, p.PaymentMethod, p.TransactionRef, p.Amount, p.Status, p.PaymentDate, p.ProcessedBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_payments_transaction") {
			return salary.Payment{}, salary.ErrPaymentExists
		}
		return salary.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}
	return p, nil
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (salary.Payment, error) {
	if !validIDs(&transactionID) {
		return salary.Payment{}, salary.ErrTransactionNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, salary_transaction_id, payment_method, transaction_ref, amount, status,
			   payment_date, processed_by, created_at
		FROM payments
		WHERE salary_transaction_id = $1
	`
	var p salary.Payment
	err := q.QueryRow(ctx, query, transactionID).Scan(
		&p.ID, &p.SalaryTransactionID, &p.PaymentMethod, &p.TransactionRef, &p.Amount, &p.Status,
		&p.PaymentDate, &p.ProcessedBy, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Payment{}, salary.ErrTransactionNotFound
		}
		return salary.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}
