package salary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
)

func (s *SalaryServiceImpl) Approve(ctx context.Context, actorID string, transactionID string) (salary.TransactionResponse, error) {
	if actorID == "" {
		return salary.TransactionResponse{}, user.ErrActorRequired
	}

	var updated salary.Transaction
	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := s.transactionRepo.GetByIDForUpdate(txCtx, transactionID)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(salary.StatusApproved) {
			return fmt.Errorf("%w: cannot approve a %s salary", salary.ErrInvalidStatusTransition, current.Status)
		}

		if err := s.transactionRepo.MarkApproved(txCtx, transactionID, actorID, s.now()); err != nil {
			return err
		}

		updated, err = s.transactionRepo.GetByID(txCtx, transactionID)
		if err != nil {
			return err
		}

		return audit.Record(txCtx, s.auditRepo, actorID, audit.ActionApproveSalary, audit.TableSalaryTransactions, &transactionID,
			map[string]any{"status": current.Status},
			map[string]any{"status": updated.Status, "approved_by": actorID},
		)
	})
	if err != nil {
		return salary.TransactionResponse{}, err
	}

	slog.InfoContext(ctx, "salary approved", "transaction_id", transactionID, "actor_id", actorID)
	return salary.NewTransactionResponse(updated), nil
}

// MarkPaid settles an approved row and records exactly one payment for it.
func (s *SalaryServiceImpl) MarkPaid(ctx context.Context, actorID string, req salary.MarkPaidRequest) (salary.TransactionResponse, error) {
	if actorID == "" {
		return salary.TransactionResponse{}, user.ErrActorRequired
	}
	if err := req.Validate(); err != nil {
		return salary.TransactionResponse{}, err
	}
	paymentDate, _ := validator.IsValidDate(req.PaymentDate)
	method := salary.PaymentMethod(req.PaymentMethod)

	var updated salary.Transaction
	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := s.transactionRepo.GetByIDForUpdate(txCtx, req.TransactionID)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(salary.StatusPaid) {
			return fmt.Errorf("%w: cannot mark a %s salary as paid", salary.ErrInvalidStatusTransition, current.Status)
		}

		if err := s.transactionRepo.MarkPaid(txCtx, req.TransactionID, paymentDate, method, req.TransactionRef, s.now()); err != nil {
			return err
		}

		if _, err := s.paymentRepo.Create(txCtx, salary.Payment{
			SalaryTransactionID: req.TransactionID,
			PaymentMethod:       method,
			TransactionRef:      req.TransactionRef,
			Amount:              current.NetSalary,
			Status:              salary.PaymentStatusCompleted,
			PaymentDate:         paymentDate,
			ProcessedBy:         actorID,
		}); err != nil {
			return err
		}

		updated, err = s.transactionRepo.GetByID(txCtx, req.TransactionID)
		if err != nil {
			return err
		}

		return audit.Record(txCtx, s.auditRepo, actorID, audit.ActionMarkPaid, audit.TableSalaryTransactions, &req.TransactionID,
			map[string]any{"status": current.Status},
			map[string]any{
				"status":          updated.Status,
				"payment_date":    req.PaymentDate,
				"payment_method":  method,
				"transaction_ref": req.TransactionRef,
				"amount":          current.NetSalary,
			},
		)
	})
	if err != nil {
		return salary.TransactionResponse{}, err
	}

	slog.InfoContext(ctx, "salary marked paid",
		"transaction_id", req.TransactionID,
		"payment_method", method,
		"actor_id", actorID,
	)
	return salary.NewTransactionResponse(updated), nil
}
