package salary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/payslip"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
)

func (s *SalaryServiceImpl) RenderPayslip(ctx context.Context, id string) (string, []byte, error) {
	t, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}

	pdf, err := s.renderer.Render(t)
	if err != nil {
		return "", nil, err
	}
	return payslip.Filename(t.EmployeeCode, t.Month, t.Year), pdf, nil
}

// SendPayslip e-mails the rendered payslip to the employee.
func (s *SalaryServiceImpl) SendPayslip(ctx context.Context, actorID string, id string) error {
	if actorID == "" {
		return user.ErrActorRequired
	}

	t, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if validator.IsEmpty(t.EmployeeEmail) {
		return validator.ValidationErrors{{Field: "email", Message: "employee has no email address"}}
	}

	pdf, err := s.renderer.Render(t)
	if err != nil {
		return err
	}

	filename := payslip.Filename(t.EmployeeCode, t.Month, t.Year)
	if err := s.mailer.SendPayslip(email.PayslipMessage{
		To:           t.EmployeeEmail,
		EmployeeName: t.EmployeeName,
		CompanyName:  s.renderer.CompanyName(),
		Period:       payslip.Period(t.Month, t.Year),
		NetSalary:    s.renderer.Money(t.NetSalary),
		Filename:     filename,
		PDF:          pdf,
	}); err != nil {
		return fmt.Errorf("failed to send payslip: %w", err)
	}

	if err := audit.Record(ctx, s.auditRepo, actorID, audit.ActionSendSlip, audit.TableSalaryTransactions, &id, nil,
		map[string]any{"to": t.EmployeeEmail, "filename": filename},
	); err != nil {
		// The mail is already out; a missing audit row should not turn it into a failure.
		slog.WarnContext(ctx, "failed to record payslip audit entry", "transaction_id", id, "error", err)
	}

	slog.InfoContext(ctx, "payslip sent", "transaction_id", id, "to", t.EmployeeEmail)
	return nil
}
