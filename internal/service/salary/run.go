package salary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type computedRow struct {
	salary.Candidate
	salary.Breakdown
}

// selectAndCompute is shared by Preview and Generate so both always agree on
// who is selected and what they are owed.
func (s *SalaryServiceImpl) selectAndCompute(ctx context.Context, req salary.RunRequest) ([]computedRow, error) {
	candidates, err := s.transactionRepo.ListCandidates(ctx, salary.CandidateFilter{
		Month:           req.Month,
		Year:            req.Year,
		DepartmentID:    req.DepartmentID,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select employees: %w", err)
	}

	rows := make([]computedRow, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, computedRow{Candidate: c, Breakdown: salary.ComputeFor(c.Structure)})
	}
	return rows, nil
}

// Preview computes the run without writing anything.
func (s *SalaryServiceImpl) Preview(ctx context.Context, req salary.RunRequest) (salary.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.PreviewResponse{}, err
	}

	rows, err := s.selectAndCompute(ctx, req)
	if err != nil {
		return salary.PreviewResponse{}, err
	}

	resp := salary.PreviewResponse{
		Month:    req.Month,
		Year:     req.Year,
		Rows:     make([]salary.PreviewRow, 0, len(rows)),
		Count:    len(rows),
		TotalNet: decimal.Zero,
	}
	for _, r := range rows {
		warnings := rowWarnings(r)
		if len(warnings) > 0 {
			resp.Warnings++
		}
		resp.Rows = append(resp.Rows, salary.PreviewRow{
			EmployeeID:     r.EmployeeID,
			EmployeeCode:   r.EmployeeCode,
			EmployeeName:   r.EmployeeName,
			DepartmentID:   r.DepartmentID,
			DepartmentName: r.DepartmentName,
			Salary:         salary.NewBreakdownResponse(r.Breakdown),
			Warnings:       warnings,
		})
		resp.TotalNet = resp.TotalNet.Add(r.NetSalary)
	}

	return resp, nil
}

func rowWarnings(r computedRow) []string {
	var warnings []string
	if r.Structure == nil {
		warnings = append(warnings, salary.WarningMissingStructure)
	}
	if r.NetSalary.IsNegative() {
		warnings = append(warnings, salary.WarningNegativeNet)
	}
	if r.BankAccountNumber == nil || *r.BankAccountNumber == "" {
		warnings = append(warnings, salary.WarningMissingBankAccount)
	}
	return warnings
}

// Generate writes one pending ledger row per selected employee. The whole batch
// and its audit entry commit together or not at all.
func (s *SalaryServiceImpl) Generate(ctx context.Context, actorID string, req salary.RunRequest) (salary.GenerateResponse, error) {
	if actorID == "" {
		return salary.GenerateResponse{}, user.ErrActorRequired
	}
	if err := req.Validate(); err != nil {
		return salary.GenerateResponse{}, err
	}

	resp := salary.GenerateResponse{Month: req.Month, Year: req.Year, TotalNet: decimal.Zero}

	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		rows, err := s.selectAndCompute(txCtx, req)
		if err != nil {
			return err
		}

		for _, r := range rows {
			if _, err := s.transactionRepo.Create(txCtx, salary.Transaction{
				EmployeeID:  r.EmployeeID,
				Month:       req.Month,
				Year:        req.Year,
				Breakdown:   r.Breakdown,
				Status:      salary.StatusPending,
				GeneratedBy: actorID,
			}); err != nil {
				return fmt.Errorf("employee %s: %w", r.EmployeeCode, err)
			}
			resp.TotalNet = resp.TotalNet.Add(r.NetSalary)
		}
		resp.Count = len(rows)

		if resp.Count == 0 {
			return nil
		}

		return audit.Record(txCtx, s.auditRepo, actorID, audit.ActionGenerateSalary, audit.TableSalaryTransactions, nil, nil,
			map[string]any{
				"month":         req.Month,
				"year":          req.Year,
				"department_id": req.DepartmentID,
				"count":         resp.Count,
				"total_net":     resp.TotalNet,
			})
	})
	if err != nil {
		slog.ErrorContext(ctx, "salary generation failed",
			"month", req.Month,
			"year", req.Year,
			"actor_id", actorID,
			"error", err,
		)
		return salary.GenerateResponse{}, err
	}

	slog.InfoContext(ctx, "salary generated",
		"month", req.Month,
		"year", req.Year,
		"count", resp.Count,
		"total_net", resp.TotalNet.StringFixed(2),
		"actor_id", actorID,
	)
	return resp, nil
}
