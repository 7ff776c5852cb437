package salary

import (
	"context"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"golang.org/x/sync/errgroup"
)

func (s *SalaryServiceImpl) GetTransaction(ctx context.Context, id string) (salary.TransactionResponse, error) {
	t, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return salary.TransactionResponse{}, err
	}
	return salary.NewTransactionResponse(t), nil
}

func (s *SalaryServiceImpl) ListTransactions(ctx context.Context, filter salary.TransactionFilter) (salary.ListTransactionResponse, error) {
	if err := filter.Validate(); err != nil {
		return salary.ListTransactionResponse{}, err
	}

	transactions, total, err := s.transactionRepo.List(ctx, filter)
	if err != nil {
		return salary.ListTransactionResponse{}, err
	}

	data := make([]salary.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		data = append(data, salary.NewTransactionResponse(t))
	}

	return salary.ListTransactionResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Stats returns the dashboard counters for the current month.
func (s *SalaryServiceImpl) Stats(ctx context.Context) (salary.StatsResponse, error) {
	now := s.now()
	resp := salary.StatsResponse{Month: int(now.Month()), Year: now.Year()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.employeeRepo.CountByStatus(gctx, employee.StatusActive)
		resp.ActiveEmployees = n
		return err
	})
	g.Go(func() error {
		n, err := s.transactionRepo.CountByPeriod(gctx, resp.Month, resp.Year)
		resp.ProcessedThisMonth = n
		return err
	})
	g.Go(func() error {
		n, err := s.transactionRepo.CountByStatus(gctx, salary.StatusPending)
		resp.PendingApprovals = n
		return err
	})
	if err := g.Wait(); err != nil {
		return salary.StatsResponse{}, err
	}

	return resp, nil
}
