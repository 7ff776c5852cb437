package salary

import "context"

type SalaryService interface {
	// Runs
	Preview(ctx context.Context, req RunRequest) (PreviewResponse, error)
	Generate(ctx context.Context, actorID string, req RunRequest) (GenerateResponse, error)

	// Lifecycle
	Approve(ctx context.Context, actorID string, transactionID string) (TransactionResponse, error)
	MarkPaid(ctx context.Context, actorID string, req MarkPaidRequest) (TransactionResponse, error)

	// Ledger
	GetTransaction(ctx context.Context, id string) (TransactionResponse, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) (ListTransactionResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)

	// Payslips
	RenderPayslip(ctx context.Context, id string) (filename string, pdf []byte, err error)
	SendPayslip(ctx context.Context, actorID string, id string) error
}
