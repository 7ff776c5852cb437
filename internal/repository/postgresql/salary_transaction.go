package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
	st.id, st.employee_id, st.month, st.year,
	st.basic_salary, st.hra, st.da, st.ta, st.medical_allowance, st.special_allowance, st.bonus,
	st.other_allowances, st.provident_fund, st.professional_tax, st.income_tax, st.other_deductions,
	st.total_earnings, st.total_deductions, st.net_salary,
	st.status, st.generated_by, st.approved_by, st.approved_at, st.payment_date, st.payment_method,
	st.transaction_ref, st.paid_at, st.created_at, st.updated_at,
	e.employee_code, e.name, e.email, e.designation, e.department_id, d.name, e.bank_name, e.bank_account_number
`

const transactionJoins = `
	FROM salary_transactions st
	JOIN employees e ON e.id = st.employee_id
	JOIN departments d ON d.id = e.department_id
`

type salaryTransactionRepository struct {
	db *database.DB
}

func NewSalaryTransactionRepository(db *database.DB) salary.TransactionRepository {
	return &salaryTransactionRepository{db: db}
}

func scanTransaction(row pgx.Row) (salary.Transaction, error) {
	var t salary.Transaction
	err := row.Scan(
		&t.ID, &t.EmployeeID, &t.Month, &t.Year,
		&t.BasicSalary, &t.HRA, &t.DA, &t.TA, &t.MedicalAllowance, &t.SpecialAllowance, &t.Bonus,
		&t.OtherAllowances, &t.ProvidentFund, &t.ProfessionalTax, &t.IncomeTax, &t.OtherDeductions,
		&t.TotalEarnings, &t.TotalDeductions, &t.NetSalary,
		&t.Status, &t.GeneratedBy, &t.ApprovedBy, &t.ApprovedAt, &t.PaymentDate, &t.PaymentMethod,
		&t.TransactionRef, &t.PaidAt, &t.CreatedAt, &t.UpdatedAt,
		&t.EmployeeCode, &t.EmployeeName, &t.EmployeeEmail, &t.Designation, &t.DepartmentID, &t.DepartmentName,
		&t.BankName, &t.BankAccountNumber,
	)
	return t, err
}

// ListCandidates joins each eligible employee with its latest structure.
// Employees that already have a row for the period are excluded.
func (r *salaryTransactionRepository) ListCandidates(ctx context.Context, filter salary.CandidateFilter) ([]salary.Candidate, error) {
	if !validIDs(filter.DepartmentID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.employee_code, e.name, e.department_id, d.name, e.bank_account_number,
			   s.id, s.basic_salary, s.hra, s.da, s.ta, s.medical_allowance, s.special_allowance,
			   s.bonus, s.other_allowances, s.provident_fund, s.professional_tax, s.income_tax,
			   s.other_deductions, s.ot_rate_per_hour, s.effective_from, s.created_at
		FROM employees e
		JOIN departments d ON d.id = e.department_id
		LEFT JOIN LATERAL (
			SELECT *
			FROM salary_structures ss
			WHERE ss.employee_id = e.id
			ORDER BY ss.effective_from DESC, ss.created_at DESC
			LIMIT 1
		) s ON TRUE
		WHERE NOT EXISTS (
			SELECT 1 FROM salary_transactions st
			WHERE st.employee_id = e.id AND st.month = $1 AND st.year = $2
		)
	`
	args := []any{filter.Month, filter.Year}
	argIdx := 3

	if !filter.IncludeInactive {
		query += " AND e.status = 'active'"
	}
	if filter.DepartmentID != nil {
		query += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
	}
	query += " ORDER BY e.employee_code"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary candidates: %w", err)
	}
	defer rows.Close()

	var candidates []salary.Candidate
	for rows.Next() {
		var (
			c             salary.Candidate
			structureID   *string
			basic         *decimal.Decimal
			otRate        *decimal.Decimal
			effectiveFrom *time.Time
			createdAt     *time.Time
			fields        salary.StructureFields
		)
		if err := rows.Scan(
			&c.EmployeeID, &c.EmployeeCode, &c.EmployeeName, &c.DepartmentID, &c.DepartmentName, &c.BankAccountNumber,
			&structureID, &basic, &fields.HRA, &fields.DA, &fields.TA, &fields.MedicalAllowance, &fields.SpecialAllowance,
			&fields.Bonus, &fields.OtherAllowances, &fields.ProvidentFund, &fields.ProfessionalTax, &fields.IncomeTax,
			&fields.OtherDeductions, &otRate, &effectiveFrom, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary candidate: %w", err)
		}

		if structureID != nil {
			c.Structure = &salary.Structure{
				ID:              *structureID,
				EmployeeID:      c.EmployeeID,
				BasicSalary:     *basic,
				StructureFields: fields,
				OTRatePerHour:   *otRate,
				EffectiveFrom:   *effectiveFrom,
				CreatedAt:       *createdAt,
			}
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (r *salaryTransactionRepository) Create(ctx context.Context, t salary.Transaction) (salary.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_transactions (
			employee_id, month, year, basic_salary, hra, da, ta, medical_allowance, special_allowance,
			bonus, other_allowances, provident_fund, professional_tax, income_tax, other_deductions,
			total_earnings, total_deductions, net_salary, status, generated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		t.EmployeeID, t.Month, t.Year, t.BasicSalary, t.HRA, t.DA, t.TA, t.MedicalAllowance, t.SpecialAllowance,
		t.Bonus, t.OtherAllowances, t.ProvidentFund, t.ProfessionalTax, t.IncomeTax, t.OtherDeductions,
		t.TotalEarnings, t.TotalDeductions, t.NetSalary, t.Status, t.GeneratedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_salary_transactions_period") {
			return salary.Transaction{}, salary.ErrTransactionExists
		}
		return salary.Transaction{}, fmt.Errorf("failed to create salary transaction: %w", err)
	}
	return t, nil
}

func (r *salaryTransactionRepository) GetByID(ctx context.Context, id string) (salary.Transaction, error) {
	return r.getByID(ctx, id, false)
}

func (r *salaryTransactionRepository) GetByIDForUpdate(ctx context.Context, id string) (salary.Transaction, error) {
	return r.getByID(ctx, id, true)
}

func (r *salaryTransactionRepository) getByID(ctx context.Context, id string, forUpdate bool) (salary.Transaction, error) {
	if !validIDs(&id) {
		return salary.Transaction{}, salary.ErrTransactionNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + transactionColumns + transactionJoins + " WHERE st.id = $1"
	if forUpdate {
		query += " FOR UPDATE OF st"
	}

	t, err := scanTransaction(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Transaction{}, salary.ErrTransactionNotFound
		}
		return salary.Transaction{}, fmt.Errorf("failed to get salary transaction: %w", err)
	}
	return t, nil
}

func (r *salaryTransactionRepository) List(ctx context.Context, filter salary.TransactionFilter) ([]salary.Transaction, int64, error) {
	if !validIDs(filter.DepartmentID, filter.EmployeeID) {
		return nil, 0, nil
	}
	q := GetQuerier(ctx, r.db)

	baseQuery := transactionJoins + " WHERE 1 = 1"
	args := []any{}
	argIdx := 1

	if filter.Month != nil {
		baseQuery += fmt.Sprintf(" AND st.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND st.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND st.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DepartmentID != nil {
		baseQuery += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND st.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Count query
	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary transactions: %w", err)
	}

	// Sort
	sortColumn := "st.year DESC, st.month DESC, e.employee_code"
	sortOrder := ""
	allowedColumns := map[string]string{
		"created_at":    "st.created_at",
		"employee_code": "e.employee_code",
		"employee_name": "e.name",
		"net_salary":    "st.net_salary",
		"status":        "st.status",
	}
	if col, ok := allowedColumns[filter.SortBy]; ok {
		sortColumn = col
		sortOrder = "ASC"
		if filter.SortOrder == "desc" {
			sortOrder = "DESC"
		}
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		transactionColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salary transactions: %w", err)
	}
	defer rows.Close()

	var transactions []salary.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, totalCount, rows.Err()
}

// MarkApproved guards on the current status so a concurrent change is never
// overwritten even without a prior row lock.
func (r *salaryTransactionRepository) MarkApproved(ctx context.Context, id string, approvedBy string, approvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE salary_transactions
		SET status = $2, approved_by = $3, approved_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
	`, id, salary.StatusApproved, approvedBy, approvedAt, salary.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to approve salary transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrInvalidStatusTransition
	}
	return nil
}

func (r *salaryTransactionRepository) MarkPaid(ctx context.Context, id string, paymentDate time.Time, method salary.PaymentMethod, ref *string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE salary_transactions
		SET status = $2, payment_date = $3, payment_method = $4, transaction_ref = $5,
			paid_at = $6, updated_at = NOW()
		WHERE id = $1 AND status = $7
	`, id, salary.StatusPaid, paymentDate, method, ref, paidAt, salary.StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to mark salary transaction paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrInvalidStatusTransition
	}
	return nil
}

func (r *salaryTransactionRepository) CountByPeriod(ctx context.Context, month, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM salary_transactions WHERE month = $1 AND year = $2", month, year).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count salary transactions: %w", err)
	}
	return count, nil
}

func (r *salaryTransactionRepository) CountByStatus(ctx context.Context, status salary.Status) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM salary_transactions WHERE status = $1", status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count salary transactions: %w", err)
	}
	return count, nil
}
