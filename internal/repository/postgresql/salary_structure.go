package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const structureColumns = `
	s.id, s.employee_id, s.basic_salary, s.hra, s.da, s.ta, s.medical_allowance, s.special_allowance,
	s.bonus, s.other_allowances, s.provident_fund, s.professional_tax, s.income_tax, s.other_deductions,
	s.ot_rate_per_hour, s.effective_from, s.created_at
`

type salaryStructureRepository struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) salary.StructureRepository {
	return &salaryStructureRepository{db: db}
}

func scanStructure(row pgx.Row) (salary.Structure, error) {
	var s salary.Structure
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.BasicSalary, &s.HRA, &s.DA, &s.TA, &s.MedicalAllowance, &s.SpecialAllowance,
		&s.Bonus, &s.OtherAllowances, &s.ProvidentFund, &s.ProfessionalTax, &s.IncomeTax, &s.OtherDeductions,
		&s.OTRatePerHour, &s.EffectiveFrom, &s.CreatedAt,
	)
	return s, err
}

func (r *salaryStructureRepository) Create(ctx context.Context, s salary.Structure) (salary.Structure, error) {
	if !validIDs(&s.EmployeeID) {
		return salary.Structure{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_structures (
			employee_id, basic_salary, hra, da, ta, medical_allowance, special_allowance, bonus,
			other_allowances, provident_fund, professional_tax, income_tax, other_deductions,
			ot_rate_per_hour, effective_from
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		s.EmployeeID, s.BasicSalary, s.HRA, s.DA, s.TA, s.MedicalAllowance, s.SpecialAllowance, s.Bonus,
		s.OtherAllowances, s.ProvidentFund, s.ProfessionalTax, s.IncomeTax, s.OtherDeductions,
		s.OTRatePerHour, s.EffectiveFrom,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return salary.Structure{}, employee.ErrEmployeeNotFound
		}
		return salary.Structure{}, fmt.Errorf("failed to create salary structure: %w", err)
	}
	return s, nil
}

// GetCurrent returns the latest version by effective date.
func (r *salaryStructureRepository) GetCurrent(ctx context.Context, employeeID string) (salary.Structure, error) {
	if !validIDs(&employeeID) {
		return salary.Structure{}, salary.ErrStructureNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + structureColumns + `
		FROM salary_structures s
		WHERE s.employee_id = $1
		ORDER BY s.effective_from DESC, s.created_at DESC
		LIMIT 1
	`
	s, err := scanStructure(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Structure{}, salary.ErrStructureNotFound
		}
		return salary.Structure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}
	return s, nil
}

func (r *salaryStructureRepository) ListHistory(ctx context.Context, employeeID string) ([]salary.Structure, error) {
	if !validIDs(&employeeID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + structureColumns + `
		FROM salary_structures s
		WHERE s.employee_id = $1
		ORDER BY s.effective_from DESC, s.created_at DESC
	`
	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}
	defer rows.Close()

	var structures []salary.Structure
	for rows.Next() {
		s, err := scanStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary structure: %w", err)
		}
		structures = append(structures, s)
	}
	return structures, rows.Err()
}
