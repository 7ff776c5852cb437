package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	e.id, e.employee_code, e.name, e.email, e.phone, e.department_id, e.designation, e.join_date,
	e.address, e.city, e.state, e.pincode, e.bank_name, e.bank_account_number, e.bank_ifsc,
	e.pan_number, e.status, e.created_at, e.updated_at, d.name
`

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.Name, &e.Email, &e.Phone, &e.DepartmentID, &e.Designation, &e.JoinDate,
		&e.Address, &e.City, &e.State, &e.Pincode, &e.BankName, &e.BankAccountNumber, &e.BankIFSC,
		&e.PANNumber, &e.Status, &e.CreatedAt, &e.UpdatedAt, &e.DepartmentName,
	)
	return e, err
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if !validIDs(&e.DepartmentID) {
		return employee.Employee{}, department.ErrDepartmentNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			employee_code, name, email, phone, department_id, designation, join_date,
			address, city, state, pincode, bank_name, bank_account_number, bank_ifsc, pan_number, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		e.EmployeeCode, e.Name, e.Email, e.Phone, e.DepartmentID, e.Designation, e.JoinDate,
		e.Address, e.City, e.State, e.Pincode, e.BankName, e.BankAccountNumber, e.BankIFSC, e.PANNumber, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		if isForeignKeyViolation(err) {
			return employee.Employee{}, department.ErrDepartmentNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !validIDs(&id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + employeeColumns + `
		FROM employees e
		JOIN departments d ON d.id = e.department_id
		WHERE e.id = $1
	`
	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	if !validIDs(filter.DepartmentID) {
		return nil, 0, nil
	}
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM employees e
		JOIN departments d ON d.id = e.department_id
		WHERE 1 = 1
	`
	args := []any{}
	argIdx := 1

	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND e.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DepartmentID != nil {
		baseQuery += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Search != nil && !validator.IsEmpty(*filter.Search) {
		baseQuery += fmt.Sprintf(" AND (e.name ILIKE $%d OR e.employee_code ILIKE $%d OR e.email ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	sortColumn := "e.employee_code"
	allowedColumns := map[string]string{
		"employee_code": "e.employee_code",
		"name":          "e.name",
		"join_date":     "e.join_date",
		"created_at":    "e.created_at",
	}
	if col, ok := allowedColumns[filter.SortBy]; ok {
		sortColumn = col
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		employeeColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, totalCount, rows.Err()
}

func (r *employeeRepository) Update(ctx context.Context, req employee.UpdateEmployeeRequest) error {
	if !validIDs(&req.ID) {
		return employee.ErrEmployeeNotFound
	}
	if !validIDs(req.DepartmentID) {
		return department.ErrDepartmentNotFound
	}
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []any{req.ID}
	argIdx := 2

	set := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Name != nil {
		set("name", strings.TrimSpace(*req.Name))
	}
	if req.Email != nil {
		set("email", strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		set("phone", strings.TrimSpace(*req.Phone))
	}
	if req.DepartmentID != nil {
		set("department_id", *req.DepartmentID)
	}
	if req.Designation != nil {
		set("designation", strings.TrimSpace(*req.Designation))
	}
	if req.JoinDate != nil {
		joinDate, _ := validator.IsValidDate(*req.JoinDate)
		set("join_date", joinDate)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if req.City != nil {
		set("city", *req.City)
	}
	if req.State != nil {
		set("state", *req.State)
	}
	if req.Pincode != nil {
		set("pincode", *req.Pincode)
	}
	if req.BankName != nil {
		set("bank_name", *req.BankName)
	}
	if req.BankAccountNumber != nil {
		set("bank_account_number", *req.BankAccountNumber)
	}
	if req.BankIFSC != nil {
		set("bank_ifsc", *req.BankIFSC)
	}
	if req.PANNumber != nil {
		set("pan_number", *req.PANNumber)
	}

	query := fmt.Sprintf(`
		UPDATE employees
		SET %s
		WHERE id = $1
		RETURNING id
	`, strings.Join(setParts, ", "))

	var updatedID string
	if err := q.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		if isForeignKeyViolation(err) {
			return department.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) UpdateStatus(ctx context.Context, id string, status employee.Status) error {
	if !validIDs(&id) {
		return employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "UPDATE employees SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("failed to update employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	if !validIDs(&id) {
		return employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) CountByCodePrefix(ctx context.Context, prefix string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE employee_code LIKE $1", prefix+"%").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employee codes: %w", err)
	}
	return count, nil
}

func (r *employeeRepository) CountByStatus(ctx context.Context, status employee.Status) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE status = $1", status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}
