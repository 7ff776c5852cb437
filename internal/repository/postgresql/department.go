package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepository struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO departments (name, description, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query, d.Name, d.Description, d.Status).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return department.Department{}, department.ErrDepartmentNameExists
		}
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return d, nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (department.Department, error) {
	if !validIDs(&id) {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.name, d.description, d.status, d.created_at, d.updated_at,
			   (SELECT COUNT(*) FROM employees e WHERE e.department_id = d.id) AS employee_count
		FROM departments d
		WHERE d.id = $1
	`
	var d department.Department
	err := q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.Status, &d.CreatedAt, &d.UpdatedAt, &d.EmployeeCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

func (r *departmentRepository) List(ctx context.Context, filter department.DepartmentFilter) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.name, d.description, d.status, d.created_at, d.updated_at,
			   COUNT(e.id) AS employee_count
		FROM departments d
		LEFT JOIN employees e ON e.department_id = d.id
	`
	if filter.ActiveOnly {
		query += " WHERE d.status = 'active'"
	}
	query += " GROUP BY d.id ORDER BY d.name"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []department.Department
	for rows.Next() {
		var d department.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Status, &d.CreatedAt, &d.UpdatedAt, &d.EmployeeCount); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}
