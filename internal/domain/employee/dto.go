package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode      string                  `json:"employee_code"`
	Name              string                  `json:"name"`
	Email             string                  `json:"email"`
	Phone             string                  `json:"phone"`
	DepartmentID      string                  `json:"department_id"`
	Designation       string                  `json:"designation"`
	JoinDate          string                  `json:"join_date"`
	Address           *string                 `json:"address,omitempty"`
	City              *string                 `json:"city,omitempty"`
	State             *string                 `json:"state,omitempty"`
	Pincode           *string                 `json:"pincode,omitempty"`
	BankName          *string                 `json:"bank_name,omitempty"`
	BankAccountNumber *string                 `json:"bank_account_number,omitempty"`
	BankIFSC          *string                 `json:"bank_ifsc,omitempty"`
	PANNumber         *string                 `json:"pan_number,omitempty"`
	Salary            salary.StructureRequest `json:"salary"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.ToUpper(strings.TrimSpace(r.EmployeeCode))
	if r.EmployeeCode == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "is required"})
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "must be an uppercase prefix followed by digits"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if validator.IsEmpty(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "is required"})
	} else if !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "must be 10 to 15 digits"})
	}
	if validator.IsEmpty(r.DepartmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "is required"})
	}
	if validator.IsEmpty(r.Designation) {
		errs = append(errs, validator.ValidationError{Field: "designation", Message: "is required"})
	}
	if validator.IsEmpty(r.JoinDate) {
		errs = append(errs, validator.ValidationError{Field: "join_date", Message: "is required"})
	} else if _, ok := validator.IsValidDate(r.JoinDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "join_date", Message: "must be in YYYY-MM-DD format"})
	}

	if err := r.Salary.Validate(); err != nil {
		if salaryErrs, ok := err.(validator.ValidationErrors); ok {
			for _, e := range salaryErrs {
				errs = append(errs, validator.ValidationError{Field: "salary." + e.Field, Message: e.Message})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEmployee maps a validated request onto a new active employee.
func (r *CreateEmployeeRequest) ToEmployee() Employee {
	joinDate, _ := validator.IsValidDate(r.JoinDate)
	return Employee{
		EmployeeCode:      r.EmployeeCode,
		Name:              strings.TrimSpace(r.Name),
		Email:             strings.TrimSpace(r.Email),
		Phone:             strings.TrimSpace(r.Phone),
		DepartmentID:      r.DepartmentID,
		Designation:       strings.TrimSpace(r.Designation),
		JoinDate:          joinDate,
		Address:           r.Address,
		City:              r.City,
		State:             r.State,
		Pincode:           r.Pincode,
		BankName:          r.BankName,
		BankAccountNumber: r.BankAccountNumber,
		BankIFSC:          r.BankIFSC,
		PANNumber:         r.PANNumber,
		Status:            StatusActive,
	}
}

type UpdateEmployeeRequest struct {
	ID                string                   `json:"-"`
	Name              *string                  `json:"name,omitempty"`
	Email             *string                  `json:"email,omitempty"`
	Phone             *string                  `json:"phone,omitempty"`
	DepartmentID      *string                  `json:"department_id,omitempty"`
	Designation       *string                  `json:"designation,omitempty"`
	JoinDate          *string                  `json:"join_date,omitempty"`
	Address           *string                  `json:"address,omitempty"`
	City              *string                  `json:"city,omitempty"`
	State             *string                  `json:"state,omitempty"`
	Pincode           *string                  `json:"pincode,omitempty"`
	BankName          *string                  `json:"bank_name,omitempty"`
	BankAccountNumber *string                  `json:"bank_account_number,omitempty"`
	BankIFSC          *string                  `json:"bank_ifsc,omitempty"`
	PANNumber         *string                  `json:"pan_number,omitempty"`
	Salary            *salary.StructureRequest `json:"salary,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "cannot be empty"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be a valid email address"})
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "must be 10 to 15 digits"})
	}
	if r.DepartmentID != nil && validator.IsEmpty(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "cannot be empty"})
	}
	if r.Designation != nil && validator.IsEmpty(*r.Designation) {
		errs = append(errs, validator.ValidationError{Field: "designation", Message: "cannot be empty"})
	}
	if r.JoinDate != nil {
		if _, ok := validator.IsValidDate(*r.JoinDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "join_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if r.Salary != nil {
		if err := r.Salary.Validate(); err != nil {
			if salaryErrs, ok := err.(validator.ValidationErrors); ok {
				for _, e := range salaryErrs {
					errs = append(errs, validator.ValidationError{Field: "salary." + e.Field, Message: e.Message})
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasProfileChanges reports whether any employee column is being updated.
func (r *UpdateEmployeeRequest) HasProfileChanges() bool {
	return r.Name != nil || r.Email != nil || r.Phone != nil || r.DepartmentID != nil ||
		r.Designation != nil || r.JoinDate != nil || r.Address != nil || r.City != nil ||
		r.State != nil || r.Pincode != nil || r.BankName != nil || r.BankAccountNumber != nil ||
		r.BankIFSC != nil || r.PANNumber != nil
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be active or inactive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	Status       *string `json:"status,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Search       *string `json:"search,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
	SortBy       string  `json:"sort_by"`
	SortOrder    string  `json:"sort_order"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be active or inactive"})
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID                string                    `json:"id"`
	EmployeeCode      string                    `json:"employee_code"`
	Name              string                    `json:"name"`
	Email             string                    `json:"email"`
	Phone             string                    `json:"phone"`
	DepartmentID      string                    `json:"department_id"`
	DepartmentName    string                    `json:"department_name"`
	Designation       string                    `json:"designation"`
	JoinDate          string                    `json:"join_date"`
	Address           *string                   `json:"address,omitempty"`
	City              *string                   `json:"city,omitempty"`
	State             *string                   `json:"state,omitempty"`
	Pincode           *string                   `json:"pincode,omitempty"`
	BankName          *string                   `json:"bank_name,omitempty"`
	BankAccountNumber *string                   `json:"bank_account_number,omitempty"`
	BankIFSC          *string                   `json:"bank_ifsc,omitempty"`
	PANNumber         *string                   `json:"pan_number,omitempty"`
	Status            Status                    `json:"status"`
	CurrentSalary     *salary.StructureResponse `json:"current_salary,omitempty"`
	CreatedAt         string                    `json:"created_at"`
	UpdatedAt         string                    `json:"updated_at"`
}

func NewEmployeeResponse(e Employee, current *salary.Structure) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                e.ID,
		EmployeeCode:      e.EmployeeCode,
		Name:              e.Name,
		Email:             e.Email,
		Phone:             e.Phone,
		DepartmentID:      e.DepartmentID,
		DepartmentName:    e.DepartmentName,
		Designation:       e.Designation,
		JoinDate:          e.JoinDate.Format("2006-01-02"),
		Address:           e.Address,
		City:              e.City,
		State:             e.State,
		Pincode:           e.Pincode,
		BankName:          e.BankName,
		BankAccountNumber: e.BankAccountNumber,
		BankIFSC:          e.BankIFSC,
		PANNumber:         e.PANNumber,
		Status:            e.Status,
		CreatedAt:         e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         e.UpdatedAt.Format(time.RFC3339),
	}
	if current != nil {
		s := salary.NewStructureResponse(*current)
		resp.CurrentSalary = &s
	}
	return resp
}

type ListEmployeeResponse struct {
	Data       []EmployeeResponse `json:"data"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

type GenerateCodeResponse struct {
	EmployeeCode string `json:"employee_code"`
}
