package employee

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

type Employee struct {
	ID                string
	EmployeeCode      string
	Name              string
	Email             string
	Phone             string
	DepartmentID      string
	Designation       string
	JoinDate          time.Time
	Address           *string
	City              *string
	State             *string
	Pincode           *string
	BankName          *string
	BankAccountNumber *string
	BankIFSC          *string
	PANNumber         *string
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined fields
	DepartmentName string
}

// DefaultCodePrefix is used when the department has no usable name.
const DefaultCodePrefix = "EMP"
