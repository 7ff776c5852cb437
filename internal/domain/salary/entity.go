package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a ledger row. Rows only move forward: pending -> approved -> paid.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether a row in status s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved
	case StatusApproved:
		return next == StatusPaid
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodUPI          PaymentMethod = "upi"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCheque, PaymentMethodUPI:
		return true
	}
	return false
}

const PaymentStatusCompleted = "completed"

// StructureFields holds the optional salary components. A nil field means the
// component was not configured and the formula default applies.
type StructureFields struct {
	HRA              *decimal.Decimal
	DA               *decimal.Decimal
	TA               *decimal.Decimal
	MedicalAllowance *decimal.Decimal
	SpecialAllowance *decimal.Decimal
	Bonus            *decimal.Decimal
	OtherAllowances  *decimal.Decimal
	ProvidentFund    *decimal.Decimal
	ProfessionalTax  *decimal.Decimal
	IncomeTax        *decimal.Decimal
	OtherDeductions  *decimal.Decimal
}

// Structure is one version of an employee's compensation configuration.
type Structure struct {
	ID          string
	EmployeeID  string
	BasicSalary decimal.Decimal
	StructureFields
	OTRatePerHour decimal.Decimal
	EffectiveFrom time.Time
	CreatedAt     time.Time
}

// Breakdown is the fully resolved result of the salary formula.
type Breakdown struct {
	BasicSalary      decimal.Decimal
	HRA              decimal.Decimal
	DA               decimal.Decimal
	TA               decimal.Decimal
	MedicalAllowance decimal.Decimal
	SpecialAllowance decimal.Decimal
	Bonus            decimal.Decimal
	OtherAllowances  decimal.Decimal
	ProvidentFund    decimal.Decimal
	ProfessionalTax  decimal.Decimal
	IncomeTax        decimal.Decimal
	OtherDeductions  decimal.Decimal
	TotalEarnings    decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetSalary        decimal.Decimal
}

// Transaction is a frozen ledger row for one employee and period.
type Transaction struct {
	ID         string
	EmployeeID string
	Month      int
	Year       int
	Breakdown
	Status         Status
	GeneratedBy    string
	ApprovedBy     *string
	ApprovedAt     *time.Time
	PaymentDate    *time.Time
	PaymentMethod  *PaymentMethod
	TransactionRef *string
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	EmployeeCode      string
	EmployeeName      string
	EmployeeEmail     string
	Designation       string
	DepartmentID      string
	DepartmentName    string
	BankName          *string
	BankAccountNumber *string
}

type Payment struct {
	ID                  string
	SalaryTransactionID string
	PaymentMethod       PaymentMethod
	TransactionRef      *string
	Amount              decimal.Decimal
	Status              string
	PaymentDate         time.Time
	ProcessedBy         string
	CreatedAt           time.Time
}

// Candidate is an employee eligible for a run, joined with the current
// structure. Structure is nil when none has been configured.
type Candidate struct {
	EmployeeID        string
	EmployeeCode      string
	EmployeeName      string
	DepartmentID      string
	DepartmentName    string
	BankAccountNumber *string
	Structure         *Structure
}
