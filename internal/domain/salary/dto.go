package salary

import (
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	WarningMissingStructure   = "missing_structure"
	WarningNegativeNet        = "negative_net"
	WarningMissingBankAccount = "missing_bank_account"
)

// ========== STRUCTURE DTOs ==========

// MaxComponentAmount caps every structure amount so that eight earning
// components still sum below the NUMERIC(12,2) ledger columns.
var MaxComponentAmount = decimal.NewFromInt(1_000_000_000)

// StructureRequest carries salary structure fields. Omitted optional fields are
// stored as NULL so the formula default applies.
type StructureRequest struct {
	BasicSalary      *decimal.Decimal `json:"basic_salary"`
	HRA              *decimal.Decimal `json:"hra,omitempty"`
	DA               *decimal.Decimal `json:"da,omitempty"`
	TA               *decimal.Decimal `json:"ta,omitempty"`
	MedicalAllowance *decimal.Decimal `json:"medical_allowance,omitempty"`
	SpecialAllowance *decimal.Decimal `json:"special_allowance,omitempty"`
	Bonus            *decimal.Decimal `json:"bonus,omitempty"`
	OtherAllowances  *decimal.Decimal `json:"other_allowances,omitempty"`
	ProvidentFund    *decimal.Decimal `json:"provident_fund,omitempty"`
	ProfessionalTax  *decimal.Decimal `json:"professional_tax,omitempty"`
	IncomeTax        *decimal.Decimal `json:"income_tax,omitempty"`
	OtherDeductions  *decimal.Decimal `json:"other_deductions,omitempty"`
	OTRatePerHour    *decimal.Decimal `json:"ot_rate_per_hour,omitempty"`
}

func (r *StructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BasicSalary == nil {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "is required"})
	}

	for field, v := range map[string]*decimal.Decimal{
		"basic_salary":      r.BasicSalary,
		"hra":               r.HRA,
		"da":                r.DA,
		"ta":                r.TA,
		"medical_allowance": r.MedicalAllowance,
		"special_allowance": r.SpecialAllowance,
		"bonus":             r.Bonus,
		"other_allowances":  r.OtherAllowances,
		"provident_fund":    r.ProvidentFund,
		"professional_tax":  r.ProfessionalTax,
		"income_tax":        r.IncomeTax,
		"other_deductions":  r.OtherDeductions,
		"ot_rate_per_hour":  r.OTRatePerHour,
	} {
		switch {
		case v == nil:
		case v.IsNegative():
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		case v.GreaterThan(MaxComponentAmount):
			errs = append(errs, validator.ValidationError{Field: field, Message: "must not exceed " + MaxComponentAmount.String()})
		}
	}

	if len(errs) > 0 {
		errs.Sort()
		return errs
	}
	return nil
}

// ToStructure builds a new structure version for employeeID. Validate must
// have passed.
func (r *StructureRequest) ToStructure(employeeID string, effectiveFrom time.Time) Structure {
	s := Structure{
		EmployeeID:  employeeID,
		BasicSalary: *r.BasicSalary,
		StructureFields: StructureFields{
			HRA:              r.HRA,
			DA:               r.DA,
			TA:               r.TA,
			MedicalAllowance: r.MedicalAllowance,
			SpecialAllowance: r.SpecialAllowance,
			Bonus:            r.Bonus,
			OtherAllowances:  r.OtherAllowances,
			ProvidentFund:    r.ProvidentFund,
			ProfessionalTax:  r.ProfessionalTax,
			IncomeTax:        r.IncomeTax,
			OtherDeductions:  r.OtherDeductions,
		},
		OTRatePerHour: decimal.Zero,
		EffectiveFrom: effectiveFrom,
	}
	if r.OTRatePerHour != nil {
		s.OTRatePerHour = *r.OTRatePerHour
	}
	return s
}

type StructureResponse struct {
	ID               string            `json:"id"`
	EmployeeID       string            `json:"employee_id"`
	BasicSalary      decimal.Decimal   `json:"basic_salary"`
	HRA              *decimal.Decimal  `json:"hra"`
	DA               *decimal.Decimal  `json:"da"`
	TA               *decimal.Decimal  `json:"ta"`
	MedicalAllowance *decimal.Decimal  `json:"medical_allowance"`
	SpecialAllowance *decimal.Decimal  `json:"special_allowance"`
	Bonus            *decimal.Decimal  `json:"bonus"`
	OtherAllowances  *decimal.Decimal  `json:"other_allowances"`
	ProvidentFund    *decimal.Decimal  `json:"provident_fund"`
	ProfessionalTax  *decimal.Decimal  `json:"professional_tax"`
	IncomeTax        *decimal.Decimal  `json:"income_tax"`
	OtherDeductions  *decimal.Decimal  `json:"other_deductions"`
	OTRatePerHour    decimal.Decimal   `json:"ot_rate_per_hour"`
	EffectiveFrom    string            `json:"effective_from"`
	Computed         BreakdownResponse `json:"computed"`
}

func NewStructureResponse(s Structure) StructureResponse {
	return StructureResponse{
		ID:               s.ID,
		EmployeeID:       s.EmployeeID,
		BasicSalary:      s.BasicSalary,
		HRA:              s.HRA,
		DA:               s.DA,
		TA:               s.TA,
		MedicalAllowance: s.MedicalAllowance,
		SpecialAllowance: s.SpecialAllowance,
		Bonus:            s.Bonus,
		OtherAllowances:  s.OtherAllowances,
		ProvidentFund:    s.ProvidentFund,
		ProfessionalTax:  s.ProfessionalTax,
		IncomeTax:        s.IncomeTax,
		OtherDeductions:  s.OtherDeductions,
		OTRatePerHour:    s.OTRatePerHour,
		EffectiveFrom:    s.EffectiveFrom.Format("2006-01-02"),
		Computed:         NewBreakdownResponse(ComputeFor(&s)),
	}
}

type BreakdownResponse struct {
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	HRA              decimal.Decimal `json:"hra"`
	DA               decimal.Decimal `json:"da"`
	TA               decimal.Decimal `json:"ta"`
	MedicalAllowance decimal.Decimal `json:"medical_allowance"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	Bonus            decimal.Decimal `json:"bonus"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
	ProvidentFund    decimal.Decimal `json:"provident_fund"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	IncomeTax        decimal.Decimal `json:"income_tax"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
}

func NewBreakdownResponse(b Breakdown) BreakdownResponse {
	return BreakdownResponse(b)
}

// ========== RUN DTOs ==========

// RunRequest selects the employees and period for a preview or generate run.
type RunRequest struct {
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	DepartmentID    *string `json:"department_id,omitempty"`
	IncludeInactive bool    `json:"include_inactive"`
}

func (r *RunRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 2000 or later"})
	}
	if r.DepartmentID != nil && validator.IsEmpty(*r.DepartmentID) {
		r.DepartmentID = nil
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PreviewRow struct {
	EmployeeID     string            `json:"employee_id"`
	EmployeeCode   string            `json:"employee_code"`
	EmployeeName   string            `json:"employee_name"`
	DepartmentID   string            `json:"department_id"`
	DepartmentName string            `json:"department_name"`
	Salary         BreakdownResponse `json:"salary"`
	Warnings       []string          `json:"warnings,omitempty"`
}

type PreviewResponse struct {
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Rows     []PreviewRow    `json:"rows"`
	Count    int             `json:"count"`
	TotalNet decimal.Decimal `json:"total_net"`
	Warnings int             `json:"warnings"`
}

type GenerateResponse struct {
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Count    int             `json:"count"`
	TotalNet decimal.Decimal `json:"total_net"`
}

// ========== LIFECYCLE DTOs ==========

type MarkPaidRequest struct {
	TransactionID  string  `json:"-"`
	PaymentDate    string  `json:"payment_date"`
	PaymentMethod  string  `json:"payment_method"`
	TransactionRef *string `json:"transaction_ref,omitempty"`
}

// Validate checks the request and fills in the default payment method.
func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TransactionID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if validator.IsEmpty(r.PaymentDate) {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "is required"})
	} else if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be in YYYY-MM-DD format"})
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = string(PaymentMethodBankTransfer)
	} else if !PaymentMethod(r.PaymentMethod).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "must be one of bank_transfer, cash, cheque, upi"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== LEDGER DTOs ==========

type TransactionFilter struct {
	Month        *int    `json:"month,omitempty"`
	Year         *int    `json:"year,omitempty"`
	Status       *string `json:"status,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
	SortBy       string  `json:"sort_by"`
	SortOrder    string  `json:"sort_order"`
}

func (f *TransactionFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && !validator.IsValidMonth(*f.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if f.Year != nil && !validator.IsValidYear(*f.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 2000 or later"})
	}
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of pending, approved, paid"})
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

type TransactionResponse struct {
	ID             string            `json:"id"`
	EmployeeID     string            `json:"employee_id"`
	EmployeeCode   string            `json:"employee_code"`
	EmployeeName   string            `json:"employee_name"`
	DepartmentName string            `json:"department_name"`
	Designation    string            `json:"designation"`
	Month          int               `json:"month"`
	Year           int               `json:"year"`
	Salary         BreakdownResponse `json:"salary"`
	Status         Status            `json:"status"`
	GeneratedBy    string            `json:"generated_by"`
	ApprovedBy     *string           `json:"approved_by,omitempty"`
	ApprovedAt     *string           `json:"approved_at,omitempty"`
	PaymentDate    *string           `json:"payment_date,omitempty"`
	PaymentMethod  *PaymentMethod    `json:"payment_method,omitempty"`
	TransactionRef *string           `json:"transaction_ref,omitempty"`
	PaidAt         *string           `json:"paid_at,omitempty"`
	CreatedAt      string            `json:"created_at"`
}

func NewTransactionResponse(t Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		EmployeeID:     t.EmployeeID,
		EmployeeCode:   t.EmployeeCode,
		EmployeeName:   t.EmployeeName,
		DepartmentName: t.DepartmentName,
		Designation:    t.Designation,
		Month:          t.Month,
		Year:           t.Year,
		Salary:         NewBreakdownResponse(t.Breakdown),
		Status:         t.Status,
		GeneratedBy:    t.GeneratedBy,
		ApprovedBy:     t.ApprovedBy,
		ApprovedAt:     formatTime(t.ApprovedAt, time.RFC3339),
		PaymentDate:    formatTime(t.PaymentDate, "2006-01-02"),
		PaymentMethod:  t.PaymentMethod,
		TransactionRef: t.TransactionRef,
		PaidAt:         formatTime(t.PaidAt, time.RFC3339),
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
}

type ListTransactionResponse struct {
	Data       []TransactionResponse `json:"data"`
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
}

type StatsResponse struct {
	Month              int `json:"month"`
	Year               int `json:"year"`
	ActiveEmployees    int `json:"active_employees"`
	ProcessedThisMonth int `json:"processed_this_month"`
	PendingApprovals   int `json:"pending_approvals"`
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}
