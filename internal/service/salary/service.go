package salary

import (
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/payslip"
)

type SalaryServiceImpl struct {
	transactor      database.Transactor
	transactionRepo salary.TransactionRepository
	paymentRepo     salary.PaymentRepository
	employeeRepo    employee.EmployeeRepository
	auditRepo       audit.Repository
	renderer        *payslip.Renderer
	mailer          email.EmailService
	now             func() time.Time
}

func NewSalaryService(
	transactor database.Transactor,
	transactionRepo salary.TransactionRepository,
	paymentRepo salary.PaymentRepository,
	employeeRepo employee.EmployeeRepository,
	auditRepo audit.Repository,
	renderer *payslip.Renderer,
	mailer email.EmailService,
) salary.SalaryService {
	return &SalaryServiceImpl{
		transactor:      transactor,
		transactionRepo: transactionRepo,
		paymentRepo:     paymentRepo,
		employeeRepo:    employeeRepo,
		auditRepo:       auditRepo,
		renderer:        renderer,
		mailer:          mailer,
		now:             time.Now,
	}
}
