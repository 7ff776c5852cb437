package salary

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/email"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the salary tables. Transactions run
// one at a time and are rolled back by restoring a snapshot.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	employees    []memEmployee
	transactions map[string]salary.Transaction
	payments     map[string]salary.Payment
	audits       []audit.Entry
	seq          int

	// staleCandidates makes ListCandidates ignore existing ledger rows, as if
	// another writer committed between the read and the insert.
	staleCandidates bool
	// failCreateAt makes the n-th Create call (1-based) fail.
	failCreateAt int
	creates      int
}

type memEmployee struct {
	salary.Candidate
	Email  string
	Active bool
}

func newMemStore() *memStore {
	return &memStore{
		transactions: map[string]salary.Transaction{},
		payments:     map[string]salary.Payment{},
	}
}

func (m *memStore) addEmployee(code string, basic int64, active bool) memEmployee {
	m.mu.Lock()
	defer m.mu.Unlock()

	bank := "000111222" + code
	e := memEmployee{
		Candidate: salary.Candidate{
			EmployeeID:        "emp-" + code,
			EmployeeCode:      code,
			EmployeeName:      "Employee " + code,
			DepartmentID:      "dept-eng",
			DepartmentName:    "Engineering",
			BankAccountNumber: &bank,
		},
		Email:  code + "@example.com",
		Active: active,
	}
	if basic > 0 {
		e.Structure = &salary.Structure{
			ID:          "struct-" + code,
			EmployeeID:  e.EmployeeID,
			BasicSalary: decimal.NewFromInt(basic),
		}
	}
	m.employees = append(m.employees, e)
	return e
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type snapshot struct {
	transactions map[string]salary.Transaction
	payments     map[string]salary.Payment
	audits       []audit.Entry
}

func (m *memStore) snapshot() snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := snapshot{
		transactions: make(map[string]salary.Transaction, len(m.transactions)),
		payments:     make(map[string]salary.Payment, len(m.payments)),
		audits:       append([]audit.Entry(nil), m.audits...),
	}
	for k, v := range m.transactions {
		s.transactions[k] = v
	}
	for k, v := range m.payments {
		s.payments[k] = v
	}
	return s
}

func (m *memStore) restore(s snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = s.transactions
	m.payments = s.payments
	m.audits = s.audits
}

func (m *memStore) rowsFor(month, year int) []salary.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []salary.Transaction
	for _, t := range m.transactions {
		if t.Month == month && t.Year == year {
			rows = append(rows, t)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].EmployeeCode < rows[j].EmployeeCode })
	return rows
}

// ===== TRANSACTOR =====

type memTransactor struct{ store *memStore }

func (t memTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// ===== TRANSACTION REPOSITORY =====

type memTransactionRepo struct{ store *memStore }

func (r memTransactionRepo) ListCandidates(_ context.Context, f salary.CandidateFilter) ([]salary.Candidate, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []salary.Candidate
	for _, e := range r.store.employees {
		if !e.Active && !f.IncludeInactive {
			continue
		}
		if f.DepartmentID != nil && e.DepartmentID != *f.DepartmentID {
			continue
		}
		if !r.store.staleCandidates && r.store.hasRowLocked(e.EmployeeID, f.Month, f.Year) {
			continue
		}
		out = append(out, e.Candidate)
	}
	return out, nil
}

func (m *memStore) hasRowLocked(employeeID string, month, year int) bool {
	for _, t := range m.transactions {
		if t.EmployeeID == employeeID && t.Month == month && t.Year == year {
			return true
		}
	}
	return false
}

func (r memTransactionRepo) Create(_ context.Context, t salary.Transaction) (salary.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.creates++
	if r.store.failCreateAt > 0 && r.store.creates == r.store.failCreateAt {
		return salary.Transaction{}, fmt.Errorf("failed to create salary transaction: connection reset")
	}
	if r.store.hasRowLocked(t.EmployeeID, t.Month, t.Year) {
		return salary.Transaction{}, salary.ErrTransactionExists
	}

	for _, e := range r.store.employees {
		if e.EmployeeID == t.EmployeeID {
			t.EmployeeCode = e.EmployeeCode
			t.EmployeeName = e.EmployeeName
			t.EmployeeEmail = e.Email
			t.DepartmentID = e.DepartmentID
			t.DepartmentName = e.DepartmentName
		}
	}
	t.ID = r.store.nextID("txn")
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.store.transactions[t.ID] = t
	return t, nil
}

func (r memTransactionRepo) GetByID(_ context.Context, id string) (salary.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.transactions[id]
	if !ok {
		return salary.Transaction{}, salary.ErrTransactionNotFound
	}
	return t, nil
}

func (r memTransactionRepo) GetByIDForUpdate(ctx context.Context, id string) (salary.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r memTransactionRepo) List(_ context.Context, f salary.TransactionFilter) ([]salary.Transaction, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []salary.Transaction
	for _, t := range r.store.transactions {
		if f.Status != nil && string(t.Status) != *f.Status {
			continue
		}
		if f.Month != nil && t.Month != *f.Month {
			continue
		}
		if f.Year != nil && t.Year != *f.Year {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	total := int64(len(out))

	start := (f.Page - 1) * f.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + f.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r memTransactionRepo) MarkApproved(_ context.Context, id string, approvedBy string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.transactions[id]
	if !ok {
		return salary.ErrTransactionNotFound
	}
	if t.Status != salary.StatusPending {
		return salary.ErrInvalidStatusTransition
	}
	t.Status = salary.StatusApproved
	t.ApprovedBy = &approvedBy
	t.ApprovedAt = &at
	r.store.transactions[id] = t
	return nil
}

func (r memTransactionRepo) MarkPaid(_ context.Context, id string, paymentDate time.Time, method salary.PaymentMethod, ref *string, paidAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.transactions[id]
	if !ok {
		return salary.ErrTransactionNotFound
	}
	if t.Status != salary.StatusApproved {
		return salary.ErrInvalidStatusTransition
	}
	t.Status = salary.StatusPaid
	t.PaymentDate = &paymentDate
	t.PaymentMethod = &method
	t.TransactionRef = ref
	t.PaidAt = &paidAt
	r.store.transactions[id] = t
	return nil
}

func (r memTransactionRepo) CountByPeriod(_ context.Context, month, year int) (int, error) {
	return len(r.store.rowsFor(month, year)), nil
}

func (r memTransactionRepo) CountByStatus(_ context.Context, status salary.Status) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n := 0
	for _, t := range r.store.transactions {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}

// ===== PAYMENT REPOSITORY =====

type memPaymentRepo struct{ store *memStore }

func (r memPaymentRepo) Create(_ context.Context, p salary.Payment) (salary.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.payments[p.SalaryTransactionID]; ok {
		return salary.Payment{}, salary.ErrPaymentExists
	}
	p.ID = r.store.nextID("pay")
	p.CreatedAt = time.Now()
	r.store.payments[p.SalaryTransactionID] = p
	return p, nil
}

func (r memPaymentRepo) GetByTransactionID(_ context.Context, id string) (salary.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.payments[id]
	if !ok {
		return salary.Payment{}, salary.ErrTransactionNotFound
	}
	return p, nil
}

// ===== EMPLOYEE REPOSITORY =====

// memEmployeeRepo only backs the counters used by Stats.
type memEmployeeRepo struct {
	employee.EmployeeRepository
	store *memStore
}

func (r memEmployeeRepo) CountByStatus(_ context.Context, status employee.Status) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n := 0
	for _, e := range r.store.employees {
		if e.Active == (status == employee.StatusActive) {
			n++
		}
	}
	return n, nil
}

// ===== AUDIT / MAIL =====

type memAuditRepo struct{ store *memStore }

func (r memAuditRepo) Record(_ context.Context, e audit.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audits = append(r.store.audits, e)
	return nil
}

type fakeMailer struct {
	sent []email.PayslipMessage
	err  error
}

func (f *fakeMailer) SendPayslip(msg email.PayslipMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}
