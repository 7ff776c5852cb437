package employee

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type memStore struct {
	mu          sync.Mutex
	employees   map[string]employee.Employee
	structures  []salary.Structure
	departments map[string]department.Department
	audits      []audit.Entry
	seq         int
	failAudit   bool
}

func newMemStore() *memStore {
	return &memStore{
		employees: map[string]employee.Employee{},
		departments: map[string]department.Department{
			"dept-eng": {ID: "dept-eng", Name: "Engineering", Status: department.StatusActive},
			"dept-hr":  {ID: "dept-hr", Name: "Human Resources", Status: department.StatusActive},
		},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memTransactor struct{ store *memStore }

func (t memTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	employees := make(map[string]employee.Employee, len(t.store.employees))
	for k, v := range t.store.employees {
		employees[k] = v
	}
	structures := append([]salary.Structure(nil), t.store.structures...)
	audits := append([]audit.Entry(nil), t.store.audits...)
	t.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.employees, t.store.structures, t.store.audits = employees, structures, audits
		t.store.mu.Unlock()
		return err
	}
	return nil
}

type memEmployeeRepo struct{ store *memStore }

func (r memEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	dept, ok := r.store.departments[e.DepartmentID]
	if !ok {
		return employee.Employee{}, department.ErrDepartmentNotFound
	}
	e.ID = r.store.nextID("emp")
	e.DepartmentName = dept.Name
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.store.employees[e.ID] = e
	return e, nil
}

func (r memEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r memEmployeeRepo) List(_ context.Context, f employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []employee.Employee
	for _, e := range r.store.employees {
		if f.Status != nil && string(e.Status) != *f.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, int64(len(out)), nil
}

func (r memEmployeeRepo) Update(_ context.Context, req employee.UpdateEmployeeRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.employees[req.ID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Designation != nil {
		e.Designation = *req.Designation
	}
	if req.DepartmentID != nil {
		dept, ok := r.store.departments[*req.DepartmentID]
		if !ok {
			return department.ErrDepartmentNotFound
		}
		e.DepartmentID, e.DepartmentName = dept.ID, dept.Name
	}
	r.store.employees[req.ID] = e
	return nil
}

func (r memEmployeeRepo) UpdateStatus(_ context.Context, id string, status employee.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.Status = status
	r.store.employees[id] = e
	return nil
}

func (r memEmployeeRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.store.employees, id)
	kept := r.store.structures[:0]
	for _, s := range r.store.structures {
		if s.EmployeeID != id {
			kept = append(kept, s)
		}
	}
	r.store.structures = kept
	return nil
}

func (r memEmployeeRepo) CountByCodePrefix(_ context.Context, prefix string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n := 0
	for _, e := range r.store.employees {
		if strings.HasPrefix(e.EmployeeCode, prefix) {
			n++
		}
	}
	return n, nil
}

func (r memEmployeeRepo) CountByStatus(_ context.Context, status employee.Status) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n := 0
	for _, e := range r.store.employees {
		if e.Status == status {
			n++
		}
	}
	return n, nil
}

type memStructureRepo struct{ store *memStore }

func (r memStructureRepo) Create(_ context.Context, s salary.Structure) (salary.Structure, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s.ID = r.store.nextID("struct")
	s.CreatedAt = time.Now().Add(time.Duration(r.store.seq) * time.Millisecond)
	r.store.structures = append(r.store.structures, s)
	return s, nil
}

func (r memStructureRepo) ListHistory(_ context.Context, employeeID string) ([]salary.Structure, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []salary.Structure
	for i := len(r.store.structures) - 1; i >= 0; i-- {
		if r.store.structures[i].EmployeeID == employeeID {
			out = append(out, r.store.structures[i])
		}
	}
	return out, nil
}

func (r memStructureRepo) GetCurrent(ctx context.Context, employeeID string) (salary.Structure, error) {
	history, _ := r.ListHistory(ctx, employeeID)
	if len(history) == 0 {
		return salary.Structure{}, salary.ErrStructureNotFound
	}
	return history[0], nil
}

type memDepartmentRepo struct{ store *memStore }

func (r memDepartmentRepo) Create(_ context.Context, d department.Department) (department.Department, error) {
	return d, nil
}

func (r memDepartmentRepo) GetByID(_ context.Context, id string) (department.Department, error) {
	d, ok := r.store.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, nil
}

func (r memDepartmentRepo) List(_ context.Context, _ department.DepartmentFilter) ([]department.Department, error) {
	return nil, nil
}

type memAuditRepo struct{ store *memStore }

func (r memAuditRepo) Record(_ context.Context, e audit.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failAudit {
		return fmt.Errorf("audit log unavailable")
	}
	r.store.audits = append(r.store.audits, e)
	return nil
}

// ===== HELPERS =====

const testActor = "user-hr"

func newTestService() (*EmployeeServiceImpl, *memStore) {
	store := newMemStore()
	svc := NewEmployeeService(
		memTransactor{store},
		memEmployeeRepo{store},
		memStructureRepo{store},
		memDepartmentRepo{store},
		memAuditRepo{store},
	).(*EmployeeServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC) }
	return svc, store
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func validCreateRequest(code string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		EmployeeCode: code,
		Name:         "Asha Rao",
		Email:        strings.ToLower(code) + "@example.com",
		Phone:        "9876543210",
		DepartmentID: "dept-eng",
		Designation:  "Engineer",
		JoinDate:     "2024-01-15",
		Salary:       salary.StructureRequest{BasicSalary: dec(10000)},
	}
}

// ===== CREATE TESTS =====

func TestEmployeeService_CreateEmployee_WithFirstStructure(t *testing.T) {
	svc, store := newTestService()

	resp, err := svc.CreateEmployee(context.Background(), testActor, validCreateRequest("eng0001"))

	require.NoError(t, err)
	assert.Equal(t, "ENG0001", resp.EmployeeCode)
	assert.Equal(t, employee.StatusActive, resp.Status)
	assert.Equal(t, "Engineering", resp.DepartmentName)
	require.NotNil(t, resp.CurrentSalary)
	assert.Equal(t, "2025-03-15", resp.CurrentSalary.EffectiveFrom)
	assert.True(t, decimal.NewFromInt(14800).Equal(resp.CurrentSalary.Computed.NetSalary))
	assert.Len(t, store.structures, 1)
	require.Len(t, store.audits, 1)
	assert.Equal(t, audit.TableEmployees, store.audits[0].TableName)
}

func TestEmployeeService_CreateEmployee_DuplicateCode(t *testing.T) {
	svc, store := newTestService()
	_, err := svc.CreateEmployee(context.Background(), testActor, validCreateRequest("ENG0001"))
	require.NoError(t, err)

	_, err = svc.CreateEmployee(context.Background(), testActor, validCreateRequest("ENG0001"))

	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
	assert.Len(t, store.employees, 1)
	assert.Len(t, store.structures, 1)
}

func TestEmployeeService_CreateEmployee_UnknownDepartment(t *testing.T) {
	svc, _ := newTestService()
	req := validCreateRequest("ENG0001")
	req.DepartmentID = "dept-missing"

	_, err := svc.CreateEmployee(context.Background(), testActor, req)

	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}

func TestEmployeeService_CreateEmployee_AuditFailureRollsBack(t *testing.T) {
	svc, store := newTestService()
	store.failAudit = true

	_, err := svc.CreateEmployee(context.Background(), testActor, validCreateRequest("ENG0001"))

	require.Error(t, err)
	assert.Empty(t, store.employees)
	assert.Empty(t, store.structures)
}

func TestEmployeeService_CreateEmployee_Invalid(t *testing.T) {
	svc, _ := newTestService()
	req := validCreateRequest("ENG0001")
	req.Salary.BasicSalary = nil

	_, err := svc.CreateEmployee(context.Background(), testActor, req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "salary.basic_salary")
}

// ===== UPDATE TESTS =====

func TestEmployeeService_UpdateEmployee_AppendsStructureVersion(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	created, err := svc.CreateEmployee(ctx, testActor, validCreateRequest("ENG0001"))
	require.NoError(t, err)
	firstStructureID := created.CurrentSalary.ID

	designation := "Senior Engineer"
	resp, err := svc.UpdateEmployee(ctx, testActor, employee.UpdateEmployeeRequest{
		ID:          created.ID,
		Designation: &designation,
		Salary:      &salary.StructureRequest{BasicSalary: dec(20000), HRA: dec(5000)},
	})

	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", resp.Designation)
	require.NotNil(t, resp.CurrentSalary)
	assert.NotEqual(t, firstStructureID, resp.CurrentSalary.ID)
	assert.True(t, decimal.NewFromInt(5000).Equal(resp.CurrentSalary.Computed.HRA))

	history, err := svc.GetStructureHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, resp.CurrentSalary.ID, history[0].ID)
	assert.Equal(t, firstStructureID, history[1].ID)
	assert.True(t, decimal.NewFromInt(10000).Equal(history[1].BasicSalary))
	assert.Len(t, store.structures, 2)
}

func TestEmployeeService_UpdateEmployee_ProfileOnlyKeepsStructure(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	created, err := svc.CreateEmployee(ctx, testActor, validCreateRequest("ENG0001"))
	require.NoError(t, err)

	name := "Asha R."
	resp, err := svc.UpdateEmployee(ctx, testActor, employee.UpdateEmployeeRequest{ID: created.ID, Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Asha R.", resp.Name)
	assert.Equal(t, created.CurrentSalary.ID, resp.CurrentSalary.ID)
	assert.Len(t, store.structures, 1)
}

func TestEmployeeService_UpdateEmployee_NotFound(t *testing.T) {
	svc, _ := newTestService()
	name := "Nobody"

	_, err := svc.UpdateEmployee(context.Background(), testActor, employee.UpdateEmployeeRequest{ID: "missing", Name: &name})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

// ===== STATUS / DELETE TESTS =====

func TestEmployeeService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	created, err := svc.CreateEmployee(ctx, testActor, validCreateRequest("ENG0001"))
	require.NoError(t, err)

	resp, err := svc.UpdateStatus(ctx, testActor, employee.UpdateStatusRequest{ID: created.ID, Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, employee.StatusInactive, resp.Status)

	_, err = svc.UpdateStatus(ctx, testActor, employee.UpdateStatusRequest{ID: created.ID, Status: "inactive"})
	assert.ErrorIs(t, err, employee.ErrEmployeeAlreadyInactive)

	_, err = svc.UpdateStatus(ctx, testActor, employee.UpdateStatusRequest{ID: created.ID, Status: "active"})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, testActor, employee.UpdateStatusRequest{ID: created.ID, Status: "active"})
	assert.ErrorIs(t, err, employee.ErrEmployeeAlreadyActive)
}

func TestEmployeeService_DeleteEmployee(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	created, err := svc.CreateEmployee(ctx, testActor, validCreateRequest("ENG0001"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmployee(ctx, testActor, created.ID))

	_, err = svc.GetEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Empty(t, store.structures)
	assert.Equal(t, audit.ActionDelete, store.audits[len(store.audits)-1].Action)

	assert.ErrorIs(t, svc.DeleteEmployee(ctx, testActor, created.ID), employee.ErrEmployeeNotFound)
}

// ===== CODE GENERATION TESTS =====

func TestEmployeeService_GenerateCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	code, err := svc.GenerateCode(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", code)

	deptID := "dept-eng"
	code, err = svc.GenerateCode(ctx, &deptID)
	require.NoError(t, err)
	assert.Equal(t, "ENG0001", code)

	_, err = svc.CreateEmployee(ctx, testActor, validCreateRequest(code))
	require.NoError(t, err)
	code, err = svc.GenerateCode(ctx, &deptID)
	require.NoError(t, err)
	assert.Equal(t, "ENG0002", code)
	assert.True(t, validator.IsValidEmployeeCode(code))

	hr := "dept-hr"
	code, err = svc.GenerateCode(ctx, &hr)
	require.NoError(t, err)
	assert.Equal(t, "HUM0001", code)

	missing := "dept-missing"
	_, err = svc.GenerateCode(ctx, &missing)
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}

func TestCodePrefix(t *testing.T) {
	tests := map[string]string{
		"Engineering": "ENG",
		"R&D":         "RD",
		"  ops team":  "OPS",
		"X":           "",
		"123":         "",
	}
	for name, want := range tests {
		assert.Equal(t, want, codePrefix(name), name)
	}
}

func TestEmployeeService_GetStructureHistory_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetStructureHistory(context.Background(), "missing")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_MutationsRequireActor(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	created, err := svc.CreateEmployee(ctx, testActor, validCreateRequest("ENG0001"))
	require.NoError(t, err)
	audits := len(store.audits)
	name := "Renamed"

	_, err = svc.CreateEmployee(ctx, "", validCreateRequest("ENG0002"))
	assert.ErrorIs(t, err, user.ErrActorRequired)

	_, err = svc.UpdateEmployee(ctx, "", employee.UpdateEmployeeRequest{ID: created.ID, Name: &name})
	assert.ErrorIs(t, err, user.ErrActorRequired)

	_, err = svc.UpdateStatus(ctx, "", employee.UpdateStatusRequest{ID: created.ID, Status: "inactive"})
	assert.ErrorIs(t, err, user.ErrActorRequired)

	assert.ErrorIs(t, svc.DeleteEmployee(ctx, "", created.ID), user.ErrActorRequired)

	assert.Len(t, store.audits, audits)
	got, err := svc.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
}

func TestEmployeeService_UpdateEmployee_NoPreviousStructureAuditsNull(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	created, err := svc.CreateEmployee(ctx, testActor, validCreateRequest("ENG0001"))
	require.NoError(t, err)

	// Drop the structure so the employee has no current salary.
	store.structures = nil
	basic := decimal.NewFromInt(60000)
	_, err = svc.UpdateEmployee(ctx, testActor, employee.UpdateEmployeeRequest{
		ID:     created.ID,
		Salary: &salary.StructureRequest{BasicSalary: &basic},
	})
	require.NoError(t, err)

	structureAudit := store.audits[len(store.audits)-2]
	assert.Equal(t, audit.TableSalaryStructures, structureAudit.TableName)
	assert.Nil(t, structureAudit.OldValues)
	assert.NotNil(t, structureAudit.NewValues)
}
