package audit

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/requestctx"
)

const (
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionUpdateStatus   = "update_status"
	ActionDelete         = "delete"
	ActionGenerateSalary = "generate_salary"
	ActionApproveSalary  = "approve_salary"
	ActionMarkPaid       = "mark_paid"
	ActionSendSlip       = "send_slip"
)

const (
	TableDepartments        = "departments"
	TableEmployees          = "employees"
	TableSalaryStructures   = "salary_structures"
	TableSalaryTransactions = "salary_transactions"
)

// Entry is one append-only audit log row.
type Entry struct {
	ID        int64
	UserID    string
	Action    string
	TableName string
	RecordID  *string
	OldValues json.RawMessage
	NewValues json.RawMessage
	IPAddress string
	UserAgent string
	RequestID string
	CreatedAt time.Time
}

type Repository interface {
	// Record joins the transaction carried by ctx, if any.
	Record(ctx context.Context, entry Entry) error
}

// NewEntry builds an entry with request metadata taken from ctx. before and
// after are marshalled to JSON; nil values are stored as NULL.
func NewEntry(ctx context.Context, actorID, action, table string, recordID *string, before, after any) (Entry, error) {
	entry := Entry{
		UserID:    actorID,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		IPAddress: requestctx.GetClientIP(ctx),
		UserAgent: requestctx.GetUserAgent(ctx),
		RequestID: requestctx.GetRequestID(ctx),
	}

	var err error
	if entry.OldValues, err = marshal(before); err != nil {
		return Entry{}, err
	}
	if entry.NewValues, err = marshal(after); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Record is a shorthand for NewEntry followed by repo.Record.
func Record(ctx context.Context, repo Repository, actorID, action, table string, recordID *string, before, after any) error {
	entry, err := NewEntry(ctx, actorID, action, table, recordID, before, after)
	if err != nil {
		return err
	}
	return repo.Record(ctx, entry)
}

// marshal maps nil, including a typed nil pointer, to SQL NULL.
func marshal(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}
	return json.Marshal(v)
}
