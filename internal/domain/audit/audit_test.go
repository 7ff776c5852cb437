package audit

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/requestctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	ctx := requestctx.WithRequestID(context.Background(), "req-42")
	ctx = requestctx.WithClient(ctx, "192.168.1.10", "test-agent")
	id := "tx-1"

	entry, err := NewEntry(ctx, "user-1", ActionApproveSalary, TableSalaryTransactions, &id,
		map[string]string{"status": "pending"}, map[string]string{"status": "approved"})
	require.NoError(t, err)

	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "req-42", entry.RequestID)
	assert.Equal(t, "192.168.1.10", entry.IPAddress)
	assert.Equal(t, "test-agent", entry.UserAgent)
	assert.JSONEq(t, `{"status":"pending"}`, string(entry.OldValues))
	assert.JSONEq(t, `{"status":"approved"}`, string(entry.NewValues))
}

func TestNewEntry_NilValues(t *testing.T) {
	entry, err := NewEntry(context.Background(), "user-1", ActionDelete, TableEmployees, nil, nil, nil)
	require.NoError(t, err)

	assert.Nil(t, entry.OldValues)
	assert.Nil(t, entry.NewValues)
	assert.Nil(t, entry.RecordID)
}

func TestNewEntry_TypedNilPointer(t *testing.T) {
	type snapshot struct {
		Basic string `json:"basic"`
	}
	var before *snapshot

	entry, err := NewEntry(context.Background(), "user-1", ActionUpdate, TableEmployees, nil, before, &snapshot{Basic: "50000"})
	require.NoError(t, err)

	assert.Nil(t, entry.OldValues)
	assert.JSONEq(t, `{"basic":"50000"}`, string(entry.NewValues))
}
