package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, entry audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO audit_log (
			user_id, action, table_name, record_id, old_values, new_values, ip_address, user_agent, request_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		entry.UserID, entry.Action, entry.TableName, entry.RecordID,
		nullableJSON(entry.OldValues), nullableJSON(entry.NewValues),
		entry.IPAddress, entry.UserAgent, entry.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
