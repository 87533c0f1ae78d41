package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/helpers"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append stores an audit record
func (r *AuditRepository) Append(ctx context.Context, record models.AuditRecord) error {
	var recordID *int64
	if record.RecordID != 0 {
		recordID = &record.RecordID
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_log (user_id, action_type, table_name, record_id, description, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		helpers.GetNullInt64(record.UserID), record.Action,
		helpers.GetContentNullString(record.Table), helpers.GetNullInt64(recordID),
		helpers.GetContentNullString(record.Description), helpers.GetContentNullString(record.IPAddress))
	if err != nil {
		return fmt.Errorf("error appending audit record: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries first
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, action_type, table_name, description, timestamp
		FROM audit_log
		ORDER BY timestamp DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing audit log: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditLogEntry{}
	for rows.Next() {
		var (
			entry       models.AuditLogEntry
			table, desc sql.NullString
			at          time.Time
		)
		if err := rows.Scan(&entry.ID, &entry.Action, &table, &desc, &at); err != nil {
			return nil, fmt.Errorf("error scanning audit entry: %w", err)
		}
		entry.Table = table.String
		entry.Description = desc.String
		entry.Timestamp = helpers.FormatTimestamp(at)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log: %w", err)
	}
	return entries, nil
}
