// internal/common/audit/postgres.go
package audit

import (
	"context"
	"database/sql"
	"fmt"

	"application-intake-bot/internal/models"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS application_audit (
	id           UUID PRIMARY KEY,
	event        VARCHAR(64) NOT NULL,
	record_id    VARCHAR(32) NOT NULL,
	type_id      VARCHAR(64),
	type_label   VARCHAR(64) NOT NULL,
	applicant_id VARCHAR(32),
	actor_id     VARCHAR(32) NOT NULL,
	reason       TEXT,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_application_audit_record ON application_audit (record_id)`

const insertSQL = `
INSERT INTO application_audit
	(id, event, record_id, type_id, type_label, applicant_id, actor_id, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// PostgresSink appends entries to the application_audit table.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// EnsureSchema creates the audit table when it does not exist yet.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create audit table: %w", err)
	}
	return nil
}

func (s *PostgresSink) Record(ctx context.Context, e models.AuditEntry) error {
	_, err := s.db.ExecContext(ctx, insertSQL,
		e.ID,
		string(e.Event),
		e.RecordID,
		nullable(e.TypeID),
		e.TypeLabel,
		nullable(e.ApplicantID),
		e.ActorID,
		nullable(e.Reason),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry %s: %w", e.ID, err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
