// internal/common/audit/audit.go

// Package audit keeps a trail of application submissions and decisions.
// The trail is write-only from the bot's point of view: the rendered record
// remains the source of truth, and a failed write never fails a flow.
package audit

import (
	"context"
	"errors"
	"time"

	"application-intake-bot/internal/models"

	"github.com/google/uuid"
)

// Sink stores audit entries.
type Sink interface {
	Record(ctx context.Context, entry models.AuditEntry) error
}

// NewEntry stamps an entry with a fresh id and the current time.
func NewEntry(event models.AuditEvent, recordID, typeLabel, actorID string) models.AuditEntry {
	return models.AuditEntry{
		ID:        uuid.NewString(),
		Event:     event,
		RecordID:  recordID,
		TypeLabel: typeLabel,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	}
}

// NoopSink discards everything.
type NoopSink struct{}

func (NoopSink) Record(context.Context, models.AuditEntry) error { return nil }

// MultiSink writes to every sink and reports all failures together.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, entry models.AuditEntry) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
