// internal/models/audit.go
package models

import "time"

// AuditEvent names a workflow transition.
type AuditEvent string

const (
	AuditSubmitted AuditEvent = "application_submitted"
	AuditAccepted  AuditEvent = "application_accepted"
	AuditRejected  AuditEvent = "application_rejected"
)

// AuditEntry is one line of the decision trail.
type AuditEntry struct {
	ID          string     `json:"id"`
	Event       AuditEvent `json:"event"`
	RecordID    string     `json:"recordId"`
	TypeID      string     `json:"typeId,omitempty"`
	TypeLabel   string     `json:"typeLabel"`
	ApplicantID string     `json:"applicantId,omitempty"`
	ActorID     string     `json:"actorId"`
	Reason      string     `json:"reason,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
