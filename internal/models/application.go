// internal/models/application.go
package models

// Status is the decision state of a submission record. Accepted and
// Rejected are terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusRejected Status = "Rejected"
)

// IsTerminal reports whether no further decision may be applied.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// FieldValue is one submitted answer, keyed by the form field label it is
// rendered under.
type FieldValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SubmissionRecord is one candidate's application. It has no storage of its
// own: RecordID and ChannelID are assigned by the platform the first time the
// record is rendered, and every other field is recovered from that rendering.
type SubmissionRecord struct {
	RecordID         string       `json:"recordId"`
	ChannelID        string       `json:"channelId"`
	ApplicantID      string       `json:"applicantId"`
	ApplicantTag     string       `json:"applicantTag"`
	TypeLabel        string       `json:"typeLabel"`
	Fields           []FieldValue `json:"fields"`
	Status           Status       `json:"status"`
	ReviewerID       string       `json:"reviewerId,omitempty"`
	RejectionReason  string       `json:"rejectionReason,omitempty"`
	HasDecisionPanel bool         `json:"hasDecisionPanel"`
}

// Decidable reports whether a reviewer may still accept or reject the record.
func (r *SubmissionRecord) Decidable() bool {
	return r.Status == StatusPending
}
