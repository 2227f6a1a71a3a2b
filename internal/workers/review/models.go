// internal/workers/review/models.go
package review

import (
	"fmt"

	"application-intake-bot/pkg/registry"
)

// Private replies sent to the reviewer.
const (
	ReplyAccepted     = "The application has been accepted."
	ReplyRejected     = "The application has been rejected."
	ReplyTypeNotFound = "Application type not found."
)

// Direct messages sent to the applicant.
const (
	NoticeAccepted = "Congratulations! Your application has been accepted."
)

// NoticeRejected is the optional rejection notice.
func NoticeRejected(typeLabel, reason string) string {
	return fmt.Sprintf("Your application for %s has been rejected.\nReason: %s", typeLabel, reason)
}

const (
	RejectFormTitle = "Reason for Rejection"
	ReasonFieldID   = "reason"
)

// reasonField is the single input of the rejection form. It doubles as the
// validation rule for the submitted reason.
var reasonField = registry.FormField{
	ID:          ReasonFieldID,
	Label:       "Reason",
	Style:       registry.InputParagraph,
	Placeholder: "Enter the reason for rejection",
	Required:    true,
	MaxLength:   1000,
}
