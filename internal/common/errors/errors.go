// Package errors provides the error taxonomy every interaction failure is
// normalized to before it is reported back to the actor.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigInconsistency  ErrorCode = "CONFIG_INCONSISTENCY"
	ErrCodeRecordNotFound       ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeRecordUnparsable     ErrorCode = "RECORD_UNPARSABLE"
	ErrCodeRecordAlreadyDecided ErrorCode = "RECORD_ALREADY_DECIDED"
	ErrCodeCollaboratorFailure  ErrorCode = "COLLABORATOR_FAILURE"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeNotAuthorized        ErrorCode = "NOT_AUTHORIZED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured interaction error. Message is shown
// to the actor; Details is for operators only.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns it.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigInconsistencyError reports an encoded identifier that references
// a type or field the registry does not hold.
func NewConfigInconsistencyError(message, reference string) *StandardError {
	e := newError(ErrCodeConfigInconsistency, message, nil)
	e.Details = fmt.Sprintf("reference: %s", reference)
	return e
}

// NewRecordNotFoundError surfaces the underlying reason text to the actor.
func NewRecordNotFoundError(recordID string, cause error) *StandardError {
	msg := "Application message not found for ID"
	if cause != nil {
		msg = rootMessage(cause)
	}
	return newError(ErrCodeRecordNotFound, msg, cause).WithMetadata("recordId", recordID)
}

// NewRecordUnparsableError marks a record whose rendering lacks the expected
// encoding. The cause's text is what the actor sees.
func NewRecordUnparsableError(recordID string, cause error) *StandardError {
	return newError(ErrCodeRecordUnparsable, rootMessage(cause), cause).WithMetadata("recordId", recordID)
}

// NewRecordAlreadyDecidedError refuses a second decision on a record.
func NewRecordAlreadyDecidedError(recordID, status string) *StandardError {
	e := newError(ErrCodeRecordAlreadyDecided,
		fmt.Sprintf("This application has already been %s.", strings.ToLower(status)), nil)
	e.Details = fmt.Sprintf("recordId: %s, status: %s", recordID, status)
	return e.WithMetadata("recordId", recordID)
}

// NewCollaboratorFailureError wraps a failed platform call.
func NewCollaboratorFailureError(operation string, cause error) *StandardError {
	return newError(ErrCodeCollaboratorFailure, rootMessage(cause), cause).WithMetadata("operation", operation)
}

// NewValidationFailedError lists the problems with an applicant's
// submitted values.
func NewValidationFailedError(problems []string) *StandardError {
	return validationFailed("Your application could not be submitted:", problems)
}

// NewDecisionValidationFailedError lists the problems with a reviewer's
// decision form.
func NewDecisionValidationFailedError(problems []string) *StandardError {
	return validationFailed("The decision could not be recorded:", problems)
}

func validationFailed(lead string, problems []string) *StandardError {
	e := newError(ErrCodeValidationFailed, lead+"\n- "+strings.Join(problems, "\n- "), nil)
	e.Details = strings.Join(problems, "; ")
	return e
}

// NewNotAuthorizedError refuses an actor lacking the reviewer role.
func NewNotAuthorizedError(actorID string) *StandardError {
	e := newError(ErrCodeNotAuthorized, "You are not allowed to review applications.", nil)
	e.Details = fmt.Sprintf("actorId: %s", actorID)
	return e
}

// NewInternalError is the fallback for anything not otherwise classified.
func NewInternalError(cause error) *StandardError {
	return newError(ErrCodeInternal, "Something went wrong while handling this interaction.", cause)
}

// rootMessage is the text of the innermost error: the reason an actor can
// act on, without the wrapping context added on the way up.
func rootMessage(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := stderrors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsExpected reports whether the code describes a refusal rather than a
// fault; those are logged at warn.
func IsExpected(code ErrorCode) bool {
	switch code {
	case ErrCodeRecordAlreadyDecided, ErrCodeValidationFailed, ErrCodeNotAuthorized:
		return true
	default:
		return false
	}
}

// GetErrorCategory groups codes for logging.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CONFIG"):
		return "CONFIG"
	case strings.HasPrefix(codeStr, "RECORD"):
		return "RECORD"
	case strings.HasPrefix(codeStr, "COLLABORATOR"):
		return "COLLABORATOR"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "AUTHORIZED"):
		return "ACTOR"
	default:
		return "OTHER"
	}
}
