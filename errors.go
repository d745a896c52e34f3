package session

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeNotInitialized  = "session_not_initialized"
	TextCodeOperationFailed = "session_operation_failed"
	TextCodeServiceFailure  = "session_service_failure"
	TextCodeInvalidInput    = "session_invalid_input"
)

// ErrNotInitialized is returned when session state is read outside an
// initialized Manager scope. This is a caller-contract violation, not a
// recoverable runtime condition.
var ErrNotInitialized = errors.New("session manager not initialized", errors.CategoryOperation).
	WithTextCode(TextCodeNotInitialized)

// OperationError wraps a failed Result envelope into an error the primary
// transition family re-raises after notifying.
func OperationError(op, message string) error {
	return errors.New(message, errors.CategoryAuth).
		WithTextCode(TextCodeOperationFailed).
		WithMetadata(map[string]any{"operation": op})
}

// ServiceError normalizes a collaborator call that raised instead of
// returning a failed envelope.
func ServiceError(op string, err error) error {
	return errors.Wrap(err, errors.CategoryInternal, "identity service call failed").
		WithTextCode(TextCodeServiceFailure).
		WithMetadata(map[string]any{"operation": op})
}

// IsOperationFailure checks whether err represents an expected failed
// envelope rather than a transport-level fault.
func IsOperationFailure(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeOperationFailed
	}
	return false
}
