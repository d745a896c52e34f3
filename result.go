package session

// GenericFailureMessage is surfaced when a failed envelope carries no error
// string of its own. It must never be empty.
const GenericFailureMessage = "Something went wrong. Please try again."

// Result is the uniform envelope every IdentityService call returns.
// Success true means the operation's side effects may proceed; false means no
// state is mutated and Message is surfaced to the user.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK returns a successful empty envelope.
func OK() Result[struct{}] {
	return Result[struct{}]{Success: true}
}

// OKWith returns a successful envelope carrying data.
func OKWith[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail returns a failed empty envelope with the given error message.
func Fail(msg string) Result[struct{}] {
	return Result[struct{}]{Success: false, Error: msg}
}

// FailWith returns a failed envelope for an arbitrary payload type.
func FailWith[T any](msg string) Result[T] {
	return Result[T]{Success: false, Error: msg}
}

// Message returns the envelope's error string, falling back to
// GenericFailureMessage when the collaborator omitted one.
func (r Result[T]) Message() string {
	if r.Error != "" {
		return r.Error
	}
	return GenericFailureMessage
}
