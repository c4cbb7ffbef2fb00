package claims

import "errors"

// Kind classifies a claim workflow failure so the HTTP layer can map it to
// a status code without inspecting error strings.
type Kind string

const (
	// KindValidation covers malformed or missing input.
	KindValidation Kind = "validation"
	// KindNotFound covers references to records that do not exist.
	KindNotFound Kind = "not_found"
	// KindConflict covers operations that lost a race or hit a record in
	// the wrong state.
	KindConflict Kind = "conflict"
	// KindForbidden covers callers acting on records they do not own.
	KindForbidden Kind = "forbidden"
	// KindInternal covers datastore and other unexpected failures.
	KindInternal Kind = "internal"
)

// Error is the error type returned by the claim manager.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidation returns a validation error with the given message.
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFound returns a not-found error with the given message.
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewConflict returns a conflict error with the given message.
func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewForbidden returns a forbidden error with the given message.
func NewForbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewInternal wraps an unexpected failure.
func NewInternal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind from err, or KindInternal when err is not a
// claim workflow error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
