package utils

import "errors"

// ErrorKind is the machine-readable half of every failure the API returns.
// Handlers map kinds to HTTP status codes; callers branch on kinds, never
// on message text.
type ErrorKind string

const (
	ErrorKindInvalidInput      ErrorKind = "InvalidInput"
	ErrorKindNotFound          ErrorKind = "NotFound"
	ErrorKindInsufficientStock ErrorKind = "InsufficientStock"
	ErrorKindConflict          ErrorKind = "Conflict"
	ErrorKindUnauthorized      ErrorKind = "Unauthorized"
	ErrorKindInternal          ErrorKind = "Internal"
)

type ApiError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewInvalidInput(message string) error {
	return &ApiError{Kind: ErrorKindInvalidInput, Message: message}
}

func NewNotFound(message string) error {
	return &ApiError{Kind: ErrorKindNotFound, Message: message}
}

func NewInsufficientStock(message string) error {
	return &ApiError{Kind: ErrorKindInsufficientStock, Message: message}
}

func NewConflict(message string) error {
	return &ApiError{Kind: ErrorKindConflict, Message: message}
}

func NewUnauthorized(message string) error {
	return &ApiError{Kind: ErrorKindUnauthorized, Message: message}
}

// KindOf classifies any error. Errors without an explicit kind are
// internal: they must never be presented as a client mistake.
func KindOf(err error) ErrorKind {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ErrorKindInternal
}

// ErrorRecordNotFound is the shared owner-scoped lookup miss. Cross-owner
// ids surface as this same error so existence is not leaked.
var ErrorRecordNotFound = NewNotFound("record not found")
