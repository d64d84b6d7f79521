package core

import "errors"

// Error codes for protocol-level errors. The view-model itself never fails
// on well-typed input; these cover the session registry and command mapping.
const (
	ErrCodeCallNotFound  = "call_not_found"
	ErrCodeSessionClosed = "session_closed"
	ErrCodeBadCommand    = "bad_command"
	ErrCodeUnknownTile   = "unknown_tile"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeBadRequest    = "bad_request"
)

var (
	ErrCallNotFound  = errors.New("call not found")
	ErrSessionClosed = errors.New("session closed")
	ErrBadCommand    = errors.New("bad command")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
