package domain

import "errors"

// ErrInvalidInput marks failures caused by what the caller asked for rather
// than by the pipeline itself.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrUnreadableInput       = errors.New("input is not a readable table")
	ErrMissingIdentityColumn = errors.New("required identity column not found")
	ErrNoSnapshot            = errors.New("no snapshot loaded")
	ErrSameDate              = &inputError{msg: "comparison dates must differ"}
	ErrUnknownDate           = &inputError{msg: "date not present in snapshot set"}
	ErrItemNotFound          = &inputError{msg: "item not found"}
	ErrSessionNotFound       = &inputError{msg: "session not found"}
)

type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

// Is lets errors.Is(err, ErrInvalidInput) match every user-input error.
func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }
