package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the inventory services. Match them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Error is a service failure of a known kind with a client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(entity string, id int64) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s with ID %d not found", entity, id)}
}

func invalidFilter(format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidFilter, Message: fmt.Sprintf(format, args...)}
}

func invalidOperation(message string) error {
	return &Error{Kind: ErrInvalidOperation, Message: message}
}
