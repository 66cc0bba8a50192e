// Package errors defines the sentinel errors shared by the index, the query
// pipeline and the console, plus an AppError wrapper that carries a message
// suitable for showing to the person at the prompt.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrOutOfRange        = errors.New("index out of range")
	ErrTooManyDocuments  = errors.New("maximum open documents reached")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidLineRange  = errors.New("invalid line range")
	ErrOffsetOutOfBounds = errors.New("offset exceeds document length")
	ErrTableFull         = errors.New("hash table has no free slot")
	ErrInternal          = errors.New("internal error")
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// UserMessage returns the text shown at the console for err. AppErrors show
// their message; known sentinels get a short explanation.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return "the query is empty or malformed"
	case errors.Is(err, ErrTooManyDocuments):
		return "no more documents can be opened"
	case errors.Is(err, ErrDocumentNotFound):
		return "the document could not be opened"
	case errors.Is(err, ErrInvalidLineRange), errors.Is(err, ErrOffsetOutOfBounds):
		return "the requested lines are outside the document"
	default:
		return "unexpected error"
	}
}
