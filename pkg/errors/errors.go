package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Common error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
)

// Quiz error codes
const (
	ErrCodeAlreadyActive         = "ALREADY_ACTIVE"
	ErrCodeLobbyClosed           = "LOBBY_CLOSED"
	ErrCodeNotEligible           = "NOT_ELIGIBLE"
	ErrCodeStaleRound            = "STALE_ROUND"
	ErrCodeAlreadyAnswered       = "ALREADY_ANSWERED"
	ErrCodeInvalidOption         = "INVALID_OPTION"
	ErrCodeInsufficientQuestions = "INSUFFICIENT_QUESTIONS"
)

// Sentinels for errors.Is checks. Returned errors may carry a richer message.
var (
	ErrAlreadyActive         = New(ErrCodeAlreadyActive, "a quiz is already running in this chat")
	ErrLobbyClosed           = New(ErrCodeLobbyClosed, "the lobby is closed")
	ErrNotEligible           = New(ErrCodeNotEligible, "not eligible to answer")
	ErrStaleRound            = New(ErrCodeStaleRound, "answer refers to a finished round")
	ErrAlreadyAnswered       = New(ErrCodeAlreadyAnswered, "round already answered")
	ErrInvalidOption         = New(ErrCodeInvalidOption, "option out of range")
	ErrInsufficientQuestions = New(ErrCodeInsufficientQuestions, "not enough questions in the bank")
)
