package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")

	ErrRequestNotFound   = errors.New("request not found")
	ErrNotCancellable    = errors.New("request can no longer be cancelled")
	ErrNoPreferredSlots  = errors.New("at least one preferred slot is required")
	ErrUploadFailed      = errors.New("upload failed")
	ErrInvalidInput      = errors.New("invalid input data")
	ErrMalformedResponse = errors.New("malformed server response")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
