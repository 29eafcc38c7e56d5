package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrStorageUnconfigured  = errors.New("object storage is not configured")
	ErrCheckoutUnconfigured = errors.New("checkout is not configured")
)

// ValidationError 入参不合法（客户端错误，400）
type ValidationError struct {
	Fields []string
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if len(e.Fields) > 0 {
		return "Missing or invalid fields: " + strings.Join(e.Fields, ", ")
	}
	return "validation failed"
}

func NewValidationError(msg string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Msg: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
