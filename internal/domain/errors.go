package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a document rule violation
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
	ErrCodeMissingDocument = "MISSING_DOCUMENT"
)

func NewInvalidDocumentError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidDocument,
		Message: "invalid document",
		Err:     err,
	}
}

func NewMissingDocumentError() *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingDocument,
		Message: "document is required",
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
