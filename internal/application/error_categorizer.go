package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/crpt-document-client/internal/domain"
)

// Outcome is the kind of result a submission ended with, used for logs and metrics
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeInvalidInput Outcome = "invalid_input"
	OutcomeCancelled    Outcome = "cancelled"
	OutcomeTransport    Outcome = "transport"
	OutcomeUnavailable  Outcome = "unavailable"
	OutcomeInternal     Outcome = "internal"
)

// CategorizeError determines the submission outcome for an error
func CategorizeError(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput:
			return OutcomeInvalidInput
		case ErrCodeCancelled:
			return OutcomeCancelled
		case ErrCodeTransport:
			return OutcomeTransport
		case ErrCodeLimiterClosed:
			return OutcomeUnavailable
		case ErrCodeInternal:
			return OutcomeInternal
		}
	}

	if errors.Is(err, ErrLimiterClosed) {
		return OutcomeUnavailable
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return OutcomeCancelled
	}

	if domain.IsErrorCode(err, domain.ErrCodeInvalidDocument) ||
		domain.IsErrorCode(err, domain.ErrCodeMissingDocument) {
		return OutcomeInvalidInput
	}

	return OutcomeInternal
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch CategorizeError(err) {
	case OutcomeInvalidInput:
		return http.StatusBadRequest
	case OutcomeCancelled:
		return http.StatusRequestTimeout
	case OutcomeUnavailable:
		return http.StatusServiceUnavailable
	case OutcomeTransport:
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	switch CategorizeError(err) {
	case OutcomeInvalidInput:
		return ErrCodeInvalidInput
	case OutcomeCancelled:
		return ErrCodeCancelled
	case OutcomeUnavailable:
		return ErrCodeLimiterClosed
	case OutcomeTransport:
		return ErrCodeTransport
	}

	return ErrCodeInternal
}
