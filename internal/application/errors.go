package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Submission)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ErrLimiterClosed is returned by limiters that no longer hand out permits.
var ErrLimiterClosed = errors.New("rate limiter is shut down")

const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeCancelled     = "CANCELLED"
	ErrCodeTransport     = "TRANSPORT_ERROR"
	ErrCodeLimiterClosed = "LIMITER_CLOSED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

func NewInvalidInputError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    "Invalid document",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewCancelledError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeCancelled,
		Message:    "Interrupted while waiting for a submission permit",
		HTTPStatus: http.StatusRequestTimeout,
		Err:        err,
	}
}

func NewTransportError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeTransport,
		Message:    "Document API call failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewLimiterClosedError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeLimiterClosed,
		Message:    "Client is shutting down",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
