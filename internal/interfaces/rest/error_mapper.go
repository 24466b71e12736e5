package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
)

type Response struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes data wrapped in a success envelope.
func WriteJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Response{Success: true, Data: data}, logger)
}

// WriteError maps application errors to HTTP responses
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	write(w, application.ToHTTPStatus(err), Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    application.ToErrorCode(err),
			Message: err.Error(),
		},
	}, logger)
}

func write(w http.ResponseWriter, status int, response Response, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil && logger != nil {
		logger.Error("failed to write response", "status", status, "error", err)
	}
}
