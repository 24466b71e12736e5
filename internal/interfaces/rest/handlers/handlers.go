package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"github.com/DanielPopoola/crpt-document-client/internal/domain"
	"github.com/DanielPopoola/crpt-document-client/internal/interfaces/rest"
	"github.com/go-playground/validator"
)

const maxBodyBytes = 1 << 20

type DocumentSubmitter interface {
	Submit(ctx context.Context, doc *domain.Document, signature string) (int, error)
}

type SubmitDocumentRequest struct {
	Document  *domain.Document `json:"document"`
	Signature string           `json:"signature"`
}

type SubmitDocumentResponse struct {
	StatusCode int `json:"status_code"`
}

type Handlers struct {
	submitter DocumentSubmitter
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewHandlers(submitter DocumentSubmitter, logger *slog.Logger) *Handlers {
	return &Handlers{
		submitter: submitter,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/documents", h.SubmitDocument)
	mux.HandleFunc("GET /healthz", h.Health)
}

// SubmitDocument forwards one document to the registration API.
// The upstream status is reported in the body; the response itself is 200
// whenever the API answered at all.
func (h *Handlers) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	var req SubmitDocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(decodeError(err)), h.logger)
		return
	}

	// Only presence is checked here. Whether the document can be encoded is
	// decided by Submit, after a permit is taken.
	if err := h.validate.Var(req.Document, "required"); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(domain.NewMissingDocumentError()), h.logger)
		return
	}

	status, err := h.submitter.Submit(r.Context(), req.Document, req.Signature)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, SubmitDocumentResponse{StatusCode: status}, h.logger)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
	}
	return fmt.Errorf("malformed request body: %w", err)
}
