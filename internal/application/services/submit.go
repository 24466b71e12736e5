package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"github.com/DanielPopoola/crpt-document-client/internal/domain"
	"github.com/google/uuid"
)

// DocumentService submits documents to the registration API through a
// shared permit pool. It is safe for concurrent use.
type DocumentService struct {
	limiter    application.Limiter
	serializer application.Serializer
	api        application.DocumentAPI
	observer   application.SubmissionObserver
	logger     *slog.Logger
}

func NewDocumentService(
	limiter application.Limiter,
	serializer application.Serializer,
	api application.DocumentAPI,
	observer application.SubmissionObserver,
	logger *slog.Logger,
) *DocumentService {
	if observer == nil {
		observer = application.NoopObserver()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		limiter:    limiter,
		serializer: serializer,
		api:        api,
		observer:   observer,
		logger:     logger,
	}
}

// Submit waits for a permit, serializes doc and posts it, returning the HTTP
// status of the response.
//
// On any failure the status is 0 and the error says which kind it was:
// CANCELLED when ctx ended while waiting (the ctx error is wrapped),
// LIMITER_CLOSED after shutdown, INVALID_INPUT when doc cannot be
// serialized (nothing is sent), TRANSPORT_ERROR when the call itself failed.
// A consumed permit is never handed back early, whatever the outcome.
//
// The signature is accepted but not attached to the request.
func (s *DocumentService) Submit(ctx context.Context, doc *domain.Document, signature string) (int, error) {
	start := time.Now()
	logger := s.logger.With("submission_id", uuid.NewString())
	if doc != nil {
		logger = logger.With("doc_id", doc.DocID)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return s.fail(logger, start, acquireError(err))
	}
	s.observer.ObservePermitWait(time.Since(start))

	logger.Info("calling document API", "signed", signature != "")

	body, err := s.serializer.Serialize(doc)
	if err != nil {
		return s.fail(logger, start, application.NewInvalidInputError(err))
	}

	status, err := s.api.CreateDocument(ctx, body)
	if err != nil {
		return s.fail(logger, start, application.NewTransportError(err))
	}

	logger.Info("document API responded", "status", status, "elapsed", time.Since(start))
	s.observer.ObserveSubmission(application.OutcomeOK, status, time.Since(start))

	return status, nil
}

func (s *DocumentService) fail(logger *slog.Logger, start time.Time, err *application.ServiceError) (int, error) {
	outcome := application.CategorizeError(err)

	level := slog.LevelError
	if outcome == application.OutcomeCancelled || outcome == application.OutcomeUnavailable {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "document submission failed",
		"outcome", outcome,
		"error", err,
	)

	s.observer.ObserveSubmission(outcome, 0, time.Since(start))
	return 0, err
}

func acquireError(err error) *application.ServiceError {
	if errors.Is(err, application.ErrLimiterClosed) {
		return application.NewLimiterClosedError(err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return application.NewCancelledError(err)
	}
	return application.NewInternalError(err)
}
