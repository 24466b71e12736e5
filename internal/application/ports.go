package application

import (
	"context"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/domain"
)

// DocumentAPI is the port for the remote document-registration API.
// Any HTTP response is a status; only transport failures are errors.
type DocumentAPI interface {
	CreateDocument(ctx context.Context, body []byte) (int, error)
}

// Serializer turns a document into the canonical wire bytes.
type Serializer interface {
	Serialize(doc *domain.Document) ([]byte, error)
}

// Limiter hands out submission permits. Acquire blocks until a permit is
// available or ctx is done; the permit is given back by the limiter itself.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// SubmissionObserver receives per-submission measurements.
type SubmissionObserver interface {
	ObservePermitWait(wait time.Duration)
	ObserveSubmission(outcome Outcome, status int, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObservePermitWait(time.Duration) {}
func (noopObserver) ObserveSubmission(Outcome, int, time.Duration) {}

// NoopObserver discards every measurement.
func NoopObserver() SubmissionObserver {
	return noopObserver{}
}
