package e2e

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"github.com/DanielPopoola/crpt-document-client/internal/application/services"
	"github.com/DanielPopoola/crpt-document-client/internal/config"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/crpt"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/metrics"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/ratelimit"
	"github.com/DanielPopoola/crpt-document-client/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/crpt-document-client/internal/interfaces/rest/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

const (
	testWindow = 200 * time.Millisecond
	testLimit  = 2
)

type E2ETestSuite struct {
	suite.Suite
	registry *fakeRegistry
	upstream *httptest.Server
	gateway  *httptest.Server
	limiter  ratelimit.Limiter
	client   *TestClient
}

func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func (suite *E2ETestSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)

	suite.registry = &fakeRegistry{status: http.StatusOK}
	suite.upstream = httptest.NewServer(suite.registry)

	limiter, err := ratelimit.New(config.LimiterConfig{
		Unit:         testWindow,
		RequestLimit: testLimit,
		Strategy:     ratelimit.StrategyWindow,
	}, logger)
	suite.Require().NoError(err)
	suite.limiter = limiter

	reg := prometheus.NewRegistry()
	observer := metrics.New(reg)
	metrics.RegisterPermitsInUse(reg, limiter.InUse)

	documentService := services.NewDocumentService(
		limiter,
		crpt.NewJSONSerializer(),
		crpt.NewDocumentClient(config.APIConfig{Endpoint: suite.upstream.URL, Timeout: 5 * time.Second}),
		observer,
		logger,
	)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler(reg))
	handlers.NewHandlers(documentService, logger).RegisterRoutes(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(5 * time.Second)(handler)

	suite.gateway = httptest.NewServer(handler)
	suite.client = NewTestClient(suite.gateway.URL)
}

func (suite *E2ETestSuite) TearDownTest() {
	suite.gateway.Close()
	suite.upstream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = suite.limiter.Shutdown(ctx)
}

func document(id string) map[string]any {
	return map[string]any{
		"description":     map[string]any{"participantInn": "7700000001"},
		"doc_id":          id,
		"doc_type":        "LP_INTRODUCE_GOODS",
		"participant_inn": "7700000001",
		"production_date": "2024-03-05",
		"products": []any{
			map[string]any{"tnved_code": "6401100000", "production_date": "2024-03-01"},
		},
	}
}

func (suite *E2ETestSuite) TestSubmit_ForwardsDocument() {
	status, resp := suite.client.Submit(suite.T(), document("doc-1"), "c2lnbmF0dXJl")

	suite.Equal(http.StatusOK, status)
	suite.True(resp.Success)
	suite.Equal(map[string]any{"status_code": float64(http.StatusOK)}, resp.Data)

	calls := suite.registry.Calls()
	suite.Require().Len(calls, 1)
	suite.Empty(calls[0].ContentType)

	var wire map[string]any
	suite.Require().NoError(json.Unmarshal(calls[0].Body, &wire))
	suite.Equal("doc-1", wire["doc_id"])
	suite.Equal("2024-03-05", wire["production_date"])
	suite.Equal(map[string]any{"participantInn": "7700000001"}, wire["description"])
	suite.Equal(false, wire["importRequest"])
	suite.Nil(wire["reg_date"])
	suite.NotContains(wire, "signature")
}

func (suite *E2ETestSuite) TestSubmit_ReportsUpstreamRejection() {
	suite.registry.respondWith(http.StatusForbidden)

	status, resp := suite.client.Submit(suite.T(), document("doc-1"), "")

	suite.Equal(http.StatusOK, status)
	suite.Equal(map[string]any{"status_code": float64(http.StatusForbidden)}, resp.Data)
}

func (suite *E2ETestSuite) TestSubmit_ForwardsIdentifiersVerbatim() {
	doc := document("doc-1")
	doc["owner_inn"] = "not-a-number"

	status, resp := suite.client.Submit(suite.T(), doc, "")

	suite.Equal(http.StatusOK, status)
	suite.True(resp.Success)

	calls := suite.registry.Calls()
	suite.Require().Len(calls, 1)
	suite.Contains(string(calls[0].Body), `"owner_inn":"not-a-number"`)
}

func (suite *E2ETestSuite) TestSubmit_MissingDocumentNeverReachesUpstream() {
	status, resp := suite.client.Submit(suite.T(), nil, "")

	suite.Equal(http.StatusBadRequest, status)
	suite.False(resp.Success)
	suite.Require().NotNil(resp.Error)
	suite.Equal(application.ErrCodeInvalidInput, resp.Error.Code)
	suite.Empty(suite.registry.Calls())
}

func (suite *E2ETestSuite) TestSubmit_ThroughputIsCapped() {
	const calls = 3 * testLimit

	begin := time.Now()
	var wg sync.WaitGroup
	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _ := suite.client.Submit(suite.T(), document("doc-batch"), "")
			suite.Equal(http.StatusOK, status)
		}()
	}
	wg.Wait()

	received := suite.registry.Calls()
	suite.Require().Len(received, calls)

	arrivals := make([]time.Time, 0, len(received))
	for _, call := range received {
		arrivals = append(arrivals, call.At)
	}
	slices.SortFunc(arrivals, func(a, b time.Time) int { return a.Compare(b) })

	for i, at := range arrivals {
		minDelay := time.Duration(i/testLimit) * testWindow
		suite.GreaterOrEqual(at.Sub(begin), minDelay, "request %d arrived too early", i)
	}
}

func (suite *E2ETestSuite) TestSubmit_AfterLimiterShutdown() {
	suite.Require().NoError(suite.limiter.Shutdown(context.Background()))

	status, resp := suite.client.Submit(suite.T(), document("doc-1"), "")

	suite.Equal(http.StatusServiceUnavailable, status)
	suite.Require().NotNil(resp.Error)
	suite.Equal(application.ErrCodeLimiterClosed, resp.Error.Code)
	suite.Empty(suite.registry.Calls())
}

func (suite *E2ETestSuite) TestMetricsAndHealth() {
	status, _ := suite.client.Submit(suite.T(), document("doc-1"), "")
	suite.Require().Equal(http.StatusOK, status)

	code, body := suite.client.Get(suite.T(), "/metrics")
	suite.Equal(http.StatusOK, code)
	suite.Contains(body, `crpt_submissions_total{outcome="ok"} 1`)
	suite.Contains(body, `crpt_upstream_responses_total{code="200"} 1`)
	suite.Contains(body, "crpt_permits_in_use ")

	code, body = suite.client.Get(suite.T(), "/healthz")
	suite.Equal(http.StatusOK, code)
	suite.JSONEq(`{"success":true,"data":{"status":"ok"}}`, body)
}
