package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/interfaces/rest"
	"github.com/stretchr/testify/require"
)

// TestClient wraps HTTP calls to gateway
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Submit posts a document envelope to /api/v1/documents.
func (c *TestClient) Submit(t *testing.T, document any, signature string) (int, rest.Response) {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"document":  document,
		"signature": signature,
	})
	require.NoError(t, err)

	resp, err := c.httpClient.Post(c.baseURL+"/api/v1/documents", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out rest.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (c *TestClient) Get(t *testing.T, path string) (int, string) {
	t.Helper()

	resp, err := c.httpClient.Get(c.baseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// upstreamCall is one request seen by the fake registration API.
type upstreamCall struct {
	At          time.Time
	Body        []byte
	ContentType string
}

// fakeRegistry stands in for the document-registration API.
type fakeRegistry struct {
	mu     sync.Mutex
	calls  []upstreamCall
	status int
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, upstreamCall{
		At:          time.Now(),
		Body:        body,
		ContentType: r.Header.Get("Content-Type"),
	})
	status := f.status
	f.mu.Unlock()

	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"value":"ignored"}`))
}

func (f *fakeRegistry) respondWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeRegistry) Calls() []upstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upstreamCall(nil), f.calls...)
}
