package crpt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"github.com/DanielPopoola/crpt-document-client/internal/config"
)

type HTTPDocumentClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewDocumentClient(cfg config.APIConfig) application.DocumentAPI {
	return &HTTPDocumentClient{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateDocument posts the serialized document and reports the response
// status. Non-2xx responses are statuses too; the body is not interpreted.
func (c *HTTPDocumentClient) CreateDocument(ctx context.Context, body []byte) (int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
