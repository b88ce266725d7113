package engine

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"workflow-engine-mcp/internal/config"
)

// Response is a raw engine response: status plus undecoded body. Decoding
// into typed results happens in the client layer so the retry policy can
// classify on status alone.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport issues a single HTTP request against the engine API.
type Transport interface {
	Send(ctx context.Context, method, path string, body any, query map[string]string) (*Response, error)
}

// HTTPTransport is the resty-backed Transport. The underlying client pools
// connections for the lifetime of the value; constructing a new transport
// starts a fresh pool.
type HTTPTransport struct {
	client *resty.Client
}

// NewHTTPTransport builds a transport bound to the configured engine. All
// retrying is owned by the retry policy, so resty's own retries stay off.
func NewHTTPTransport(cfg *config.Config) *HTTPTransport {
	client := resty.New().
		SetBaseURL(cfg.Engine.BaseURL + "/api").
		SetTimeout(cfg.Engine.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	if cfg.Engine.APIKey != "" {
		client.SetAuthToken(cfg.Engine.APIKey)
	}

	return &HTTPTransport{client: client}
}

// Send issues one request. A transport-level failure (connection, DNS,
// per-call timeout) is returned as *NetworkError; any HTTP response, success
// or not, comes back as a Response for the caller to classify.
func (t *HTTPTransport) Send(
	ctx context.Context,
	method, path string,
	body any,
	query map[string]string,
) (*Response, error) {
	op := fmt.Sprintf("%s %s", method, path)

	req := t.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

// Close releases idle pooled connections. Safe to call once the transport
// is no longer needed; pooling never outlives the transport value.
func (t *HTTPTransport) Close() {
	if c, ok := t.client.GetClient().Transport.(*http.Transport); ok {
		c.CloseIdleConnections()
	}
}
