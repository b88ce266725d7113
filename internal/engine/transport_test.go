package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-engine-mcp/internal/config"
)

func transportConfig(baseURL string) *config.Config {
	cfg := fastRetryConfig(1)
	cfg.Engine.BaseURL = baseURL
	cfg.Engine.Timeout = 2 * time.Second
	return cfg
}

func TestHTTPTransport_SendsJSONWithAuthAndQuery(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"workflows":[]}`))
	}))
	defer server.Close()

	cfg := transportConfig(server.URL)
	cfg.Engine.APIKey = "secret-token"
	transport := NewHTTPTransport(cfg)
	defer transport.Close()

	resp, err := transport.Send(context.Background(), http.MethodGet, "/workflows", nil, map[string]string{"status": "running"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"workflows":[]}`, string(resp.Body))

	require.NotNil(t, got)
	assert.Equal(t, "/api/workflows", got.URL.Path)
	assert.Equal(t, "running", got.URL.Query().Get("status"))
	assert.Equal(t, "Bearer secret-token", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
}

func TestHTTPTransport_ReturnsNonSuccessStatusesAsResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`nope`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(transportConfig(server.URL))
	defer transport.Close()

	resp, err := transport.Send(context.Background(), http.MethodGet, "/workers/status", nil, nil)

	require.NoError(t, err, "an HTTP response is never a transport error")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "nope", string(resp.Body))
}

func TestHTTPTransport_ConnectionFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close() // nothing is listening anymore

	transport := NewHTTPTransport(transportConfig(server.URL))

	_, err := transport.Send(context.Background(), http.MethodGet, "/workflows", nil, nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, netErr.Op, "GET /workflows")
}

func TestHTTPTransport_PerCallTimeoutIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := transportConfig(server.URL)
	cfg.Engine.Timeout = 50 * time.Millisecond
	transport := NewHTTPTransport(cfg)
	defer transport.Close()

	_, err := transport.Send(context.Background(), http.MethodGet, "/workflows", nil, nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}
