package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-engine-mcp/internal/logging"
	"workflow-engine-mcp/pkg/models"
)

// recordingTransport serves one canned response and records every request.
type recordingTransport struct {
	resp    *Response
	err     error
	calls   int
	methods []string
	paths   []string
	bodies  []any
	queries []map[string]string
}

func (t *recordingTransport) Send(_ context.Context, method, path string, body any, query map[string]string) (*Response, error) {
	t.calls++
	t.methods = append(t.methods, method)
	t.paths = append(t.paths, path)
	t.bodies = append(t.bodies, body)
	t.queries = append(t.queries, query)
	if t.err != nil {
		return nil, t.err
	}
	return t.resp, nil
}

func newTestClient(transport Transport) *Client {
	return NewClientWith(transport, NewRetryPolicy(fastRetryConfig(1)), logging.Nop())
}

func respondingTransport(code int, body string) *recordingTransport {
	return &recordingTransport{resp: &Response{StatusCode: code, Body: []byte(body)}}
}

const validYAML = "name: nightly-report\ntasks:\n  - id: fetch\n    type: http\n"

func TestClient_ValidationFailsFastWithoutNetworkCalls(t *testing.T) {
	execID := uuid.NewString()

	cases := []struct {
		name string
		call func(ctx context.Context, c *Client) error
	}{
		{"empty workflow id on get", func(ctx context.Context, c *Client) error {
			_, err := c.GetWorkflow(ctx, "")
			return err
		}},
		{"blank workflow id on delete", func(ctx context.Context, c *Client) error {
			return c.DeleteWorkflow(ctx, "   ")
		}},
		{"create workflow with no payload", func(ctx context.Context, c *Client) error {
			_, err := c.CreateWorkflow(ctx, models.CreateWorkflowRequest{})
			return err
		}},
		{"create workflow with both payloads", func(ctx context.Context, c *Client) error {
			_, err := c.CreateWorkflow(ctx, models.CreateWorkflowRequest{
				YAMLContent:  validYAML,
				WorkflowData: map[string]any{"name": "x"},
			})
			return err
		}},
		{"create workflow with malformed yaml", func(ctx context.Context, c *Client) error {
			_, err := c.CreateWorkflow(ctx, models.CreateWorkflowRequest{YAMLContent: "name: [unclosed"})
			return err
		}},
		{"create workflow missing tasks key", func(ctx context.Context, c *Client) error {
			_, err := c.CreateWorkflow(ctx, models.CreateWorkflowRequest{YAMLContent: "name: solo\n"})
			return err
		}},
		{"update workflow with nothing to update", func(ctx context.Context, c *Client) error {
			_, err := c.UpdateWorkflow(ctx, "wf-1", models.UpdateWorkflowRequest{})
			return err
		}},
		{"execution id not a uuid", func(ctx context.Context, c *Client) error {
			_, err := c.GetExecutionStatus(ctx, "exec-123")
			return err
		}},
		{"task output with empty task id", func(ctx context.Context, c *Client) error {
			_, err := c.GetTaskOutput(ctx, execID, "")
			return err
		}},
		{"trigger id not a uuid", func(ctx context.Context, c *Client) error {
			return c.DeleteTrigger(ctx, "trigger-1")
		}},
		{"scheduled trigger without schedule", func(ctx context.Context, c *Client) error {
			_, err := c.CreateTrigger(ctx, models.CreateTriggerRequest{
				Name:       "nightly",
				WorkflowID: "wf-1",
				Kind:       models.TriggerScheduled,
			})
			return err
		}},
		{"manual trigger with schedule", func(ctx context.Context, c *Client) error {
			_, err := c.CreateTrigger(ctx, models.CreateTriggerRequest{
				Name:       "manual",
				WorkflowID: "wf-1",
				Kind:       models.TriggerManual,
				Schedule:   "0 0 * * *",
			})
			return err
		}},
		{"unknown trigger kind", func(ctx context.Context, c *Client) error {
			_, err := c.CreateTrigger(ctx, models.CreateTriggerRequest{
				Name:       "odd",
				WorkflowID: "wf-1",
				Kind:       "on-demand",
			})
			return err
		}},
		{"validate empty yaml", func(ctx context.Context, c *Client) error {
			_, err := c.ValidateWorkflowYAML(ctx, "")
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := respondingTransport(http.StatusOK, `{}`)
			client := newTestClient(transport)

			err := tc.call(context.Background(), client)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, 0, transport.calls, "no network call may be made for invalid input")
		})
	}
}

func TestClient_MapsNotFound(t *testing.T) {
	transport := respondingTransport(http.StatusNotFound, `{"detail":"no such workflow"}`)
	client := newTestClient(transport)

	_, err := client.GetWorkflow(context.Background(), "wf-missing")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "workflow", notFound.Kind)
	assert.Equal(t, "wf-missing", notFound.ID)
}

func TestClient_MapsServerValidationDetail(t *testing.T) {
	transport := respondingTransport(http.StatusUnprocessableEntity, `{"detail":"tasks must not be empty"}`)
	client := newTestClient(transport)

	_, err := client.CreateWorkflow(context.Background(), models.CreateWorkflowRequest{YAMLContent: validYAML})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Detail, "tasks must not be empty")
	assert.Equal(t, 1, transport.calls)
}

func TestClient_MapsAuthorizationErrors(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		transport := respondingTransport(code, `{}`)
		client := newTestClient(transport)

		_, err := client.ListWorkflows(context.Background())

		var authz *AuthorizationError
		require.ErrorAs(t, err, &authz, "status %d", code)
		assert.Equal(t, code, authz.StatusCode)
		assert.Equal(t, 1, transport.calls)
	}
}

func TestClient_SurfacesRetryExhaustionForServerErrors(t *testing.T) {
	transport := respondingTransport(http.StatusServiceUnavailable, `upstream down`)
	client := newTestClient(transport)

	_, err := client.ListExecutions(context.Background())

	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	var remote *RemoteError
	require.ErrorAs(t, exhausted.Err, &remote)
	assert.Equal(t, http.StatusServiceUnavailable, remote.StatusCode)
	assert.Equal(t, "upstream down", remote.Body)
}

func TestClient_RejectsUnexpectedResponseFields(t *testing.T) {
	transport := respondingTransport(http.StatusOK, `{"id":"wf-1","name":"x","created_at":"2026-01-02T03:04:05Z","updated_at":"2026-01-02T03:04:05Z","surprise":true}`)
	client := newTestClient(transport)

	_, err := client.GetWorkflow(context.Background(), "wf-1")

	var protocol *ProtocolError
	require.ErrorAs(t, err, &protocol)
}

func TestClient_ExecuteWorkflowRequiresExecutionID(t *testing.T) {
	transport := respondingTransport(http.StatusCreated, `{"status":"pending"}`)
	client := newTestClient(transport)

	_, err := client.ExecuteWorkflow(context.Background(), "wf-1", nil)

	var protocol *ProtocolError
	require.ErrorAs(t, err, &protocol)
}

func TestClient_ExecuteWorkflowSubmitsOpaqueInputs(t *testing.T) {
	execID := uuid.NewString()
	transport := respondingTransport(http.StatusCreated,
		`{"execution_id":"`+execID+`","workflow_id":"wf-1","status":"pending"}`)
	client := newTestClient(transport)

	ref, err := client.ExecuteWorkflow(context.Background(), "wf-1", map[string]any{
		"region": "eu-west-1",
		"count":  3,
	})

	require.NoError(t, err)
	assert.Equal(t, execID, ref.ExecutionID)
	assert.Equal(t, models.StatusPending, ref.Status)
	require.Equal(t, 1, transport.calls)
	assert.Equal(t, http.MethodPost, transport.methods[0])
	assert.Equal(t, "/workflows/wf-1/execute", transport.paths[0])

	body, ok := transport.bodies[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"region": "eu-west-1", "count": 3}, body["inputs"])
}

func TestClient_ListOrderIsPassedThrough(t *testing.T) {
	transport := respondingTransport(http.StatusOK,
		`{"workflows":[{"id":"z","name":"zeta","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"},{"id":"a","name":"alpha","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}]}`)
	client := newTestClient(transport)

	workflows, err := client.ListWorkflows(context.Background())

	require.NoError(t, err)
	require.Len(t, workflows, 2)
	assert.Equal(t, "z", workflows[0].ID)
	assert.Equal(t, "a", workflows[1].ID)
}

func TestClient_PaginatedExecutionLogsQuery(t *testing.T) {
	transport := respondingTransport(http.StatusOK,
		`{"workflow_id":"wf-1","page":2,"per_page":5,"total":12,"executions":[]}`)
	client := newTestClient(transport)

	page, err := client.ListWorkflowExecutions(context.Background(), "wf-1", WorkflowExecutionsQuery{
		Page:        2,
		PerPage:     5,
		Status:      models.StatusFailed,
		IncludeLogs: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	require.Equal(t, 1, transport.calls)
	assert.Equal(t, map[string]string{
		"page":         "2",
		"per_page":     "5",
		"status":       "failed",
		"include_logs": "true",
	}, transport.queries[0])
}

// engineStub is a minimal in-memory workflow engine for round-trip tests.
type engineStub struct {
	mu        sync.Mutex
	workflows map[string]models.Workflow
}

func newEngineStub(t *testing.T) (*httptest.Server, *engineStub) {
	t.Helper()
	stub := &engineStub{workflows: map[string]models.Workflow{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/workflows", func(w http.ResponseWriter, r *http.Request) {
		var in models.CreateWorkflowRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		wf := models.Workflow{
			ID:          uuid.NewString(),
			Definition:  in.WorkflowData,
			YAMLContent: in.YAMLContent,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if name, ok := in.WorkflowData["name"].(string); ok {
			wf.Name = name
		}
		if desc, ok := in.WorkflowData["description"].(string); ok {
			wf.Description = desc
		}
		if version, ok := in.WorkflowData["version"].(string); ok {
			wf.Version = version
		}

		stub.mu.Lock()
		stub.workflows[wf.ID] = wf
		stub.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(wf))
	})
	mux.HandleFunc("GET /api/workflows/{id}", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		wf, ok := stub.workflows[r.PathValue("id")]
		stub.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(wf))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, stub
}

func TestClient_CreateThenGetPreservesAllFields(t *testing.T) {
	server, _ := newEngineStub(t)

	cfg := fastRetryConfig(3)
	cfg.Engine.BaseURL = server.URL
	cfg.Engine.Timeout = 5 * time.Second
	client := NewClient(cfg, logging.Nop())

	submitted := map[string]any{
		"name":        "invoice-sync",
		"description": "Sync invoices to the ledger",
		"version":     "1.2.0",
		"tasks": []any{
			map[string]any{"id": "pull", "type": "http"},
			map[string]any{"id": "push", "type": "http"},
		},
	}

	created, err := client.CreateWorkflow(context.Background(), models.CreateWorkflowRequest{WorkflowData: submitted})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := client.GetWorkflow(context.Background(), created.ID)
	require.NoError(t, err)

	// Every submitted field must come back; a field the engine fails to
	// echo is silent data loss.
	assert.Equal(t, "invoice-sync", fetched.Name)
	assert.Equal(t, "Sync invoices to the ledger", fetched.Description)
	assert.Equal(t, "1.2.0", fetched.Version)
	require.NotNil(t, fetched.Definition)
	assert.Equal(t, submitted["name"], fetched.Definition["name"])
	assert.Equal(t, submitted["description"], fetched.Definition["description"])
	assert.Equal(t, submitted["version"], fetched.Definition["version"])
	assert.Len(t, fetched.Definition["tasks"], 2)
}
