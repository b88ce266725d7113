package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-engine-mcp/internal/config"
	"workflow-engine-mcp/internal/engine"
	"workflow-engine-mcp/internal/logging"
	"workflow-engine-mcp/pkg/models"
)

func testServer(t *testing.T, handler http.Handler) *Server {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	cfg := &config.Config{}
	cfg.Engine.BaseURL = backend.URL
	cfg.Engine.Timeout = 2 * time.Second
	cfg.Retry.MaxRetries = 1
	cfg.Retry.BackoffBase = time.Millisecond
	cfg.Retry.BackoffMax = 5 * time.Millisecond
	cfg.Poll.Interval = 5 * time.Millisecond
	cfg.Poll.FailureThreshold = 3

	client := engine.NewClient(cfg, logging.Nop())
	waiter := engine.NewWaiter(client, cfg, logging.Nop())
	return NewServer(client, waiter, logging.Nop())
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestHandleGetWorkflow_RendersWorkflowJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/workflows/wf-7", func(w http.ResponseWriter, _ *http.Request) {
		now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
		_ = json.NewEncoder(w).Encode(models.Workflow{
			ID:        "wf-7",
			Name:      "daily-digest",
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	server := testServer(t, mux)

	result, err := server.handleGetWorkflow(context.Background(), callRequest(map[string]any{
		"workflow_id": "wf-7",
	}))

	require.NoError(t, err)
	require.False(t, result.IsError)

	var workflow models.Workflow
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &workflow))
	assert.Equal(t, "wf-7", workflow.ID)
	assert.Equal(t, "daily-digest", workflow.Name)
}

func TestHandleGetWorkflow_RendersTypedErrorsAsToolErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := testServer(t, mux)

	result, err := server.handleGetWorkflow(context.Background(), callRequest(map[string]any{
		"workflow_id": "wf-gone",
	}))

	require.NoError(t, err, "tool errors are results, not handler failures")
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "wf-gone")
}

func TestHandleCreateWorkflow_ValidationErrorBeforeNetwork(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	server := testServer(t, mux)

	result, err := server.handleCreateWorkflow(context.Background(), callRequest(map[string]any{
		"yaml_content": "definitely: [not-a-workflow",
	}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "malformed YAML")
	assert.Equal(t, 0, calls)
}

func TestHandleWaitForExecutionCompletion_ReportsCompletion(t *testing.T) {
	execID := "3f2c8a44-9d1e-4f6b-8a57-2d9c41e0b713"
	polls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/executions/"+execID, func(w http.ResponseWriter, _ *http.Request) {
		polls++
		status := models.StatusRunning
		if polls > 2 {
			status = models.StatusSucceeded
		}
		_ = json.NewEncoder(w).Encode(models.Execution{
			ID:         execID,
			WorkflowID: "wf-1",
			Status:     status,
			StartedAt:  time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
		})
	})
	server := testServer(t, mux)

	result, err := server.handleWaitForExecutionCompletion(context.Background(), callRequest(map[string]any{
		"execution_id": execID,
	}))

	require.NoError(t, err)
	require.False(t, result.IsError)

	var report engine.WaitReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Equal(t, execID, report.ExecutionID)
	assert.Equal(t, engine.StateSucceeded, report.State)
	assert.Equal(t, 3, report.Polls)
}
