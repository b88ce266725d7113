package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workflow-engine-mcp/internal/engine"
	"workflow-engine-mcp/internal/logging"
)

// Server exposes the engine client and completion waiter as MCP tools.
// It owns no state beyond the wired collaborators; all formatting of
// results into text happens here, never in the core.
type Server struct {
	mcpServer *server.MCPServer
	client    *engine.Client
	waiter    *engine.Waiter
	log       logging.Logger
}

// NewServer wires the tool surface over the given client and waiter.
func NewServer(client *engine.Client, waiter *engine.Waiter, log logging.Logger) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Workflow Engine",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		client: client,
		waiter: waiter,
		log:    log,
	}

	s.registerWorkflowTools()
	s.registerExecutionTools()
	s.registerTriggerTools()
	s.registerSystemTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the server over stdin/stdout, the transport the host
// agent runtime speaks by default.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MountHTTPHandlers attaches the MCP SSE endpoints to mux under /mcp.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}

// toolResult marshals v as indented JSON. The core hands back structured
// data; rendering it is the dispatcher's job.
func toolResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// toolError renders a typed engine error. The error types already carry
// operation and identifier context and never include credentials.
func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// arguments pulls the raw argument map out of a tool request.
func arguments(request mcp.CallToolRequest) (map[string]any, *mcp.CallToolResult) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		if request.Params.Arguments == nil {
			return map[string]any{}, nil
		}
		return nil, mcp.NewToolResultError("Invalid arguments type")
	}
	return args, nil
}

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func argStringPtr(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func argBoolPtr(args map[string]any, key string) *bool {
	if v, ok := args[key].(bool); ok {
		return &v
	}
	return nil
}

func argBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func argInt(args map[string]any, key string, fallback int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func argMap(args map[string]any, key string) map[string]any {
	v, _ := args[key].(map[string]any)
	return v
}
