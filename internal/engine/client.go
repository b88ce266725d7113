package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"workflow-engine-mcp/internal/config"
	"workflow-engine-mcp/internal/logging"
)

// Client exposes typed, validated operations over the engine API. All
// state is immutable after construction; a Client is safe for concurrent
// use.
type Client struct {
	transport Transport
	retry     *RetryPolicy
	log       logging.Logger
}

// NewClient wires a client against the configured engine.
func NewClient(cfg *config.Config, log logging.Logger) *Client {
	return &Client{
		transport: NewHTTPTransport(cfg),
		retry:     NewRetryPolicy(cfg),
		log:       log,
	}
}

// NewClientWith assembles a client from explicit parts. Tests use it to
// substitute a mock transport.
func NewClientWith(transport Transport, retry *RetryPolicy, log logging.Logger) *Client {
	return &Client{transport: transport, retry: retry, log: log}
}

// request describes one engine call: the wire parameters plus the resource
// identity used when mapping a 404.
type request struct {
	op     string
	method string
	path   string
	body   any
	query  map[string]string
	kind   string
	id     string
}

// do issues req through the retry policy, maps the status to the error
// taxonomy, and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	resp, err := c.retry.Do(ctx, func(ctx context.Context) (*Response, error) {
		return c.transport.Send(ctx, req.method, req.path, req.body, req.query)
	})
	if err != nil {
		c.log.Warn("engine call failed", "op", req.op, "error", err)
		return err
	}

	if err := c.mapStatus(req, resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	return decodeStrict(req.op, resp.Body, out)
}

// mapStatus translates a non-transient response status into a typed error.
// Transient statuses never reach here; the retry policy owns them.
func (c *Client) mapStatus(req request, resp *Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return &NotFoundError{Kind: req.kind, ID: req.id}
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return &ValidationError{Detail: serverDetail(resp.Body)}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &AuthorizationError{Op: req.op, StatusCode: code}
	default:
		return &RemoteError{Op: req.op, StatusCode: code, Body: string(resp.Body)}
	}
}

// serverDetail extracts a human-readable message from an engine error body,
// falling back to the raw text.
func serverDetail(body []byte) string {
	var envelope struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Detail != "":
			return envelope.Detail
		case envelope.Message != "":
			return envelope.Message
		case envelope.Error != "":
			return envelope.Error
		}
	}
	return string(body)
}

// decodeStrict decodes a JSON body, rejecting unknown fields so a drifting
// engine schema surfaces as an error rather than a silent default.
func decodeStrict(op string, body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return &ProtocolError{Op: op, Err: err}
	}
	return nil
}

// requireID fails fast when a plain identifier is missing. No network call
// is made for invalid input.
func requireID(op, name, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Op: op, Detail: name + " is required"}
	}
	return nil
}

// requireUUID fails fast when an identifier is not a UUID. Execution and
// trigger identifiers are engine-issued UUIDs.
func requireUUID(op, name, value string) error {
	if err := requireID(op, name, value); err != nil {
		return err
	}
	if _, err := uuid.Parse(value); err != nil {
		return &ValidationError{Op: op, Detail: fmt.Sprintf("%s %q is not a valid UUID", name, value)}
	}
	return nil
}

// workflowYAMLKeys are the top-level keys every workflow document must
// carry. The definition itself is executed remotely; only structure is
// checked here.
var workflowYAMLKeys = []string{"name", "tasks"}

// validateWorkflowYAML checks that a document is well-formed YAML with the
// required top-level keys. The content is sent to the engine as-is.
func validateWorkflowYAML(op, content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Op: op, Detail: "yaml_content is empty"}
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return &ValidationError{Op: op, Detail: fmt.Sprintf("malformed YAML: %v", err)}
	}
	if doc == nil {
		return &ValidationError{Op: op, Detail: "YAML document is empty"}
	}
	for _, key := range workflowYAMLKeys {
		if _, ok := doc[key]; !ok {
			return &ValidationError{Op: op, Detail: fmt.Sprintf("missing required top-level key %q", key)}
		}
	}
	return nil
}
