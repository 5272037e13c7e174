package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is the REST contract against the execution engine, consumed by the
// deploy step and the read-only engine views.
type Client interface {
	CreateWorkflow(ctx context.Context, wf *Workflow) (*Workflow, error)
	GetWorkflow(ctx context.Context, id string) (*Workflow, error)
	ListWorkflows(ctx context.Context) ([]Workflow, error)
	UpdateWorkflow(ctx context.Context, id string, wf *Workflow) (*Workflow, error)
	DeleteWorkflow(ctx context.Context, id string) error
	ActivateWorkflow(ctx context.Context, id string) (*Workflow, error)
	DeactivateWorkflow(ctx context.Context, id string) (*Workflow, error)

	ListCredentials(ctx context.Context) ([]Credential, error)
	CreateCredential(ctx context.Context, cred *Credential) (*Credential, error)

	ListExecutions(ctx context.Context, filter ExecutionFilter) ([]Execution, error)
	GetExecution(ctx context.Context, id string) (*Execution, error)

	ListTags(ctx context.Context) ([]Tag, error)
	CreateTag(ctx context.Context, name string) (*Tag, error)

	Health(ctx context.Context) error
}

// HTTPClient implements Client against the engine's v1 REST API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// listEnvelope is the engine's collection response shape.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

func (c *HTTPClient) CreateWorkflow(ctx context.Context, wf *Workflow) (*Workflow, error) {
	var out Workflow
	if err := c.do(ctx, http.MethodPost, "/api/v1/workflows", wf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var out Workflow
	if err := c.do(ctx, http.MethodGet, "/api/v1/workflows/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	var out listEnvelope[Workflow]
	if err := c.do(ctx, http.MethodGet, "/api/v1/workflows", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) UpdateWorkflow(ctx context.Context, id string, wf *Workflow) (*Workflow, error) {
	var out Workflow
	if err := c.do(ctx, http.MethodPut, "/api/v1/workflows/"+url.PathEscape(id), wf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteWorkflow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/workflows/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) ActivateWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var out Workflow
	if err := c.do(ctx, http.MethodPost, "/api/v1/workflows/"+url.PathEscape(id)+"/activate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeactivateWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var out Workflow
	if err := c.do(ctx, http.MethodPost, "/api/v1/workflows/"+url.PathEscape(id)+"/deactivate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListCredentials(ctx context.Context) ([]Credential, error) {
	var out listEnvelope[Credential]
	if err := c.do(ctx, http.MethodGet, "/api/v1/credentials", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) CreateCredential(ctx context.Context, cred *Credential) (*Credential, error) {
	var out Credential
	if err := c.do(ctx, http.MethodPost, "/api/v1/credentials", cred, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListExecutions(ctx context.Context, filter ExecutionFilter) ([]Execution, error) {
	query := url.Values{}
	if filter.WorkflowID != "" {
		query.Set("workflowId", filter.WorkflowID)
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	path := "/api/v1/executions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var out listEnvelope[Execution]
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) GetExecution(ctx context.Context, id string) (*Execution, error) {
	var out Execution
	if err := c.do(ctx, http.MethodGet, "/api/v1/executions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListTags(ctx context.Context) ([]Tag, error) {
	var out listEnvelope[Tag]
	if err := c.do(ctx, http.MethodGet, "/api/v1/tags", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) CreateTag(ctx context.Context, name string) (*Tag, error) {
	var out Tag
	if err := c.do(ctx, http.MethodPost, "/api/v1/tags", Tag{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes the engine's liveness endpoint.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-N8N-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("engine request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read engine response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode engine response: %w", err)
		}
	}
	return nil
}
