package engine

import (
	"fmt"
	"time"

	"github.com/flowdraft/flowdraft/internal/workflow"
)

// Workflow is a graph as the execution engine stores it.
type Workflow struct {
	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name"`
	Active      bool                   `json:"active"`
	Nodes       []workflow.Node        `json:"nodes"`
	Connections workflow.ConnectionMap `json:"connections"`
	Settings    map[string]any         `json:"settings"`
	Tags        []Tag                  `json:"tags,omitempty"`
	CreatedAt   time.Time              `json:"createdAt,omitempty"`
	UpdatedAt   time.Time              `json:"updatedAt,omitempty"`
}

// FromGraph shapes a generated graph for an engine create call.
func FromGraph(g *workflow.Graph) *Workflow {
	settings := g.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	return &Workflow{
		Name:        g.Name,
		Nodes:       g.Nodes,
		Connections: g.Connections,
		Settings:    settings,
	}
}

// Credential is an engine-side credential record. Data is write-only; the
// engine never returns secrets.
type Credential struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Execution is one run of a workflow.
type Execution struct {
	ID         string     `json:"id"`
	WorkflowID string     `json:"workflowId"`
	Status     string     `json:"status"`
	Mode       string     `json:"mode,omitempty"`
	StartedAt  time.Time  `json:"startedAt,omitempty"`
	StoppedAt  *time.Time `json:"stoppedAt,omitempty"`
	Data       any        `json:"data,omitempty"`
}

// Tag labels workflows; the builder tags deployments per user.
type Tag struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// ExecutionFilter narrows a ListExecutions call. Zero values are omitted.
type ExecutionFilter struct {
	WorkflowID string
	Status     string
	Limit      int
}

// APIError is a non-2xx engine response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("engine API error (status %d): %s", e.Status, e.Body)
}
