package engineview

import (
	"context"
	"log/slog"

	"github.com/flowdraft/flowdraft/internal/engine"
	mcpserver "github.com/flowdraft/flowdraft/internal/server"
	serverDomain "github.com/flowdraft/flowdraft/internal/server-plugin/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

// EngineViewServerPlugin exposes read-only views over the execution engine:
// deployed workflows and their recent runs. It is only active while the
// engine answers health probes.
type EngineViewServerPlugin struct {
	client engine.Client
	logger *slog.Logger
}

func NewEngineViewServerPlugin(client engine.Client, logger *slog.Logger) *EngineViewServerPlugin {
	return &EngineViewServerPlugin{client: client, logger: logger}
}

func (p *EngineViewServerPlugin) ID() string   { return "engineview" }
func (p *EngineViewServerPlugin) Name() string { return "Engine Views" }
func (p *EngineViewServerPlugin) Description() string {
	return "Read-only views over deployed workflows and their executions"
}
func (p *EngineViewServerPlugin) Version() string      { return "0.1.0" }
func (p *EngineViewServerPlugin) RequiresEngine() bool { return true }

// ToolProvider implementation
func (p *EngineViewServerPlugin) GetTools(ctx context.Context) ([]serverDomain.Tool, error) {
	return []serverDomain.Tool{
		{
			Name:        "list_workflows",
			Description: "List the workflows deployed on the execution engine",
			Builder:     p.buildListWorkflowsTool,
			Handler:     p.handleListWorkflows,
		},
		{
			Name:        "list_executions",
			Description: "List recent executions, optionally filtered by workflow and status",
			Builder:     p.buildListExecutionsTool,
			Handler:     p.handleListExecutions,
		},
	}, nil
}

func (p *EngineViewServerPlugin) buildListWorkflowsTool() mcp.Tool {
	return mcp.NewTool(
		"list_workflows",
		mcp.WithDescription("List the workflows deployed on the execution engine"),
		mcp.WithString("user_id",
			mcp.Description("Restrict the list to workflows tagged for this user"),
		),
	)
}

func (p *EngineViewServerPlugin) buildListExecutionsTool() mcp.Tool {
	return mcp.NewTool(
		"list_executions",
		mcp.WithDescription("List recent executions, optionally filtered by workflow and status"),
		mcp.WithString("workflow_id",
			mcp.Description("Only executions of this workflow"),
		),
		mcp.WithString("status",
			mcp.Description("Only executions with this status, e.g. success or error"),
			mcp.Pattern("^(success|error|waiting|running)?$"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of executions to return"),
		),
	)
}

// workflowView trims an engine workflow to what a chat client needs.
type workflowView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Active    bool     `json:"active"`
	NodeCount int      `json:"nodeCount"`
	Tags      []string `json:"tags,omitempty"`
}

func (p *EngineViewServerPlugin) handleListWorkflows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflows, err := p.client.ListWorkflows(ctx)
	if err != nil {
		p.logger.Warn("Failed to list engine workflows", "error", err)
		return mcpserver.Error("engine_unavailable", err.Error(),
			"check that the execution engine is running and reachable", nil), nil
	}

	userTag := ""
	if userID := req.GetString("user_id", ""); userID != "" {
		userTag = "user:" + userID
	}

	views := make([]workflowView, 0, len(workflows))
	for _, wf := range workflows {
		tags := make([]string, 0, len(wf.Tags))
		tagged := false
		for _, t := range wf.Tags {
			tags = append(tags, t.Name)
			if t.Name == userTag {
				tagged = true
			}
		}
		if userTag != "" && !tagged {
			continue
		}
		views = append(views, workflowView{
			ID:        wf.ID,
			Name:      wf.Name,
			Active:    wf.Active,
			NodeCount: len(wf.Nodes),
			Tags:      tags,
		})
	}

	return mcpserver.OK("Deployed workflows", views), nil
}

func (p *EngineViewServerPlugin) handleListExecutions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := engine.ExecutionFilter{
		WorkflowID: req.GetString("workflow_id", ""),
		Status:     req.GetString("status", ""),
		Limit:      req.GetInt("limit", 0),
	}

	executions, err := p.client.ListExecutions(ctx, filter)
	if err != nil {
		p.logger.Warn("Failed to list engine executions", "error", err)
		return mcpserver.Error("engine_unavailable", err.Error(),
			"check that the execution engine is running and reachable", nil), nil
	}

	return mcpserver.OK("Recent executions", executions), nil
}
