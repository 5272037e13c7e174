package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/flowdraft/flowdraft/internal/catalog"
	"github.com/flowdraft/flowdraft/internal/draft"
	mcpserver "github.com/flowdraft/flowdraft/internal/server"
	serverDomain "github.com/flowdraft/flowdraft/internal/server-plugin/domain"
	"github.com/flowdraft/flowdraft/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
)

// BuilderServerPlugin exposes the draft-building conversation as MCP tools:
// describe an automation, preview the generated workflow, confirm to deploy.
type BuilderServerPlugin struct {
	lifecycle *draft.Lifecycle
	catalog   *catalog.Catalog
	logger    *slog.Logger
}

func NewBuilderServerPlugin(lifecycle *draft.Lifecycle, cat *catalog.Catalog, logger *slog.Logger) *BuilderServerPlugin {
	return &BuilderServerPlugin{
		lifecycle: lifecycle,
		catalog:   cat,
		logger:    logger,
	}
}

// ServerPlugin interface
func (p *BuilderServerPlugin) ID() string   { return "builder" }
func (p *BuilderServerPlugin) Name() string { return "Workflow Builder" }
func (p *BuilderServerPlugin) Description() string {
	return "Turns natural-language requests into deployable workflow drafts"
}
func (p *BuilderServerPlugin) Version() string { return "0.1.0" }
func (p *BuilderServerPlugin) RequiresEngine() bool {
	// Draft building works offline; only the deploy step talks to the
	// engine, and that failure is reported per call.
	return false
}

// ToolProvider implementation
func (p *BuilderServerPlugin) GetTools(ctx context.Context) ([]serverDomain.Tool, error) {
	return []serverDomain.Tool{
		{
			Name:        "build_workflow",
			Description: "Create, refine, confirm or cancel a workflow draft from a natural-language message",
			Builder:     p.buildBuildWorkflowTool,
			Handler:     p.handleBuildWorkflow,
		},
		{
			Name:        "show_draft",
			Description: "Show the user's pending workflow draft",
			Builder:     p.buildShowDraftTool,
			Handler:     p.handleShowDraft,
		},
		{
			Name:        "discard_draft",
			Description: "Discard the user's pending workflow draft",
			Builder:     p.buildDiscardDraftTool,
			Handler:     p.handleDiscardDraft,
		},
	}, nil
}

// ResourceProvider implementation
func (p *BuilderServerPlugin) GetResources(ctx context.Context) ([]serverDomain.Resource, error) {
	return []serverDomain.Resource{
		{
			URI:         "flowdraft://catalog/node-types",
			Name:        "Node Type Catalog",
			Description: "All node types the builder can place in a workflow",
			MIMEType:    "application/json",
			Handler:     p.handleCatalogResource,
		},
	}, nil
}

// PromptProvider implementation
func (p *BuilderServerPlugin) GetPrompts(ctx context.Context) ([]serverDomain.Prompt, error) {
	return []serverDomain.Prompt{
		{
			Name:        "workflow_ideas",
			Description: "Suggest automation workflows the builder can create",
			Builder:     p.buildWorkflowIdeasPrompt,
			Handler:     p.handleWorkflowIdeasPrompt,
		},
	}, nil
}

// Tool builders
func (p *BuilderServerPlugin) buildBuildWorkflowTool() mcp.Tool {
	return mcp.NewTool(
		"build_workflow",
		mcp.WithDescription("Create, refine, confirm or cancel a workflow draft from a natural-language message"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Identifier of the user the draft belongs to"),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The user's message: a new automation request, a change, a confirmation or a cancellation"),
		),
	)
}

func (p *BuilderServerPlugin) buildShowDraftTool() mcp.Tool {
	return mcp.NewTool(
		"show_draft",
		mcp.WithDescription("Show the user's pending workflow draft"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Identifier of the user the draft belongs to"),
		),
	)
}

func (p *BuilderServerPlugin) buildDiscardDraftTool() mcp.Tool {
	return mcp.NewTool(
		"discard_draft",
		mcp.WithDescription("Discard the user's pending workflow draft"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Identifier of the user the draft belongs to"),
		),
	)
}

// Tool handlers
func (p *BuilderServerPlugin) handleBuildWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcpserver.Error("missing_user_id", "user_id is required", "", nil), nil
	}
	message, err := req.RequireString("message")
	if err != nil {
		return mcpserver.Error("missing_message", "message is required", "", nil), nil
	}

	outcome, err := p.lifecycle.HandleMessage(ctx, userID, message)
	if err != nil {
		p.logger.Warn("Draft turn failed", "user_id", userID, "error", err)
		return mcpserver.Error("draft_turn_failed", err.Error(),
			"rephrase the request or name the services involved", nil), nil
	}

	return p.outcomeResult(outcome), nil
}

func (p *BuilderServerPlugin) handleShowDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcpserver.Error("missing_user_id", "user_id is required", "", nil), nil
	}

	d, err := p.lifecycle.Current(ctx, userID)
	if err != nil {
		return mcpserver.Error("draft_lookup_failed", err.Error(), "", nil), nil
	}
	if d == nil {
		return mcpserver.OK("No pending draft", nil), nil
	}
	return mcpserver.OK("Pending draft", draftView(d)), nil
}

func (p *BuilderServerPlugin) handleDiscardDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcpserver.Error("missing_user_id", "user_id is required", "", nil), nil
	}

	if err := p.lifecycle.Discard(ctx, userID); err != nil {
		return mcpserver.Error("draft_discard_failed", err.Error(), "", nil), nil
	}
	return mcpserver.OK("Draft discarded", nil), nil
}

// outcomeResult maps a lifecycle outcome to the tool envelope.
func (p *BuilderServerPlugin) outcomeResult(outcome *draft.Outcome) *mcp.CallToolResult {
	switch outcome.Action {
	case draft.ActionCreated, draft.ActionModified:
		view := draftView(outcome.Draft)
		message := "Draft ready for review"
		if outcome.Draft.State() == draft.StatePendingClarification {
			message = "Draft created, clarification needed before it can be deployed"
		}
		return mcpserver.NewResultWithLogger(mcpserver.ToolResponse{
			Status:  mcpserver.ToolStatusOK,
			Message: message,
			Data:    view,
			Links: []mcpserver.ToolLink{
				{Rel: "confirm", Tool: "build_workflow"},
				{Rel: "discard", Tool: "discard_draft"},
			},
		}, p.logger)
	case draft.ActionPreview:
		return mcpserver.OK("Current draft unchanged", draftView(outcome.Draft))
	case draft.ActionDeployed:
		return mcpserver.OK(
			fmt.Sprintf("Workflow deployed with id %q", outcome.Deploy.WorkflowID),
			outcome.Deploy)
	case draft.ActionDeployBlocked:
		return mcpserver.NewResultWithLogger(mcpserver.ToolResponse{
			Status:  mcpserver.ToolStatusPartial,
			Code:    "missing_credentials",
			Message: "Deployment blocked, some services are not connected yet",
			Data:    outcome.Deploy,
			Hint:    "connect the listed services, then confirm again",
		}, p.logger)
	case draft.ActionCancelled:
		return mcpserver.OK("Draft cancelled", nil)
	case draft.ActionNeedsDescription:
		return mcpserver.OK(outcome.Note, nil)
	case draft.ActionRestored:
		return mcpserver.NewResultWithLogger(mcpserver.ToolResponse{
			Status:  mcpserver.ToolStatusPartial,
			Code:    "generation_failed",
			Message: outcome.Note,
			Data:    draftView(outcome.Draft),
		}, p.logger)
	default:
		return mcpserver.Error("unknown_action", fmt.Sprintf("unhandled draft action: %s", outcome.Action), "", nil)
	}
}

// draftView is the tool-facing draft shape.
type draftViewData struct {
	State          string          `json:"state"`
	OriginalPrompt string          `json:"originalPrompt"`
	Workflow       *workflow.Graph `json:"workflow"`
	Clarifications []string        `json:"clarifications,omitempty"`
}

func draftView(d *draft.Draft) *draftViewData {
	if d == nil {
		return nil
	}
	view := &draftViewData{
		State:          d.State(),
		OriginalPrompt: d.OriginalPrompt,
		Workflow:       d.Graph,
	}
	if d.Graph.Meta != nil {
		view.Clarifications = d.Graph.Meta.RequiresClarification
	}
	return view
}

// Resource handlers
func (p *BuilderServerPlugin) handleCatalogResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(p.catalog.Types(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize node type catalog: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// Prompt implementations
func (p *BuilderServerPlugin) buildWorkflowIdeasPrompt() mcp.Prompt {
	return mcp.NewPrompt(
		"workflow_ideas",
		mcp.WithPromptDescription("Suggest automation workflows the builder can create"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("Optional area of interest, e.g. \"email\" or \"team notifications\""),
		),
	)
}

func (p *BuilderServerPlugin) handleWorkflowIdeasPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]

	var names []string
	for _, nt := range p.catalog.Types() {
		names = append(names, nt.DisplayName)
	}

	promptText := fmt.Sprintf(
		"Suggest five automation workflows a user could build with these building blocks: %v.\n"+
			"For each, give a one-line description phrased as a request the user could send to the build_workflow tool.",
		names)
	if topic != "" {
		promptText += fmt.Sprintf("\nFocus on the topic: %s.", topic)
	}

	return &mcp.GetPromptResult{
		Description: "Workflow suggestions based on the available node types",
		Messages: []mcp.PromptMessage{
			{
				Role:    "user",
				Content: mcp.TextContent{Type: "text", Text: promptText},
			},
		},
	}, nil
}
