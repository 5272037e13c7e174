package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowdraft/flowdraft/internal/credential"
	"github.com/flowdraft/flowdraft/internal/draft"
	"github.com/flowdraft/flowdraft/internal/engine"
)

// EngineDeployer hands confirmed drafts to the execution engine. A draft with
// unresolved credentials is blocked here rather than deployed half-wired.
type EngineDeployer struct {
	client engine.Client
	logger *slog.Logger
}

func NewEngineDeployer(client engine.Client, logger *slog.Logger) *EngineDeployer {
	return &EngineDeployer{client: client, logger: logger}
}

func (d *EngineDeployer) Deploy(ctx context.Context, userID string, res *credential.Resolution) (*draft.DeployResult, error) {
	if len(res.Missing) > 0 {
		d.logger.Info("Deployment blocked on unresolved credentials",
			"user_id", userID,
			"missing", len(res.Missing))
		return &draft.DeployResult{Missing: res.Missing}, nil
	}

	created, err := d.client.CreateWorkflow(ctx, engine.FromGraph(res.Graph))
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	d.tagForUser(ctx, created, userID)

	return &draft.DeployResult{WorkflowID: created.ID}, nil
}

// tagForUser labels the deployed workflow with a user:{userId} tag so it can
// be found later. Tagging is best effort, a failure never undoes the deploy.
func (d *EngineDeployer) tagForUser(ctx context.Context, wf *engine.Workflow, userID string) {
	tagName := "user:" + userID

	tag, err := d.findOrCreateTag(ctx, tagName)
	if err != nil {
		d.logger.Warn("Failed to prepare workflow tag",
			"workflow_id", wf.ID,
			"tag", tagName,
			"error", err)
		return
	}

	wf.Tags = append(wf.Tags, *tag)
	if _, err := d.client.UpdateWorkflow(ctx, wf.ID, wf); err != nil {
		d.logger.Warn("Failed to tag deployed workflow",
			"workflow_id", wf.ID,
			"tag", tagName,
			"error", err)
	}
}

func (d *EngineDeployer) findOrCreateTag(ctx context.Context, name string) (*engine.Tag, error) {
	tags, err := d.client.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		if t.Name == name {
			return &t, nil
		}
	}
	return d.client.CreateTag(ctx, name)
}
