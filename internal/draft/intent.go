package draft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowdraft/flowdraft/internal/llm"
)

// Intent is the classified meaning of a user message against the current
// draft.
type Intent string

const (
	IntentConfirm Intent = "confirm"
	IntentCancel  Intent = "cancel"
	IntentModify  Intent = "modify"
	IntentNew     Intent = "new"

	// IntentShowPreview is the fallback when classification fails or
	// returns an unrecognized value: re-display the draft, change nothing.
	IntentShowPreview Intent = "show_preview"
)

// Classification pairs the intent with the extracted free text: the
// modification instruction for modify, the fresh description for new.
type Classification struct {
	Intent Intent `json:"intent"`
	Detail string `json:"detail,omitempty"`
}

// Classifier decides what a user message means for the current draft.
type Classifier interface {
	Classify(ctx context.Context, message string, d *Draft) (Classification, error)
}

const intentSystemPrompt = `You classify what a user wants to do with a pending workflow draft.
Given the draft summary and the user's message, respond with a JSON object:
  {"intent": "confirm" | "cancel" | "modify" | "new", "detail": "..."}
- "confirm": the user approves the draft and wants it deployed.
- "cancel": the user wants to discard the draft.
- "modify": the user wants the draft changed; put the modification instruction in "detail".
- "new": the user describes an unrelated automation; put the new description in "detail".
Respond with the JSON object and nothing else.`

// LLMClassifier classifies intent through a structured model call.
type LLMClassifier struct {
	client llm.Client
}

func NewLLMClassifier(client llm.Client) *LLMClassifier {
	return &LLMClassifier{client: client}
}

func (c *LLMClassifier) Classify(ctx context.Context, message string, d *Draft) (Classification, error) {
	summary, err := json.Marshal(map[string]any{
		"name":           d.Graph.Name,
		"nodes":          nodeSummaries(d),
		"originalPrompt": d.OriginalPrompt,
	})
	if err != nil {
		return Classification{}, fmt.Errorf("failed to summarize draft: %w", err)
	}

	var result Classification
	if err := c.client.CompleteJSON(ctx, llm.Request{
		System:    intentSystemPrompt,
		Prompt:    fmt.Sprintf("Draft:\n%s\n\nUser message: %s", summary, message),
		MaxTokens: 256,
	}, &result); err != nil {
		return Classification{}, err
	}

	switch result.Intent {
	case IntentConfirm, IntentCancel, IntentModify, IntentNew:
		return result, nil
	default:
		return Classification{}, fmt.Errorf("unrecognized intent: %q", result.Intent)
	}
}

func nodeSummaries(d *Draft) []string {
	summaries := make([]string, 0, len(d.Graph.Nodes))
	for _, n := range d.Graph.Nodes {
		summaries = append(summaries, fmt.Sprintf("%s (%s)", n.Name, n.Type))
	}
	return summaries
}
