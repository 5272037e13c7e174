package draft

import (
	"context"
	"time"

	"github.com/flowdraft/flowdraft/internal/workflow"
)

// Draft is a not-yet-deployed graph held per user pending confirmation.
type Draft struct {
	Graph          *workflow.Graph `json:"graph"`
	OriginalPrompt string          `json:"originalPrompt"`
	UserID         string          `json:"userId"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Draft slot states. A draft needing clarification is a preview whose graph
// carries unresolved clarification entries.
const (
	StateAbsent               = "absent"
	StatePendingPreview       = "pending_preview"
	StatePendingClarification = "pending_clarification"
)

// State reports the slot state of the draft.
func (d *Draft) State() string {
	if d == nil {
		return StateAbsent
	}
	if d.Graph.NeedsClarification() {
		return StatePendingClarification
	}
	return StatePendingPreview
}

// Store holds one draft slot per user. Get returns (nil, nil) on an empty
// slot.
type Store interface {
	Get(ctx context.Context, userID string) (*Draft, error)
	Set(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, userID string) error
}
