package draft

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/flowdraft/flowdraft/internal/credential"
	"github.com/flowdraft/flowdraft/internal/workflow"
)

// Generator produces and revises workflow graphs from natural language.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*workflow.Graph, error)
	Modify(ctx context.Context, g *workflow.Graph, instruction string) (*workflow.Graph, error)
}

// Resolver resolves a graph's credential requirements before deployment.
type Resolver interface {
	Resolve(ctx context.Context, g *workflow.Graph, userID string) *credential.Resolution
}

// DeployResult reports a deployment attempt. A blocked deployment carries an
// empty WorkflowID and a populated Missing list.
type DeployResult struct {
	WorkflowID string                         `json:"workflowId"`
	Missing    []credential.MissingConnection `json:"missingConnections,omitempty"`
}

// Deployer hands a credential-resolved graph to the execution engine. Whether
// unresolved credentials block the deployment is the deployer's decision.
type Deployer interface {
	Deploy(ctx context.Context, userID string, res *credential.Resolution) (*DeployResult, error)
}

// Action is what a lifecycle turn did with the draft slot.
type Action string

const (
	ActionCreated          Action = "created"
	ActionPreview          Action = "preview"
	ActionDeployed         Action = "deployed"
	ActionDeployBlocked    Action = "deploy_blocked"
	ActionCancelled        Action = "cancelled"
	ActionModified         Action = "modified"
	ActionNeedsDescription Action = "needs_description"
	ActionRestored         Action = "restored"
)

// Outcome is the result of one lifecycle turn.
type Outcome struct {
	Action Action
	// Draft is the slot content after the turn, nil when cleared.
	Draft *Draft
	// Deploy is set on deployed and deploy_blocked turns.
	Deploy *DeployResult
	// Note carries a user-facing explanation on restored and
	// needs_description turns.
	Note string
}

// Lifecycle advances the per-user draft state machine on each incoming
// message. Turns for the same user are serialized by a per-user mutex so two
// racing messages cannot interleave their slot reads and writes.
type Lifecycle struct {
	generator  Generator
	resolver   Resolver
	classifier Classifier
	store      Store
	deployer   Deployer
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option adjusts lifecycle construction.
type Option func(*Lifecycle)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) {
		l.now = now
	}
}

func NewLifecycle(
	generator Generator,
	resolver Resolver,
	classifier Classifier,
	store Store,
	deployer Deployer,
	ttl time.Duration,
	logger *slog.Logger,
	opts ...Option,
) *Lifecycle {
	l := &Lifecycle{
		generator:  generator,
		resolver:   resolver,
		classifier: classifier,
		store:      store,
		deployer:   deployer,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
		locks:      make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// HandleMessage runs one turn of the state machine for a user message.
func (l *Lifecycle) HandleMessage(ctx context.Context, userID, message string) (*Outcome, error) {
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	current, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if current == nil {
		return l.create(ctx, userID, message)
	}

	cls, err := l.classifier.Classify(ctx, message, current)
	if err != nil {
		l.logger.Warn("Intent classification failed, showing preview",
			"user_id", userID,
			"error", err)
		return &Outcome{Action: ActionPreview, Draft: current}, nil
	}

	intent := cls.Intent
	if intent == IntentConfirm && current.State() == StatePendingClarification {
		// An incomplete draft is never deployed.
		l.logger.Info("Confirm on a draft needing clarification, treating as modify",
			"user_id", userID)
		intent = IntentModify
	}

	switch intent {
	case IntentConfirm:
		return l.deploy(ctx, userID, current)
	case IntentCancel:
		if err := l.store.Delete(ctx, userID); err != nil {
			return nil, err
		}
		return &Outcome{Action: ActionCancelled}, nil
	case IntentModify:
		return l.modify(ctx, userID, current, detailOr(cls, message))
	case IntentNew:
		return l.replace(ctx, userID, current, cls.Detail)
	default:
		return &Outcome{Action: ActionPreview, Draft: current}, nil
	}
}

// Discard clears the user's draft slot unconditionally.
func (l *Lifecycle) Discard(ctx context.Context, userID string) error {
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return l.store.Delete(ctx, userID)
}

// Current returns the user's draft, or nil, applying the expiry check.
func (l *Lifecycle) Current(ctx context.Context, userID string) (*Draft, error) {
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return l.load(ctx, userID)
}

// load fetches the slot and applies lazy expiry: a draft older than the TTL
// is deleted and treated as absent before any transition logic runs.
func (l *Lifecycle) load(ctx context.Context, userID string) (*Draft, error) {
	d, err := l.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	if l.now().Sub(d.CreatedAt) > l.ttl {
		l.logger.Info("Draft expired", "user_id", userID, "created_at", d.CreatedAt)
		if err := l.store.Delete(ctx, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return d, nil
}

func (l *Lifecycle) create(ctx context.Context, userID, prompt string) (*Outcome, error) {
	g, err := l.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	d := &Draft{
		Graph:          g,
		OriginalPrompt: prompt,
		UserID:         userID,
		CreatedAt:      l.now(),
	}
	if err := l.store.Set(ctx, d); err != nil {
		return nil, err
	}
	return &Outcome{Action: ActionCreated, Draft: d}, nil
}

func (l *Lifecycle) deploy(ctx context.Context, userID string, d *Draft) (*Outcome, error) {
	resolution := l.resolver.Resolve(ctx, d.Graph, userID)

	result, err := l.deployer.Deploy(ctx, userID, resolution)
	if err != nil {
		// Transport failure, the draft stays for a retry.
		return nil, fmt.Errorf("deployment failed: %w", err)
	}

	if result.WorkflowID == "" {
		return &Outcome{Action: ActionDeployBlocked, Draft: d, Deploy: result}, nil
	}

	if err := l.store.Delete(ctx, userID); err != nil {
		return nil, err
	}
	return &Outcome{Action: ActionDeployed, Deploy: result}, nil
}

func (l *Lifecycle) modify(ctx context.Context, userID string, d *Draft, instruction string) (*Outcome, error) {
	g, err := l.generator.Modify(ctx, d.Graph, instruction)
	if err != nil {
		return nil, err
	}

	updated := &Draft{
		Graph:          g,
		OriginalPrompt: d.OriginalPrompt,
		UserID:         userID,
		CreatedAt:      l.now(), // refreshes the TTL
	}
	if err := l.store.Set(ctx, updated); err != nil {
		return nil, err
	}
	return &Outcome{Action: ActionModified, Draft: updated}, nil
}

// replace discards the draft in favor of a fresh generation. The slot is only
// overwritten once generation succeeds, so a failure keeps the previous draft.
func (l *Lifecycle) replace(ctx context.Context, userID string, previous *Draft, description string) (*Outcome, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		if err := l.store.Delete(ctx, userID); err != nil {
			return nil, err
		}
		return &Outcome{
			Action: ActionNeedsDescription,
			Note:   "describe the automation you want to build",
		}, nil
	}

	g, err := l.generator.Generate(ctx, description)
	if err != nil {
		l.logger.Warn("Fresh generation failed, keeping previous draft",
			"user_id", userID,
			"error", err)
		return &Outcome{
			Action: ActionRestored,
			Draft:  previous,
			Note:   "the new request could not be understood, your previous draft is unchanged",
		}, nil
	}

	d := &Draft{
		Graph:          g,
		OriginalPrompt: description,
		UserID:         userID,
		CreatedAt:      l.now(),
	}
	if err := l.store.Set(ctx, d); err != nil {
		return nil, err
	}
	return &Outcome{Action: ActionCreated, Draft: d}, nil
}

func detailOr(cls Classification, fallback string) string {
	if strings.TrimSpace(cls.Detail) != "" {
		return cls.Detail
	}
	return fallback
}

func (l *Lifecycle) userLock(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}
