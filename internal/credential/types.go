package credential

import (
	"context"

	"github.com/flowdraft/flowdraft/internal/workflow"
)

// Store caches resolved credential ids per user. A miss is ("", nil).
type Store interface {
	Get(ctx context.Context, userID, credType string) (string, error)
	Set(ctx context.Context, userID, credType, id string) error
}

// Provider resolves a credential type through an external integration
// service, typically involving its own async auth handshake. A nil result
// without error means the provider knows nothing about the type.
type Provider interface {
	Resolve(ctx context.Context, userID, credType string) (*ProviderResult, error)
}

// Provider result statuses.
const (
	StatusResolved  = "resolved"
	StatusNeedsAuth = "needs_auth"
)

// ProviderResult is the outcome of a provider resolution attempt.
type ProviderResult struct {
	Status       string `json:"status"`
	CredentialID string `json:"credentialId,omitempty"`
	AuthURL      string `json:"authUrl,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	Provider     string `json:"provider,omitempty"`
}

// MissingConnection names a credential type that could not be resolved to a
// concrete engine credential id.
type MissingConnection struct {
	CredType    string `json:"credType"`
	AuthURL     string `json:"authUrl,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// Resolution is the result of resolving a graph's credential requirements.
type Resolution struct {
	// Graph is a copy of the input with resolved ids injected.
	Graph *workflow.Graph
	// Missing lists the credential types that stayed unresolved.
	Missing []MissingConnection
	// Injected maps each resolved credential type to the injected id.
	Injected map[string]string
}
