package credential

import (
	"context"
	"log/slog"

	"github.com/flowdraft/flowdraft/internal/workflow"
)

// Resolver resolves every credential type a graph requires through a
// three-source priority chain: cache store, static config, external provider.
type Resolver struct {
	store    Store
	provider Provider // may be nil
	static   map[string]string
	logger   *slog.Logger
}

func NewResolver(store Store, provider Provider, static map[string]string, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:    store,
		provider: provider,
		static:   static,
		logger:   logger,
	}
}

// Resolve collects the distinct credential types the graph requires, resolves
// each independently through the priority chain, and returns a copy of the
// graph with the resolved ids injected. A type needed by several nodes is
// resolved once and shared. Failures on one type never block another.
func (r *Resolver) Resolve(ctx context.Context, g *workflow.Graph, userID string) *Resolution {
	resolution := &Resolution{
		Graph:    g.Clone(),
		Injected: make(map[string]string),
	}

	for _, credType := range g.RequiredCredentialTypes() {
		id, missing := r.resolveType(ctx, userID, credType)
		if missing != nil {
			resolution.Missing = append(resolution.Missing, *missing)
			continue
		}
		resolution.Injected[credType] = id
	}

	injectCredentials(resolution.Graph, resolution.Injected)
	return resolution
}

// resolveType applies the priority chain for one credential type. First match
// wins; later sources are not consulted.
func (r *Resolver) resolveType(ctx context.Context, userID, credType string) (string, *MissingConnection) {
	if r.store != nil {
		id, err := r.store.Get(ctx, userID, credType)
		if err != nil {
			r.logger.Warn("Credential store lookup failed",
				"cred_type", credType,
				"error", err)
		} else if id != "" {
			r.logger.Debug("Credential resolved from store", "cred_type", credType)
			return id, nil
		}
	}

	if id, ok := staticLookup(r.static, credType); ok {
		r.logger.Debug("Credential resolved from static config", "cred_type", credType)
		return id, nil
	}

	if r.provider == nil {
		return "", &MissingConnection{CredType: credType}
	}

	result, err := r.provider.Resolve(ctx, userID, credType)
	if err != nil {
		// Provider errors are downgraded, never propagated.
		r.logger.Warn("Credential provider failed",
			"cred_type", credType,
			"error", err)
		return "", &MissingConnection{CredType: credType}
	}
	if result == nil {
		return "", &MissingConnection{CredType: credType}
	}

	switch result.Status {
	case StatusResolved:
		// Cache population is a side effect of provider success only.
		if r.store != nil {
			if err := r.store.Set(ctx, userID, credType, result.CredentialID); err != nil {
				r.logger.Warn("Failed to cache resolved credential",
					"cred_type", credType,
					"error", err)
			}
		}
		r.logger.Debug("Credential resolved from provider", "cred_type", credType)
		return result.CredentialID, nil
	case StatusNeedsAuth:
		return "", &MissingConnection{
			CredType:    credType,
			AuthURL:     result.AuthURL,
			DisplayName: result.DisplayName,
			Provider:    result.Provider,
		}
	default:
		return "", &MissingConnection{CredType: credType}
	}
}

// injectCredentials writes each resolved id into every node occurrence of its
// credential type. Unresolved types keep their original references.
func injectCredentials(g *workflow.Graph, injected map[string]string) {
	for i := range g.Nodes {
		for credType, ref := range g.Nodes[i].Credentials {
			id, ok := injected[credType]
			if !ok {
				continue
			}
			ref.ID = id
			if ref.Name == "" {
				ref.Name = credType
			}
			g.Nodes[i].Credentials[credType] = ref
		}
	}
}
