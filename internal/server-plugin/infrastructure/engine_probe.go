package infrastructure

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowdraft/flowdraft/internal/engine"
	"github.com/flowdraft/flowdraft/internal/server-plugin/domain"
)

// engineDiscoveryService implements domain.EngineDiscoveryService against the
// engine's health endpoint.
type engineDiscoveryService struct {
	client engine.Client
	logger *slog.Logger
}

// NewEngineDiscoveryService creates a new engine discovery service.
func NewEngineDiscoveryService(client engine.Client, logger *slog.Logger) domain.EngineDiscoveryService {
	return &engineDiscoveryService{
		client: client,
		logger: logger,
	}
}

// EngineAvailable probes the engine's health endpoint. A failed probe means
// engine-dependent plugins stay inactive until the next sync.
func (s *engineDiscoveryService) EngineAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := s.client.Health(probeCtx); err != nil {
		s.logger.Warn("Engine health probe failed", "error", err)
		return false
	}

	s.logger.Debug("Engine health probe succeeded")
	return true
}
