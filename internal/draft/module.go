package draft

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/flowdraft/flowdraft/internal/credential"
	"github.com/flowdraft/flowdraft/internal/generation"
	"github.com/flowdraft/flowdraft/internal/llm"
	"github.com/flowdraft/flowdraft/pkg/config"
)

// NewStore picks the Redis-backed store when a client is available and falls
// back to the in-memory store otherwise.
func NewStore(client *redis.Client, cfg *config.ServerConfig) Store {
	if client != nil {
		return NewRedisStore(client, cfg.Draft.TTL)
	}
	return NewMemoryStore()
}

func newClassifier(client llm.Client) Classifier {
	return NewLLMClassifier(client)
}

func newLifecycle(
	pipeline *generation.Pipeline,
	resolver *credential.Resolver,
	classifier Classifier,
	store Store,
	deployer Deployer,
	cfg *config.ServerConfig,
	logger *slog.Logger,
) *Lifecycle {
	return NewLifecycle(pipeline, resolver, classifier, store, deployer, cfg.Draft.TTL, logger)
}

var Module = fx.Module("draft",
	fx.Provide(
		NewStore,
		newClassifier,
		newLifecycle,
	),
)
