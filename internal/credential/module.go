package credential

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/flowdraft/flowdraft/pkg/config"
)

// NewStore picks the Redis-backed store when a client is available and falls
// back to the in-memory store otherwise.
func NewStore(client *redis.Client) Store {
	if client != nil {
		return NewRedisStore(client)
	}
	return NewMemoryStore()
}

func newResolver(store Store, cfg *config.ServerConfig, logger *slog.Logger) *Resolver {
	// No external integration provider is wired by default; the chain then
	// falls through store and static config only.
	return NewResolver(store, nil, cfg.Credentials, logger)
}

var Module = fx.Module("credential",
	fx.Provide(
		NewStore,
		newResolver,
	),
)
