package engine

import (
	"go.uber.org/fx"

	"github.com/flowdraft/flowdraft/pkg/config"
)

func newClient(cfg *config.ServerConfig) Client {
	return NewHTTPClient(cfg.Engine.BaseURL, cfg.Engine.APIKey, cfg.Engine.Timeout)
}

var Module = fx.Module("engine",
	fx.Provide(newClient),
)
