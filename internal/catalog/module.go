package catalog

import (
	"github.com/flowdraft/flowdraft/pkg/config"
	"go.uber.org/fx"
)

func NewFromConfig(cfg *config.ServerConfig) (*Catalog, error) {
	return Load(cfg.Catalog.Dir)
}

var Module = fx.Module("catalog",
	fx.Provide(NewFromConfig),
)
