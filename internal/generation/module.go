package generation

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/flowdraft/flowdraft/internal/catalog"
	"github.com/flowdraft/flowdraft/internal/llm"
	"github.com/flowdraft/flowdraft/pkg/config"
)

func newPipeline(client llm.Client, cat *catalog.Catalog, cfg *config.ServerConfig, logger *slog.Logger) *Pipeline {
	return NewPipeline(client, cat, cfg.Catalog.SearchLimit, logger)
}

var Module = fx.Module("generation",
	fx.Provide(newPipeline),
)
