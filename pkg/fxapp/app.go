package fxapp

import (
	"log"

	"github.com/flowdraft/flowdraft/internal/catalog"
	"github.com/flowdraft/flowdraft/internal/credential"
	"github.com/flowdraft/flowdraft/internal/draft"
	"github.com/flowdraft/flowdraft/internal/engine"
	"github.com/flowdraft/flowdraft/internal/generation"
	"github.com/flowdraft/flowdraft/internal/llm"
	"github.com/flowdraft/flowdraft/internal/server"
	"github.com/flowdraft/flowdraft/internal/server-plugins/builder"
	"github.com/flowdraft/flowdraft/internal/server-plugins/diagnostics"
	"github.com/flowdraft/flowdraft/internal/server-plugins/engineview"
	"github.com/flowdraft/flowdraft/internal/storage"
	"github.com/flowdraft/flowdraft/pkg/config"
	"github.com/flowdraft/flowdraft/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func New() *fx.App {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Default to a verbose logger for debug level
	var fxLogger fx.Option = fx.WithLogger(
		func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		},
	)

	if cfg.LogLevel != "debug" {
		fxLogger = fx.NopLogger
	}

	return fx.New(
		fxLogger,
		fx.Supply(cfg),
		config.Module,
		logger.Module,
		storage.Module,
		catalog.Module,
		llm.Module,
		engine.Module,
		credential.Module,
		generation.Module,
		draft.Module,
		server.Module,
		builder.Module,
		engineview.Module,
		diagnostics.Module,
	)
}
