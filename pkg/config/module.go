package config

import "go.uber.org/fx"

// The full ServerConfig is supplied by the application entrypoint.
var Module = fx.Module("config",
	// Provides specific, smaller configs for consumers
	fx.Provide(func(cfg *ServerConfig) TransportConfig { return cfg.Transport }),
	fx.Provide(func(cfg *ServerConfig) LLMConfig { return cfg.LLM }),
	fx.Provide(func(cfg *ServerConfig) EngineConfig { return cfg.Engine }),
	fx.Provide(func(cfg *ServerConfig) DraftConfig { return cfg.Draft }),
)
