package llm

import (
	"github.com/flowdraft/flowdraft/pkg/config"
	"go.uber.org/fx"
)

func NewClientFromConfig(cfg config.LLMConfig) (Client, error) {
	return NewAnthropicClient(AnthropicConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
}

var Module = fx.Module("llm",
	fx.Provide(NewClientFromConfig),
)
