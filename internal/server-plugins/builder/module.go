package builder

import (
	"github.com/flowdraft/flowdraft/internal/draft"
	serverDomain "github.com/flowdraft/flowdraft/internal/server-plugin/domain"
	"go.uber.org/fx"
)

// Module provides dependency injection for the builder plugin
var Module = fx.Module("builder",
	fx.Provide(
		fx.Annotate(
			NewEngineDeployer,
			fx.As(new(draft.Deployer)),
		),
		fx.Annotate(
			NewBuilderServerPlugin,
			fx.As(new(serverDomain.ServerPlugin)),
			fx.ResultTags(`group:"server_plugins"`),
		),
	),
)
