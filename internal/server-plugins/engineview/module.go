package engineview

import (
	serverDomain "github.com/flowdraft/flowdraft/internal/server-plugin/domain"
	"go.uber.org/fx"
)

// Module provides dependency injection for the engine view plugin
var Module = fx.Module("engineview",
	fx.Provide(
		fx.Annotate(
			NewEngineViewServerPlugin,
			fx.As(new(serverDomain.ServerPlugin)),
			fx.ResultTags(`group:"server_plugins"`),
		),
	),
)
