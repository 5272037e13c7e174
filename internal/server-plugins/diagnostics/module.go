package diagnostics

import (
	serverDomain "github.com/flowdraft/flowdraft/internal/server-plugin/domain"
	"go.uber.org/fx"
)

// Module provides dependency injection for the diagnostics plugin
var Module = fx.Module("diagnostics",
	fx.Provide(
		fx.Annotate(
			NewDiagnosticsServerPlugin,
			fx.As(new(serverDomain.ServerPlugin)),
			fx.ResultTags(`group:"server_plugins"`),
		),
	),
)
