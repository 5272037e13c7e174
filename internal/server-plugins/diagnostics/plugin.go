package diagnostics

import (
	"context"
	"strings"

	mcpserver "github.com/flowdraft/flowdraft/internal/server"
	serverDomain "github.com/flowdraft/flowdraft/internal/server-plugin/domain"
	"github.com/flowdraft/flowdraft/pkg/logger"
	"github.com/mark3labs/mcp-go/mcp"
)

const recentLogCount = 200

// DiagnosticsServerPlugin exposes the server's own recent logs as an MCP
// resource, redacted before leaving the process.
type DiagnosticsServerPlugin struct {
	buffer *logger.RingBuffer
}

func NewDiagnosticsServerPlugin(buffer *logger.RingBuffer) *DiagnosticsServerPlugin {
	return &DiagnosticsServerPlugin{buffer: buffer}
}

func (p *DiagnosticsServerPlugin) ID() string   { return "diagnostics" }
func (p *DiagnosticsServerPlugin) Name() string { return "Diagnostics" }
func (p *DiagnosticsServerPlugin) Description() string {
	return "Recent server logs for troubleshooting"
}
func (p *DiagnosticsServerPlugin) Version() string      { return "0.1.0" }
func (p *DiagnosticsServerPlugin) RequiresEngine() bool { return false }

// ResourceProvider implementation
func (p *DiagnosticsServerPlugin) GetResources(ctx context.Context) ([]serverDomain.Resource, error) {
	return []serverDomain.Resource{
		{
			URI:         "flowdraft://logs/recent",
			Name:        "Recent Server Logs",
			Description: "The most recent server log lines, with credentials redacted",
			MIMEType:    "text/plain",
			Handler:     p.handleRecentLogs,
		},
	}, nil
}

func (p *DiagnosticsServerPlugin) handleRecentLogs(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	lines := mcpserver.SanitizeLogLines(p.buffer.Last(recentLogCount))

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(lines, "\n"),
		},
	}, nil
}
