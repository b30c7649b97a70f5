/*
Package service assembles the MCP server: it registers the tool surface for
the enabled tiers, wraps every handler with invocation logging and serves
the result over stdio.
*/
package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/flyinglimao/mcp-server-memos/pkg/config"
	"github.com/flyinglimao/mcp-server-memos/pkg/metrics"
	"github.com/flyinglimao/mcp-server-memos/pkg/registry"
	"github.com/flyinglimao/mcp-server-memos/pkg/tools"
)

type Server struct {
	mcp     *server.MCPServer
	toolbox *tools.Toolbox
	tiers   tools.Tiers
	count   int
	metrics *metrics.Invocations
}

/*
NewServer builds the MCP server for cfg. Toolbox options derived from cfg are
applied first, so opts can override them.
*/
func NewServer(
	cfg config.Config, store registry.Store, tiers tools.Tiers, opts ...tools.ToolboxOption,
) *Server {
	invocations := metrics.NewInvocations()

	srv := server.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(instrument(invocations)),
	)

	toolbox := tools.NewToolbox(store, append([]tools.ToolboxOption{
		tools.WithHTTPTimeout(cfg.HTTP.Timeout),
		tools.WithConcurrentFanOut(cfg.FanOut.Concurrent),
		tools.WithTagPageSize(cfg.Tags.PageSize),
	}, opts...)...)

	return &Server{
		mcp:     srv,
		toolbox: toolbox,
		tiers:   tiers,
		count:   tools.Register(srv, toolbox, tiers),
		metrics: invocations,
	}
}

// MCP exposes the underlying server, e.g. to drive it with HandleMessage.
func (srv *Server) MCP() *server.MCPServer {
	return srv.mcp
}

// ToolCount is the number of tools registered for the enabled tiers.
func (srv *Server) ToolCount() int {
	return srv.count
}

// Metrics returns the per-tool call counters.
func (srv *Server) Metrics() *metrics.Invocations {
	return srv.metrics
}

/*
ServeStdio blocks serving JSON-RPC on stdin/stdout until the input closes,
then logs a per-tool summary.
*/
func (srv *Server) ServeStdio() error {
	log.Info("serving on stdio", "tools", srv.count, "user", srv.tiers.User, "admin", srv.tiers.Admin)
	defer srv.logSummary()

	return server.ServeStdio(
		srv.mcp,
		server.WithErrorLogger(log.Default().StandardLog(log.StandardLogOptions{
			ForceLevel: log.ErrorLevel,
		})),
	)
}

func (srv *Server) logSummary() {
	for _, stats := range srv.metrics.Snapshot() {
		log.Info("tool summary",
			"tool", stats.Tool,
			"calls", stats.Calls,
			"failures", stats.Failures,
			"faults", stats.Faults,
			"avg", stats.Average(),
		)
	}
}

/*
instrument logs one line per tool call and counts it in invocations.
Arguments are not logged since connect_instance carries an API key.
*/
func instrument(invocations *metrics.Invocations) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var (
				id    = uuid.NewString()
				start = time.Now()
				name  = req.Params.Name
			)

			log.Debug("tool call started", "id", id, "tool", name)

			result, err := next(ctx, req)

			elapsed := time.Since(start)
			fields := []any{"id", id, "tool", name, "duration", elapsed}

			switch {
			case err != nil:
				invocations.Record(name, metrics.Faulted, elapsed)
				log.Error("tool call faulted", append(fields, "error", err)...)
			case result != nil && result.IsError:
				invocations.Record(name, metrics.Failed, elapsed)
				log.Warn("tool call failed", fields...)
			default:
				invocations.Record(name, metrics.Succeeded, elapsed)
				log.Info("tool call", fields...)
			}

			return result, err
		}
	}
}
