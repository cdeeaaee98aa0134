// Package mcpserver exposes the pen operations as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaurav-prasanna/penpipe/core"
	"github.com/gaurav-prasanna/penpipe/core/pen"
)

const (
	// Name and Version identify the server to MCP clients.
	Name    = "codepen-mcp"
	Version = "1.0.0"

	tracerName = "github.com/gaurav-prasanna/penpipe/mcpserver"

	instructions = "Ingest and inspect CodePen pens via oEmbed and pen page parsing. " +
		"Every tool takes a pen URL (https://codepen.io/<user>/pen/<slug>) or a slug (<user>/pen/<slug>). " +
		"Use get_pen_metadata or get_pen_embed_html when metadata or an embed snippet is enough; " +
		"use get_pen when you need the source code."
)

// PenClient is the set of pen operations the tools call.
type PenClient interface {
	Metadata(ctx context.Context, ref string) (*pen.Metadata, error)
	Embed(ctx context.Context, ref string, height *int) (*pen.Embed, error)
	Pen(ctx context.Context, ref string) (*core.Pen, error)
}

// Server is the MCP tool server.
type Server struct {
	pens   PenClient
	logger *slog.Logger
	tracer trace.Tracer
	mcp    *server.MCPServer

	handlers map[string]server.ToolHandlerFunc
}

// New creates a Server with the three pen tools registered.
// A nil logger discards log output.
func New(pens PenClient, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		pens:   pens,
		logger: logger,
		tracer: otel.Tracer(tracerName),

		handlers: make(map[string]server.ToolHandlerFunc),
		mcp: server.NewMCPServer(
			Name,
			Version,
			server.WithToolCapabilities(false),
			server.WithInstructions(instructions),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve speaks MCP over in and out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.Info("mcp server listening on stdio", "name", Name, "version", Version)
	return stdio.Listen(ctx, in, out)
}

// Call runs the named tool in-process, as a client call would, and returns
// its result. The CLI uses it so its output matches the tools exactly.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return handler(ctx, req)
}

func (s *Server) addTool(tool mcp.Tool, fn toolFunc) {
	handler := s.instrument(tool.Name, fn)
	s.handlers[tool.Name] = handler
	s.mcp.AddTool(tool, handler)
}
