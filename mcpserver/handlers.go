package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaurav-prasanna/penpipe/core"
	"github.com/gaurav-prasanna/penpipe/telemetry"
)

// toolFunc returns the payload of a successful call or the error to report.
type toolFunc func(ctx context.Context, req mcp.CallToolRequest) (any, error)

// instrument turns fn into an mcp-go handler. Failures become an error
// result with the text "Error: <message>"; the Go error is always nil so the
// caller receives a result envelope either way.
func (s *Server) instrument(name string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if req.Params.Meta != nil {
			ctx = telemetry.ExtractMeta(ctx, req.Params.Meta.AdditionalFields)
		}
		ctx, span := s.tracer.Start(ctx, "tool."+name,
			trace.WithAttributes(attribute.String("mcp.tool_name", name)))
		defer span.End()

		start := time.Now()
		payload, err := fn(ctx, req)

		var text string
		if err == nil {
			text, err = marshalResult(payload)
		}

		logger := s.logger.With("tool", name, "duration", time.Since(start))
		var result *mcp.CallToolResult
		if err != nil {
			text = "Error: " + err.Error()
			result = mcp.NewToolResultError(text)
			span.RecordError(err)
			span.SetStatus(codes.Error, core.KindOf(err))
			logger.Warn("tool call failed", "kind", core.KindOf(err), "error", err)
		} else {
			result = mcp.NewToolResultText(text)
			logger.Info("tool call succeeded", "bytes", len(text))
		}

		span.SetAttributes(
			attribute.Bool("tool.is_error", err != nil),
			attribute.Int("tool.result_length", len(text)),
		)
		return result, nil
	}
}

func (s *Server) handleGetPenMetadata(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	ref, err := req.RequireString("pen_url")
	if err != nil {
		return nil, err
	}
	return s.pens.Metadata(ctx, ref)
}

func (s *Server) handleGetPen(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	ref, err := req.RequireString("pen_url")
	if err != nil {
		return nil, err
	}
	return s.pens.Pen(ctx, ref)
}

func (s *Server) handleGetPenEmbedHTML(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	ref, err := req.RequireString("pen_url")
	if err != nil {
		return nil, err
	}
	height, err := heightArg(req)
	if err != nil {
		return nil, err
	}
	return s.pens.Embed(ctx, ref, height)
}

// heightArg reads the optional height argument. JSON numbers arrive as
// float64; only whole, positive values are accepted.
func heightArg(req mcp.CallToolRequest) (*int, error) {
	v, ok := req.GetArguments()["height"]
	if !ok || v == nil {
		return nil, nil
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	default:
		return nil, fmt.Errorf("height must be a number, got %T", v)
	}
	if f != math.Trunc(f) || f <= 0 || f > math.MaxInt32 {
		return nil, fmt.Errorf("height must be a positive integer, got %v", v)
	}
	h := int(f)
	return &h, nil
}

// marshalResult encodes v with two-space indentation, leaving markup such as
// embed HTML unescaped.
func marshalResult(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
