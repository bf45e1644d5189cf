package server

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"latticemcp/internal/domain"
	"latticemcp/internal/infra/mcpcodec"
	"latticemcp/internal/infra/telemetry"
)

const methodCallTool = "tools/call"

// toolCallMiddleware answers unknown tool names with MethodNotFound, tags each
// call with a request id, and converts handler errors to JSON-RPC errors after
// logging and recording them.
func (s *Server) toolCallMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != methodCallTool {
				return next(ctx, method, req)
			}
			name := toolName(req)
			ctx, _ = telemetry.EnsureRequestMeta(ctx, "", name)
			logger := telemetry.LoggerWithRequest(ctx, s.logger)

			if !s.dispatcher.Has(name) {
				logger.Warn("unknown tool", telemetry.EventField(telemetry.EventUnknownTool))
				s.metrics.ObserveToolCall(domain.ToolCallMetric{
					Tool:   name,
					Status: domain.CallStatusError,
					Code:   domain.CodeNotFound,
				})
				return nil, mcpcodec.MethodNotFound(name)
			}

			start := time.Now()
			res, err := next(ctx, method, req)
			duration := time.Since(start)

			if err != nil {
				code, ok := domain.CodeFrom(err)
				if !ok {
					code = domain.CodeInternal
				}
				logger.Warn("tool call failed",
					telemetry.EventField(telemetry.EventToolError),
					telemetry.ErrorCodeField(string(code)),
					telemetry.DurationField(duration),
					zap.Error(err),
				)
				s.metrics.ObserveToolCall(domain.ToolCallMetric{
					Tool:     name,
					Status:   domain.CallStatusError,
					Code:     code,
					Duration: duration,
				})
				return nil, mcpcodec.ToWireError(err)
			}

			logger.Debug("tool call",
				telemetry.EventField(telemetry.EventToolCall),
				telemetry.DurationField(duration),
			)
			s.metrics.ObserveToolCall(domain.ToolCallMetric{
				Tool:     name,
				Status:   domain.CallStatusSuccess,
				Duration: duration,
			})
			return res, nil
		}
	}
}

func toolName(req mcp.Request) string {
	call, ok := req.(*mcp.CallToolRequest)
	if !ok || call == nil || call.Params == nil {
		return ""
	}
	return call.Params.Name
}
