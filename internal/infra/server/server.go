// Package server exposes the tool dispatcher as an MCP server over stdio or
// streamable HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"latticemcp/internal/domain"
	"latticemcp/internal/infra/telemetry"
)

// ToolDispatcher resolves and runs tool calls.
type ToolDispatcher interface {
	Tools() []*mcp.Tool
	Has(name string) bool
	Call(ctx context.Context, req domain.ToolRequest) (*mcp.CallToolResult, error)
}

type Options struct {
	Name    string
	Version string
	Logger  *zap.Logger
	Metrics domain.Metrics
}

type Server struct {
	dispatcher ToolDispatcher
	logger     *zap.Logger
	metrics    domain.Metrics
	server     *mcp.Server
}

func New(dispatcher ToolDispatcher, opts Options) (*Server, error) {
	if dispatcher == nil {
		return nil, errors.New("tool dispatcher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = domain.NoopMetrics{}
	}
	name := opts.Name
	if name == "" {
		name = domain.ServerName
	}
	version := opts.Version
	if version == "" {
		version = domain.ServerVersion
	}

	s := &Server{
		dispatcher: dispatcher,
		logger:     logger.Named("server"),
		metrics:    metrics,
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, &mcp.ServerOptions{
		HasTools: true,
	})
	s.server.AddReceivingMiddleware(s.toolCallMiddleware())

	for _, tool := range dispatcher.Tools() {
		s.server.AddTool(tool, s.toolHandler(tool.Name))
	}
	return s, nil
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// Run serves a single client over stdin/stdout until the client disconnects
// or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Amazon VPC Lattice MCP server running on stdio",
		telemetry.EventField(telemetry.EventServerStart),
		telemetry.TransportField(domain.TransportStdio),
	)
	err := s.server.Run(ctx, &mcp.StdioTransport{})
	s.logger.Info("server stopped", telemetry.EventField(telemetry.EventServerStop))
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// Handler returns the streamable HTTP handler bound to this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunStreamableHTTP serves the streamable HTTP transport on addr at path until
// ctx ends. Listen errors are returned immediately.
func (s *Server) RunStreamableHTTP(ctx context.Context, addr, path string) error {
	if addr == "" {
		return errors.New("http address is required")
	}
	if path == "" {
		path = domain.DefaultHTTPPath
	}

	mux := http.NewServeMux()
	mux.Handle(path, s.Handler())

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	httpServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Amazon VPC Lattice MCP server running on streamable HTTP",
			telemetry.EventField(telemetry.EventServerStart),
			telemetry.TransportField(domain.TransportStreamableHTTP),
			zap.String("addr", listener.Addr().String()),
			zap.String("path", path),
		)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), domain.DefaultShutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		s.logger.Info("server stopped", telemetry.EventField(telemetry.EventServerStop))
		return nil
	}
}

func (s *Server) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args []byte
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		return s.dispatcher.Call(ctx, domain.ToolRequest{Name: name, Arguments: args})
	}
}
