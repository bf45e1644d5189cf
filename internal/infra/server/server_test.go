package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"latticemcp/internal/domain"
	"latticemcp/internal/infra/mcpcodec"
)

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []domain.ToolRequest
}

func (f *fakeDispatcher) Tools() []*mcp.Tool {
	return []*mcp.Tool{
		{Name: "echo", Description: "echo arguments", InputSchema: map[string]any{"type": "object"}},
		{Name: "fail", Description: "always fails", InputSchema: map[string]any{"type": "object"}},
	}
}

func (f *fakeDispatcher) Has(name string) bool {
	return name == "echo" || name == "fail"
}

func (f *fakeDispatcher) Call(_ context.Context, req domain.ToolRequest) (*mcp.CallToolResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if req.Name == "fail" {
		return nil, domain.E(domain.CodeInvalidArgument, "fake.Call", "Source not found: nowhere", domain.ErrSourceNotFound)
	}
	return mcpcodec.TextResult(string(req.Arguments)), nil
}

type recordingMetrics struct {
	mu    sync.Mutex
	tools []domain.ToolCallMetric
}

func (r *recordingMetrics) ObserveToolCall(metric domain.ToolCallMetric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = append(r.tools, metric)
}

func (r *recordingMetrics) ObserveCLI(domain.CLIMetric) {}

func (r *recordingMetrics) snapshot() []domain.ToolCallMetric {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ToolCallMetric(nil), r.tools...)
}

func connectClient(t *testing.T, ctx context.Context, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ct, st := mcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func newTestServer(t *testing.T) (*Server, *fakeDispatcher, *recordingMetrics, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := &fakeDispatcher{}
	metrics := &recordingMetrics{}
	srv, err := New(dispatcher, Options{Logger: zap.New(core), Metrics: metrics})
	require.NoError(t, err)
	return srv, dispatcher, metrics, logs
}

func TestServer_ListTools(t *testing.T) {
	ctx := context.Background()
	srv, _, _, _ := newTestServer(t)
	session := connectClient(t, ctx, srv.MCPServer())

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, res.Tools, 2)
	require.Equal(t, "echo", res.Tools[0].Name)
}

func TestServer_CallToolForwardsArguments(t *testing.T) {
	ctx := context.Background()
	srv, dispatcher, metrics, _ := newTestServer(t)
	session := connectClient(t, ctx, srv.MCPServer())

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"source_name": "AWS Documentation"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.JSONEq(t, `{"source_name":"AWS Documentation"}`, text.Text)

	require.Len(t, dispatcher.calls, 1)
	require.Equal(t, "echo", dispatcher.calls[0].Name)

	observed := metrics.snapshot()
	require.Len(t, observed, 1)
	require.Equal(t, "echo", observed[0].Tool)
	require.Equal(t, domain.CallStatusSuccess, observed[0].Status)
}

func TestServer_UnknownToolIsMethodNotFound(t *testing.T) {
	ctx := context.Background()
	srv, dispatcher, metrics, logs := newTestServer(t)
	session := connectClient(t, ctx, srv.MCPServer())

	_, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "frobnicate", Arguments: map[string]any{}})
	require.Error(t, err)

	var wireErr *jsonrpc.Error
	require.True(t, errors.As(err, &wireErr), "expected a JSON-RPC error, got %v", err)
	require.Equal(t, int64(domain.ErrCodeMethodNotFound), wireErr.Code)
	require.Contains(t, wireErr.Message, "frobnicate")
	require.Empty(t, dispatcher.calls)

	observed := metrics.snapshot()
	require.Len(t, observed, 1)
	require.Equal(t, domain.CodeNotFound, observed[0].Code)
	require.Equal(t, 1, logs.FilterMessage("unknown tool").Len())
}

func TestServer_DomainErrorMapsToInvalidParams(t *testing.T) {
	ctx := context.Background()
	srv, _, metrics, logs := newTestServer(t)
	session := connectClient(t, ctx, srv.MCPServer())

	_, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "fail", Arguments: map[string]any{}})
	require.Error(t, err)

	var wireErr *jsonrpc.Error
	require.True(t, errors.As(err, &wireErr), "expected a JSON-RPC error, got %v", err)
	require.Equal(t, int64(domain.ErrCodeInvalidParams), wireErr.Code)
	require.Equal(t, "Source not found: nowhere", wireErr.Message)

	observed := metrics.snapshot()
	require.Len(t, observed, 1)
	require.Equal(t, domain.CallStatusError, observed[0].Status)
	require.Equal(t, domain.CodeInvalidArgument, observed[0].Code)

	entries := logs.FilterMessage("tool call failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, "fail", entries[0].ContextMap()["tool"])
	require.NotEmpty(t, entries[0].ContextMap()["request_id"])
}

func TestServer_StreamableHTTP(t *testing.T) {
	ctx := context.Background()
	srv, _, _, _ := newTestServer(t)

	httpServer := httptest.NewServer(srv.Handler())
	t.Cleanup(httpServer.Close)

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: httpServer.URL}, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, res.Tools, 2)
}

func TestServer_RunStreamableHTTPStopsOnCancel(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- srv.RunStreamableHTTP(ctx, "127.0.0.1:0", "/mcp")
	}()
	cancel()
	require.NoError(t, <-done)
}

func TestNew_RequiresDispatcher(t *testing.T) {
	_, err := New(nil, Options{})
	require.Error(t, err)
}
