// Package dispatch routes named tool calls to catalog lookups or to the AWS CLI.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"latticemcp/internal/domain"
)

const opCall = "dispatch.Call"

type handlerFunc func(ctx context.Context, in input) (*mcp.CallToolResult, error)

// input is a validated argument object with schema defaults applied. raw keeps
// the request bytes for fields whose key order matters.
type input struct {
	values map[string]any
	raw    json.RawMessage
}

func (in input) str(key string) string {
	s, _ := in.values[key].(string)
	return s
}

type route struct {
	tool    *mcp.Tool
	schema  *jsonschema.Resolved
	handler handlerFunc
}

type Dispatcher struct {
	catalog domain.CatalogReader
	runner  domain.CLIRunner
	logger  *zap.Logger
	order   []string
	routes  map[string]route
}

func New(catalog domain.CatalogReader, runner domain.CLIRunner, logger *zap.Logger) (*Dispatcher, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("cli runner is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		catalog: catalog,
		runner:  runner,
		logger:  logger.Named("dispatch"),
		routes:  make(map[string]route),
	}
	handlers := map[string]handlerFunc{
		domain.ToolListSources:      d.listSources,
		domain.ToolGetSourcePrompts: d.getSourcePrompts,
		domain.ToolListPrompts:      d.listPrompts,
		domain.ToolGetPrompt:        d.getPrompt,
		domain.ToolLatticeCLI:       d.latticeCLI,
	}
	for _, tool := range toolDefinitions() {
		schema, ok := tool.InputSchema.(*jsonschema.Schema)
		if !ok {
			return nil, fmt.Errorf("tool %s: input schema must be a *jsonschema.Schema", tool.Name)
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("tool %s: resolve input schema: %w", tool.Name, err)
		}
		handler, ok := handlers[tool.Name]
		if !ok {
			return nil, fmt.Errorf("tool %s: no handler", tool.Name)
		}
		d.routes[tool.Name] = route{tool: tool, schema: resolved, handler: handler}
		d.order = append(d.order, tool.Name)
	}
	return d, nil
}

// Tools returns the tool descriptors in registration order.
func (d *Dispatcher) Tools() []*mcp.Tool {
	out := make([]*mcp.Tool, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.routes[name].tool)
	}
	return out
}

// Has reports whether name is a served tool.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.routes[name]
	return ok
}

// Call validates req against the tool's input schema and runs its handler.
// Every successful result holds exactly one text content item.
func (d *Dispatcher) Call(ctx context.Context, req domain.ToolRequest) (*mcp.CallToolResult, error) {
	r, ok := d.routes[req.Name]
	if !ok {
		return nil, domain.E(domain.CodeNotFound, opCall,
			fmt.Sprintf("Unknown tool: %s", req.Name), domain.ErrUnknownTool)
	}
	in, err := decodeInput(r.schema, req.Arguments)
	if err != nil {
		return nil, err
	}
	return r.handler(ctx, in)
}

func decodeInput(schema *jsonschema.Resolved, raw json.RawMessage) (input, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	values := map[string]any{}
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return input{}, invalidParams("arguments must be a JSON object: %s", err.Error())
	}
	if err := schema.ApplyDefaults(&values); err != nil {
		return input{}, invalidParams("apply defaults: %s", err.Error())
	}
	if err := schema.Validate(values); err != nil {
		return input{}, invalidParams("%s", err.Error())
	}
	return input{values: values, raw: trimmed}, nil
}

func invalidParams(format string, args ...any) error {
	return domain.E(domain.CodeInvalidArgument, opCall,
		"Invalid arguments: "+fmt.Sprintf(format, args...), domain.ErrInvalidArguments)
}
