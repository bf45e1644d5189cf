package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"latticemcp/internal/domain"
	"latticemcp/internal/infra/cliargs"
	"latticemcp/internal/infra/mcpcodec"
	"latticemcp/internal/infra/telemetry"
)

func (d *Dispatcher) listSources(_ context.Context, _ input) (*mcp.CallToolResult, error) {
	sources := d.catalog.Sources()
	out := make([]domain.SourceSummary, 0, len(sources))
	for _, src := range sources {
		out = append(out, domain.SourceSummary{Name: src.Name, URL: src.URL})
	}
	return mcpcodec.JSONResult(out)
}

func (d *Dispatcher) getSourcePrompts(_ context.Context, in input) (*mcp.CallToolResult, error) {
	name := in.str("source_name")
	src, ok := d.catalog.Source(name)
	if !ok {
		return nil, domain.E(domain.CodeInvalidArgument, "dispatch.getSourcePrompts",
			fmt.Sprintf("Source not found: %s", name), domain.ErrSourceNotFound)
	}
	return mcpcodec.JSONResult(src.Prompts)
}

func (d *Dispatcher) listPrompts(_ context.Context, _ input) (*mcp.CallToolResult, error) {
	prompts := d.catalog.Prompts()
	out := make([]domain.PromptSummary, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, domain.PromptSummary{Name: p.Name, Description: p.Description})
	}
	return mcpcodec.JSONResult(out)
}

func (d *Dispatcher) getPrompt(_ context.Context, in input) (*mcp.CallToolResult, error) {
	name := in.str("prompt_name")
	p, ok := d.catalog.Prompt(name)
	if !ok {
		return nil, domain.E(domain.CodeInvalidArgument, "dispatch.getPrompt",
			fmt.Sprintf("Prompt template not found: %s", name), domain.ErrPromptNotFound)
	}
	return mcpcodec.JSONResult(p)
}

func (d *Dispatcher) latticeCLI(ctx context.Context, in input) (*mcp.CallToolResult, error) {
	var fields struct {
		Args json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(in.raw, &fields); err != nil {
		return nil, invalidParams("%s", err.Error())
	}
	args, err := cliargs.Decode(fields.Args)
	if err != nil {
		return nil, err
	}

	inv := domain.CLIInvocation{
		Command: in.str("command"),
		Profile: in.str("profile"),
		Region:  in.str("region"),
		Args:    cliargs.Encode(args),
	}
	telemetry.LoggerWithRequest(ctx, d.logger).Debug("running aws cli",
		telemetry.CommandField(inv.Command),
		zap.Int("flags", len(args)),
	)
	res, err := d.runner.Run(ctx, inv)
	if err != nil {
		return nil, err
	}
	text, err := mcpcodec.IndentRaw(res.Output)
	if err != nil {
		return nil, domain.E(domain.CodeInternal, "dispatch.latticeCLI",
			fmt.Sprintf("Failed to parse AWS CLI output: %s", err.Error()), domain.ErrMalformedOutput)
	}
	return mcpcodec.TextResult(text), nil
}
