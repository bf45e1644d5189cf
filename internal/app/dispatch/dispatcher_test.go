package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"latticemcp/internal/domain"
	"latticemcp/internal/infra/catalog"
)

type fakeRunner struct {
	calls  []domain.CLIInvocation
	output json.RawMessage
	err    error
}

func (f *fakeRunner) Run(_ context.Context, inv domain.CLIInvocation) (domain.CLIResult, error) {
	f.calls = append(f.calls, inv)
	if f.err != nil {
		return domain.CLIResult{ExitCode: 1}, f.err
	}
	out := f.output
	if out == nil {
		out = json.RawMessage(`{}`)
	}
	return domain.CLIResult{Output: out}, nil
}

func newTestDispatcher(t *testing.T, runner *fakeRunner) (*Dispatcher, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.NewLoader(zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	d, err := New(cat, runner, zap.NewNop())
	require.NoError(t, err)
	return d, cat
}

func call(t *testing.T, d *Dispatcher, name, args string) (*mcp.CallToolResult, error) {
	t.Helper()
	return d.Call(context.Background(), domain.ToolRequest{Name: name, Arguments: json.RawMessage(args)})
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content must be text")
	return text.Text
}

func requireCode(t *testing.T, err error, want domain.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, want, code)
}

func TestDispatcher_Tools(t *testing.T) {
	d, _ := newTestDispatcher(t, &fakeRunner{})
	tools := d.Tools()
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
		require.NotEmpty(t, tool.Description)
		require.NotNil(t, tool.InputSchema)
	}
	want := []string{
		domain.ToolListSources,
		domain.ToolGetSourcePrompts,
		domain.ToolListPrompts,
		domain.ToolGetPrompt,
		domain.ToolLatticeCLI,
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("tool names mismatch (-want +got):\n%s", diff)
	}
	require.True(t, d.Has(domain.ToolLatticeCLI))
	require.False(t, d.Has("frobnicate"))
}

func TestDispatcher_ListSources(t *testing.T) {
	d, cat := newTestDispatcher(t, &fakeRunner{})
	res, err := call(t, d, domain.ToolListSources, `{}`)
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &entries))
	require.Len(t, entries, len(cat.Sources()))
	for i, entry := range entries {
		require.Len(t, entry, 2, "entry must hold only name and url")
		require.Equal(t, cat.Sources()[i].Name, entry["name"])
		require.Equal(t, cat.Sources()[i].URL, entry["url"])
		require.NotContains(t, entry, "prompts")
	}
	require.Contains(t, resultText(t, res), "\n  {\n    \"name\"", "output must be two-space indented")
}

func TestDispatcher_GetSourcePrompts(t *testing.T) {
	d, cat := newTestDispatcher(t, &fakeRunner{})

	for _, src := range cat.Sources() {
		args, _ := json.Marshal(map[string]string{"source_name": src.Name})
		res, err := call(t, d, domain.ToolGetSourcePrompts, string(args))
		require.NoError(t, err)

		var prompts []string
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &prompts))
		require.Equal(t, src.Prompts, prompts)
	}
}

func TestDispatcher_GetSourcePrompts_Unknown(t *testing.T) {
	d, _ := newTestDispatcher(t, &fakeRunner{})
	_, err := call(t, d, domain.ToolGetSourcePrompts, `{"source_name":"Nope Docs"}`)
	requireCode(t, err, domain.CodeInvalidArgument)
	require.ErrorIs(t, err, domain.ErrSourceNotFound)
	require.Equal(t, "Source not found: Nope Docs", domain.Message(err))
}

func TestDispatcher_ListPrompts(t *testing.T) {
	d, cat := newTestDispatcher(t, &fakeRunner{})
	res, err := call(t, d, domain.ToolListPrompts, ``)
	require.NoError(t, err)

	var entries []domain.PromptSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &entries))
	require.Len(t, entries, len(cat.Prompts()))
	require.Equal(t, domain.PromptSummary{
		Name:        "create_github_pr",
		Description: "Create a GitHub pull request from current branch to main",
	}, entries[0])
	require.NotContains(t, resultText(t, res), "template")
}

func TestDispatcher_GetPrompt(t *testing.T) {
	d, cat := newTestDispatcher(t, &fakeRunner{})
	res, err := call(t, d, domain.ToolGetPrompt, `{"prompt_name":"run_eks_controller_tests"}`)
	require.NoError(t, err)

	var got domain.PromptTemplate
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	want, _ := cat.Prompt("run_eks_controller_tests")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prompt mismatch (-want +got):\n%s", diff)
	}
	require.Contains(t, resultText(t, res), "make e2e-clean && export", "ampersands must not be HTML escaped")

	_, err = call(t, d, domain.ToolGetPrompt, `{"prompt_name":"missing"}`)
	requireCode(t, err, domain.CodeInvalidArgument)
	require.Contains(t, domain.Message(err), "missing")
}

func TestDispatcher_UnknownTool(t *testing.T) {
	runner := &fakeRunner{}
	d, _ := newTestDispatcher(t, runner)
	_, err := call(t, d, "frobnicate", `{}`)
	requireCode(t, err, domain.CodeNotFound)
	require.ErrorIs(t, err, domain.ErrUnknownTool)
	require.Contains(t, domain.Message(err), "frobnicate")
	require.Empty(t, runner.calls)
}

func TestDispatcher_SchemaValidation(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args string
	}{
		{name: "missing source_name", tool: domain.ToolGetSourcePrompts, args: `{}`},
		{name: "source_name wrong type", tool: domain.ToolGetSourcePrompts, args: `{"source_name":5}`},
		{name: "extra property", tool: domain.ToolListSources, args: `{"verbose":true}`},
		{name: "missing prompt_name", tool: domain.ToolGetPrompt, args: `{"name":"generate_docs"}`},
		{name: "command outside enum", tool: domain.ToolLatticeCLI, args: `{"command":"delete-everything"}`},
		{name: "missing command", tool: domain.ToolLatticeCLI, args: `{"args":{}}`},
		{name: "args not object", tool: domain.ToolLatticeCLI, args: `{"command":"list-services","args":["x"]}`},
		{name: "arguments not object", tool: domain.ToolListSources, args: `[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			d, _ := newTestDispatcher(t, runner)
			_, err := call(t, d, tt.tool, tt.args)
			requireCode(t, err, domain.CodeInvalidArgument)
			require.ErrorIs(t, err, domain.ErrInvalidArguments)
			require.Empty(t, runner.calls, "no subprocess may start on invalid input")
		})
	}
}

func TestDispatcher_LatticeCLI_Defaults(t *testing.T) {
	runner := &fakeRunner{output: json.RawMessage(`{"items":[]}`)}
	d, _ := newTestDispatcher(t, runner)

	res, err := call(t, d, domain.ToolLatticeCLI, `{"command":"list-service-networks"}`)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"items\": []\n}", resultText(t, res))

	require.Len(t, runner.calls, 1)
	require.Equal(t, domain.CLIInvocation{
		Command: "list-service-networks",
		Profile: domain.DefaultProfile,
		Region:  domain.DefaultRegion,
		Args:    []string{},
	}, runner.calls[0])
}

func TestDispatcher_LatticeCLI_EncodesArgsInOrder(t *testing.T) {
	runner := &fakeRunner{}
	d, _ := newTestDispatcher(t, runner)

	_, err := call(t, d, domain.ToolLatticeCLI, `{
		"command": "create-service-network",
		"profile": "prod",
		"region": "eu-central-1",
		"args": {"serviceNetwork": "sn-1", "dryRun": true, "tags": ["a", "b"], "enabled": false}
	}`)
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)

	inv := runner.calls[0]
	require.Equal(t, "prod", inv.Profile)
	require.Equal(t, "eu-central-1", inv.Region)
	want := []string{"--service-network", "sn-1", "--dry-run", "--tags", "a,b", "--no-enabled"}
	if diff := cmp.Diff(want, inv.Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatcher_LatticeCLI_MalformedArgShape(t *testing.T) {
	runner := &fakeRunner{}
	d, _ := newTestDispatcher(t, runner)
	_, err := call(t, d, domain.ToolLatticeCLI, `{"command":"list-services","args":{"filter":{"a":1}}}`)
	requireCode(t, err, domain.CodeInvalidArgument)
	require.Empty(t, runner.calls)
}

func TestDispatcher_LatticeCLI_PassesRunnerError(t *testing.T) {
	runErr := domain.E(domain.CodeInternal, "awscli.Run", "AWS CLI command failed: AccessDenied", domain.ErrExecutionFailed)
	d, _ := newTestDispatcher(t, &fakeRunner{err: runErr})

	_, err := call(t, d, domain.ToolLatticeCLI, `{"command":"list-services"}`)
	requireCode(t, err, domain.CodeInternal)
	require.ErrorIs(t, err, domain.ErrExecutionFailed)
	require.Contains(t, domain.Message(err), "AccessDenied")
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(nil, &fakeRunner{}, nil)
	require.Error(t, err)

	cat, err := catalog.NewLoader(nil).Load(context.Background())
	require.NoError(t, err)
	_, err = New(cat, nil, nil)
	require.Error(t, err)
}
