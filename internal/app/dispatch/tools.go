package dispatch

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"latticemcp/internal/domain"
)

func closedObject(properties map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

func stringDefault(v string) json.RawMessage {
	raw, _ := json.Marshal(v)
	return raw
}

func latticeCommandEnum() []any {
	out := make([]any, len(domain.LatticeCommands))
	for i, cmd := range domain.LatticeCommands {
		out[i] = cmd
	}
	return out
}

// toolDefinitions returns the descriptors advertised through tools/list, in
// registration order.
func toolDefinitions() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name:        domain.ToolListSources,
			Description: "List all available sources with their URLs and sample prompts",
			InputSchema: closedObject(map[string]*jsonschema.Schema{}),
		},
		{
			Name:        domain.ToolGetSourcePrompts,
			Description: "Get sample prompts for a specific source",
			InputSchema: closedObject(map[string]*jsonschema.Schema{
				"source_name": {
					Type:        "string",
					Description: "Name of the source to get prompts for",
				},
			}, "source_name"),
		},
		{
			Name:        domain.ToolListPrompts,
			Description: "List all available prompt templates",
			InputSchema: closedObject(map[string]*jsonschema.Schema{}),
		},
		{
			Name:        domain.ToolGetPrompt,
			Description: "Get details of a specific prompt template",
			InputSchema: closedObject(map[string]*jsonschema.Schema{
				"prompt_name": {
					Type:        "string",
					Description: "Name of the prompt template to get",
				},
			}, "prompt_name"),
		},
		{
			Name:        domain.ToolLatticeCLI,
			Description: "Execute AWS CLI VPC Lattice commands",
			InputSchema: closedObject(map[string]*jsonschema.Schema{
				"command": {
					Type:        "string",
					Description: "The VPC Lattice subcommand to execute (e.g., create-service-network, list-service-networks)",
					Enum:        latticeCommandEnum(),
				},
				"args": {
					Type:                 "object",
					Description:          "Command arguments as key-value pairs",
					AdditionalProperties: &jsonschema.Schema{},
					Default:              json.RawMessage(`{}`),
				},
				"profile": {
					Type:        "string",
					Description: "AWS CLI profile to use",
					Default:     stringDefault(domain.DefaultProfile),
				},
				"region": {
					Type:        "string",
					Description: "AWS region",
					Default:     stringDefault(domain.DefaultRegion),
				},
			}, "command"),
		},
	}
}
