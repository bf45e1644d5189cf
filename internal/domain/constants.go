package domain

import "time"

const (
	ServerName    = "amazon-vpc-lattice-mcp"
	ServerVersion = "0.1.0"

	DefaultProfile        = "default"
	DefaultRegion         = "us-east-1"
	DefaultCLIExecutable  = "aws"
	DefaultCLIService     = "vpc-lattice"
	DefaultCLITimeout     = 5 * time.Minute
	DefaultMaxOutputBytes = 16 * 1024 * 1024

	DefaultTransport     = TransportStdio
	DefaultHTTPAddr      = "127.0.0.1:8090"
	DefaultHTTPPath      = "/mcp"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultEnvPrefix     = "VPC_LATTICE_MCP"
	DefaultShutdownGrace = 5 * time.Second
)

// Tool names served by the dispatcher.
const (
	ToolListSources      = "list_sources"
	ToolGetSourcePrompts = "get_source_prompts"
	ToolListPrompts      = "list_amazon_vpc_lattice_prompts"
	ToolGetPrompt        = "get_amazon_vpc_lattice_prompts"
	ToolLatticeCLI       = "vpc_lattice_cli"
)

// Transports the MCP server can listen on.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable_http"
)
