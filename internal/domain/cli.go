package domain

import (
	"context"
	"encoding/json"
	"time"
)

// CLIInvocation describes one run of the VPC Lattice CLI.
type CLIInvocation struct {
	Command string
	Profile string
	Region  string
	Args    []string
}

// CLIResult is the decoded JSON emitted by a successful CLI run.
type CLIResult struct {
	Output   json.RawMessage
	ExitCode int
	Duration time.Duration
}

// CLIRunner executes VPC Lattice CLI invocations.
type CLIRunner interface {
	Run(ctx context.Context, inv CLIInvocation) (CLIResult, error)
}

// LatticeCommands is the set of vpc-lattice subcommands callers may run.
var LatticeCommands = []string{
	"create-service-network",
	"delete-service-network",
	"get-service-network",
	"list-service-networks",
	"update-service-network",
	"create-service",
	"delete-service",
	"get-service",
	"list-services",
	"update-service",
	"create-listener",
	"delete-listener",
	"get-listener",
	"list-listeners",
	"update-listener",
	"create-rule",
	"delete-rule",
	"get-rule",
	"list-rules",
	"update-rule",
	"create-target-group",
	"delete-target-group",
	"get-target-group",
	"list-target-groups",
	"update-target-group",
	"register-targets",
	"deregister-targets",
	"list-targets",
	"list-tags-for-resource",
	"tag-resource",
	"untag-resource",
}
