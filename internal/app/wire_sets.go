//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"latticemcp/internal/app/dispatch"
	"latticemcp/internal/domain"
	"latticemcp/internal/infra/awscli"
	"latticemcp/internal/infra/catalog"
	"latticemcp/internal/infra/server"
)

var TelemetrySet = wire.NewSet(
	NewMetricsRegistry,
	NewMetrics,
)

var ToolSet = wire.NewSet(
	NewCatalog,
	wire.Bind(new(domain.CatalogReader), new(*catalog.Catalog)),
	NewCLIRunner,
	wire.Bind(new(domain.CLIRunner), new(*awscli.Runner)),
	NewDispatcher,
	wire.Bind(new(server.ToolDispatcher), new(*dispatch.Dispatcher)),
	NewServer,
)

var AppSet = wire.NewSet(
	TelemetrySet,
	ToolSet,
	wire.Struct(new(ApplicationOptions), "*"),
	NewApplication,
)
