package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"latticemcp/internal/app/dispatch"
	"latticemcp/internal/domain"
	"latticemcp/internal/infra/awscli"
	"latticemcp/internal/infra/catalog"
	"latticemcp/internal/infra/server"
	"latticemcp/internal/infra/telemetry"
)

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())
	return registry
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

func NewCatalog(ctx context.Context, logger *zap.Logger) (*catalog.Catalog, error) {
	return catalog.NewLoader(logger).Load(ctx)
}

func NewCLIRunner(cfg Config, metrics domain.Metrics, logger *zap.Logger) *awscli.Runner {
	return awscli.NewRunner(awscli.Options{
		Executable:     cfg.AWS.Executable,
		Service:        cfg.AWS.Service,
		Timeout:        cfg.AWS.Timeout,
		MaxOutputBytes: cfg.AWS.MaxOutputBytes,
		Logger:         logger,
		Metrics:        metrics,
	})
}

func NewDispatcher(reader domain.CatalogReader, runner domain.CLIRunner, logger *zap.Logger) (*dispatch.Dispatcher, error) {
	return dispatch.New(reader, runner, logger)
}

func NewServer(dispatcher server.ToolDispatcher, metrics domain.Metrics, logger *zap.Logger) (*server.Server, error) {
	return server.New(dispatcher, server.Options{
		Name:    domain.ServerName,
		Version: Version,
		Logger:  logger,
		Metrics: metrics,
	})
}
