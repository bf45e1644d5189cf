package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"latticemcp/internal/app/dispatch"
	"latticemcp/internal/domain"
	"latticemcp/internal/infra/catalog"
	"latticemcp/internal/infra/server"
	"latticemcp/internal/infra/telemetry"
)

// Application owns the MCP server and its optional observability listener.
type Application struct {
	cfg        Config
	logger     *zap.Logger
	registry   *prometheus.Registry
	catalog    *catalog.Catalog
	dispatcher *dispatch.Dispatcher
	server     *server.Server
}

// ApplicationOptions captures dependencies and settings for Application.
type ApplicationOptions struct {
	Config     Config
	Logger     *zap.Logger
	Registry   *prometheus.Registry
	Catalog    *catalog.Catalog
	Dispatcher *dispatch.Dispatcher
	Server     *server.Server
}

func NewApplication(opts ApplicationOptions) *Application {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		cfg:        opts.Config,
		logger:     logger.Named("app"),
		registry:   opts.Registry,
		catalog:    opts.Catalog,
		dispatcher: opts.Dispatcher,
		server:     opts.Server,
	}
}

func (a *Application) Catalog() *catalog.Catalog {
	return a.catalog
}

func (a *Application) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

func (a *Application) Server() *server.Server {
	return a.server
}

// Serve runs the configured transport until ctx ends or the client goes away.
// The observability listener, when enabled, stops with it.
func (a *Application) Serve(ctx context.Context) error {
	if a.server == nil {
		return errors.New("server is not initialized")
	}
	a.logger.Info("configuration loaded",
		zap.String("config", a.cfg.ConfigPath),
		telemetry.TransportField(a.cfg.Transport),
		zap.Int("sources", len(a.catalog.Sources())),
		zap.Int("prompts", len(a.catalog.Prompts())),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(runCtx)

	if a.cfg.Observability.ListenAddress != "" {
		group.Go(func() error {
			return telemetry.StartHTTPServer(groupCtx, telemetry.HTTPServerOptions{
				Addr:          a.cfg.Observability.ListenAddress,
				EnableMetrics: a.cfg.Observability.MetricsEnabled,
				EnableHealthz: a.cfg.Observability.HealthzEnabled,
				Health:        a.health,
				Registry:      a.registry,
			}, a.logger)
		})
	}

	group.Go(func() error {
		// Stopping the protocol server stops the observability listener.
		defer cancel()
		switch a.cfg.Transport {
		case domain.TransportStreamableHTTP:
			return a.server.RunStreamableHTTP(groupCtx, a.cfg.HTTP.Addr, a.cfg.HTTP.Path)
		case domain.TransportStdio, "":
			return a.server.Run(groupCtx)
		default:
			return fmt.Errorf("unsupported transport %q", a.cfg.Transport)
		}
	})

	return group.Wait()
}

func (a *Application) health() telemetry.HealthReport {
	return telemetry.HealthReport{
		Status: "ok",
		Details: map[string]any{
			"transport": a.cfg.Transport,
			"sources":   len(a.catalog.Sources()),
			"prompts":   len(a.catalog.Prompts()),
			"tools":     len(a.dispatcher.Tools()),
		},
	}
}
