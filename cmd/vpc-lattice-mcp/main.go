package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"latticemcp/internal/app"
	"latticemcp/internal/domain"
)

type rootOptions struct {
	configPath string
	logger     *zap.Logger
	config     app.Config
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "vpc-lattice-mcp",
		Short:         "MCP server for Amazon VPC Lattice",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(app.LoadOptions{
				ConfigPath: opts.configPath,
				Flags:      cmd.Flags(),
			})
			if err != nil {
				return err
			}
			logger, err := app.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			opts.config = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	bindFlags(root.PersistentFlags(), opts)

	root.AddCommand(
		newServeCmd(opts),
		newToolsCmd(opts),
		newCatalogCmd(opts),
		newVersionCmd(),
	)
	return root
}

func bindFlags(flags *pflag.FlagSet, opts *rootOptions) {
	flags.StringVar(&opts.configPath, "config", "", "path to an optional YAML config file")
	flags.String("transport", domain.DefaultTransport, "MCP transport (stdio or streamable_http)")
	flags.String("http-addr", domain.DefaultHTTPAddr, "listen address for the streamable_http transport")
	flags.String("http-path", domain.DefaultHTTPPath, "endpoint path for the streamable_http transport")
	flags.String("aws-executable", domain.DefaultCLIExecutable, "AWS CLI executable")
	flags.String("aws-service", domain.DefaultCLIService, "AWS CLI service subcommand")
	flags.Duration("aws-timeout", domain.DefaultCLITimeout, "timeout for a single AWS CLI run (0 disables)")
	flags.Int("max-output-bytes", domain.DefaultMaxOutputBytes, "cap on captured AWS CLI output per stream (0 disables)")
	flags.String("log-level", domain.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", domain.DefaultLogFormat, "log encoding (json or console)")
	flags.String("observability-addr", "", "listen address for /metrics and /healthz (empty disables)")
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	ctx, cancel := signalAwareContext(cmd.Context())
	defer cancel()

	return app.New(opts.logger).Serve(ctx, opts.config)
}

func newToolsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool descriptors as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.New(opts.logger).WriteTools(cmd.Context(), opts.config, cmd.OutOrStdout())
		},
	}
}

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the embedded source and prompt catalogs as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.New(opts.logger).WriteCatalog(cmd.Context(), opts.config, cmd.OutOrStdout())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", domain.ServerName, app.Version, app.Build)
		},
	}
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
