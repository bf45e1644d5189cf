package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"latticemcp/internal/domain"
)

// Config is the resolved server configuration.
type Config struct {
	ConfigPath    string
	Transport     string
	HTTP          HTTPConfig
	AWS           AWSConfig
	Log           LogConfig
	Observability ObservabilityConfig
}

type HTTPConfig struct {
	Addr string
	Path string
}

type AWSConfig struct {
	Executable     string
	Service        string
	Timeout        time.Duration
	MaxOutputBytes int
}

type LogConfig struct {
	Level  string
	Format string
}

// ObservabilityConfig controls the /metrics and /healthz listener. An empty
// ListenAddress disables it.
type ObservabilityConfig struct {
	ListenAddress  string
	MetricsEnabled bool
	HealthzEnabled bool
}

// LoadOptions selects the sources LoadConfig reads.
type LoadOptions struct {
	ConfigPath string
	Flags      *pflag.FlagSet
	// EnvPrefix overrides the default environment variable prefix.
	EnvPrefix string
}

type rawConfig struct {
	Transport     string           `mapstructure:"transport"`
	HTTP          rawHTTP          `mapstructure:"http"`
	AWS           rawAWS           `mapstructure:"aws"`
	Log           rawLog           `mapstructure:"log"`
	Observability rawObservability `mapstructure:"observability"`
}

type rawHTTP struct {
	Addr string `mapstructure:"addr"`
	Path string `mapstructure:"path"`
}

type rawAWS struct {
	Executable     string        `mapstructure:"executable"`
	Service        string        `mapstructure:"service"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxOutputBytes int           `mapstructure:"maxOutputBytes"`
}

type rawLog struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type rawObservability struct {
	ListenAddress  string `mapstructure:"listenAddress"`
	MetricsEnabled bool   `mapstructure:"metricsEnabled"`
	HealthzEnabled bool   `mapstructure:"healthzEnabled"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"transport":          "transport",
	"http-addr":          "http.addr",
	"http-path":          "http.path",
	"aws-executable":     "aws.executable",
	"aws-service":        "aws.service",
	"aws-timeout":        "aws.timeout",
	"max-output-bytes":   "aws.maxOutputBytes",
	"log-level":          "log.level",
	"log-format":         "log.format",
	"observability-addr": "observability.listenAddress",
}

func newConfigViper(envPrefix string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setConfigDefaults(v)
	if envPrefix == "" {
		envPrefix = domain.DefaultEnvPrefix
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("transport", domain.DefaultTransport)
	v.SetDefault("http.addr", domain.DefaultHTTPAddr)
	v.SetDefault("http.path", domain.DefaultHTTPPath)
	v.SetDefault("aws.executable", domain.DefaultCLIExecutable)
	v.SetDefault("aws.service", domain.DefaultCLIService)
	v.SetDefault("aws.timeout", domain.DefaultCLITimeout)
	v.SetDefault("aws.maxOutputBytes", domain.DefaultMaxOutputBytes)
	v.SetDefault("log.level", domain.DefaultLogLevel)
	v.SetDefault("log.format", domain.DefaultLogFormat)
	v.SetDefault("observability.listenAddress", "")
	v.SetDefault("observability.metricsEnabled", true)
	v.SetDefault("observability.healthzEnabled", true)
}

// LoadConfig resolves configuration from defaults, an optional YAML file,
// environment variables and explicitly set flags, in increasing precedence.
func LoadConfig(opts LoadOptions) (Config, error) {
	v := newConfigViper(opts.EnvPrefix)

	if opts.ConfigPath != "" {
		data, err := os.ReadFile(opts.ConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.ConfigPath, err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", opts.ConfigPath, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := Config{
		ConfigPath: opts.ConfigPath,
		Transport:  strings.ToLower(strings.TrimSpace(raw.Transport)),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(raw.HTTP.Addr),
			Path: strings.TrimSpace(raw.HTTP.Path),
		},
		AWS: AWSConfig{
			Executable:     strings.TrimSpace(raw.AWS.Executable),
			Service:        strings.TrimSpace(raw.AWS.Service),
			Timeout:        raw.AWS.Timeout,
			MaxOutputBytes: raw.AWS.MaxOutputBytes,
		},
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(raw.Log.Level)),
			Format: strings.ToLower(strings.TrimSpace(raw.Log.Format)),
		},
		Observability: ObservabilityConfig{
			ListenAddress:  strings.TrimSpace(raw.Observability.ListenAddress),
			MetricsEnabled: raw.Observability.MetricsEnabled,
			HealthzEnabled: raw.Observability.HealthzEnabled,
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no source overrides anything.
func DefaultConfig() Config {
	return Config{
		Transport: domain.DefaultTransport,
		HTTP: HTTPConfig{
			Addr: domain.DefaultHTTPAddr,
			Path: domain.DefaultHTTPPath,
		},
		AWS: AWSConfig{
			Executable:     domain.DefaultCLIExecutable,
			Service:        domain.DefaultCLIService,
			Timeout:        domain.DefaultCLITimeout,
			MaxOutputBytes: domain.DefaultMaxOutputBytes,
		},
		Log: LogConfig{
			Level:  domain.DefaultLogLevel,
			Format: domain.DefaultLogFormat,
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: true,
			HealthzEnabled: true,
		},
	}
}

func (c Config) Validate() error {
	var errs []error
	switch c.Transport {
	case domain.TransportStdio:
	case domain.TransportStreamableHTTP:
		if c.HTTP.Addr == "" {
			errs = append(errs, errors.New("http.addr is required for streamable_http transport"))
		}
		if !strings.HasPrefix(c.HTTP.Path, "/") {
			errs = append(errs, fmt.Errorf("http.path must start with '/': %q", c.HTTP.Path))
		}
	default:
		errs = append(errs, fmt.Errorf("transport must be %s or %s: %q",
			domain.TransportStdio, domain.TransportStreamableHTTP, c.Transport))
	}
	if c.AWS.Executable == "" {
		errs = append(errs, errors.New("aws.executable is required"))
	}
	if c.AWS.Service == "" {
		errs = append(errs, errors.New("aws.service is required"))
	}
	if c.AWS.Timeout < 0 {
		errs = append(errs, fmt.Errorf("aws.timeout must be >= 0: %s", c.AWS.Timeout))
	}
	if c.AWS.MaxOutputBytes < 0 {
		errs = append(errs, fmt.Errorf("aws.maxOutputBytes must be >= 0: %d", c.AWS.MaxOutputBytes))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console: %q", c.Log.Format))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
