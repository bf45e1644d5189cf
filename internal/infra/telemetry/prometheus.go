package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"latticemcp/internal/domain"
)

type PrometheusMetrics struct {
	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	cliRuns      *prometheus.CounterVec
	cliDuration  *prometheus.HistogramVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vpclattice_mcp_tool_calls_total",
				Help: "Total number of tool calls by tool, status and error code",
			},
			[]string{"tool", "status", "code"},
		),
		toolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vpclattice_mcp_tool_duration_seconds",
				Help:    "Duration of tool calls in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"tool", "status"},
		),
		cliRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vpclattice_mcp_cli_invocations_total",
				Help: "Total number of AWS CLI invocations by subcommand and outcome",
			},
			[]string{"command", "outcome"},
		),
		cliDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vpclattice_mcp_cli_duration_seconds",
				Help:    "Duration of AWS CLI invocations in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"command"},
		),
	}
}

func (p *PrometheusMetrics) ObserveToolCall(metric domain.ToolCallMetric) {
	status := string(metric.Status)
	if status == "" {
		status = string(domain.CallStatusSuccess)
	}
	p.toolCalls.WithLabelValues(metric.Tool, status, string(metric.Code)).Inc()
	p.toolDuration.WithLabelValues(metric.Tool, status).Observe(metric.Duration.Seconds())
}

func (p *PrometheusMetrics) ObserveCLI(metric domain.CLIMetric) {
	outcome := string(metric.Status)
	if outcome == "" {
		outcome = string(domain.CallStatusSuccess)
	}
	p.cliRuns.WithLabelValues(metric.Command, outcome).Inc()
	p.cliDuration.WithLabelValues(metric.Command).Observe(metric.Duration.Seconds())
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
