package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"latticemcp/internal/domain"
)

func TestNewPrometheusMetrics(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	assert.NotNil(t, m)
	assert.NotNil(t, m.toolCalls)
	assert.NotNil(t, m.toolDuration)
	assert.NotNil(t, m.cliRuns)
	assert.NotNil(t, m.cliDuration)
}

func TestNewPrometheusMetrics_UsesProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewPrometheusMetrics(registry)
	m.ObserveToolCall(domain.ToolCallMetric{
		Tool:     domain.ToolListSources,
		Status:   domain.CallStatusSuccess,
		Duration: 2 * time.Millisecond,
	})
	m.ObserveToolCall(domain.ToolCallMetric{
		Tool:     domain.ToolGetSourcePrompts,
		Status:   domain.CallStatusError,
		Code:     domain.CodeInvalidArgument,
		Duration: time.Millisecond,
	})
	m.ObserveCLI(domain.CLIMetric{
		Command:  "list-services",
		Status:   domain.CallStatusError,
		Duration: 300 * time.Millisecond,
	})

	metrics, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.GetName())
	}

	assert.Contains(t, names, "vpclattice_mcp_tool_calls_total")
	assert.Contains(t, names, "vpclattice_mcp_tool_duration_seconds")
	assert.Contains(t, names, "vpclattice_mcp_cli_invocations_total")
	assert.Contains(t, names, "vpclattice_mcp_cli_duration_seconds")

	for _, family := range metrics {
		if family.GetName() != "vpclattice_mcp_tool_calls_total" {
			continue
		}
		require.Len(t, family.GetMetric(), 2)
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["tool"] == domain.ToolGetSourcePrompts {
				assert.Equal(t, "error", labels["status"])
				assert.Equal(t, string(domain.CodeInvalidArgument), labels["code"])
			}
			assert.Equal(t, float64(1), metric.GetCounter().GetValue())
		}
	}
}
