package domain

import "time"

// CallStatus labels the outcome of a tool call or CLI run.
type CallStatus string

const (
	CallStatusSuccess CallStatus = "success"
	CallStatusError   CallStatus = "error"
)

// ToolCallMetric captures one dispatched tool call.
type ToolCallMetric struct {
	Tool     string
	Status   CallStatus
	Code     ErrorCode
	Duration time.Duration
}

// CLIMetric captures one CLI subprocess run.
type CLIMetric struct {
	Command  string
	Status   CallStatus
	Duration time.Duration
}

// Metrics records server activity.
type Metrics interface {
	ObserveToolCall(metric ToolCallMetric)
	ObserveCLI(metric CLIMetric)
}

// NoopMetrics discards all observations.
type NoopMetrics struct{}

func (NoopMetrics) ObserveToolCall(ToolCallMetric) {}

func (NoopMetrics) ObserveCLI(CLIMetric) {}
