package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldEvent      = "event"
	FieldTool       = "tool"
	FieldCommand    = "command"
	FieldErrorCode  = "error_code"
	FieldDurationMs = "duration_ms"
	FieldLogSource  = "log_source"
	FieldRequestID  = "request_id"
	FieldTransport  = "transport"
)

const (
	EventServerStart = "server_start"
	EventServerStop  = "server_stop"
	EventToolCall    = "tool_call"
	EventToolError   = "tool_error"
	EventUnknownTool = "unknown_tool"
)

const (
	LogSourceCore = "core"
	LogSourceCLI  = "aws_cli"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func ToolField(tool string) zap.Field {
	return zap.String(FieldTool, tool)
}

func CommandField(command string) zap.Field {
	return zap.String(FieldCommand, command)
}

func ErrorCodeField(code string) zap.Field {
	return zap.String(FieldErrorCode, code)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func RequestIDField(value string) zap.Field {
	return zap.String(FieldRequestID, value)
}

func TransportField(value string) zap.Field {
	return zap.String(FieldTransport, value)
}
