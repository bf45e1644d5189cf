package domain

import "encoding/json"

// ToolRequest is a tools/call invocation as received from the client.
type ToolRequest struct {
	Name      string
	Arguments json.RawMessage
}
