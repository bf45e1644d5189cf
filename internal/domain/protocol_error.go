package domain

// JSON-RPC error codes used on the MCP wire.
const (
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// ProtocolCode maps a domain error code to its JSON-RPC error code.
func ProtocolCode(code ErrorCode) int64 {
	switch code {
	case CodeInvalidArgument:
		return ErrCodeInvalidParams
	case CodeNotFound:
		return ErrCodeMethodNotFound
	default:
		return ErrCodeInternalError
	}
}
