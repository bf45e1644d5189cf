package mcpcodec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"latticemcp/internal/domain"
)

// MarshalPretty encodes v as two-space indented JSON without HTML escaping.
func MarshalPretty(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// IndentRaw re-indents an already encoded JSON document, keeping key order
// and number formatting intact.
func IndentRaw(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TextResult wraps text in the single-element text content envelope.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// JSONResult pretty-prints v and wraps it with TextResult.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	text, err := MarshalPretty(v)
	if err != nil {
		return nil, domain.E(domain.CodeInternal, "mcpcodec.JSONResult", "encode result", err)
	}
	return TextResult(text), nil
}

// ToWireError converts err into a JSON-RPC error carrying the matching code.
// Errors without a known classification become internal errors.
func ToWireError(err error) *jsonrpc.Error {
	if err == nil {
		return nil
	}
	var wire *jsonrpc.Error
	if errors.As(err, &wire) {
		return wire
	}
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeInternal
	}
	return &jsonrpc.Error{
		Code:    domain.ProtocolCode(code),
		Message: domain.Message(err),
	}
}

// MethodNotFound builds the error returned for tool names nothing serves.
func MethodNotFound(name string) *jsonrpc.Error {
	return &jsonrpc.Error{
		Code:    domain.ErrCodeMethodNotFound,
		Message: fmt.Sprintf("Unknown tool: %s", name),
	}
}
