package cliargs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"latticemcp/internal/domain"
)

const opDecode = "cliargs.Decode"

// Decode parses a JSON object into Arguments, keeping the caller's key order.
// Empty input and null both decode to no arguments.
func Decode(raw json.RawMessage) (domain.Arguments, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.Arguments{}, nil
	}
	if trimmed[0] != '{' {
		return nil, malformed("args must be an object", nil)
	}

	om := orderedmap.New[string, any]()
	if err := json.Unmarshal(trimmed, om); err != nil {
		return nil, malformed("args must be an object", err)
	}

	out := make(domain.Arguments, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		value, err := toArgValue(pair.Key, pair.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Argument{Name: pair.Key, Value: value})
	}
	return out, nil
}

func toArgValue(key string, v any) (domain.ArgValue, error) {
	switch typed := v.(type) {
	case bool:
		return domain.BoolArg(typed), nil
	case []any:
		items := make([]string, 0, len(typed))
		for i, item := range typed {
			s, ok := scalarString(item)
			if !ok {
				return domain.ArgValue{}, malformed(fmt.Sprintf("args.%s[%d]: list items must be strings, numbers or booleans", key, i), nil)
			}
			items = append(items, s)
		}
		return domain.ListArg(items...), nil
	default:
		s, ok := scalarString(v)
		if !ok {
			return domain.ArgValue{}, malformed(fmt.Sprintf("args.%s: value must be a string, number, boolean or list", key), nil)
		}
		return domain.ScalarArg(s), nil
	}
}

func scalarString(v any) (string, bool) {
	switch typed := v.(type) {
	case string:
		return typed, true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case json.Number:
		return typed.String(), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

func malformed(msg string, cause error) error {
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return domain.E(domain.CodeInvalidArgument, opDecode, "malformed argument shape: "+msg, domain.ErrInvalidArguments)
}
