package cliargs

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"latticemcp/internal/domain"
)

func TestDecode_PreservesKeyOrder(t *testing.T) {
	args, err := Decode(json.RawMessage(`{"serviceNetwork":"sn-1","dryRun":true,"tags":["a","b"]}`))
	require.NoError(t, err)

	got := Encode(args)
	want := []string{"--service-network", "sn-1", "--dry-run", "--tags", "a,b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}

	reordered, err := Decode(json.RawMessage(`{"tags":["a","b"],"serviceNetwork":"sn-1"}`))
	require.NoError(t, err)
	require.Equal(t, []string{"--tags", "a,b", "--service-network", "sn-1"}, Encode(reordered))
}

func TestDecode_ValueKinds(t *testing.T) {
	args, err := Decode(json.RawMessage(`{"enabled":false,"port":80,"weight":1.5,"ids":[1,"x",true]}`))
	require.NoError(t, err)
	require.Len(t, args, 4)

	require.Equal(t, domain.ArgBool, args[0].Value.Kind())
	require.False(t, args[0].Value.Bool())
	require.Equal(t, "80", args[1].Value.Scalar())
	require.Equal(t, "1.5", args[2].Value.Scalar())
	require.Equal(t, domain.ArgList, args[3].Value.Kind())
	require.Equal(t, []string{"1", "x", "true"}, args[3].Value.List())
}

func TestDecode_Empty(t *testing.T) {
	for _, raw := range []string{"", "null", "  ", "{}"} {
		args, err := Decode(json.RawMessage(raw))
		require.NoError(t, err, "input %q", raw)
		require.Empty(t, args)
		require.Empty(t, Encode(args))
	}
}

func TestDecode_MalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "array root", raw: `["a"]`},
		{name: "string root", raw: `"a"`},
		{name: "nested object", raw: `{"filter":{"a":1}}`},
		{name: "null value", raw: `{"name":null}`},
		{name: "nested list", raw: `{"ids":[["a"]]}`},
		{name: "broken json", raw: `{"a":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(json.RawMessage(tt.raw))
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrInvalidArguments)
			code, ok := domain.CodeFrom(err)
			require.True(t, ok)
			require.Equal(t, domain.CodeInvalidArgument, code)
		})
	}
}
