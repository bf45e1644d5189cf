package awscli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCappedBuffer(t *testing.T) {
	b := newCappedBuffer(5)
	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.False(t, b.Truncated())

	n, err = b.Write([]byte("defgh"))
	require.NoError(t, err)
	require.Equal(t, 5, n, "writes past the cap are still accepted")
	require.True(t, b.Truncated())
	require.Equal(t, "abcde", string(b.Bytes()))
	require.Equal(t, "abcde"+truncatedMarker, b.String())
}

func TestCappedBuffer_Unbounded(t *testing.T) {
	b := newCappedBuffer(0)
	_, _ = b.Write([]byte("hello "))
	_, _ = b.Write([]byte("world"))
	require.False(t, b.Truncated())
	require.Equal(t, "hello world", b.String())
}
