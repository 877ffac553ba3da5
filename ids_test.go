package trycatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDString(t *testing.T) {
	tests := []struct {
		id       ID
		expected string
	}{
		{None, "none"},
		{IOError, "io_error"},
		{NaN, "nan"},
		{Fault, "fault"},
		{NextFree, "exception(4)"},
		{NextFree + 10, "exception(14)"},
		{-2, "exception(-2)"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, tt.id.String())
	}
}

func TestIDClasses(t *testing.T) {
	require.False(t, None.Valid())
	require.False(t, None.Builtin())
	for _, id := range []ID{IOError, NaN, Fault} {
		require.True(t, id.Valid())
		require.True(t, id.Builtin())
	}
	require.True(t, NextFree.Valid())
	require.False(t, NextFree.Builtin())
	require.False(t, ID(-1).Valid())
}
