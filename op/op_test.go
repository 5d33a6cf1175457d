package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(Add)
	require.Equal(t, Add, info.Code)
	require.Equal(t, "ADD", info.Name)
	require.True(t, info.HasOperand)

	info = GetInfo(LoopBegin)
	require.Equal(t, "LOOP_BEGIN", info.Name)
	require.True(t, info.HasOperand)

	info = GetInfo(Output)
	require.Equal(t, "OUTPUT", info.Name)
	require.False(t, info.HasOperand)

	info = GetInfo(Debug)
	require.Equal(t, "DEBUG", info.Name)
	require.False(t, info.HasOperand)
}

func TestGetInfoInvalid(t *testing.T) {
	info := GetInfo(Invalid)
	require.Equal(t, "", info.Name)
	require.False(t, info.HasOperand)
}
