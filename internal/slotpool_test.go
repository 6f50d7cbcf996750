package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotPool(t *testing.T) {
	p := NewSlotPool(3)
	require.Equal(t, 3, p.Len())
	for i := 0; i < 3; i++ {
		slot, ok := p.Draw()
		require.True(t, ok)
		require.Equal(t, int32(i), slot)
	}
	_, ok := p.Draw()
	require.False(t, ok)

	// released slots are reused first
	p.Release(1)
	p.Release(2)
	slot, _ := p.Draw()
	require.Equal(t, int32(2), slot)
	slot, _ = p.Draw()
	require.Equal(t, int32(1), slot)

	p.Reset()
	require.Equal(t, 3, p.Len())
	slot, _ = p.Draw()
	require.Equal(t, int32(0), slot)
}
