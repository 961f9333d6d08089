package spacemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRunFirstFit(t *testing.T) {
	t.Parallel()

	m := New(8)
	start, ok := m.FindRun(4)
	require.True(t, ok)
	assert.Equal(t, 0, start)
	m.SetRun(start, 4)

	m.ClearRun(1, 2)
	start, ok = m.FindRun(2)
	require.True(t, ok)
	assert.Equal(t, 1, start, "hole left by the freed run is reused")

	start, ok = m.FindRun(3)
	require.True(t, ok)
	assert.Equal(t, 4, start, "hole of two is too small for three")

	_, ok = m.FindRun(9)
	assert.False(t, ok)
	_, ok = m.FindRun(0)
	assert.False(t, ok)
}

func TestFindRunFull(t *testing.T) {
	t.Parallel()

	m := New(4)
	m.SetRun(0, 4)
	_, ok := m.FindRun(1)
	assert.False(t, ok)
	assert.Equal(t, 0, m.CountFree())
}

func TestIsAllocated(t *testing.T) {
	t.Parallel()

	m := New(4)
	m.SetRun(1, 2)

	assert.False(t, m.IsAllocated(0))
	assert.True(t, m.IsAllocated(1))
	assert.True(t, m.IsAllocated(2))
	assert.False(t, m.IsAllocated(3))
	assert.False(t, m.IsAllocated(-1))
	assert.False(t, m.IsAllocated(4))
	assert.Equal(t, []byte{0, 1, 1, 0}, m.Bytes())
	assert.Equal(t, []byte{1, 1}, m.Run(1, 2))
}

func TestFromBytesNonZeroIsAllocated(t *testing.T) {
	t.Parallel()

	m := FromBytes([]byte{0, 7, 0, 255})
	assert.Equal(t, 4, m.Len())
	assert.True(t, m.IsAllocated(1))
	assert.True(t, m.IsAllocated(3))
	assert.Equal(t, 2, m.CountFree())

	start, ok := m.FindRun(1)
	require.True(t, ok)
	assert.Equal(t, 0, start)
}
