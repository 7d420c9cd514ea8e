package crawler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackHeap_PopOrdersByReadyTime(t *testing.T) {
	h := NewBackHeap(10 * time.Millisecond)

	require.True(t, h.Push("a.example", false))
	require.True(t, h.Push("b.example", true))

	wait, host, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, "a.example", host)
	assert.Equal(t, int64(0), wait)

	wait, host, ok = h.Pop()
	require.True(t, ok)
	assert.Equal(t, "b.example", host)
	assert.Greater(t, wait, int64(0))
}

func TestBackHeap_DoublePushRejected(t *testing.T) {
	h := NewBackHeap(time.Second)

	require.True(t, h.Push("a.example", false))
	assert.False(t, h.Push("a.example", false))
}

func TestBackHeap_PopDoesNotReturnEntryTwice(t *testing.T) {
	h := NewBackHeap(time.Second)
	require.True(t, h.Push("a.example", false))

	_, _, ok := h.Pop()
	require.True(t, ok)

	_, _, ok = h.Pop()
	assert.False(t, ok)
}

func TestBackHeap_PopAllowsRepushAfterPop(t *testing.T) {
	h := NewBackHeap(time.Second)
	require.True(t, h.Push("a.example", false))

	_, _, ok := h.Pop()
	require.True(t, ok)

	assert.True(t, h.Push("a.example", true))
}

func TestBackHeap_EverSeenSurvivesPop(t *testing.T) {
	h := NewBackHeap(time.Second)
	require.True(t, h.Push("a.example", false))

	assert.True(t, h.EverSeen("a.example"))
	h.Pop()
	assert.True(t, h.EverSeen("a.example"))
	assert.False(t, h.Contains("a.example"))
}

func TestBackHeap_EmptyPopReturnsFalse(t *testing.T) {
	h := NewBackHeap(time.Second)
	_, _, ok := h.Pop()
	assert.False(t, ok)
}
