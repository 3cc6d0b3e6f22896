package stream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeResult(index uint64) TaskResult {
	return OK(index, []byte{byte(index)}, 1)
}

func TestOrderingBuffer_InOrder(t *testing.T) {
	buf := newOrderingBuffer(0)

	ready := buf.add(makeResult(0))
	require.Len(t, ready, 1)
	require.Equal(t, uint64(0), ready[0].Index)

	ready = buf.add(makeResult(1))
	require.Len(t, ready, 1)
	require.Equal(t, uint64(1), ready[0].Index)
}

func TestOrderingBuffer_OutOfOrder(t *testing.T) {
	buf := newOrderingBuffer(0)

	ready := buf.add(makeResult(1))
	require.Empty(t, ready)
	require.Equal(t, 1, len(buf.pending))

	ready = buf.add(makeResult(0))
	require.Len(t, ready, 2)
	require.Equal(t, uint64(0), ready[0].Index)
	require.Equal(t, uint64(1), ready[1].Index)
	require.True(t, buf.isEmpty())
}

func TestOrderingBuffer_Flush(t *testing.T) {
	buf := newOrderingBuffer(0)

	buf.add(makeResult(2))
	buf.add(makeResult(1))

	flushed := buf.flush()
	require.Len(t, flushed, 2)
	require.Equal(t, uint64(1), flushed[0].Index)
	require.Equal(t, uint64(2), flushed[1].Index)
	require.True(t, buf.isEmpty())
}

func TestOrderingBuffer_FlushEmpty(t *testing.T) {
	buf := newOrderingBuffer(0)
	require.Empty(t, buf.flush())
}

func TestOrderingBuffer_NextIndex(t *testing.T) {
	buf := newOrderingBuffer(5)
	require.Equal(t, uint64(5), buf.nextIndex())

	buf.add(makeResult(5))
	require.Equal(t, uint64(6), buf.nextIndex())
}
