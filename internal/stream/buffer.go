package stream

import "sort"

// orderingBuffer reassembles TaskResults that can arrive out of order
// (workers race) back into strictly ascending index order before the
// writer ever sees them.
type orderingBuffer struct {
	pending map[uint64]TaskResult
	nextIdx uint64
}

// newOrderingBuffer starts a buffer expecting index start first.
func newOrderingBuffer(start uint64) *orderingBuffer {
	return &orderingBuffer{pending: make(map[uint64]TaskResult), nextIdx: start}
}

// add records result and returns every result now ready to emit in
// order, draining the pending set as far as contiguity allows.
func (b *orderingBuffer) add(result TaskResult) []TaskResult {
	b.pending[result.Index] = result
	return b.drainReady()
}

func (b *orderingBuffer) drainReady() []TaskResult {
	var ready []TaskResult
	for {
		result, ok := b.pending[b.nextIdx]
		if !ok {
			break
		}
		ready = append(ready, result)
		delete(b.pending, b.nextIdx)
		b.nextIdx++
	}
	return ready
}

// flush returns whatever remains in index order, for use once the
// producer side is known to be done. It does not require contiguity
// with nextIdx — a caller that flushes mid-stream only does so because
// it is aborting.
func (b *orderingBuffer) flush() []TaskResult {
	if len(b.pending) == 0 {
		return nil
	}

	indices := make([]uint64, 0, len(b.pending))
	for idx := range b.pending {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	results := make([]TaskResult, 0, len(indices))
	for _, idx := range indices {
		results = append(results, b.pending[idx])
		delete(b.pending, idx)
	}
	b.nextIdx = 0
	return results
}

func (b *orderingBuffer) isEmpty() bool { return len(b.pending) == 0 }

func (b *orderingBuffer) nextIndex() uint64 { return b.nextIdx }
