// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

// backlog is a bounded FIFO of encoded work-item cells, one per worker.
// It is touched only by the distributor goroutine: a worker routed to
// while its slot is busy, or whose flow is already in flight elsewhere,
// waits here instead. Elements are pointer-shifted cells with no flag
// bits; the distributor always treats them as raw pending items.
type backlog struct {
	start uint32
	count uint32
	mask  uint32
	items []int64
}

func newBacklog(depth int) backlog {
	n := uint32(roundToPow2(depth))
	return backlog{items: make([]int64, n), mask: n - 1}
}

// add pushes value onto the backlog. It reports false (BacklogFull,
// never surfaced past the dispatch engine) if the backlog is already at
// capacity; the caller un-pops the source item and retries on a later
// pass instead of losing it.
func (b *backlog) add(value int64) bool {
	if b.count == uint32(len(b.items)) {
		return false
	}
	b.items[(b.start+b.count)&b.mask] = value
	b.count++
	return true
}

// pop removes and returns the oldest backlog entry. The caller must
// ensure count > 0.
func (b *backlog) pop() int64 {
	v := b.items[b.start&b.mask]
	b.start++
	b.count--
	return v
}

// reset clears the backlog after its contents have been re-dispatched
// during worker shutdown (spec.md §4.3.4).
func (b *backlog) reset() {
	b.start, b.count = 0, 0
}
