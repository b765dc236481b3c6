// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

// returnsRing is the circular buffer of items handed back by workers,
// owned exclusively by the distributor goroutine and drained by the
// caller via [Distributor.ReturnedPkts]. It is lossy by design: once
// full, a new insert overwrites the oldest undrained entry rather than
// blocking or growing (spec.md §3).
type returnsRing[T any, PT FlowHasher[T]] struct {
	start uint32
	count uint32
	mask  uint32
	items []PT
}

func newReturnsRing[T any, PT FlowHasher[T]](depth int) returnsRing[T, PT] {
	n := uint32(roundToPow2(depth))
	return returnsRing[T, PT]{items: make([]PT, n), mask: n - 1}
}

// insert stores p into the ring and reports whether doing so overwrote an
// undrained entry. A nil p is a no-op: the dispatch engine calls insert
// unconditionally after every slot observation, and most observations
// have nothing to return. The reference implementation keeps this
// branch-free with bitwise boolean arithmetic; this port uses an explicit
// conditional for clarity, which design note §9 allows when it doesn't
// regress the hot path (this call is O(1) regardless).
func (r *returnsRing[T, PT]) insert(p PT) bool {
	if p == nil {
		return false
	}
	overwrote := r.count == uint32(len(r.items))
	r.items[(r.start+r.count)&r.mask] = p
	if overwrote {
		r.start++
	} else {
		r.count++
	}
	return overwrote
}

// drain copies up to min(len(out), count) items into out, advances
// start, and decrements count. It returns the number of items copied.
func (r *returnsRing[T, PT]) drain(out []PT) int {
	n := len(out)
	if int(r.count) < n {
		n = int(r.count)
	}
	for i := 0; i < n; i++ {
		out[i] = r.items[(r.start+uint32(i))&r.mask]
	}
	r.start += uint32(n)
	r.count -= uint32(n)
	return n
}

// clear resets the ring to empty without zeroing its backing array.
func (r *returnsRing[T, PT]) clear() {
	r.start, r.count = 0, 0
}
