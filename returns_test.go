// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

import "testing"

func TestReturnsRingDrainOrder(t *testing.T) {
	r := newReturnsRing[testItem, *testItem](4)
	items := []*testItem{{id: 1}, {id: 2}, {id: 3}}
	for _, it := range items {
		if overwrote := r.insert(it); overwrote {
			t.Fatalf("insert(%d): unexpected overwrite", it.id)
		}
	}

	out := make([]*testItem, 2)
	if n := r.drain(out); n != 2 || out[0].id != 1 || out[1].id != 2 {
		t.Fatalf("first drain: got n=%d ids=[%d %d], want n=2 ids=[1 2]", n, out[0].id, out[1].id)
	}

	out2 := make([]*testItem, 2)
	if n := r.drain(out2); n != 1 || out2[0].id != 3 {
		t.Fatalf("second drain: got n=%d item=%v, want n=1 id=3", n, out2[0])
	}
}

func TestReturnsRingOverwritesOldestOnFull(t *testing.T) {
	r := newReturnsRing[testItem, *testItem](4)
	for i := 1; i <= 4; i++ {
		if overwrote := r.insert(&testItem{id: i}); overwrote {
			t.Fatalf("insert(%d): unexpected overwrite before full", i)
		}
	}
	if overwrote := r.insert(&testItem{id: 5}); !overwrote {
		t.Fatalf("insert(5) on a full ring: got no overwrite, want overwrite")
	}

	out := make([]*testItem, 4)
	if n := r.drain(out); n != 4 {
		t.Fatalf("drain: got %d, want 4", n)
	}
	for i, it := range out {
		if want := i + 2; it.id != want {
			t.Fatalf("out[%d]: got id %d, want %d", i, it.id, want)
		}
	}
}

func TestReturnsRingInsertNilIsNoOp(t *testing.T) {
	r := newReturnsRing[testItem, *testItem](4)
	if overwrote := r.insert(nil); overwrote {
		t.Fatalf("insert(nil): got overwrite, want no-op")
	}
	if r.count != 0 {
		t.Fatalf("count after insert(nil): got %d, want 0", r.count)
	}
}

func TestReturnsRingClear(t *testing.T) {
	r := newReturnsRing[testItem, *testItem](4)
	r.insert(&testItem{id: 1})
	r.clear()
	if r.count != 0 || r.start != 0 {
		t.Fatalf("clear: got start=%d count=%d, want 0,0", r.start, r.count)
	}
	out := make([]*testItem, 1)
	if n := r.drain(out); n != 0 {
		t.Fatalf("drain after clear: got %d, want 0", n)
	}
}
