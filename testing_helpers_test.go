// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

import "testing"

type testItem struct {
	id   int
	hash uint32
}

func (t *testItem) FlowHash() uint32 { return t.hash }

// newTestDistributor builds a distributor with a registry scoped to this
// call, so tests never collide over the process-wide name registry.
func newTestDistributor(tb testing.TB, workers int, opts ...Option) *Distributor[testItem, *testItem] {
	tb.Helper()
	allOpts := append([]Option{withRegistry(newRegistry())}, opts...)
	d, err := New[testItem, *testItem](tb.Name(), workers, allOpts...)
	if err != nil {
		tb.Fatalf("New: %v", err)
	}
	return d
}

// runDistributor runs items through the single distributor goroutine and
// then keeps pumping the returns-only path until stopped. Callers must
// treat d as owned by this goroutine from the moment this returns.
func runDistributor[T any, PT FlowHasher[T]](d *Distributor[T, PT], items []PT) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Process(items)
		for {
			select {
			case <-stop:
				return
			default:
				d.Process(nil)
			}
		}
	}()
	return func() {
		close(stop)
		<-done
	}
}
