// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

import (
	"errors"
	"testing"
)

func TestLocalReservoirReserve(t *testing.T) {
	region, err := localReservoir{}.Reserve("region-test", 64, 3)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if len(region.Data) != 64 {
		t.Fatalf("Data len: got %d, want 64", len(region.Data))
	}
	if region.NUMANode != 3 {
		t.Fatalf("NUMANode: got %d, want 3", region.NUMANode)
	}
}

func TestLocalReservoirRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := (localReservoir{}).Reserve("region-test", size, 0); !errors.Is(err, ErrOutOfMemory) {
			t.Fatalf("Reserve(size=%d): got %v, want ErrOutOfMemory", size, err)
		}
	}
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := newRegistry()
	if err := r.register("dup"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.register("dup"); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("duplicate register: got %v, want ErrWouldBlock", err)
	}
	r.unregister("dup")
	if err := r.register("dup"); err != nil {
		t.Fatalf("register after unregister: %v", err)
	}
}

func TestRegistryNilReceiverReportsNoRegistry(t *testing.T) {
	var r *registry
	if err := r.register("x"); !errors.Is(err, ErrNoRegistry) {
		t.Fatalf("nil registry register: got %v, want ErrNoRegistry", err)
	}
	r.unregister("x") // must not panic on a nil receiver
}
