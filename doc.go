// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package distributor implements a single-producer, many-worker packet
// dispatcher that preserves per-flow ordering while keeping the hot path
// lock-free and cache-friendly.
//
// One goroutine (the "distributor") calls [Distributor.Process] to hand
// work items to a fixed set of worker goroutines. Items that carry the same
// flow hash are always routed to the same worker, for as long as that
// worker still has an item from that flow in flight.
//
// # Quick Start
//
//	type Packet struct {
//	    hash uint32
//	}
//
//	func (p *Packet) FlowHash() uint32 { return p.hash }
//
//	d, err := distributor.New[Packet, *Packet]("eth0-rx", 4)
//	if err != nil {
//	    // handle construction error (see [ErrInvalidArgument], [ErrNoRegistry], [ErrOutOfMemory])
//	}
//
//	// Distributor goroutine:
//	d.Process(batch)
//
//	// Worker goroutine w:
//	var prev *Packet
//	for {
//	    pkt := d.GetPkt(w, prev)
//	    handle(pkt)
//	    prev = pkt
//	}
//
//	// Distributor goroutine, periodically:
//	var out [128]*Packet
//	n := d.ReturnedPkts(out[:])
//
// # The Exchange Slot
//
// Each worker has exactly one [atomix.Int64] cell shared between the
// distributor goroutine and that worker's goroutine. The cell packs a
// pointer-sized handle and a 4-bit flag into a single 64-bit word: the
// handle is left-shifted by 4 bits and recovered with an arithmetic right
// shift, so high bits sign-extend correctly. This is the only
// cross-goroutine shared state in the package; everything else (backlog,
// returns ring, in-flight tag table) is touched exclusively by the
// distributor goroutine and needs no synchronization.
//
// # Per-Flow Affinity
//
// [Distributor.Process] derives a non-zero tag from each item's
// FlowHash(). If a worker's in-flight tag already matches, the item is
// pushed to that worker's backlog (bounded at [BacklogDepth]) instead of
// being handed to a different, idle worker. This is what guarantees
// per-flow ordering (see spec invariant 1/2 in the design notes).
//
// # Worker Shutdown
//
// A worker leaves service by calling [Distributor.ReturnPkt], which
// publishes the RETURN flag. The distributor observes it on the next
// [Distributor.Process] or [Distributor.Flush] call, clears the worker's
// state, and re-dispatches anything left in that worker's backlog to the
// remaining live workers.
//
// # Error Handling
//
// Construction is the only fallible surface. [New] returns
// [ErrInvalidArgument] for a malformed name or out-of-range worker count,
// [ErrNoRegistry] if the process-wide registry was never initialized, and
// [ErrOutOfMemory] if the named region reservation failed. A name
// collision in the registry is reported as [code.hybscloud.com/iox]'s
// [iox.ErrWouldBlock] wrapped with context: it is a semantic, retryable
// condition (pick another name), not a failure. Every other operation,
// Process, Flush, ReturnedPkts, ClearReturns, and the four worker
// operations, is infallible by design; Process always reports n items
// accepted because any item that cannot be placed immediately is retried
// within the same call.
//
// # Race Detection
//
// As with [code.hybscloud.com/lfq], Go's race detector cannot observe the
// acquire/release relationship the exchange slot establishes through
// [atomix.Int64], so concurrent tests that rely on it are built with
// //go:build !race, matching [RaceEnabled].
package distributor
