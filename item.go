// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

import "unsafe"

// FlowHasher constrains a work item's pointer type PT to report the
// 32-bit flow hash used for affinity routing. T is the item's backing
// struct type; PT is always *T, the self-referential form Go generics
// require to let the compiler see PT's core type as a pointer, which is
// what makes the unsafe.Pointer conversions in packItem/unpackItem legal.
//
// The item itself must live in memory owned and kept alive by something
// outside this package (an external buffer pool, per spec §6/§3) for as
// long as it can be in flight: the exchange slot stores only the pointer
// bits, never a reference the Go garbage collector can see.
//
// Example:
//
//	type Packet struct{ hash uint32 }
//	func (p *Packet) FlowHash() uint32 { return p.hash }
//	// *Packet satisfies FlowHasher[Packet].
type FlowHasher[T any] interface {
	*T
	comparable
	FlowHash() uint32
}

// packItem encodes item and flag into a single exchange-slot cell: the
// pointer is shifted left by flagBits and the flag occupies the low
// bits, matching spec.md §3's bit layout exactly.
func packItem[T any, PT FlowHasher[T]](item PT, flag int64) int64 {
	return (int64(uintptr(unsafe.Pointer(item))) << flagBits) | flag
}

// unpackItem recovers the item pointer from a cell using an arithmetic
// right shift, so that the high bits sign-extend correctly. Required
// because a plain logical shift would corrupt canonical 48-bit pointers
// on architectures where the top bits are non-zero after left-shifting.
func unpackItem[T any, PT FlowHasher[T]](cell int64) PT {
	addr := uintptr(cell >> flagBits)
	return PT(unsafe.Pointer(addr))
}

// unpackFlag extracts the low 4 bits of a cell.
func unpackFlag(cell int64) int64 {
	return cell & flagMask
}
