// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

const cacheLine = 64

// exchangeSlot is the single cross-goroutine communication channel
// between the distributor goroutine and one worker goroutine. It is
// padded to three cache lines (not one) so that a worker's hardware
// prefetcher cannot pull a neighbour's slot into cache and cause
// false-sharing ping-pong on every exchange, the same concern
// [code.hybscloud.com/lfq] addresses with its pad/padShort types, just
// carried to three lines here because adjacent slots belong to different
// cores that must never observe each other's traffic.
type exchangeSlot struct {
	cell atomix.Int64
	_    [3*cacheLine - 8]byte
}

// RequestPkt publishes a GET request carrying old (possibly nil) as the
// returned payload. It spin-waits, with a CPU pause hint via
// [spin.Wait], while the slot still carries any non-zero flag. That
// means the distributor has not yet observed and serviced the previous
// request.
func (d *Distributor[T, PT]) RequestPkt(worker int, old PT) {
	s := &d.slots[worker]
	sw := spin.Wait{}
	for unpackFlag(s.cell.LoadAcquire()) != flagIdle {
		sw.Once()
	}
	s.cell.StoreRelease(packItem[T, PT](old, flagGet))
}

// PollPkt reads the slot without blocking. It returns nil if the flag is
// still GET (the distributor has not yet delivered an item), otherwise
// it decodes and returns the delivered item (which may itself be nil).
func (d *Distributor[T, PT]) PollPkt(worker int) PT {
	cell := d.slots[worker].cell.LoadAcquire()
	if unpackFlag(cell) == flagGet {
		return nil
	}
	return unpackItem[T, PT](cell)
}

// GetPkt is a convenience wrapper: RequestPkt(old) followed by a
// spin-poll on PollPkt until a non-nil item arrives.
func (d *Distributor[T, PT]) GetPkt(worker int, old PT) PT {
	d.RequestPkt(worker, old)
	sw := spin.Wait{}
	for {
		if item := d.PollPkt(worker); item != nil {
			return item
		}
		sw.Once()
	}
}

// ReturnPkt unconditionally publishes a RETURN-flagged cell carrying old.
// This is the worker's shutdown signal: after calling it, the worker must
// not touch its slot again until re-joined (re-joining is not defined by
// this package). It always succeeds.
func (d *Distributor[T, PT]) ReturnPkt(worker int, old PT) bool {
	d.slots[worker].cell.StoreRelease(packItem[T, PT](old, flagReturn))
	return true
}
