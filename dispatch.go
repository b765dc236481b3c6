// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

import (
	"math/bits"
	"unsafe"
)

// Distributor hands work items from one distributor goroutine to a fixed
// set of worker goroutines, preserving per-flow ordering. T is the
// backing struct type of a work item; PT (always *T) must satisfy
// [FlowHasher]. See the package doc for a full usage example.
//
// Exactly one goroutine may call [Distributor.Process], [Distributor.Flush],
// [Distributor.ReturnedPkts], or [Distributor.ClearReturns]. Exactly one
// goroutine per worker id may call that worker's [Distributor.RequestPkt],
// [Distributor.PollPkt], [Distributor.GetPkt], or [Distributor.ReturnPkt].
type Distributor[T any, PT FlowHasher[T]] struct {
	name       string
	numWorkers int
	region     *Region

	logger  Logger
	metrics Metrics

	slots        []exchangeSlot
	backlogs     []backlog
	inFlightTags []uint32
	returns      returnsRing[T, PT]

	reg *registry
}

type config struct {
	numaNode     int
	logger       Logger
	metrics      Metrics
	backlogDepth int
	returnsDepth int
	reservoir    RegionReservoir
	registry     *registry
}

// Option configures [New]. The zero-value configuration matches the
// reference implementation's defaults: NUMA node 0, a no-op logger and
// metrics sink, [BacklogDepth] and [ReturnsDepth].
type Option func(*config)

// WithNUMANode hints the NUMA node the instance's region should be
// reserved on. Passed through to the configured [RegionReservoir]
// verbatim; the default reservoir does not act on it.
func WithNUMANode(node int) Option {
	return func(c *config) { c.numaNode = node }
}

// WithLogger overrides the no-op default [Logger].
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics overrides the no-op default [Metrics] sink.
func WithMetrics(m Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithBacklogDepth overrides the default per-worker backlog depth
// ([BacklogDepth]). Rounded up to the next power of 2. Intended for
// tests and benchmarks exploring backlog-overflow behavior; production
// callers should keep the default unless they have measured a need.
func WithBacklogDepth(depth int) Option {
	return func(c *config) { c.backlogDepth = depth }
}

// WithReturnsDepth overrides the default returns-ring depth
// ([ReturnsDepth]). Rounded up to the next power of 2.
func WithReturnsDepth(depth int) Option {
	return func(c *config) { c.returnsDepth = depth }
}

// WithRegionReservoir overrides the default NUMA-oblivious
// [RegionReservoir].
func WithRegionReservoir(r RegionReservoir) Option {
	return func(c *config) {
		if r != nil {
			c.reservoir = r
		}
	}
}

// withRegistry overrides the process-wide registry. Unexported: intended
// for this package's own tests, which need isolated registries to avoid
// cross-test name collisions and to exercise [ErrNoRegistry].
func withRegistry(r *registry) Option {
	return func(c *config) { c.registry = r }
}

// New creates a distributor instance with the given name and worker
// count. The name is registered in the process-wide instance registry
// and must be unique; num_workers must be in (0, MaxWorkers].
//
// All failure modes are reported here: [ErrInvalidArgument] for a
// malformed name or worker count, [ErrNoRegistry] if the registry was
// never initialized, [ErrOutOfMemory] if the region reservation failed,
// and [ErrWouldBlock] (via [iox.ErrWouldBlock]) if the name is already
// registered.
func New[T any, PT FlowHasher[T]](name string, numWorkers int, opts ...Option) (*Distributor[T, PT], error) {
	if len(name) == 0 || len(name) > MaxName {
		return nil, errInvalidName(name)
	}
	if numWorkers <= 0 || numWorkers > MaxWorkers {
		return nil, errInvalidWorkerCount(numWorkers)
	}

	cfg := config{
		logger:       nopLogger{},
		metrics:      nopMetrics{},
		backlogDepth: BacklogDepth,
		returnsDepth: ReturnsDepth,
		reservoir:    defaultReservoir,
		registry:     globalRegistry,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.registry == nil {
		return nil, ErrNoRegistry
	}
	if err := cfg.registry.register(name); err != nil {
		cfg.logger.Warnf("distributor %q: %v", name, err)
		return nil, err
	}

	size := numWorkers * int(unsafe.Sizeof(exchangeSlot{}))
	region, err := cfg.reservoir.Reserve(name, size, cfg.numaNode)
	if err != nil {
		cfg.registry.unregister(name)
		return nil, err
	}

	d := &Distributor[T, PT]{
		name:         name,
		numWorkers:   numWorkers,
		region:       region,
		logger:       cfg.logger,
		metrics:      cfg.metrics,
		slots:        make([]exchangeSlot, numWorkers),
		backlogs:     make([]backlog, numWorkers),
		inFlightTags: make([]uint32, numWorkers),
		returns:      newReturnsRing[T, PT](cfg.returnsDepth),
		reg:          cfg.registry,
	}
	for w := range d.backlogs {
		d.backlogs[w] = newBacklog(cfg.backlogDepth)
	}
	// Slots start zero-valued: flag IDLE, pointer nil. A worker's first
	// RequestPkt finds flagIdle immediately and publishes its own GET
	// without waiting on a distributor that has not run yet.

	cfg.logger.Infof("distributor %q created with %d workers on numa node %d", name, numWorkers, cfg.numaNode)
	return d, nil
}

// Name returns the instance's registered name.
func (d *Distributor[T, PT]) Name() string { return d.name }

// NumWorkers returns the worker count the instance was created with.
func (d *Distributor[T, PT]) NumWorkers() int { return d.numWorkers }

// Process distributes items to workers, preserving per-flow ordering,
// and returns the number of items accepted, always len(items), since
// any item that cannot be placed immediately is retried within this same
// call rather than dropped (spec.md §4.3/§7).
//
// Calling Process(nil) runs the returns-only path: it observes every
// worker once, delivers backlog items to any worker that is idle, and
// reports the number of slots it flushed.
func (d *Distributor[T, PT]) Process(items []PT) int {
	n := len(items)
	if n == 0 {
		return d.processReturns()
	}

	idx := 0
	w := 0
	var next PT
	var nextValue int64
	var newTag uint32

	for idx < n || next != nil {
		cell := d.slots[w].cell.LoadAcquire()
		var oldbuf PT

		if next == nil && idx < n {
			next = items[idx]
			idx++
			nextValue = packItem[T, PT](next, flagIdle)
			newTag = next.FlowHash() | 1

			var match uint64
			for i := 0; i < d.numWorkers; i++ {
				if d.inFlightTags[i] == newTag {
					match |= 1 << uint(i)
				}
			}
			if match != 0 {
				next = nil
				worker := bits.TrailingZeros64(match)
				if !d.backlogs[worker].add(nextValue) {
					idx--
					d.metrics.IncBacklogFull(worker)
				}
			}
		}

		switch flag := unpackFlag(cell); {
		case flag == flagGet && (d.backlogs[w].count > 0 || next != nil):
			if d.backlogs[w].count > 0 {
				d.slots[w].cell.StoreRelease(d.backlogs[w].pop())
			} else {
				d.slots[w].cell.StoreRelease(nextValue)
				d.inFlightTags[w] = newTag
				next = nil
			}
			oldbuf = unpackItem[T, PT](cell)
		case flag == flagReturn:
			oldbuf = unpackItem[T, PT](cell)
			d.handleWorkerShutdown(w)
		}

		d.insertReturn(oldbuf)

		w++
		if w == d.numWorkers {
			w = 0
		}
	}

	for w := 0; w < d.numWorkers; w++ {
		cell := d.slots[w].cell.LoadAcquire()
		if d.backlogs[w].count > 0 && unpackFlag(cell) == flagGet {
			d.insertReturn(unpackItem[T, PT](cell))
			d.slots[w].cell.StoreRelease(d.backlogs[w].pop())
		}
	}

	return n
}

// processReturns implements the n==0 path of Process: for each worker,
// a GET flag counts as flushed and is refilled from the backlog or reset
// to idle-and-empty; a RETURN flag runs the shutdown protocol. It reports
// the number of slots flushed.
func (d *Distributor[T, PT]) processReturns() int {
	flushed := 0
	for w := 0; w < d.numWorkers; w++ {
		cell := d.slots[w].cell.LoadAcquire()
		var oldbuf PT

		switch unpackFlag(cell) {
		case flagGet:
			flushed++
			if d.backlogs[w].count > 0 {
				d.slots[w].cell.StoreRelease(d.backlogs[w].pop())
			} else {
				d.slots[w].cell.StoreRelease(flagGet)
				d.inFlightTags[w] = 0
			}
			oldbuf = unpackItem[T, PT](cell)
		case flagReturn:
			oldbuf = unpackItem[T, PT](cell)
			d.handleWorkerShutdown(w)
		}

		d.insertReturn(oldbuf)
	}
	return flushed
}

// handleWorkerShutdown implements spec.md §4.3.4: it clears the worker's
// in-flight tag and slot, then re-dispatches any queued backlog items by
// recursing into Process with them decoded back to plain items. Recursion
// depth is bounded: the re-dispatched items either land on another live
// worker directly or on that worker's backlog, and no new RETURN can
// surface mid-recursion because workers are quiescent during dispatch by
// protocol (spec.md §9).
func (d *Distributor[T, PT]) handleWorkerShutdown(w int) {
	d.inFlightTags[w] = 0
	d.slots[w].cell.StoreRelease(0)

	bl := &d.backlogs[w]
	if bl.count == 0 {
		return
	}

	pending := make([]PT, bl.count)
	for i := range pending {
		pending[i] = unpackItem[T, PT](bl.items[(bl.start+uint32(i))&bl.mask])
	}
	d.logger.Warnf("distributor %q: worker %d shut down with %d backlog items, re-dispatching", d.name, w, len(pending))
	bl.reset()
	d.Process(pending)
}

// totalOutstanding sums, over every worker, backlog depth plus one if
// that worker currently has an item in flight.
func (d *Distributor[T, PT]) totalOutstanding() int {
	total := 0
	for w := 0; w < d.numWorkers; w++ {
		total += int(d.backlogs[w].count)
		if d.inFlightTags[w] != 0 {
			total++
		}
	}
	d.metrics.SetOutstanding(total)
	return total
}

// Flush repeatedly runs the returns-only path until total_outstanding
// reaches zero, guaranteeing quiescence: on return, every slot carries
// either flag GET with pointer zero, or flag IDLE with pointer zero. It
// reports the outstanding count observed before flushing began.
func (d *Distributor[T, PT]) Flush() int {
	outstanding := d.totalOutstanding()
	d.logger.Infof("distributor %q: flushing %d outstanding items", d.name, outstanding)
	for d.totalOutstanding() > 0 {
		d.processReturns()
	}
	return outstanding
}

// ReturnedPkts copies up to len(out) items out of the returns ring,
// returning the number copied.
func (d *Distributor[T, PT]) ReturnedPkts(out []PT) int {
	return d.returns.drain(out)
}

// ClearReturns discards everything currently in the returns ring.
func (d *Distributor[T, PT]) ClearReturns() {
	d.returns.clear()
}

// insertReturn is the only call site allowed to touch d.returns.insert:
// it funnels the overwrite signal to metrics so none of Process's three
// insert sites can forget it.
func (d *Distributor[T, PT]) insertReturn(p PT) {
	if d.returns.insert(p) {
		d.metrics.IncReturnsOverwrite()
	}
}
