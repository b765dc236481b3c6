// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

// Logger receives construction-time and protocol events: instance
// creation, registry collisions, worker shutdown with backlog
// re-dispatch, and the start of a flush. It is never called per packet:
// inside Process it is reached only when a worker shutdown is handled,
// and the worker API never calls it. A [Distributor] created by [New]
// without [WithLogger] uses a no-op logger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}

// Metrics receives pressure signals from the paths in Process that are
// already O(num_workers) per call, never from the per-packet slot
// exchange itself. SetOutstanding is called by Flush each time it
// recomputes the outstanding count (before flushing and after every
// returns-only pass), never by Process; IncBacklogFull and IncReturnsOverwrite are called only on the
// corresponding rare event.
type Metrics interface {
	SetOutstanding(n int)
	IncBacklogFull(worker int)
	IncReturnsOverwrite()
}

type nopMetrics struct{}

func (nopMetrics) SetOutstanding(int)   {}
func (nopMetrics) IncBacklogFull(int)   {}
func (nopMetrics) IncReturnsOverwrite() {}
