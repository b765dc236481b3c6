// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package distributor

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrInvalidArgument is returned by [New] when the name is empty, exceeds
// [MaxName], or the worker count is zero or exceeds [MaxWorkers].
var ErrInvalidArgument = errors.New("distributor: invalid argument")

// ErrNoRegistry is returned by [New] when the process-wide instance
// registry has not been initialized.
var ErrNoRegistry = errors.New("distributor: registry not initialized")

// ErrOutOfMemory is returned by [New] when the named region reservation
// failed.
var ErrOutOfMemory = errors.New("distributor: region reservation failed")

// ErrWouldBlock reuses [iox.ErrWouldBlock] for the one semantic, retryable
// condition this package surfaces: a duplicate instance name in the
// registry, reported by [New]. It is not a failure; the caller may retry
// [New] with a different name.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency with
// [code.hybscloud.com/lfq] and the rest of the code.hybscloud.com stack.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates a retryable, non-fatal
// condition such as a registry name collision. Delegates to
// [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// errNameTaken wraps [ErrWouldBlock] with the colliding name for context.
func errNameTaken(name string) error {
	return fmt.Errorf("distributor: instance %q already registered: %w", name, ErrWouldBlock)
}

// errInvalidName wraps [ErrInvalidArgument] with context about the name.
func errInvalidName(name string) error {
	return fmt.Errorf("distributor: name %q invalid (empty or exceeds %d bytes): %w", name, MaxName, ErrInvalidArgument)
}

// errInvalidWorkerCount wraps [ErrInvalidArgument] with context about the
// requested worker count.
func errInvalidWorkerCount(n int) error {
	return fmt.Errorf("distributor: worker count %d out of range (1..%d): %w", n, MaxWorkers, ErrInvalidArgument)
}
