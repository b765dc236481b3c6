// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package distributor

// RaceEnabled is true when the race detector is active.
// It mirrors the build tag that keeps the concurrent tests of the
// exchange-slot protocol out of race builds (no test reads the constant
// itself): their happens-before edges run through atomix's
// explicit-ordering atomics rather than anything the race detector
// observes, and so trigger false positives.
const RaceEnabled = true
