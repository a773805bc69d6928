// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "time"

// Metrics accumulates wall-clock time spent per named phase of the driver
// loop (factorization, pairing, Schur assembly, direction solve, step
// length). Passed explicitly rather than kept as package-global state, so
// multiple drivers in the same process never share a clock.
type Metrics struct {
	spans  map[string]time.Duration
	counts map[string]int
}

// NewMetrics allocates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{spans: make(map[string]time.Duration), counts: make(map[string]int)}
}

// Enter starts a timer for name and returns a function that stops it and
// records the elapsed duration; call it with defer at the top of a phase.
func (m *Metrics) Enter(name string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.spans[name] += time.Since(start)
		m.counts[name]++
	}
}

// Total reports the accumulated time and call count for name.
func (m *Metrics) Total(name string) (time.Duration, int) {
	if m == nil {
		return 0, 0
	}
	return m.spans[name], m.counts[name]
}
