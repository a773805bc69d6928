// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockdiag

import "github.com/curioloop/sdpcore/scalar"

// Collective is the seam needed once the iterate's block set is
// distributed across processes: Frobenius products, max-abs-element, and μ
// must be implemented as explicit collective operations, and callers must
// not interleave them with per-block-local operations on the same data.
// The core ships a single in-process implementation, Local, satisfying the
// interface trivially; a real multi-process implementation (e.g. over a
// collective-communication library) is outside this core's scope — the
// process/transport layer is an external collaborator.
type Collective interface {
	// FrobeniusInner reduces ⟨a,b⟩_F across every process's blocks.
	FrobeniusInner(a, b *Matrix) scalar.Real
	// FrobeniusSumInner reduces ⟨x+dx, y+dy⟩ across every process's blocks.
	FrobeniusSumInner(x, dx, y, dy *Matrix) scalar.Real
	// MaxAbsElement reduces the global maximum |element| across every
	// process's blocks.
	MaxAbsElement(m *Matrix) scalar.Real
}

// Local is the single-process Collective: every block lives in the calling
// process, so each collective operation is exactly the corresponding local
// one with no cross-process reduction step.
type Local struct{}

func (Local) FrobeniusInner(a, b *Matrix) scalar.Real {
	return FrobeniusInner(a, b)
}

func (Local) FrobeniusSumInner(x, dx, y, dy *Matrix) scalar.Real {
	return FrobeniusSumInner(x, dx, y, dy)
}

func (Local) MaxAbsElement(m *Matrix) scalar.Real {
	return m.MaxAbsElement()
}
