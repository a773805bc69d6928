// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/sdpdata"
)

// Workspace holds the mutable iterate: the primal vector x (length P), the
// dual vector y (length N, spec glossary's "free variables"), and the
// block-diagonal primal/dual matrices X and Y. Everything else
// the driver needs per iteration — Cholesky factors, pairing caches, the
// Schur complement, residues — is local to Driver.Step; only the iterate
// itself survives across Step calls, mirroring the split between
// lbfgsb/driver.go's Location and its Workspace scratch.
type Workspace struct {
	X, Y *blockdiag.Matrix

	PrimalVector []scalar.Real
	DualVector   []scalar.Real
}

// NewWorkspace builds the initial iterate: x = 0, Y scaled identity, y equal
// to Y's diagonal-scalar part (Step moves both by the same α_d·dY.Diag),
// X a scaled Hilbert-like matrix shifted by +2I — chosen, like SDPA's
// default initial point, to start strictly inside the PSD cone without
// favoring any particular constraint.
func NewWorkspace(sdp *sdpdata.SDP, cfg Config) *Workspace {
	shape := sdp.IterateShape()
	w := &Workspace{
		X:            blockdiag.New(shape),
		Y:            blockdiag.Identity(shape),
		PrimalVector: make([]scalar.Real, sdp.P),
		DualVector:   make([]scalar.Real, sdp.N),
	}
	blockdiag.ScaleInto(w.Y, w.Y, cfg.InitialMatrixScaleDual)
	initHilbertShift(w.X, cfg.InitialMatrixScalePrimal)
	zero := scalar.Zero()
	for i := range w.PrimalVector {
		w.PrimalVector[i] = zero
	}
	copy(w.DualVector, w.Y.Diag)
	return w
}

// initHilbertShift sets x = scale*(Hilbert(n) + 2I) on every dense block
// and x.Diag[i] = scale*(1 + 2) on the diagonal-scalar part (the n=1
// Hilbert entry is 1), following SDPA's initial-point construction.
func initHilbertShift(x *blockdiag.Matrix, scale scalar.Real) {
	two := scalar.FromInt64(2)
	for i := range x.Diag {
		x.Diag[i] = scale.Mul(scalar.FromInt64(1).Add(two))
	}
	for _, b := range x.Blocks {
		n := b.Rows
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				h := scalar.FromInt64(1).Quo(scalar.FromInt64(int64(i + j + 1)))
				b.Set(i, j, h.Mul(scale))
			}
		}
		b.AddScalarToDiagonal(scale.Mul(two))
	}
}
