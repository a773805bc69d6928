// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockdiag

import (
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/scalar"
)

// Status mirrors densemat.Status for failures lifted block-wise: a
// non-positive-definite block is fatal for the iteration.
type Status = densemat.Status

const (
	OK                  = densemat.OK
	NotPositiveDefinite = densemat.NotPositiveDefinite
)

// CholeskyInverse computes, for a symmetric positive-definite block-diagonal
// a, its lower Cholesky factor chol, the inverse of that factor invChol,
// and the full inverse ainv, lifting densemat.CholeskyInverse block-wise.
// The diagonal-scalar part is inverted pointwise: chol[i] = sqrt(a[i]),
// invChol[i] = 1/sqrt(a[i]), ainv[i] = 1/a[i].
func CholeskyInverse(a *Matrix) (chol, invChol, ainv *Matrix, st Status) {
	shape := a.ShapeOf()
	chol = New(shape)
	invChol = New(shape)
	ainv = New(shape)

	for i, v := range a.Diag {
		if v.Sign() <= 0 {
			return nil, nil, nil, NotPositiveDefinite
		}
		sq := v.Sqrt()
		chol.Diag[i] = sq
		invSq := scalar.FromInt64(1).Quo(sq)
		invChol.Diag[i] = invSq
		ainv.Diag[i] = scalar.FromInt64(1).Quo(v)
	}

	for b := range a.Blocks {
		c, ic, ai, s := densemat.CholeskyInverse(a.Blocks[b])
		if s != densemat.OK {
			return nil, nil, nil, s
		}
		chol.Blocks[b] = c
		invChol.Blocks[b] = ic
		ainv.Blocks[b] = ai
	}
	return chol, invChol, ainv, OK
}

// ApplyInverse computes dst = ainv * z applied block-wise — the operation
// the direction package's predictor and corrector stages both use to apply
// X⁻¹ to a block-diagonal right-hand side. ainv is expected to already be
// the materialized inverse (invCholᵀ*invChol), so this skips reapplying
// the Cholesky factor twice at each call site.
func ApplyInverse(dst, ainv, z *Matrix) {
	MulInto(dst, ainv, z, scalar.FromInt64(1), scalar.Zero())
}
