// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package residual computes the dual residue vector, primal residue
// matrix, complementarity measure μ, duality gap, and feasibility error —
// the KKT bookkeeping the driver loop uses to decide termination.
package residual

import (
	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/pairing"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/schur"
	"github.com/curioloop/sdpcore/sdpdata"
)

// Dual computes the length-P dual residue vector d:
//
//	d[p] = c[p] − Σ_b ½(P_Y(s·e_j+k,r·e_j+k) + P_Y(r·e_j+k,s·e_j+k)) − Σ_n Y.diag[n]·F(p,n)
func Dual(sdp *sdpdata.SDP, pY *pairing.Cache, yDiag []scalar.Real) []scalar.Real {
	d := make([]scalar.Real, sdp.P)
	half := scalar.FromFloat64(0.5)

	for j, entries := range sdp.ConstraintIndices {
		e := sdp.Degrees[j] + 1
		for _, entry := range entries {
			rk := entry.R*e + entry.K
			sk := entry.S*e + entry.K

			sum := scalar.Zero()
			for _, b := range sdp.Blocks[j] {
				blk := sdp.FlatBlockIndex(j, b)
				term := pY.At(blk, rk, sk).Add(pY.At(blk, sk, rk)).Mul(half)
				sum = sum.Add(term)
			}

			fsum := scalar.Zero()
			for n := 0; n < sdp.N; n++ {
				fsum = scalar.MulAdd(yDiag[n], sdp.FreeVarMatrix.At(entry.P, n), fsum)
			}

			d[entry.P] = sdp.PrimalObjectiveC[entry.P].Sub(sum).Sub(fsum)
		}
	}
	return d
}

// Primal computes the primal residue matrix Rp = Σ_p x_p·F_p − X,
// symmetrized, with the dual objective vector subtracted from the
// diagonal-scalar part. The weighted sum is built by
// schur.ConstraintMatrixWeightedSum.
//
// The original source's Rp also subtracts a constant block F_0; this
// implementation's SDP representation carries no such field — see
// DESIGN.md's Open Question resolution.
func Primal(sdp *sdpdata.SDP, x []scalar.Real, xMat *blockdiag.Matrix) *blockdiag.Matrix {
	sum := schur.ConstraintMatrixWeightedSum(sdp, x)
	one := scalar.FromInt64(1)
	rp := blockdiag.New(sum.ShapeOf())
	blockdiag.AddInto(rp, sum, xMat, one, one.Neg())
	rp.Symmetrize()
	for n := range rp.Diag {
		rp.Diag[n] = rp.Diag[n].Sub(sdp.DualObjectiveB[n])
	}
	return rp
}

// Mu returns the complementarity measure ⟨X,Y⟩_F / dim(X), reduced through
// coll: μ is a global quantity once the iterate's blocks are distributed
// across processes.
func Mu(x, y *blockdiag.Matrix, coll blockdiag.Collective) scalar.Real {
	inner := coll.FrobeniusInner(x, y)
	return inner.Quo(scalar.FromInt64(int64(x.Dim())))
}

// DualityGap returns |obj_p − obj_d| / max((|obj_p|+|obj_d|)/2, 1).
func DualityGap(objP, objD scalar.Real) scalar.Real {
	num := objP.Sub(objD).Abs()
	half := objP.Abs().Add(objD.Abs()).Mul(scalar.FromFloat64(0.5))
	denom := scalar.Max(half, scalar.FromInt64(1))
	return num.Quo(denom)
}

// FeasibilityError returns max(‖Rp‖_∞, ‖d‖_∞), with ‖Rp‖_∞ reduced through
// coll.
func FeasibilityError(rp *blockdiag.Matrix, d []scalar.Real, coll blockdiag.Collective) scalar.Real {
	max := coll.MaxAbsElement(rp)
	for _, v := range d {
		a := v.Abs()
		if a.Cmp(max) > 0 {
			max = a
		}
	}
	return max
}
