// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package direction reconstructs the Mehrotra predictor and corrector
// search directions: the centering-parameter R-matrix construction and
// the four-stage (dx, dX, dY) solve against the factored Schur
// complement.
package direction

import (
	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/schur"
	"github.com/curioloop/sdpcore/sdpdata"
)

// Predictor returns R = β·μ·I − X·Y with β = 0 if feasErr < epsBar, else
// betaBar.
func Predictor(x, y *blockdiag.Matrix, mu, feasErr, epsBar, betaBar scalar.Real) *blockdiag.Matrix {
	beta := scalar.Zero()
	if feasErr.Cmp(epsBar) >= 0 {
		beta = betaBar
	}
	return centeringR(x, y, mu, beta, nil, nil)
}

// Corrector returns R = β·μ·I − X·Y − dX·dY, with β chosen by Mehrotra's
// adaptive centering policy from the predictor direction (dX, dY). The two
// Frobenius reductions go through coll, a collective once the iterate is
// distributed across processes.
func Corrector(x, y, dX, dY *blockdiag.Matrix, mu, feasErr, epsBar, betaStar, betaBar scalar.Real, coll blockdiag.Collective) *blockdiag.Matrix {
	sumInner := coll.FrobeniusSumInner(x, dX, y, dY)
	xy := coll.FrobeniusInner(x, y)
	r := sumInner.Quo(xy)
	betaAux := r.Mul(r)

	one := scalar.FromInt64(1)
	var beta scalar.Real
	switch {
	case betaAux.Cmp(one) > 0:
		beta = one
	case feasErr.Cmp(epsBar) < 0:
		beta = scalar.Max(betaStar, betaAux)
	default:
		beta = scalar.Max(betaBar, betaAux)
	}
	return centeringR(x, y, mu, beta, dX, dY)
}

func centeringR(x, y *blockdiag.Matrix, mu, beta scalar.Real, dX, dY *blockdiag.Matrix) *blockdiag.Matrix {
	one, zero := scalar.FromInt64(1), scalar.Zero()
	xy := blockdiag.New(x.ShapeOf())
	blockdiag.MulInto(xy, x, y, one, zero)
	if dX != nil {
		dxdy := blockdiag.New(x.ShapeOf())
		blockdiag.MulInto(dxdy, dX, dY, one, zero)
		blockdiag.AddInto(xy, xy, dxdy, one, one)
	}
	r := blockdiag.Identity(x.ShapeOf())
	blockdiag.ScaleInto(r, r, beta.Mul(mu))
	blockdiag.AddInto(r, r, xy, one, one.Neg())
	return r
}

// applyInverseCongruence computes sym(ainv·t), the "apply X⁻¹ via its
// factored inverse" step shared by stages 1 and 4.
func applyInverseCongruence(ainv, t *blockdiag.Matrix) *blockdiag.Matrix {
	z := blockdiag.New(t.ShapeOf())
	blockdiag.ApplyInverse(z, ainv, t)
	z.Symmetrize()
	return z
}

// Solve reconstructs (dx, dX, dY) from an R-matrix scratch, following the
// usual Schur-complement reduction's four stages:
//
//  1. Z = sym(X⁻¹·(Rp·Y − R))
//  2. rhs[p] = −d[p] − ⟨Z,F_p⟩; dx = L_S⁻ᵀ L_S⁻¹ rhs
//  3. dX = Σ_p dx_p·F_p + Rp
//  4. dY = sym(X⁻¹·(R − dX·Y))
//
// ainv is X's already-factored inverse (L⁻ᵀL⁻¹); lsChol is the Schur
// complement's lower Cholesky factor L_S.
func Solve(sdp *sdpdata.SDP, ainv, rp, r, y *blockdiag.Matrix, d []scalar.Real, lsChol *densemat.Matrix) (dx []scalar.Real, dX, dY *blockdiag.Matrix) {
	one, zero := scalar.FromInt64(1), scalar.Zero()

	rpy := blockdiag.New(rp.ShapeOf())
	blockdiag.MulInto(rpy, rp, y, one, zero)
	t1 := blockdiag.New(rpy.ShapeOf())
	blockdiag.AddInto(t1, rpy, r, one, one.Neg())
	z := applyInverseCongruence(ainv, t1)

	inner := schur.ConstraintInnerProducts(sdp, z)
	rhs := densemat.New(sdp.P, 1)
	for p := 0; p < sdp.P; p++ {
		rhs.Set(p, 0, d[p].Neg().Sub(inner[p]))
	}
	densemat.TrsmLower(lsChol, rhs)
	densemat.TrsmLowerT(lsChol, rhs)
	dx = make([]scalar.Real, sdp.P)
	for p := 0; p < sdp.P; p++ {
		dx[p] = rhs.At(p, 0)
	}

	dX = schur.ConstraintMatrixWeightedSum(sdp, dx)
	blockdiag.AddInto(dX, dX, rp, one, one)

	dXY := blockdiag.New(dX.ShapeOf())
	blockdiag.MulInto(dXY, dX, y, one, zero)
	t2 := blockdiag.New(r.ShapeOf())
	blockdiag.AddInto(t2, r, dXY, one, one.Neg())
	dY = applyInverseCongruence(ainv, t2)

	return dx, dX, dY
}
