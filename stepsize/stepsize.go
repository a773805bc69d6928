// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stepsize bounds the largest α ∈ (0,1] for which X+α·dX
// (respectively Y+α·dY) stays positive definite, via the minimum
// eigenvalue of L⁻¹·dX·L⁻ᵀ estimated by a Lanczos iteration (or, for small
// blocks, a direct eigensolver).
package stepsize

import (
	"math"

	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/scalar"
)

// SmallBlockThreshold is the block dimension at or below which DirectMinEigen
// (gonum's dense eigensolver) is used instead of Lanczos: a direct QR pays
// off once the Lanczos recurrence's setup cost dominates. See DESIGN.md for
// why 4 was chosen.
const SmallBlockThreshold = 4

// MaxStep returns the largest α ∈ (0,1] such that X+α·dX remains positive
// definite, given chol (X's current block-wise lower Cholesky factor) and
// dX, using the step-shrink constant gamma.
func MaxStep(chol, dX *blockdiag.Matrix, gamma scalar.Real) scalar.Real {
	lambdaMin := minEigenCongruence(chol, dX)
	one := scalar.FromInt64(1)
	if lambdaMin.Sign() >= 0 {
		return one
	}
	return scalar.Min(one, gamma.Quo(lambdaMin.Abs()))
}

// minEigenCongruence returns the minimum eigenvalue of L⁻¹·dX·L⁻ᵀ over the
// diagonal-scalar part and every block, taking the global minimum — a
// collective reduction once the iterate is distributed (local here, see
// blockdiag.Collective).
func minEigenCongruence(chol, dX *blockdiag.Matrix) scalar.Real {
	var global scalar.Real
	has := false
	upd := func(v scalar.Real) {
		if !has || v.Cmp(global) < 0 {
			global, has = v, true
		}
	}

	for i := range chol.Diag {
		ld := chol.Diag[i]
		upd(dX.Diag[i].Quo(ld.Mul(ld)))
	}
	for k := range chol.Blocks {
		l, dxk := chol.Blocks[k], dX.Blocks[k]
		var v scalar.Real
		var st densemat.Status
		if l.Rows <= SmallBlockThreshold {
			v, st = DirectMinEigen(l, dxk)
		} else {
			v, st = LanczosMinEigen(l, dxk)
		}
		if st != densemat.OK {
			v = scalar.Zero()
		}
		upd(v)
	}
	if !has {
		return scalar.Zero()
	}
	return global
}

// formCongruence computes M = L⁻¹·dX·L⁻ᵀ for lower-triangular l and
// symmetric dX, via two triangular solves.
func formCongruence(l, dx *densemat.Matrix) *densemat.Matrix {
	a := dx.Copy()
	densemat.TrsmLower(l, a) // a = L^-1 * dX
	b := a.Transpose()       // b = dX * L^-T  (dX symmetric)
	densemat.TrsmLower(l, b) // b = L^-1 * dX * L^-T = M
	return b
}

// DirectMinEigen computes the minimum eigenvalue of L⁻¹·dX·L⁻ᵀ via the
// small-block direct eigensolver (densemat.SyevFallback).
func DirectMinEigen(l, dx *densemat.Matrix) (scalar.Real, densemat.Status) {
	m := formCongruence(l, dx)
	return densemat.SyevFallback(m)
}

// LanczosMinEigen estimates the minimum eigenvalue of L⁻¹·dX·L⁻ᵀ by
// Lanczos tridiagonalization plus densemat.Steqr, stopping when k exceeds
// √dim+10, k reaches dim−1, or the estimate stabilizes between successive
// iterations.
func LanczosMinEigen(l, dx *densemat.Matrix) (scalar.Real, densemat.Status) {
	m := formCongruence(l, dx)
	n := m.Rows
	if n == 0 {
		return scalar.Zero(), densemat.OK
	}
	maxK := int(math.Sqrt(float64(n))) + 10
	if maxK > n {
		maxK = n
	}

	one := scalar.FromInt64(1)
	cur := make([]scalar.Real, n)
	for i := range cur {
		cur[i] = one
	}
	normalize(cur)
	prev := make([]scalar.Real, n)

	var alphas, betas []scalar.Real
	var minEig, minEigOld scalar.Real
	haveMin := false

	for k := 0; k < maxK; k++ {
		w := matVec(m, cur)
		a := dot(cur, w)
		alphas = append(alphas, a)
		for i := range w {
			w[i] = w[i].Sub(a.Mul(cur[i]))
			if k > 0 {
				w[i] = w[i].Sub(betas[k-1].Mul(prev[i]))
			}
		}
		b := norm(w)
		betas = append(betas, b)

		d := append([]scalar.Real{}, alphas...)
		e := append([]scalar.Real{}, betas[:len(betas)-1]...)
		vals, st := densemat.Steqr(d, e)
		if st != densemat.OK {
			return scalar.Zero(), st
		}
		minEig = densemat.MinEigenvalue(vals)

		if haveMin {
			diff := minEig.Sub(minEigOld).Abs()
			tol1 := minEig.Abs().Mul(scalar.FromFloat64(1e-5)).Add(scalar.FromFloat64(1e-8))
			tol2 := minEig.Abs().Mul(scalar.FromFloat64(1e-2)).Add(scalar.FromFloat64(1e-4))
			if diff.Cmp(tol1) <= 0 && b.Abs().Cmp(tol2) <= 0 {
				return minEig, densemat.OK
			}
		}
		minEigOld, haveMin = minEig, true

		if b.IsZero() || k == n-1 {
			break
		}
		prev = cur
		next := make([]scalar.Real, n)
		for i := range w {
			next[i] = w[i].Quo(b)
		}
		cur = next
	}
	return minEig, densemat.OK
}

func matVec(m *densemat.Matrix, v []scalar.Real) []scalar.Real {
	n := m.Rows
	out := make([]scalar.Real, n)
	for i := 0; i < n; i++ {
		sum := scalar.Zero()
		for j := 0; j < n; j++ {
			sum = scalar.MulAdd(m.At(i, j), v[j], sum)
		}
		out[i] = sum
	}
	return out
}

func dot(a, b []scalar.Real) scalar.Real {
	sum := scalar.Zero()
	for i := range a {
		sum = scalar.MulAdd(a[i], b[i], sum)
	}
	return sum
}

func norm(v []scalar.Real) scalar.Real {
	return dot(v, v).Sqrt()
}

func normalize(v []scalar.Real) {
	n := norm(v)
	if n.IsZero() {
		return
	}
	for i := range v {
		v[i] = v[i].Quo(n)
	}
}
