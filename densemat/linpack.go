// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package densemat

import "github.com/curioloop/sdpcore/scalar"

// Status is the non-panicking failure code returned by the linear-algebra
// kernels, following the teacher's errInfo convention (lbfgsb/*.go) rather
// than a Go error: the driver checks it on the hot path without allocating.
type Status int

const (
	// OK indicates success.
	OK Status = 0
	// NotPositiveDefinite indicates Potrf encountered a non-positive
	// pivot; surfaced by the caller as "X or Y lost positive-definiteness"
	// or "Schur complement not positive definite", depending on which
	// matrix was being factored.
	NotPositiveDefinite Status = 1
	// Singular indicates a triangular solve hit a zero diagonal.
	Singular Status = 2
)

// Potrf factors the symmetric positive-definite matrix a = L*Lᵀ, returning
// the lower-triangular factor L (upper triangle of the result is zero).
// Only the lower triangle of a is read. Generalizes lbfgsb/linpack.go's
// dpofa (upper-triangular, float64) to a lower-triangular scalar.Real
// kernel.
func Potrf(a *Matrix) (*Matrix, Status) {
	if a.Rows != a.Cols {
		panic("densemat: Potrf requires a square matrix")
	}
	n := a.Rows
	l := New(n, n)
	for j := 0; j < n; j++ {
		sum := a.At(j, j)
		for k := 0; k < j; k++ {
			ljk := l.At(j, k)
			sum = sum.Sub(ljk.Mul(ljk))
		}
		if sum.Sign() <= 0 {
			return nil, NotPositiveDefinite
		}
		ljj := sum.Sqrt()
		l.Set(j, j, ljj)
		for i := j + 1; i < n; i++ {
			sum := a.At(i, j)
			for k := 0; k < j; k++ {
				sum = sum.Sub(l.At(i, k).Mul(l.At(j, k)))
			}
			l.Set(i, j, sum.Quo(ljj))
		}
	}
	return l, OK
}

// TrsmLower solves L*X = B for X, where L is lower triangular (only its
// lower triangle is read) and B is a general Rows(L)×cols matrix. B is
// overwritten with the solution. Used both directly (forward elimination
// in the predictor/corrector reconstruction) and to invert L itself by
// solving L*X = I.
func TrsmLower(l *Matrix, b *Matrix) Status {
	n := l.Rows
	if b.Rows != n {
		panic("densemat: TrsmLower shape mismatch")
	}
	for col := 0; col < b.Cols; col++ {
		for i := 0; i < n; i++ {
			lii := l.At(i, i)
			if lii.IsZero() {
				return Singular
			}
			sum := b.At(i, col)
			for k := 0; k < i; k++ {
				sum = sum.Sub(l.At(i, k).Mul(b.At(k, col)))
			}
			b.Set(i, col, sum.Quo(lii))
		}
	}
	return OK
}

// TrsmLowerT solves Lᵀ*X = B for X (back substitution), overwriting B.
func TrsmLowerT(l *Matrix, b *Matrix) Status {
	n := l.Rows
	if b.Rows != n {
		panic("densemat: TrsmLowerT shape mismatch")
	}
	for col := 0; col < b.Cols; col++ {
		for i := n - 1; i >= 0; i-- {
			lii := l.At(i, i)
			if lii.IsZero() {
				return Singular
			}
			sum := b.At(i, col)
			for k := i + 1; k < n; k++ {
				sum = sum.Sub(l.At(k, i).Mul(b.At(k, col)))
			}
			b.Set(i, col, sum.Quo(lii))
		}
	}
	return OK
}

// InvertLower returns L⁻¹ for a lower-triangular L, by solving L*X = I
// with TrsmLower.
func InvertLower(l *Matrix) (*Matrix, Status) {
	n := l.Rows
	inv := Identity(n)
	st := TrsmLower(l, inv)
	return inv, st
}

// TrmmLowerTL computes dst = Lᵀ*L for a lower-triangular L, exploiting the
// triangular structure of L rather than calling the dense Gemm. Here L is
// meant to already be L⁻¹ when forming A_inv = L⁻ᵀ·L⁻¹.
func TrmmLowerTL(l *Matrix) *Matrix {
	n := l.Rows
	out := New(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := scalar.Zero()
			lo := i
			if j > lo {
				lo = j
			}
			for k := lo; k < n; k++ {
				sum = scalar.MulAdd(l.At(k, i), l.At(k, j), sum)
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

// CholeskyInverse computes, for a symmetric positive-definite a, its lower
// Cholesky factor chol, the inverse of that factor invChol, and the full
// inverse ainv = invCholᵀ*invChol — the three quantities the interior-point
// iteration needs every step for both X and Y.
func CholeskyInverse(a *Matrix) (chol, invChol, ainv *Matrix, st Status) {
	chol, st = Potrf(a)
	if st != OK {
		return nil, nil, nil, st
	}
	invChol, st = InvertLower(chol)
	if st != OK {
		return chol, nil, nil, st
	}
	ainv = TrmmLowerTL(invChol)
	return chol, invChol, ainv, OK
}
