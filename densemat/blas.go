// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package densemat

import "github.com/curioloop/sdpcore/scalar"

// AddInto computes dst = alpha*a + beta*b element-wise. a, b and dst must
// share shape; dst may alias a but must not alias b.
func AddInto(dst, a, b *Matrix, alpha, beta scalar.Real) {
	mustSameShape(dst, a)
	mustSameShape(dst, b)
	ScaleInto(dst, a, alpha)
	daxpy(len(dst.Data), beta, b.Data, 1, dst.Data, 1)
}

// ScaleInto computes dst = alpha*a element-wise.
func ScaleInto(dst, a *Matrix, alpha scalar.Real) {
	mustSameShape(dst, a)
	for i := range dst.Data {
		dst.Data[i] = alpha.Mul(a.Data[i])
	}
}

// daxpy performs dy[i] += da*dx[i] for a strided vector, in the teacher's
// (slsqp/blas.go) naming, generalized from float64 to scalar.Real.
func daxpy(n int, da scalar.Real, dx []scalar.Real, incx int, dy []scalar.Real, incy int) {
	if n <= 0 || da.IsZero() {
		return
	}
	ix, iy := 0, 0
	for k := 0; k < n; k++ {
		dy[iy] = scalar.MulAdd(da, dx[ix], dy[iy])
		ix += incx
		iy += incy
	}
}

// ddot computes the dot product of two strided vectors, in the teacher's
// (slsqp/blas.go) naming.
func ddot(n int, dx []scalar.Real, incx int, dy []scalar.Real, incy int) scalar.Real {
	dot := scalar.Zero()
	ix, iy := 0, 0
	for k := 0; k < n; k++ {
		dot = scalar.MulAdd(dx[ix], dy[iy], dot)
		ix += incx
		iy += incy
	}
	return dot
}

// Gemm computes C := alpha*op(A)*op(B) + beta*C, where op is Transpose or
// identity depending on transA/transB. This is the one routine every other
// kernel in sdpcore (pairing congruence, Schur assembly, direction
// reconstruction) bottoms out on.
func Gemm(transA, transB bool, alpha scalar.Real, a, b *Matrix, beta scalar.Real, c *Matrix) {
	ar, ac := a.Rows, a.Cols
	if transA {
		ar, ac = ac, ar
	}
	br, bc := b.Rows, b.Cols
	if transB {
		br, bc = bc, br
	}
	if ac != br {
		panic("densemat: Gemm inner dimension mismatch")
	}
	if c.Rows != ar || c.Cols != bc {
		panic("densemat: Gemm output shape mismatch")
	}
	for i := 0; i < ar; i++ {
		aBase, aStride := i*a.Cols, 1
		if transA {
			aBase, aStride = i, a.Cols
		}
		for j := 0; j < bc; j++ {
			bBase, bStride := j, b.Cols
			if transB {
				bBase, bStride = j*b.Cols, 1
			}
			sum := ddot(ac, a.Data[aBase:], aStride, b.Data[bBase:], bStride)
			c.Set(i, j, alpha.Mul(sum).Add(beta.Mul(c.At(i, j))))
		}
	}
}

// Mul returns a*b as a new matrix (alpha=1, beta=0, no transpose); a
// convenience wrapper over Gemm used throughout the search-direction and
// pairing code where no accumulation into an existing C is needed.
func Mul(a, b *Matrix) *Matrix {
	out := New(a.Rows, b.Cols)
	one, zero := scalar.FromInt64(1), scalar.Zero()
	Gemm(false, false, one, a, b, zero, out)
	return out
}

// MulT returns aᵀ*b as a new matrix.
func MulT(a, b *Matrix) *Matrix {
	out := New(a.Cols, b.Cols)
	one, zero := scalar.FromInt64(1), scalar.Zero()
	Gemm(true, false, one, a, b, zero, out)
	return out
}
