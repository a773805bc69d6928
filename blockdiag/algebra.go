// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockdiag

import (
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/scalar"
)

// AddInto computes dst = alpha*a + beta*b block-wise, with element-wise
// sum on the diagonal-scalar part. dst, a, b must share shape.
func AddInto(dst, a, b *Matrix, alpha, beta scalar.Real) {
	mustSameShape(dst, a)
	mustSameShape(dst, b)
	for i := range dst.Diag {
		dst.Diag[i] = alpha.Mul(a.Diag[i]).Add(beta.Mul(b.Diag[i]))
	}
	for k := range dst.Blocks {
		densemat.AddInto(dst.Blocks[k], a.Blocks[k], b.Blocks[k], alpha, beta)
	}
}

// ScaleInto computes dst = alpha*a block-wise.
func ScaleInto(dst, a *Matrix, alpha scalar.Real) {
	mustSameShape(dst, a)
	for i := range dst.Diag {
		dst.Diag[i] = alpha.Mul(a.Diag[i])
	}
	for k := range dst.Blocks {
		densemat.ScaleInto(dst.Blocks[k], a.Blocks[k], alpha)
	}
}

// MulInto computes dst = alpha*A*B + beta*dst block by block, with
// element-wise product on the diagonal-scalar part. A, B and dst must
// share shape.
func MulInto(dst, a, b *Matrix, alpha, beta scalar.Real) {
	mustSameShape(dst, a)
	mustSameShape(dst, b)
	for i := range dst.Diag {
		dst.Diag[i] = alpha.Mul(a.Diag[i]).Mul(b.Diag[i]).Add(beta.Mul(dst.Diag[i]))
	}
	for k := range dst.Blocks {
		densemat.Gemm(false, false, alpha, a.Blocks[k], b.Blocks[k], beta, dst.Blocks[k])
	}
}

// Symmetrize overwrites m with ½(m + mᵀ) block-wise (diagonal part is
// unaffected, being scalar).
func (m *Matrix) Symmetrize() {
	for _, b := range m.Blocks {
		b.Symmetrize()
	}
}

// AddScalarToDiagonal adds c to every diagonal element of every block and
// to every entry of the diagonal-scalar part.
func (m *Matrix) AddScalarToDiagonal(c scalar.Real) {
	for i := range m.Diag {
		m.Diag[i] = m.Diag[i].Add(c)
	}
	for _, b := range m.Blocks {
		b.AddScalarToDiagonal(c)
	}
}

// MaxAbsElement returns the largest |m[i][j]| over the diagonal part and
// every block — a global reduction once the iterate's blocks span
// processes, see Collective.
func (m *Matrix) MaxAbsElement() scalar.Real {
	max := scalar.Zero()
	for _, v := range m.Diag {
		a := v.Abs()
		if a.Cmp(max) > 0 {
			max = a
		}
	}
	for _, b := range m.Blocks {
		a := b.MaxAbsElement()
		if a.Cmp(max) > 0 {
			max = a
		}
	}
	return max
}

// FrobeniusInner computes the standard symmetric Frobenius inner product
// ⟨a,b⟩_F = Σ a_ij*b_ij, a collective reduction once the iterate is
// distributed across processes.
func FrobeniusInner(a, b *Matrix) scalar.Real {
	mustSameShape(a, b)
	sum := scalar.Zero()
	for i := range a.Diag {
		sum = scalar.MulAdd(a.Diag[i], b.Diag[i], sum)
	}
	for k := range a.Blocks {
		ab, bb := a.Blocks[k], b.Blocks[k]
		for i := range ab.Data {
			sum = scalar.MulAdd(ab.Data[i], bb.Data[i], sum)
		}
	}
	return sum
}

// FrobeniusSumInner computes the "sum-of-sums" variant
// ⟨X+dX, Y+dY⟩ = Σ (X+dX)_ij*(Y+dY)_ij used by the Mehrotra corrector's
// centering-parameter estimate, without materializing X+dX or Y+dY.
func FrobeniusSumInner(x, dx, y, dy *Matrix) scalar.Real {
	mustSameShape(x, dx)
	mustSameShape(x, y)
	mustSameShape(x, dy)
	sum := scalar.Zero()
	for i := range x.Diag {
		xs := x.Diag[i].Add(dx.Diag[i])
		ys := y.Diag[i].Add(dy.Diag[i])
		sum = scalar.MulAdd(xs, ys, sum)
	}
	for k := range x.Blocks {
		xb, dxb, yb, dyb := x.Blocks[k], dx.Blocks[k], y.Blocks[k], dy.Blocks[k]
		for i := range xb.Data {
			xs := xb.Data[i].Add(dxb.Data[i])
			ys := yb.Data[i].Add(dyb.Data[i])
			sum = scalar.MulAdd(xs, ys, sum)
		}
	}
	return sum
}
