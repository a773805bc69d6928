// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schur assembles and factorizes the Schur complement: the dense
// P×P reduction of the KKT linearization that eliminates X and Y, leaving
// a single dense solve in the dual-variable space.
package schur

import (
	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/pairing"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/sdpdata"
)

// Assemble forms the dense Schur complement S. pXinv and pY are the
// bilinear-pairing caches of X⁻¹ and Y (package pairing); xInvDiag and
// yDiag are the diagonal-scalar parts of X⁻¹ and Y. Entries with p1, p2 in
// different groups are zero from the block contributions; the
// diagonal-part congruence (DiagonalCongruenceTranspose) can connect any
// p1, p2 and is added on top.
func Assemble(sdp *sdpdata.SDP, pXinv, pY *pairing.Cache, xInvDiag, yDiag []scalar.Real) *densemat.Matrix {
	s := densemat.New(sdp.P, sdp.P)
	quarter := scalar.FromFloat64(0.25)

	for j, entries := range sdp.ConstraintIndices {
		e := sdp.Degrees[j] + 1
		for _, b := range sdp.Blocks[j] {
			blk := sdp.FlatBlockIndex(j, b)
			for _, e1 := range entries {
				r1k1 := e1.R*e + e1.K
				s1k1 := e1.S*e + e1.K
				for _, e2 := range entries {
					if e2.P < e1.P {
						continue
					}
					r2k2 := e2.R*e + e2.K
					s2k2 := e2.S*e + e2.K

					term := pXinv.At(blk, s1k1, r2k2).Mul(pY.At(blk, s2k2, r1k1))
					term = term.Add(pXinv.At(blk, r1k1, r2k2).Mul(pY.At(blk, s2k2, s1k1)))
					term = term.Add(pXinv.At(blk, s1k1, s2k2).Mul(pY.At(blk, r2k2, r1k1)))
					term = term.Add(pXinv.At(blk, r1k1, s2k2).Mul(pY.At(blk, r2k2, s1k1)))
					term = term.Mul(quarter)

					cur := s.At(e1.P, e2.P).Add(term)
					s.Set(e1.P, e2.P, cur)
					if e1.P != e2.P {
						s.Set(e2.P, e1.P, cur)
					}
				}
			}
		}
	}

	d := make([]scalar.Real, sdp.N)
	for n := range d {
		d[n] = xInvDiag[n].Mul(yDiag[n])
	}
	diagTerm := DiagonalCongruenceTranspose(sdp.FreeVarMatrix, d)
	densemat.AddInto(s, s, diagTerm, scalar.FromInt64(1), scalar.FromInt64(1))

	return s
}

// Factor Cholesky-factorizes the Schur complement. A non-OK status is
// fatal for the iteration.
func Factor(s *densemat.Matrix) (*densemat.Matrix, densemat.Status) {
	return densemat.Potrf(s)
}

// DiagonalCongruenceTranspose computes F·diag(d)·Fᵀ (P×P) for the SDP's
// free-variable matrix F (P×N) and a length-N vector d — the
// diagonal-part contribution to the Schur complement.
func DiagonalCongruenceTranspose(f *densemat.Matrix, d []scalar.Real) *densemat.Matrix {
	work := f.Copy()
	for i := 0; i < work.Rows; i++ {
		for k := 0; k < work.Cols; k++ {
			work.Set(i, k, work.At(i, k).Mul(d[k]))
		}
	}
	return densemat.Mul(work, f.Transpose())
}

// ConstraintMatrixWeightedSum builds Σ_p v_p·F_p as a block-diagonal matrix
// with X/Y's shape. For each constraint index (p,j,r,s,k), F_p's diagonal
// part is row p of the free-variable matrix (Diag[n] = F(p,n)); its dense part places
// v_p·q_{b,k}(i1)·q_{b,k}(i2) at tile-position (r·m+i1, s·m+i2) of every
// block b ∈ blocks[j], mirrored into (s·m+i2, r·m+i1) when r≠s.
func ConstraintMatrixWeightedSum(sdp *sdpdata.SDP, v []scalar.Real) *blockdiag.Matrix {
	m := blockdiag.New(sdp.IterateShape())

	for n := 0; n < sdp.N; n++ {
		sum := scalar.Zero()
		for p := 0; p < sdp.P; p++ {
			sum = scalar.MulAdd(v[p], sdp.FreeVarMatrix.At(p, n), sum)
		}
		m.Diag[n] = sum
	}

	for j, entries := range sdp.ConstraintIndices {
		for _, entry := range entries {
			vp := v[entry.P]
			if vp.IsZero() {
				continue
			}
			for _, b := range sdp.Blocks[j] {
				blk := sdp.FlatBlockIndex(j, b)
				q := sdp.BilinearBases[b]
				mDim := q.Rows
				dst := m.Blocks[blk]
				r, sIdx, k := entry.R, entry.S, entry.K
				for i1 := 0; i1 < mDim; i1++ {
					qi1 := q.At(i1, k)
					if qi1.IsZero() {
						continue
					}
					for i2 := 0; i2 < mDim; i2++ {
						qi2 := q.At(i2, k)
						contrib := vp.Mul(qi1).Mul(qi2)
						row, col := r*mDim+i1, sIdx*mDim+i2
						dst.Set(row, col, dst.At(row, col).Add(contrib))
						if r != sIdx {
							dst.Set(col, row, dst.At(col, row).Add(contrib))
						}
					}
				}
			}
		}
	}
	return m
}

// ConstraintInnerProducts computes, for every p, the Frobenius inner
// product ⟨z, F_p⟩ — the adjoint of ConstraintMatrixWeightedSum, used by
// direction's stage 2 to project Z back onto the primal-index space:
// Σ_n F(p,n)·Z.diag[n] + Σ_b ⟨q_{b,k}, Z_blk(b)[r,s], q_{b,k}⟩.
func ConstraintInnerProducts(sdp *sdpdata.SDP, z *blockdiag.Matrix) []scalar.Real {
	out := make([]scalar.Real, sdp.P)
	for j, entries := range sdp.ConstraintIndices {
		for _, entry := range entries {
			sum := scalar.Zero()
			for n := 0; n < sdp.N; n++ {
				sum = scalar.MulAdd(sdp.FreeVarMatrix.At(entry.P, n), z.Diag[n], sum)
			}
			for _, b := range sdp.Blocks[j] {
				blk := sdp.FlatBlockIndex(j, b)
				q := sdp.BilinearBases[b]
				mDim := q.Rows
				blkMat := z.Blocks[blk]
				r, sIdx, k := entry.R, entry.S, entry.K
				inner := scalar.Zero()
				for i1 := 0; i1 < mDim; i1++ {
					qi1 := q.At(i1, k)
					if qi1.IsZero() {
						continue
					}
					for i2 := 0; i2 < mDim; i2++ {
						qi2 := q.At(i2, k)
						v := blkMat.At(r*mDim+i1, sIdx*mDim+i2)
						inner = scalar.MulAdd(qi1.Mul(qi2), v, inner)
					}
				}
				if r != sIdx {
					inner = inner.Add(inner)
				}
				sum = sum.Add(inner)
			}
			out[entry.P] = sum
		}
	}
	return out
}
