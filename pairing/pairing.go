// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pairing computes the bilinear-pairing cache: for a symmetric
// block-diagonal operand (X⁻¹ or Y) and the SDP's bilinear basis list, the
// tensor-matrix congruence Qᵀ_b·A_blk(b)·Q_b, lifted from the sample-point
// layout (dim_j copies of an m_b×m_b tile) to the (cols(Q_b)·dim_j)-
// dimensional constraint-index layout used by schur and direction.
package pairing

import (
	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/sdpdata"
)

// Cache holds one dense (cols(Q_b)·dim_j)-square matrix per PSD block,
// indexed the same way as sdpdata.SDP.PSDBlocks.
type Cache struct {
	Blocks []*densemat.Matrix
}

// At returns the (row,col) entry of the block'th cached pairing, where row
// and col are composite indices s*e_j+k (e_j = degrees[j]+1).
func (c *Cache) At(block, row, col int) scalar.Real {
	return c.Blocks[block].At(row, col)
}

// Compute builds the pairing cache for operand a (X⁻¹ or Y) against sdp's
// bilinear bases. sdp.BuildPSDBlocks must already have run.
//
// For block b owning group j, Q_b is expanded to a block-diagonal matrix
// with dim_j copies of Q_b on its diagonal (expandedQ, (dim_j·rows(Q_b)) ×
// (dim_j·cols(Q_b))); the result is expandedQᵀ·A_blk(b)·expandedQ. Because
// expandedQ is block-diagonal, this is exactly Qᵀ_b·A_blk(b)[r,s]·Q_b
// placed at composite position (r·e_j+k1, s·e_j+k2) for every tile (r,s) —
// the tensor congruence expressed here as two dense Gemms instead of
// explicit per-tile loops.
func Compute(sdp *sdpdata.SDP, a *blockdiag.Matrix) *Cache {
	c := &Cache{Blocks: make([]*densemat.Matrix, len(sdp.PSDBlocks))}
	for idx, loc := range sdp.PSDBlocks {
		dimJ := sdp.Dimensions[loc.J]
		q := sdp.BilinearBases[loc.B]
		m, e := q.Rows, q.Cols

		expanded := densemat.New(dimJ*m, dimJ*e)
		for r := 0; r < dimJ; r++ {
			for i := 0; i < m; i++ {
				for k := 0; k < e; k++ {
					expanded.Set(r*m+i, r*e+k, q.At(i, k))
				}
			}
		}

		work := densemat.Mul(a.Blocks[idx], expanded)
		result := densemat.MulT(expanded, work)
		result.Symmetrize()
		c.Blocks[idx] = result
	}
	return c
}
