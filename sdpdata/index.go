// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sdpdata

import "github.com/curioloop/sdpcore/blockdiag"

// BuildConstraintIndices enumerates, for each group j, every (r,s,k) with
// 0 ≤ r ≤ s < dimensions[j] and 0 ≤ k ≤ degrees[j], assigning flat primal
// indices p in strictly increasing order across all groups. The enumeration
// order (outer s, then r, then k, matching
// original_source/src/SDP.h's initializeConstraintIndices) is part of the
// wire format: sdpio's loader must agree with whatever order produced the
// free_var_matrix rows on disk, so this function is also what a from-
// scratch SDP builder (out of scope here) must replicate.
func BuildConstraintIndices(dimensions, degrees []int) (indices [][]ConstraintIndex, p int) {
	indices = make([][]ConstraintIndex, len(dimensions))
	p = 0
	for j, dim := range dimensions {
		deg := degrees[j]
		var entries []ConstraintIndex
		for s := 0; s < dim; s++ {
			for r := 0; r <= s; r++ {
				for k := 0; k <= deg; k++ {
					entries = append(entries, ConstraintIndex{P: p, J: j, R: r, S: s, K: k})
					p++
				}
			}
		}
		indices[j] = entries
	}
	return indices, p
}

// PSDBlock identifies one dense PSD block of the iterate by the (group,
// bilinear-basis) pair that produced it, matching
// original_source/src/SDP.h's psdMatrixBlockDims (dimension =
// bilinearBases[b].Rows * dimensions[j]).
type PSDBlock struct {
	J, B int
}

// BuildPSDBlocks enumerates the (j,b) pairs in the order X/Y's dense Blocks
// are stored, so that pairing/schur/residual can map a block-diagonal block
// index back to its owning group and basis.
func (s *SDP) BuildPSDBlocks() {
	s.PSDBlocks = nil
	s.blockIndex = make(map[[2]int]int)
	for j := range s.Dimensions {
		for _, b := range s.Blocks[j] {
			idx := len(s.PSDBlocks)
			s.PSDBlocks = append(s.PSDBlocks, PSDBlock{J: j, B: b})
			s.blockIndex[[2]int{j, b}] = idx
		}
	}
}

// FlatBlockIndex returns the index into PSDBlocks (and any iterate field's
// Blocks slice) owned by group j's basis b. BuildPSDBlocks must have run.
func (s *SDP) FlatBlockIndex(j, b int) int {
	idx, ok := s.blockIndex[[2]int{j, b}]
	if !ok {
		panic("sdpdata: FlatBlockIndex called before BuildPSDBlocks, or unknown (j,b)")
	}
	return idx
}

// IterateShape derives the block-diagonal shape shared by X, Y, XInv, dX,
// dY, the primal residue, and R.
//
// The diagonal-scalar prefix has length N: X and Y carry one diagonal
// degree of freedom per free variable y_n (the augmented "free variable"
// slack of the dual formulation), which is what makes the diagonal parts of
// X⁻¹ and Y and the Σ_n Y.diag[n]·F(p,n) term in the dual residue
// dimensionally consistent with F being P×N — see DESIGN.md's Open Question
// resolution. The dense Blocks are one per (j,b) pair, dimension
// bilinearBases[b].Rows*dimensions[j] each, in BuildPSDBlocks order.
func (s *SDP) IterateShape() blockdiag.Shape {
	var dims []int
	for j := range s.Dimensions {
		for _, b := range s.Blocks[j] {
			dims = append(dims, s.BilinearBases[b].Rows*s.Dimensions[j])
		}
	}
	return blockdiag.Shape{DiagDim: s.N, BlockDims: dims}
}
