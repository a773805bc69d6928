// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sdpdata holds the read-only SDP problem description: the
// free-variable matrix, primal/dual objectives, per-group dimensions and
// degrees, bilinear-basis blocks, and the constraint-index table mapping
// (group, r, s, k) to the flat primal-vector index p. An SDP is created by
// the loader (package sdpio) and never mutated afterward.
package sdpdata

import (
	"fmt"

	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/scalar"
)

// ConstraintIndex is one entry (p, j, r, s, k) of the constraint index
// table: p is the flat, globally-unique constraint index; j is the group;
// r,s (0 ≤ r ≤ s < dimensions[j]) are the PSD-block row/column; k (0 ≤ k ≤
// degrees[j]) is the polynomial-degree index.
type ConstraintIndex struct {
	P    int
	J    int
	R, S int
	K    int
}

// SDP is the immutable problem description.
type SDP struct {
	// FreeVarMatrix is F, dense (P × N).
	FreeVarMatrix *densemat.Matrix
	// PrimalObjectiveC has length P.
	PrimalObjectiveC []scalar.Real
	// DualObjectiveB has length N.
	DualObjectiveB []scalar.Real
	// ObjectiveConst is the constant term added to both objectives.
	ObjectiveConst scalar.Real

	// Dimensions[j] and Degrees[j] for j in [0, J).
	Dimensions []int
	Degrees    []int

	// BilinearBases[b] has Cols = Degrees[j]+1 for any b in Blocks[j].
	BilinearBases []*densemat.Matrix
	// Blocks[j] lists indices into BilinearBases associated with group j.
	Blocks [][]int

	// ConstraintIndices[j] enumerates the (p,r,s,k) tuples of group j, in
	// strictly increasing p order.
	ConstraintIndices [][]ConstraintIndex

	// FlatIndex[p] is the ConstraintIndex entry for primal index p,
	// indexed directly by p for O(1) lookup; built by BuildFlatIndex once
	// ConstraintIndices is populated. p visits [0,P) in strictly increasing
	// order, so this is a dense array.
	FlatIndex []ConstraintIndex

	// P, N are the primal/dual vector lengths.
	P, N int

	// PSDBlocks[b] is the (group, basis) pair owning the b-th dense PSD
	// block of every iterate field sharing this SDP's IterateShape.
	// Populated by BuildPSDBlocks.
	PSDBlocks []PSDBlock

	// blockIndex maps (j,b) to its position in PSDBlocks; built alongside
	// PSDBlocks by BuildPSDBlocks.
	blockIndex map[[2]int]int
}

// BuildFlatIndex populates FlatIndex from ConstraintIndices. Must be called
// once after ConstraintIndices is set, before the SDP is used by the
// solver; the loader (sdpio) calls this automatically.
func (s *SDP) BuildFlatIndex() {
	s.FlatIndex = make([]ConstraintIndex, s.P)
	for _, entries := range s.ConstraintIndices {
		for _, e := range entries {
			s.FlatIndex[e.P] = e
		}
	}
}

// GroupOf returns the group j and (r,s,k) that own primal index p.
func (s *SDP) GroupOf(p int) (j, r, sIdx, k int, ok bool) {
	if p < 0 || p >= len(s.FlatIndex) {
		return 0, 0, 0, 0, false
	}
	e := s.FlatIndex[p]
	return e.J, e.R, e.S, e.K, true
}

// Validate checks the structural invariants of an SDP problem description:
//
//	P = Σⱼ dimensions[j]·(dimensions[j]+1)/2 · (degrees[j]+1)
//
// and that ConstraintIndices enumerate exactly P tuples with strictly
// increasing p overall.
func (s *SDP) Validate() error {
	if len(s.Dimensions) != len(s.Degrees) {
		return fmt.Errorf("sdpdata: dimensions/degrees length mismatch: %d vs %d", len(s.Dimensions), len(s.Degrees))
	}
	wantP := 0
	for j := range s.Dimensions {
		dim, deg := s.Dimensions[j], s.Degrees[j]
		wantP += dim * (dim + 1) / 2 * (deg + 1)
	}
	if wantP != s.P {
		return fmt.Errorf("sdpdata: P mismatch: declared %d, computed %d", s.P, wantP)
	}
	prev := -1
	count := 0
	for _, entries := range s.ConstraintIndices {
		for _, e := range entries {
			if e.P <= prev {
				return fmt.Errorf("sdpdata: constraint index table not strictly increasing at p=%d", e.P)
			}
			prev = e.P
			count++
		}
	}
	if count != s.P {
		return fmt.Errorf("sdpdata: constraint index table enumerates %d tuples, want %d", count, s.P)
	}
	if s.FreeVarMatrix.Rows != s.P || s.FreeVarMatrix.Cols != s.N {
		return fmt.Errorf("sdpdata: free_var_matrix shape %dx%d does not match P=%d N=%d",
			s.FreeVarMatrix.Rows, s.FreeVarMatrix.Cols, s.P, s.N)
	}
	if len(s.PrimalObjectiveC) != s.P {
		return fmt.Errorf("sdpdata: primal_objective_c length %d != P=%d", len(s.PrimalObjectiveC), s.P)
	}
	if len(s.DualObjectiveB) != s.N {
		return fmt.Errorf("sdpdata: dual_objective_b length %d != N=%d", len(s.DualObjectiveB), s.N)
	}
	return nil
}
