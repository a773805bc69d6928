// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schur

import (
	"testing"

	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/pairing"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/sdpdata"
)

func init() {
	scalar.SetPrecision(128)
}

// tinySDP builds the smallest nontrivial feasible instance: 1 group, dim=1,
// degree=0, N=1, F=[[1]], c=[1], b=[1].
func tinySDP() *sdpdata.SDP {
	f := densemat.New(1, 1)
	f.Set(0, 0, scalar.FromInt64(1))
	q := densemat.New(1, 1)
	q.Set(0, 0, scalar.FromInt64(1))

	indices, p := sdpdata.BuildConstraintIndices([]int{1}, []int{0})
	sdp := &sdpdata.SDP{
		FreeVarMatrix:     f,
		PrimalObjectiveC:  []scalar.Real{scalar.FromInt64(1)},
		DualObjectiveB:    []scalar.Real{scalar.FromInt64(1)},
		ObjectiveConst:    scalar.Zero(),
		Dimensions:        []int{1},
		Degrees:           []int{0},
		BilinearBases:     []*densemat.Matrix{q},
		Blocks:            [][]int{{0}},
		ConstraintIndices: indices,
		P:                 p,
		N:                 1,
	}
	sdp.BuildFlatIndex()
	sdp.BuildPSDBlocks()
	return sdp
}

func TestAssembleSymmetricAndShape(t *testing.T) {
	sdp := tinySDP()
	shape := sdp.IterateShape()
	x := blockdiag.Identity(shape)
	y := blockdiag.Identity(shape)

	_, _, xInvAinv, st := blockdiag.CholeskyInverse(x)
	if st != blockdiag.OK {
		t.Fatalf("cholesky of X failed: %v", st)
	}

	pXinv := pairing.Compute(sdp, xInvAinv)
	pY := pairing.Compute(sdp, y)

	s := Assemble(sdp, pXinv, pY, xInvAinv.Diag, y.Diag)
	if s.Rows != sdp.P || s.Cols != sdp.P {
		t.Fatalf("Schur complement shape %dx%d, want %dx%d", s.Rows, s.Cols, sdp.P, sdp.P)
	}
	for i := 0; i < s.Rows; i++ {
		for j := 0; j < s.Cols; j++ {
			if diff := s.At(i, j).Sub(s.At(j, i)).Abs().Float64(); diff > 1e-20 {
				t.Fatalf("Schur complement not symmetric at (%d,%d): diff=%v", i, j, diff)
			}
		}
	}

	if _, st := Factor(s); st != densemat.OK {
		t.Fatalf("Schur complement failed to factor: %v", st)
	}
}

func TestConstraintMatrixWeightedSumAdjoint(t *testing.T) {
	sdp := tinySDP()
	shape := sdp.IterateShape()
	v := []scalar.Real{scalar.FromInt64(3)}

	sum := ConstraintMatrixWeightedSum(sdp, v)
	z := blockdiag.Identity(shape)
	inner := ConstraintInnerProducts(sdp, z)

	// <I, F_p> should equal trace contribution: diag part + block part.
	want := blockdiag.FrobeniusInner(sum, z).Quo(v[0]).Float64()
	got := inner[0].Float64()
	if diff := want - got; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("adjoint mismatch: weighted-sum-based %v vs inner-product %v", want, got)
	}
}
