// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package direction

import (
	"testing"

	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/pairing"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/schur"
	"github.com/curioloop/sdpcore/sdpdata"
)

func init() {
	scalar.SetPrecision(128)
}

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

// TestSolveZeroResidualGivesZeroDirection checks that with a zero R-matrix,
// zero primal residue, and zero dual residue, the reconstructed direction
// is identically zero — the degenerate case of the four-stage solve.
func TestSolveZeroResidualGivesZeroDirection(t *testing.T) {
	sdp := tinySDP()
	shape := sdp.IterateShape()
	x := blockdiag.Identity(shape)
	y := blockdiag.Identity(shape)

	_, _, ainv, st := blockdiag.CholeskyInverse(x)
	if st != blockdiag.OK {
		t.Fatalf("cholesky of X: %v", st)
	}
	pXinv := pairing.Compute(sdp, ainv)
	pY := pairing.Compute(sdp, y)
	s := schur.Assemble(sdp, pXinv, pY, ainv.Diag, y.Diag)
	lsChol, st2 := schur.Factor(s)
	if st2 != densemat.OK {
		t.Fatalf("schur factor: %v", st2)
	}

	rp := blockdiag.New(shape)
	r := blockdiag.New(shape)
	d := make([]scalar.Real, sdp.P)
	for i := range d {
		d[i] = scalar.Zero()
	}

	dx, dX, dY := Solve(sdp, ainv, rp, r, y, d, lsChol)
	for p, v := range dx {
		if got := v.Float64(); got != 0 {
			t.Fatalf("dx[%d] = %v, want 0", p, got)
		}
	}
	if got := dX.MaxAbsElement().Float64(); got != 0 {
		t.Fatalf("dX max abs = %v, want 0", got)
	}
	if got := dY.MaxAbsElement().Float64(); got != 0 {
		t.Fatalf("dY max abs = %v, want 0", got)
	}
}

func TestPredictorBetaSelection(t *testing.T) {
	shape := blockdiag.Shape{DiagDim: 1, BlockDims: nil}
	x := blockdiag.Identity(shape)
	y := blockdiag.Identity(shape)
	mu := scalar.FromInt64(1)

	tiny := scalar.FromFloat64(1e-9)
	epsBar := scalar.FromFloat64(1e-6)
	betaBar := scalar.FromFloat64(0.7)

	rFeasible := Predictor(x, y, mu, tiny, epsBar, betaBar)
	// beta=0 branch: R = -X*Y = -I
	if got := rFeasible.Diag[0].Float64(); got != -1 {
		t.Fatalf("feasible-branch predictor R diag = %v, want -1", got)
	}

	large := scalar.FromFloat64(1e-3)
	rInfeasible := Predictor(x, y, mu, large, epsBar, betaBar)
	// beta=0.7 branch: R = 0.7*1*I - I = -0.3
	if got := rInfeasible.Diag[0].Float64(); got < -0.30001 || got > -0.29999 {
		t.Fatalf("infeasible-branch predictor R diag = %v, want -0.3", got)
	}
}
