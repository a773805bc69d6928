// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockdiag

import (
	"testing"

	"github.com/curioloop/sdpcore/scalar"
)

func init() {
	scalar.SetPrecision(128)
}

func testShape() Shape {
	return Shape{DiagDim: 1, BlockDims: []int{2}}
}

func TestCholeskyInverseBlockDiag(t *testing.T) {
	shape := testShape()
	a := New(shape)
	a.Diag[0] = scalar.FromInt64(4)
	a.Blocks[0].Set(0, 0, scalar.FromInt64(4))
	a.Blocks[0].Set(0, 1, scalar.FromInt64(2))
	a.Blocks[0].Set(1, 0, scalar.FromInt64(2))
	a.Blocks[0].Set(1, 1, scalar.FromInt64(3))

	_, _, ainv, st := CholeskyInverse(a)
	if st != OK {
		t.Fatalf("CholeskyInverse failed: %v", st)
	}
	if diff := ainv.Diag[0].Float64() - 0.25; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("diag inverse wrong: %v", ainv.Diag[0].Float64())
	}
}

func TestFrobeniusInner(t *testing.T) {
	shape := testShape()
	a := Identity(shape)
	b := Identity(shape)
	got := FrobeniusInner(a, b).Float64()
	want := float64(a.Dim())
	if got != want {
		t.Fatalf("FrobeniusInner(I,I): got %v want %v", got, want)
	}
}

func TestMaxAbsElement(t *testing.T) {
	shape := testShape()
	a := New(shape)
	a.Diag[0] = scalar.FromInt64(-7)
	got := a.MaxAbsElement().Float64()
	if got != 7 {
		t.Fatalf("MaxAbsElement: got %v want 7", got)
	}
}
