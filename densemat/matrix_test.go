// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package densemat

import (
	"testing"

	"github.com/curioloop/sdpcore/scalar"
)

func init() {
	scalar.SetPrecision(128)
}

func sr(f float64) scalar.Real { return scalar.FromFloat64(f) }

func TestGemmIdentity(t *testing.T) {
	a := New(2, 2)
	a.Set(0, 0, sr(1))
	a.Set(0, 1, sr(2))
	a.Set(1, 0, sr(3))
	a.Set(1, 1, sr(4))
	id := Identity(2)
	out := Mul(a, id)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if out.At(i, j).Float64() != a.At(i, j).Float64() {
				t.Fatalf("A*I != A at (%d,%d)", i, j)
			}
		}
	}
}

func TestPotrfAndInverse(t *testing.T) {
	a := New(2, 2)
	a.Set(0, 0, sr(4))
	a.Set(0, 1, sr(2))
	a.Set(1, 0, sr(2))
	a.Set(1, 1, sr(3))

	chol, invChol, ainv, st := CholeskyInverse(a)
	if st != OK {
		t.Fatalf("CholeskyInverse failed: %v", st)
	}
	// L*Lᵀ should reconstruct A.
	recon := Mul(chol, chol.Transpose())
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if diff := recon.At(i, j).Sub(a.At(i, j)).Abs().Float64(); diff > 1e-20 {
				t.Fatalf("L*Lt reconstruction mismatch at (%d,%d): %v", i, j, diff)
			}
		}
	}
	// A * Ainv should reconstruct I.
	prod := Mul(a, ainv)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if diff := prod.At(i, j).Float64() - want; diff > 1e-12 || diff < -1e-12 {
				t.Fatalf("A*Ainv != I at (%d,%d): got %v", i, j, prod.At(i, j).Float64())
			}
		}
	}
	_ = invChol
}

func TestSymmetrize(t *testing.T) {
	a := New(2, 2)
	a.Set(0, 1, sr(1))
	a.Set(1, 0, sr(3))
	a.Symmetrize()
	if a.At(0, 1).Float64() != 2 || a.At(1, 0).Float64() != 2 {
		t.Fatalf("Symmetrize failed: %v %v", a.At(0, 1), a.At(1, 0))
	}
}

func TestMaxAbsElement(t *testing.T) {
	a := New(2, 2)
	a.Set(0, 0, sr(-5))
	a.Set(1, 1, sr(2))
	if got := a.MaxAbsElement().Float64(); got != 5 {
		t.Fatalf("MaxAbsElement: got %v want 5", got)
	}
}
