// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package densemat

import (
	"testing"

	"github.com/curioloop/sdpcore/scalar"
)

func TestSteqrDiagonalOnly(t *testing.T) {
	scalar.SetPrecision(128)
	d := []scalar.Real{sr(3), sr(1), sr(2)}
	e := []scalar.Real{sr(0), sr(0)}
	vals, st := Steqr(d, e)
	if st != OK {
		t.Fatalf("Steqr failed: %v", st)
	}
	min := MinEigenvalue(vals)
	if min.Float64() != 1 {
		t.Fatalf("expected min eigenvalue 1, got %v", min.Float64())
	}
}

func TestSteqrTridiagonal(t *testing.T) {
	scalar.SetPrecision(128)
	// [[2,1],[1,2]] has eigenvalues 1 and 3.
	d := []scalar.Real{sr(2), sr(2)}
	e := []scalar.Real{sr(1)}
	vals, st := Steqr(d, e)
	if st != OK {
		t.Fatalf("Steqr failed: %v", st)
	}
	min := MinEigenvalue(vals)
	if diff := min.Float64() - 1; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("expected min eigenvalue ~1, got %v", min.Float64())
	}
}

func TestSyevFallback(t *testing.T) {
	scalar.SetPrecision(128)
	a := New(2, 2)
	a.Set(0, 0, sr(2))
	a.Set(0, 1, sr(1))
	a.Set(1, 0, sr(1))
	a.Set(1, 1, sr(2))
	min, st := SyevFallback(a)
	if st != OK {
		t.Fatalf("SyevFallback failed: %v", st)
	}
	if diff := min.Float64() - 1; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected min eigenvalue 1, got %v", min.Float64())
	}
}
