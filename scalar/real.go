// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalar provides the opaque high-precision real number used as the
// element type of every vector and matrix in sdpcore. The precision (in
// mantissa bits) is chosen once at process start and held fixed for the
// lifetime of a run; mixing precisions within a run produces inconsistent
// rounding and is a programmer error.
package scalar

import (
	"fmt"
	"math/big"
)

// precision is the run-wide mantissa size in bits. Zero means "not yet set",
// in which case Real falls back to big.Float's default (53 bits).
var precision uint = 0

// SetPrecision fixes the mantissa size for every Real constructed after the
// call. It must be called once, before any Real is created, and never
// changed mid-run: a checkpoint written at one precision cannot be resumed
// at another, since every stored value silently rounds to the new
// precision on load.
func SetPrecision(bits uint) {
	precision = bits
}

// Precision reports the run-wide mantissa size in bits.
func Precision() uint {
	if precision == 0 {
		return 53
	}
	return precision
}

// Real is a real number of the run's configured precision. The zero value
// is not usable; construct with Zero, FromInt64 or FromFloat64.
type Real struct {
	v big.Float
}

// Zero returns the additive identity at the run's precision.
func Zero() Real {
	var r Real
	r.v.SetPrec(Precision())
	return r
}

// FromInt64 constructs a Real from an int64, exact at any precision ≥ 64 bits.
func FromInt64(n int64) Real {
	var r Real
	r.v.SetPrec(Precision()).SetInt64(n)
	return r
}

// FromFloat64 constructs a Real from a float64, rounded to the run's precision.
func FromFloat64(f float64) Real {
	var r Real
	r.v.SetPrec(Precision()).SetFloat64(f)
	return r
}

// FromString parses a decimal string at the run's precision. Used by sdpio
// to read SDP files and checkpoints without a lossy float64 round-trip.
func FromString(s string) (Real, error) {
	var r Real
	r.v.SetPrec(Precision())
	_, _, err := r.v.Parse(s, 10)
	if err != nil {
		return Real{}, fmt.Errorf("scalar: parse %q: %w", s, err)
	}
	return r, nil
}

// Float64 returns the nearest float64 approximation, for logging and for
// the gonum-backed small-block eigensolver fallback.
func (r Real) Float64() float64 {
	f, _ := r.v.Float64()
	return f
}

// String renders r with enough digits to round-trip at the run's precision.
func (r Real) String() string {
	digits := int(float64(Precision())*0.30103) + 2 // bits -> decimal digits, +guard
	return r.v.Text('g', digits)
}

// Add returns a + b.
func (a Real) Add(b Real) Real {
	var r Real
	r.v.SetPrec(Precision())
	r.v.Add(&a.v, &b.v)
	return r
}

// Sub returns a - b.
func (a Real) Sub(b Real) Real {
	var r Real
	r.v.SetPrec(Precision())
	r.v.Sub(&a.v, &b.v)
	return r
}

// Mul returns a * b.
func (a Real) Mul(b Real) Real {
	var r Real
	r.v.SetPrec(Precision())
	r.v.Mul(&a.v, &b.v)
	return r
}

// Quo returns a / b, following big.Float's contract: 0/0 panics, and a
// nonzero a divided by zero yields ±Inf.
func (a Real) Quo(b Real) Real {
	var r Real
	r.v.SetPrec(Precision())
	r.v.Quo(&a.v, &b.v)
	return r
}

// Neg returns -a.
func (a Real) Neg() Real {
	var r Real
	r.v.SetPrec(Precision())
	r.v.Neg(&a.v)
	return r
}

// Abs returns |a|.
func (a Real) Abs() Real {
	var r Real
	r.v.SetPrec(Precision())
	r.v.Abs(&a.v)
	return r
}

// Sqrt returns sqrt(a). a must be non-negative.
func (a Real) Sqrt() Real {
	var r Real
	r.v.SetPrec(Precision())
	r.v.Sqrt(&a.v)
	return r
}

// MulAdd returns a*b + c without an intermediate rounding step, used in the
// hot gemm/daxpy inner loops.
func MulAdd(a, b, c Real) Real {
	var t big.Float
	t.SetPrec(a.v.Prec() + b.v.Prec()) // wide enough to hold the exact product
	t.Mul(&a.v, &b.v)
	var r Real
	r.v.SetPrec(Precision())
	r.v.Add(&t, &c.v)
	return r
}

// Cmp gives a total order on Real, matching big.Float's IEEE-style compare.
func (a Real) Cmp(b Real) int {
	return a.v.Cmp(&b.v)
}

// Sign returns -1, 0, or 1.
func (a Real) Sign() int {
	return a.v.Sign()
}

// IsZero reports whether a is exactly zero.
func (a Real) IsZero() bool {
	return a.v.Sign() == 0
}

// Max returns the larger of a, b.
func Max(a, b Real) Real {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Min returns the smaller of a, b.
func Min(a, b Real) Real {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
