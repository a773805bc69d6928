// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package densemat

import (
	"github.com/curioloop/sdpcore/scalar"
	"gonum.org/v1/gonum/mat"
)

// Steqr computes the eigenvalues (only — the Lanczos step-length use never
// needs eigenvectors) of a real symmetric tridiagonal matrix given its
// diagonal d and off-diagonal e (len(e) == len(d)-1), via an implicit-shift
// QL sweep. It mutates d and e as scratch and returns the eigenvalues
// unordered. Named after LAPACK's ssteqr/dsteqr, the symmetric tridiagonal
// QR/QL eigensolver this generalizes to scalar.Real.
func Steqr(d, e []scalar.Real) ([]scalar.Real, Status) {
	n := len(d)
	if n == 0 {
		return nil, OK
	}
	// ee holds the n-1 off-diagonal entries in ee[0..n-2], with a zero
	// sentinel in ee[n-1] (classic tqli convention, where e[0] is unused
	// and e[n-1] is the trailing sentinel; here the caller already passes
	// only the n-1 meaningful entries, so no shift is needed).
	ee := make([]scalar.Real, n)
	for i := 0; i < n-1; i++ {
		ee[i] = e[i]
	}
	ee[n-1] = scalar.Zero()

	const maxIter = 64
	for l := 0; l < n; l++ {
		iter := 0
		for {
			m := l
			for ; m < n-1; m++ {
				dd := d[m].Abs().Add(d[m+1].Abs())
				if ee[m].Abs().Cmp(dd.Mul(scalar.FromFloat64(1e-30)).Add(tinyTol())) <= 0 {
					break
				}
			}
			if m == l {
				break
			}
			iter++
			if iter > maxIter {
				return nil, Singular
			}
			g := d[l+1].Sub(d[l]).Quo(ee[l].Mul(scalar.FromInt64(2)))
			r := pythag(g, scalar.FromInt64(1))
			sign := scalar.FromInt64(1)
			if g.Sign() < 0 {
				sign = scalar.FromInt64(-1)
			}
			g = d[m].Sub(d[l]).Add(ee[l].Quo(g.Add(sign.Mul(r))))
			s, c := scalar.FromInt64(1), scalar.FromInt64(1)
			p := scalar.Zero()
			for i := m - 1; i >= l; i-- {
				f := s.Mul(ee[i])
				b := c.Mul(ee[i])
				r = pythag(f, g)
				ee[i+1] = r
				if r.IsZero() {
					d[i+1] = d[i+1].Sub(p)
					ee[m] = scalar.Zero()
					break
				}
				s = f.Quo(r)
				c = g.Quo(r)
				g = d[i+1].Sub(p)
				r = d[i].Sub(g).Mul(s).Add(c.Mul(b).Mul(scalar.FromInt64(2)))
				p = s.Mul(r)
				d[i+1] = g.Add(p)
				g = c.Mul(r).Sub(b)
			}
			d[l] = d[l].Sub(p)
			ee[l] = g
			ee[m] = scalar.Zero()
		}
	}
	return d, OK
}

// tinyTol returns a tolerance tied to the run's precision, used by Steqr's
// negligibility test in place of a fixed float64 epsilon.
func tinyTol() scalar.Real {
	// 2^-(precision-4): eight units in the last place of 1.
	bits := int(scalar.Precision())
	r := scalar.FromInt64(1)
	half := scalar.FromFloat64(0.5)
	for i := 0; i < bits-4; i++ {
		r = r.Mul(half)
	}
	return r
}

// pythag computes sqrt(a^2+b^2) without intermediate overflow, the
// classical helper used by tridiagonal QL sweeps.
func pythag(a, b scalar.Real) scalar.Real {
	return a.Mul(a).Add(b.Mul(b)).Sqrt()
}

// MinEigenvalue returns the smallest of a slice of eigenvalues.
func MinEigenvalue(vals []scalar.Real) scalar.Real {
	if len(vals) == 0 {
		panic("densemat: MinEigenvalue of empty slice")
	}
	min := vals[0]
	for _, v := range vals[1:] {
		if v.Cmp(min) < 0 {
			min = v
		}
	}
	return min
}

// SyevFallback computes the minimum eigenvalue of a small symmetric block
// by converting to float64 and calling gonum's LAPACK binding
// (lapack64.Syev), rather than running the arbitrary-precision Lanczos
// iteration. Spec §4.7: "For very small blocks (dim ≤ a small constant) a
// direct QR (Syev) is used instead." See DESIGN.md for why the float64
// conversion is acceptable only in this small-block fallback path.
func SyevFallback(a *Matrix) (scalar.Real, Status) {
	n := a.Rows
	if n == 0 {
		return scalar.Zero(), OK
	}
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data[i*n+j] = a.At(i, j).Float64()
		}
	}
	sym := mat.NewSymDense(n, data)
	var eig mat.EigenSym
	ok := eig.Factorize(sym, false)
	if !ok {
		return scalar.Zero(), NotPositiveDefinite
	}
	vals := eig.Values(nil)
	min := vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
	}
	return scalar.FromFloat64(min), OK
}

