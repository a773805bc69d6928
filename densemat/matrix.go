// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package densemat implements a small dense-matrix kernel library:
// multiply-add, triangular solve, triangular multiply, Cholesky factor, and
// the two eigensolvers used by the step-length engine. Matrices are flat,
// row-major []scalar.Real with an explicit Rows/Cols, following the
// teacher's leading-dimension convention (lbfgsb/linpack.go) rather than a
// slice-of-slices.
package densemat

import (
	"fmt"
	"strings"

	"github.com/curioloop/sdpcore/scalar"
)

// Matrix is an r×c dense matrix stored row-major. Ownership is exclusive to
// its holder; Copy performs a deep copy.
type Matrix struct {
	Rows, Cols int
	Data       []scalar.Real
}

// New allocates a zeroed r×c matrix.
func New(r, c int) *Matrix {
	if r < 0 || c < 0 {
		panic("densemat: negative dimension")
	}
	data := make([]scalar.Real, r*c)
	for i := range data {
		data[i] = scalar.Zero()
	}
	return &Matrix{Rows: r, Cols: c, Data: data}
}

// Identity allocates an n×n identity matrix.
func Identity(n int) *Matrix {
	m := New(n, n)
	one := scalar.FromInt64(1)
	for i := 0; i < n; i++ {
		m.Set(i, i, one)
	}
	return m
}

// At returns element (i,j).
func (m *Matrix) At(i, j int) scalar.Real {
	return m.Data[i*m.Cols+j]
}

// Set assigns element (i,j).
func (m *Matrix) Set(i, j int, v scalar.Real) {
	m.Data[i*m.Cols+j] = v
}

// Copy returns a deep copy of m.
func (m *Matrix) Copy() *Matrix {
	out := &Matrix{Rows: m.Rows, Cols: m.Cols, Data: make([]scalar.Real, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// CopyInto overwrites dst with the contents of src. dst and src must already
// have matching shape; a mismatch is a programmer error, not a
// runtime-recoverable failure.
func CopyInto(dst, src *Matrix) {
	mustSameShape(dst, src)
	copy(dst.Data, src.Data)
}

// mustSameShape panics with a descriptive message on a block-shape
// mismatch: mismatched blocks are a programmer error, not a
// runtime-recoverable failure.
func mustSameShape(a, b *Matrix) {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		panic(fmt.Sprintf("densemat: shape mismatch %dx%d vs %dx%d", a.Rows, a.Cols, b.Rows, b.Cols))
	}
}

// Zero resets every element of m to 0 in place.
func (m *Matrix) Zero() {
	z := scalar.Zero()
	for i := range m.Data {
		m.Data[i] = z
	}
}

// Symmetrize overwrites m with ½(m + mᵀ) in place. m must be square.
func (m *Matrix) Symmetrize() {
	if m.Rows != m.Cols {
		panic("densemat: Symmetrize requires a square matrix")
	}
	half := scalar.FromFloat64(0.5)
	n := m.Rows
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := m.At(i, j).Add(m.At(j, i)).Mul(half)
			m.Set(i, j, s)
			m.Set(j, i, s)
		}
	}
}

// Transpose returns a new matrix equal to mᵀ.
func (m *Matrix) Transpose() *Matrix {
	out := New(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			out.Set(j, i, m.At(i, j))
		}
	}
	return out
}

// MaxAbsElement returns the largest |m[i][j]| over the whole matrix.
func (m *Matrix) MaxAbsElement() scalar.Real {
	max := scalar.Zero()
	for _, v := range m.Data {
		a := v.Abs()
		if a.Cmp(max) > 0 {
			max = a
		}
	}
	return max
}

// AddScalarToDiagonal adds c to every diagonal element of m in place. m must
// be square.
func (m *Matrix) AddScalarToDiagonal(c scalar.Real) {
	if m.Rows != m.Cols {
		panic("densemat: AddScalarToDiagonal requires a square matrix")
	}
	for i := 0; i < m.Rows; i++ {
		m.Set(i, i, m.At(i, i).Add(c))
	}
}

// String renders m for debugging/logging only; never used by core
// algorithms, mirroring the original solver's debug-only stream output.
func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(m.At(i, j).String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
