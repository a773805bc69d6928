// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blockdiag implements the block-diagonal matrix underlying the
// primal-dual iterate: an ordered sequence of square dense blocks plus an
// optional diagonal-scalar prefix block, with block-wise algebra and the
// collective reductions (Collective) needed once the iterate is
// distributed across processes.
package blockdiag

import (
	"fmt"

	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/scalar"
)

// Matrix is a block-diagonal matrix: diagDim copies of a formally 1×1 block
// (stored flat in Diag), followed by the dense square Blocks. Total
// dimension is len(Diag) + Σ Blocks[b].Rows.
type Matrix struct {
	Diag   []scalar.Real
	Blocks []*densemat.Matrix
}

// Shape describes the block structure shared by X, Y, XInv, dX, dY, the
// primal residue, and R: the block structure is pointwise identical across
// every one of these fields. It is computed once from the SDP and reused
// to allocate every iterate field with matching shape.
type Shape struct {
	DiagDim   int
	BlockDims []int
}

// New allocates a zeroed block-diagonal matrix of the given shape.
func New(shape Shape) *Matrix {
	m := &Matrix{
		Diag:   make([]scalar.Real, shape.DiagDim),
		Blocks: make([]*densemat.Matrix, len(shape.BlockDims)),
	}
	for i := range m.Diag {
		m.Diag[i] = scalar.Zero()
	}
	for b, d := range shape.BlockDims {
		m.Blocks[b] = densemat.New(d, d)
	}
	return m
}

// ShapeOf reports the shape of m.
func (m *Matrix) ShapeOf() Shape {
	dims := make([]int, len(m.Blocks))
	for i, b := range m.Blocks {
		dims[i] = b.Rows
	}
	return Shape{DiagDim: len(m.Diag), BlockDims: dims}
}

// Dim returns the total dimension diagDim + Σ blocks[b].Rows.
func (m *Matrix) Dim() int {
	n := len(m.Diag)
	for _, b := range m.Blocks {
		n += b.Rows
	}
	return n
}

// Identity allocates an identity block-diagonal matrix of the given shape.
func Identity(shape Shape) *Matrix {
	m := New(shape)
	one := scalar.FromInt64(1)
	for i := range m.Diag {
		m.Diag[i] = one
	}
	for _, b := range m.Blocks {
		for i := 0; i < b.Rows; i++ {
			b.Set(i, i, one)
		}
	}
	return m
}

// Copy returns a deep copy of m.
func (m *Matrix) Copy() *Matrix {
	out := &Matrix{
		Diag:   make([]scalar.Real, len(m.Diag)),
		Blocks: make([]*densemat.Matrix, len(m.Blocks)),
	}
	copy(out.Diag, m.Diag)
	for i, b := range m.Blocks {
		out.Blocks[i] = b.Copy()
	}
	return out
}

// CopyInto overwrites dst with the contents of src; shapes must match.
func CopyInto(dst, src *Matrix) {
	mustSameShape(dst, src)
	copy(dst.Diag, src.Diag)
	for i := range dst.Blocks {
		densemat.CopyInto(dst.Blocks[i], src.Blocks[i])
	}
}

// mustSameShape panics on a block-structure mismatch: mismatched blocks
// are a programmer error, not a runtime-recoverable failure.
func mustSameShape(a, b *Matrix) {
	if len(a.Diag) != len(b.Diag) || len(a.Blocks) != len(b.Blocks) {
		panic(fmt.Sprintf("blockdiag: shape mismatch: diag %d/%d blocks %d/%d",
			len(a.Diag), len(b.Diag), len(a.Blocks), len(b.Blocks)))
	}
	for i := range a.Blocks {
		if a.Blocks[i].Rows != b.Blocks[i].Rows {
			panic(fmt.Sprintf("blockdiag: block %d shape mismatch: %d vs %d", i, a.Blocks[i].Rows, b.Blocks[i].Rows))
		}
	}
}
