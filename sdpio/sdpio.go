// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sdpio reads the on-disk SDP layout: one text file per group for
// the primal objective slice and free-variable-matrix slice, one file per
// group holding that group's bilinear-basis matrices, a single "objectives"
// file for the dual objective vector and constant, and a single "blocks.b"
// manifest tying group dimensions/degrees/basis-counts together. All
// numbers are ASCII, one per line.
package sdpio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/sdpdata"
)

type group struct {
	dim, degree, numBlocks int
}

// LoadSDP reads the SDP stored under dir, validating the result. Input
// errors are fatal at load and abort before the solver runs.
func LoadSDP(dir string) (*sdpdata.SDP, error) {
	groups, err := readBlocksManifest(filepath.Join(dir, "blocks.b"))
	if err != nil {
		return nil, err
	}

	dims := make([]int, len(groups))
	degs := make([]int, len(groups))
	for j, g := range groups {
		dims[j], degs[j] = g.dim, g.degree
	}

	indices, p := sdpdata.BuildConstraintIndices(dims, degs)

	objConst, b, err := readObjectives(filepath.Join(dir, "objectives"))
	if err != nil {
		return nil, err
	}

	primalC := make([]scalar.Real, 0, p)
	fMatRows := make([]*densemat.Matrix, len(groups))
	var basesFlat []*densemat.Matrix
	blocksIdx := make([][]int, len(groups))

	for j, g := range groups {
		c, err := readLengthPrefixedVector(filepath.Join(dir, fmt.Sprintf("primal_objective_c.%d", j)))
		if err != nil {
			return nil, err
		}
		primalC = append(primalC, c...)

		fMat, err := readHeaderedMatrix(filepath.Join(dir, fmt.Sprintf("free_var_matrix.%d", j)))
		if err != nil {
			return nil, err
		}
		fMatRows[j] = fMat

		bases, err := readBasesFile(filepath.Join(dir, fmt.Sprintf("bilinear_bases.%d", j)), g.numBlocks)
		if err != nil {
			return nil, err
		}
		for _, m := range bases {
			basesFlat = append(basesFlat, m)
			blocksIdx[j] = append(blocksIdx[j], len(basesFlat)-1)
		}
	}

	freeVar, err := stackRows(fMatRows)
	if err != nil {
		return nil, err
	}

	sdp := &sdpdata.SDP{
		FreeVarMatrix:     freeVar,
		PrimalObjectiveC:  primalC,
		DualObjectiveB:    b,
		ObjectiveConst:    objConst,
		Dimensions:        dims,
		Degrees:           degs,
		BilinearBases:     basesFlat,
		Blocks:            blocksIdx,
		ConstraintIndices: indices,
		P:                 p,
		N:                 len(b),
	}
	sdp.BuildFlatIndex()
	if err := sdp.Validate(); err != nil {
		return nil, fmt.Errorf("sdpio: %w", err)
	}
	sdp.BuildPSDBlocks()
	return sdp, nil
}

func readObjectives(path string) (scalar.Real, []scalar.Real, error) {
	f, err := os.Open(path)
	if err != nil {
		return scalar.Real{}, nil, fmt.Errorf("sdpio: open %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return scalar.Real{}, nil, fmt.Errorf("sdpio: %s: truncated objective constant", path)
	}
	c, err := scalar.FromString(sc.Text())
	if err != nil {
		return scalar.Real{}, nil, fmt.Errorf("sdpio: %s: %w", path, err)
	}
	var b []scalar.Real
	for sc.Scan() {
		v, err := scalar.FromString(sc.Text())
		if err != nil {
			return scalar.Real{}, nil, fmt.Errorf("sdpio: %s: %w", path, err)
		}
		b = append(b, v)
	}
	return c, b, nil
}

func readBlocksManifest(path string) ([]group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sdpio: open %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("sdpio: %s: truncated header", path)
	}
	var numGroups int
	if _, err := fmt.Sscanf(sc.Text(), "%d", &numGroups); err != nil {
		return nil, fmt.Errorf("sdpio: %s: bad header: %w", path, err)
	}
	groups := make([]group, numGroups)
	for j := 0; j < numGroups; j++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("sdpio: %s: truncated at group %d", path, j)
		}
		var dim, degree, numBlocks int
		if _, err := fmt.Sscanf(sc.Text(), "%d %d %d", &dim, &degree, &numBlocks); err != nil {
			return nil, fmt.Errorf("sdpio: %s: group %d: %w", path, j, err)
		}
		groups[j] = group{dim: dim, degree: degree, numBlocks: numBlocks}
	}
	return groups, nil
}

func readLengthPrefixedVector(path string) ([]scalar.Real, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sdpio: open %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("sdpio: %s: truncated header", path)
	}
	var n int
	if _, err := fmt.Sscanf(sc.Text(), "%d", &n); err != nil {
		return nil, fmt.Errorf("sdpio: %s: bad header: %w", path, err)
	}
	out := make([]scalar.Real, n)
	for i := 0; i < n; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("sdpio: %s: truncated at entry %d", path, i)
		}
		v, err := scalar.FromString(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("sdpio: %s: entry %d: %w", path, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func readHeaderedMatrix(path string) (*densemat.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sdpio: open %s: %w", path, err)
	}
	defer f.Close()
	return readMatrixFromScanner(bufio.NewScanner(f), path)
}

func readMatrixFromScanner(sc *bufio.Scanner, path string) (*densemat.Matrix, error) {
	if !sc.Scan() {
		return nil, fmt.Errorf("sdpio: %s: truncated header", path)
	}
	var rows, cols int
	if _, err := fmt.Sscanf(sc.Text(), "%d %d", &rows, &cols); err != nil {
		return nil, fmt.Errorf("sdpio: %s: bad header: %w", path, err)
	}
	m := densemat.New(rows, cols)
	for i := 0; i < rows*cols; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("sdpio: %s: truncated at entry %d", path, i)
		}
		v, err := scalar.FromString(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("sdpio: %s: entry %d: %w", path, i, err)
		}
		m.Data[i] = v
	}
	return m, nil
}

func readBasesFile(path string, count int) ([]*densemat.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sdpio: open %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	out := make([]*densemat.Matrix, count)
	for b := 0; b < count; b++ {
		m, err := readMatrixFromScanner(sc, path)
		if err != nil {
			return nil, err
		}
		out[b] = m
	}
	return out, nil
}

// stackRows vertically concatenates each group's P_j×N free-variable-matrix
// slice into the global P×N matrix.
func stackRows(rows []*densemat.Matrix) (*densemat.Matrix, error) {
	if len(rows) == 0 {
		return densemat.New(0, 0), nil
	}
	n := rows[0].Cols
	p := 0
	for _, r := range rows {
		if r.Cols != n {
			return nil, fmt.Errorf("sdpio: free_var_matrix column count mismatch: %d vs %d", r.Cols, n)
		}
		p += r.Rows
	}
	out := densemat.New(p, n)
	offset := 0
	for _, r := range rows {
		for i := 0; i < r.Rows; i++ {
			for j := 0; j < n; j++ {
				out.Set(offset+i, j, r.At(i, j))
			}
		}
		offset += r.Rows
	}
	return out, nil
}
