// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package checkpoint implements the on-disk checkpoint and solution-file
// formats: one text file per block for x, y, X, and Y, so a run can be
// killed and resumed without redoing completed iterations, plus the
// human-readable out.txt solution summary.
package checkpoint

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/sdpdata"
	"github.com/curioloop/sdpcore/solver"
)

// Save writes w's iterate to dir, one file per block: x_<j>.ck for each
// group's slice of the primal vector, y.ck for the dual vector, X_diag.ck
// / Y_diag.ck for the diagonal-scalar parts, and X_matrix_<b>.ck /
// Y_matrix_<b>.ck for each dense PSD block.
func Save(dir string, sdp *sdpdata.SDP, w *solver.Workspace) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: mkdir %s: %w", dir, err)
	}
	for j, entries := range sdp.ConstraintIndices {
		seg := make([]scalar.Real, len(entries))
		for i, e := range entries {
			seg[i] = w.PrimalVector[e.P]
		}
		if err := writeVector(filepath.Join(dir, fmt.Sprintf("x_%d.ck", j)), seg); err != nil {
			return err
		}
	}
	if err := writeVector(filepath.Join(dir, "y.ck"), w.DualVector); err != nil {
		return err
	}
	if err := writeVector(filepath.Join(dir, "X_diag.ck"), w.X.Diag); err != nil {
		return err
	}
	if err := writeVector(filepath.Join(dir, "Y_diag.ck"), w.Y.Diag); err != nil {
		return err
	}
	for b, blk := range w.X.Blocks {
		if err := writeMatrix(filepath.Join(dir, fmt.Sprintf("X_matrix_%d.ck", b)), blk); err != nil {
			return err
		}
	}
	for b, blk := range w.Y.Blocks {
		if err := writeMatrix(filepath.Join(dir, fmt.Sprintf("Y_matrix_%d.ck", b)), blk); err != nil {
			return err
		}
	}
	return nil
}

// Load restores the iterate written by Save from dir. A truncated or
// unreadable checkpoint is a fatal load error.
func Load(dir string, sdp *sdpdata.SDP) (*solver.Workspace, error) {
	shape := sdp.IterateShape()
	w := &solver.Workspace{
		X:            blockdiag.New(shape),
		Y:            blockdiag.New(shape),
		PrimalVector: make([]scalar.Real, sdp.P),
	}

	for j, entries := range sdp.ConstraintIndices {
		seg, err := readVector(filepath.Join(dir, fmt.Sprintf("x_%d.ck", j)))
		if err != nil {
			return nil, err
		}
		if len(seg) != len(entries) {
			return nil, fmt.Errorf("checkpoint: x_%d.ck has %d entries, want %d", j, len(seg), len(entries))
		}
		for i, e := range entries {
			w.PrimalVector[e.P] = seg[i]
		}
	}

	yv, err := readVector(filepath.Join(dir, "y.ck"))
	if err != nil {
		return nil, err
	}
	if len(yv) != sdp.N {
		return nil, fmt.Errorf("checkpoint: y.ck has %d entries, want %d", len(yv), sdp.N)
	}
	w.DualVector = yv

	xDiag, err := readVector(filepath.Join(dir, "X_diag.ck"))
	if err != nil {
		return nil, err
	}
	w.X.Diag = xDiag
	yDiag, err := readVector(filepath.Join(dir, "Y_diag.ck"))
	if err != nil {
		return nil, err
	}
	w.Y.Diag = yDiag

	for b := range w.X.Blocks {
		m, err := readMatrix(filepath.Join(dir, fmt.Sprintf("X_matrix_%d.ck", b)))
		if err != nil {
			return nil, err
		}
		w.X.Blocks[b] = m
	}
	for b := range w.Y.Blocks {
		m, err := readMatrix(filepath.Join(dir, fmt.Sprintf("Y_matrix_%d.ck", b)))
		if err != nil {
			return nil, err
		}
		w.Y.Blocks[b] = m
	}

	return w, nil
}

// Selection names which final-iterate files WriteSolution emits alongside
// out.txt: "x", "y", "X", "Y".
type Selection map[string]bool

// WriteSolution writes out.txt (termination reason, objectives, duality
// gap, iteration count) and, for every key in sel that maps to true, the
// corresponding x_<j>.txt / y.txt / X_matrix_<b>.txt / Y_matrix_<b>.txt
// files.
func WriteSolution(dir string, sdp *sdpdata.SDP, term solver.Termination, w *solver.Workspace, sel Selection) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: mkdir %s: %w", dir, err)
	}
	outPath := filepath.Join(dir, "out.txt")
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("checkpoint: create %s: %w", outPath, err)
	}
	defer f.Close()
	fmt.Fprintf(f, "terminateReason = %s\n", term.Reason)
	fmt.Fprintf(f, "primalObjective = %s\n", term.PrimalObjective.String())
	fmt.Fprintf(f, "dualObjective = %s\n", term.DualObjective.String())
	fmt.Fprintf(f, "dualityGap = %s\n", term.DualityGap.String())
	fmt.Fprintf(f, "iterations = %d\n", term.Iterations)

	if sel["x"] {
		for j, entries := range sdp.ConstraintIndices {
			seg := make([]scalar.Real, len(entries))
			for i, e := range entries {
				seg[i] = w.PrimalVector[e.P]
			}
			if err := writeVector(filepath.Join(dir, fmt.Sprintf("x_%d.txt", j)), seg); err != nil {
				return err
			}
		}
	}
	if sel["y"] {
		if err := writeVector(filepath.Join(dir, "y.txt"), w.DualVector); err != nil {
			return err
		}
	}
	if sel["X"] {
		for b, blk := range w.X.Blocks {
			if err := writeMatrix(filepath.Join(dir, fmt.Sprintf("X_matrix_%d.txt", b)), blk); err != nil {
				return err
			}
		}
	}
	if sel["Y"] {
		for b, blk := range w.Y.Blocks {
			if err := writeMatrix(filepath.Join(dir, fmt.Sprintf("Y_matrix_%d.txt", b)), blk); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeVector(path string, v []scalar.Real) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("checkpoint: create %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, len(v))
	for _, x := range v {
		fmt.Fprintln(w, x.String())
	}
	return w.Flush()
}

func readVector(path string) ([]scalar.Real, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("checkpoint: %s: truncated header", path)
	}
	var n int
	if _, err := fmt.Sscanf(sc.Text(), "%d", &n); err != nil {
		return nil, fmt.Errorf("checkpoint: %s: bad header: %w", path, err)
	}
	out := make([]scalar.Real, n)
	for i := 0; i < n; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("checkpoint: %s: truncated at entry %d", path, i)
		}
		v, err := scalar.FromString(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("checkpoint: %s: entry %d: %w", path, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func writeMatrix(path string, m *densemat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("checkpoint: create %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%d %d\n", m.Rows, m.Cols)
	for _, v := range m.Data {
		fmt.Fprintln(w, v.String())
	}
	return w.Flush()
}

func readMatrix(path string) (*densemat.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("checkpoint: %s: truncated header", path)
	}
	var rows, cols int
	if _, err := fmt.Sscanf(sc.Text(), "%d %d", &rows, &cols); err != nil {
		return nil, fmt.Errorf("checkpoint: %s: bad header: %w", path, err)
	}
	m := densemat.New(rows, cols)
	for i := 0; i < rows*cols; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("checkpoint: %s: truncated at entry %d", path, i)
		}
		v, err := scalar.FromString(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("checkpoint: %s: entry %d: %w", path, i, err)
		}
		m.Data[i] = v
	}
	return m, nil
}
