// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sdpsolve runs the primal-dual interior-point solver against an
// SDP in the on-disk layout read by package sdpio, optionally resuming from
// and writing a checkpoint directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/curioloop/sdpcore/checkpoint"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/sdpio"
	"github.com/curioloop/sdpcore/solver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("sdpsolve", flag.ContinueOnError)
	sdpDir := fs.String("sdp", "", "directory holding the SDP on-disk layout (required)")
	outDir := fs.String("out", ".", "directory to write out.txt and optional solution files")
	checkpointDir := fs.String("checkpoint", "", "directory to read/write checkpoint files (optional)")
	resume := fs.Bool("resume", false, "resume the iterate from -checkpoint instead of the default initial point")

	precision := fs.Uint("precision", 200, "mantissa bits for all scalar arithmetic")
	maxIterations := fs.Int("max-iterations", 1000, "iteration budget")
	maxRuntime := fs.Duration("max-runtime", 24*time.Hour, "wall-clock budget")
	maxComplementarity := fs.Float64("max-complementarity", 1e100, "mu bound past which the run is reported infeasible")
	dualityGapThreshold := fs.Float64("duality-gap-threshold", 1e-10, "epsGap")
	primalErrorThreshold := fs.Float64("primal-error-threshold", 1e-10, "epsPrimal")
	dualErrorThreshold := fs.Float64("dual-error-threshold", 1e-10, "epsDual")
	initScalePrimal := fs.Float64("initial-scale-primal", 1e2, "initial X scale")
	initScaleDual := fs.Float64("initial-scale-dual", 1e2, "initial Y scale")
	betaStar := fs.Float64("feasible-centering-parameter", 0.1, "betaStar")
	betaBar := fs.Float64("infeasible-centering-parameter", 0.3, "betaBar")
	gamma := fs.Float64("step-length-reduction", 0.7, "gamma")

	writeX := fs.Bool("write-x", false, "also write x_<j>.txt solution files")
	writeY := fs.Bool("write-y", false, "also write y.txt solution files")
	writeXMatrix := fs.Bool("write-X", false, "also write X_matrix_<b>.txt solution files")
	writeYMatrix := fs.Bool("write-Y", false, "also write Y_matrix_<b>.txt solution files")

	logLevel := fs.Int("log-level", int(solver.LogSummary), "0=none 1=summary 2=iter 3=verbose")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *sdpDir == "" {
		fmt.Fprintln(os.Stderr, "sdpsolve: -sdp is required")
		return 2
	}

	scalar.SetPrecision(*precision)

	sdp, err := sdpio.LoadSDP(*sdpDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sdpsolve: %v\n", err)
		return 1
	}

	cfg := solver.Config{
		Precision:                    *precision,
		MaxIterations:                *maxIterations,
		MaxRuntime:                   *maxRuntime,
		MaxComplementarity:           scalar.FromFloat64(*maxComplementarity),
		DualityGapThreshold:          scalar.FromFloat64(*dualityGapThreshold),
		PrimalErrorThreshold:         scalar.FromFloat64(*primalErrorThreshold),
		DualErrorThreshold:           scalar.FromFloat64(*dualErrorThreshold),
		InitialMatrixScalePrimal:     scalar.FromFloat64(*initScalePrimal),
		InitialMatrixScaleDual:       scalar.FromFloat64(*initScaleDual),
		FeasibleCenteringParameter:   scalar.FromFloat64(*betaStar),
		InfeasibleCenteringParameter: scalar.FromFloat64(*betaBar),
		StepLengthReduction:          scalar.FromFloat64(*gamma),
	}

	var w *solver.Workspace
	if *resume {
		if *checkpointDir == "" {
			fmt.Fprintln(os.Stderr, "sdpsolve: -resume requires -checkpoint")
			return 2
		}
		w, err = checkpoint.Load(*checkpointDir, sdp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sdpsolve: %v\n", err)
			return 1
		}
	} else {
		w = solver.NewWorkspace(sdp, cfg)
	}

	logger := &solver.Logger{Level: solver.LogLevel(*logLevel), Msg: os.Stderr}
	driver := solver.NewDriver(sdp, cfg, logger, solver.NewMetrics())

	term := driver.Run(w)

	if *checkpointDir != "" {
		if err := checkpoint.Save(*checkpointDir, sdp, w); err != nil {
			fmt.Fprintf(os.Stderr, "sdpsolve: checkpoint save: %v\n", err)
			return 1
		}
	}

	sel := checkpoint.Selection{"x": *writeX, "y": *writeY, "X": *writeXMatrix, "Y": *writeYMatrix}
	if err := checkpoint.WriteSolution(*outDir, sdp, term, w, sel); err != nil {
		fmt.Fprintf(os.Stderr, "sdpsolve: write solution: %v\n", err)
		return 1
	}

	fmt.Printf("%s after %d iterations (gap=%s)\n", term.Reason, term.Iterations, term.DualityGap.String())

	if term.Reason == solver.Infeasible {
		return 1
	}
	return 0
}
