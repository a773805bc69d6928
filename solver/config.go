// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"time"

	"github.com/curioloop/sdpcore/scalar"
)

// Config holds the run parameters: termination thresholds, initial-iterate
// scales, centering-parameter choices, and the step-length shrink factor.
type Config struct {
	// Precision is the mantissa bit width for the whole run (scalar.SetPrecision).
	Precision uint

	MaxIterations int
	MaxRuntime    time.Duration

	MaxComplementarity   scalar.Real
	DualityGapThreshold  scalar.Real
	PrimalErrorThreshold scalar.Real
	DualErrorThreshold   scalar.Real

	InitialMatrixScalePrimal scalar.Real
	InitialMatrixScaleDual   scalar.Real

	FeasibleCenteringParameter   scalar.Real
	InfeasibleCenteringParameter scalar.Real

	// StepLengthReduction is gamma, the fraction of the distance-to-boundary
	// step actually taken. SDPA/SDPB-family solvers default this to 0.7.
	StepLengthReduction scalar.Real
}

// DefaultConfig returns a reasonable parameter set for a first run.
func DefaultConfig() Config {
	return Config{
		Precision:                    200,
		MaxIterations:                1000,
		MaxRuntime:                   24 * time.Hour,
		MaxComplementarity:           scalar.FromFloat64(1e100),
		DualityGapThreshold:          scalar.FromFloat64(1e-10),
		PrimalErrorThreshold:         scalar.FromFloat64(1e-10),
		DualErrorThreshold:           scalar.FromFloat64(1e-10),
		InitialMatrixScalePrimal:     scalar.FromFloat64(1e2),
		InitialMatrixScaleDual:       scalar.FromFloat64(1e2),
		FeasibleCenteringParameter:   scalar.FromFloat64(0.1),
		InfeasibleCenteringParameter: scalar.FromFloat64(0.3),
		StepLengthReduction:          scalar.FromFloat64(0.7),
	}
}
