// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"time"

	"github.com/curioloop/sdpcore/scalar"
)

// Reason is the terminal state of a run: the driver's termination state
// machine.
type Reason int

const (
	// Running means the driver has not yet reached a terminal state.
	Running Reason = iota
	// PrimalDualOptimal means the primal and dual feasibility errors and
	// duality gap all fell below their thresholds.
	PrimalDualOptimal
	// PrimalFeasibleJumpDetected means the iterate is primal feasible but
	// the dual step length collapsed to near zero, a heuristic sign of
	// dual infeasibility.
	PrimalFeasibleJumpDetected
	// DualFeasibleJumpDetected is the mirror image: dual feasible, primal
	// step length collapsed.
	DualFeasibleJumpDetected
	// MaxIterations means the iteration budget was exhausted.
	MaxIterations
	// MaxRuntime means the wall-clock budget was exhausted.
	MaxRuntime
	// MaxComplementarityExceeded means mu grew past the configured bound,
	// a sign of primal or dual infeasibility.
	MaxComplementarityExceeded
	// Infeasible means X or Y (or the Schur complement) lost
	// positive-definiteness twice in a row even after halving the step
	// length once.
	Infeasible
)

func (r Reason) String() string {
	switch r {
	case Running:
		return "running"
	case PrimalDualOptimal:
		return "found primal-dual optimal solution"
	case PrimalFeasibleJumpDetected:
		return "primal feasible, dual step length jump detected"
	case DualFeasibleJumpDetected:
		return "dual feasible, primal step length jump detected"
	case MaxIterations:
		return "max iterations reached"
	case MaxRuntime:
		return "max runtime reached"
	case MaxComplementarityExceeded:
		return "max complementarity exceeded"
	case Infeasible:
		return "infeasible (lost positive-definiteness)"
	default:
		return "unknown"
	}
}

// Termination is the final report of a Driver.Run call.
type Termination struct {
	Reason          Reason
	Iterations      int
	PrimalObjective scalar.Real
	DualObjective   scalar.Real
	DualityGap      scalar.Real
	Elapsed         time.Duration
}
