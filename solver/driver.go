// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the driver loop: one primal-dual interior-point
// iteration (factor, pair, assemble, solve, step, update), Mehrotra
// predictor-corrector style, repeated until a Termination is reached,
// modeled on lbfgsb/driver.go's iterDriver.mainLoop.
package solver

import (
	"time"

	"github.com/curioloop/sdpcore/blockdiag"
	"github.com/curioloop/sdpcore/densemat"
	"github.com/curioloop/sdpcore/direction"
	"github.com/curioloop/sdpcore/pairing"
	"github.com/curioloop/sdpcore/residual"
	"github.com/curioloop/sdpcore/scalar"
	"github.com/curioloop/sdpcore/schur"
	"github.com/curioloop/sdpcore/sdpdata"
	"github.com/curioloop/sdpcore/stepsize"
)

// Driver orchestrates one SDP instance's iteration. It is not safe for
// concurrent use by multiple goroutines against the same Workspace.
type Driver struct {
	SDP        *sdpdata.SDP
	Config     Config
	Logger     *Logger
	Metrics    *Metrics
	Collective blockdiag.Collective

	lastGoodX, lastGoodY      *blockdiag.Matrix
	lastGoodPV, lastGoodDV    []scalar.Real
	stepScale                 scalar.Real
	consecutiveFactorFailures int
}

// NewDriver builds a Driver. A nil logger disables logging; a nil metrics
// is replaced by a fresh Metrics owned by the Driver. The driver defaults to blockdiag.Local, the
// single-process Collective; set Collective on the returned Driver to swap
// in a distributed reduction once the iterate's blocks span processes.
func NewDriver(sdp *sdpdata.SDP, cfg Config, logger *Logger, metrics *Metrics) *Driver {
	if logger == nil {
		logger = &Logger{Level: LogNone}
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Driver{SDP: sdp, Config: cfg, Logger: logger, Metrics: metrics, Collective: blockdiag.Local{}, stepScale: scalar.FromInt64(1)}
}

func dotAdd(coef, vec []scalar.Real, c scalar.Real) scalar.Real {
	sum := c
	for i := range coef {
		sum = scalar.MulAdd(coef[i], vec[i], sum)
	}
	return sum
}

func (d *Driver) objectives(w *Workspace) (objP, objD scalar.Real) {
	objP = dotAdd(d.SDP.PrimalObjectiveC, w.PrimalVector, d.SDP.ObjectiveConst)
	objD = dotAdd(d.SDP.DualObjectiveB, w.DualVector, d.SDP.ObjectiveConst)
	return objP, objD
}

// Step performs one iteration in place on w, returning Running if the
// driver should continue, or a terminal Reason. A factorization failure on
// X, Y, or the Schur complement triggers a "halve the step length once and
// retry" policy; a second consecutive failure reports Infeasible.
func (d *Driver) Step(w *Workspace) Reason {
	end := d.Metrics.Enter("iteration")
	defer end()

	sdp, cfg := d.SDP, d.Config
	one := scalar.FromInt64(1)

	if d.lastGoodX == nil {
		d.lastGoodX = w.X.Copy()
		d.lastGoodY = w.Y.Copy()
		d.lastGoodPV = append([]scalar.Real{}, w.PrimalVector...)
		d.lastGoodDV = append([]scalar.Real{}, w.DualVector...)
	}

	factorEnd := d.Metrics.Enter("factor")
	xChol, _, xAinv, xSt := blockdiag.CholeskyInverse(w.X)
	var yChol *blockdiag.Matrix
	var ySt blockdiag.Status = blockdiag.OK
	if xSt == blockdiag.OK {
		yChol, _, _, ySt = blockdiag.CholeskyInverse(w.Y)
	}
	factorEnd()
	if xSt != blockdiag.OK || ySt != blockdiag.OK {
		return d.onFactorFailure(w)
	}

	pairEnd := d.Metrics.Enter("pairing")
	pXinv := pairing.Compute(sdp, xAinv)
	pY := pairing.Compute(sdp, w.Y)
	pairEnd()

	schurEnd := d.Metrics.Enter("schur")
	s := schur.Assemble(sdp, pXinv, pY, xAinv.Diag, w.Y.Diag)
	lsChol, st2 := schur.Factor(s)
	schurEnd()
	if st2 != densemat.OK {
		return d.onFactorFailure(w)
	}

	d.consecutiveFactorFailures = 0

	dVec := residual.Dual(sdp, pY, w.Y.Diag)
	rp := residual.Primal(sdp, w.PrimalVector, w.X)
	mu := residual.Mu(w.X, w.Y, d.Collective)
	feasErr := residual.FeasibilityError(rp, dVec, d.Collective)
	objP, objD := d.objectives(w)
	gap := residual.DualityGap(objP, objD)

	d.Logger.logf(LogIter, "mu=%v feasErr=%v gap=%v\n", mu.Float64(), feasErr.Float64(), gap.Float64())

	if feasErr.Cmp(cfg.PrimalErrorThreshold) < 0 && feasErr.Cmp(cfg.DualErrorThreshold) < 0 && gap.Cmp(cfg.DualityGapThreshold) < 0 {
		return PrimalDualOptimal
	}
	if mu.Cmp(cfg.MaxComplementarity) > 0 {
		return MaxComplementarityExceeded
	}

	dirEnd := d.Metrics.Enter("direction")
	predR := direction.Predictor(w.X, w.Y, mu, feasErr, cfg.PrimalErrorThreshold, cfg.InfeasibleCenteringParameter)
	_, predDX, predDY := direction.Solve(sdp, xAinv, rp, predR, w.Y, dVec, lsChol)

	corrR := direction.Corrector(w.X, w.Y, predDX, predDY, mu, feasErr, cfg.PrimalErrorThreshold, cfg.FeasibleCenteringParameter, cfg.InfeasibleCenteringParameter, d.Collective)
	dx, dX, dY := direction.Solve(sdp, xAinv, rp, corrR, w.Y, dVec, lsChol)
	dirEnd()

	stepEnd := d.Metrics.Enter("step")
	alphaP := stepsize.MaxStep(xChol, dX, cfg.StepLengthReduction).Mul(d.stepScale)
	alphaD := stepsize.MaxStep(yChol, dY, cfg.StepLengthReduction).Mul(d.stepScale)
	stepEnd()
	d.stepScale = one

	tiny := scalar.FromFloat64(1e-7)
	primalFeasible := feasErr.Cmp(cfg.PrimalErrorThreshold) < 0
	dualFeasible := feasErr.Cmp(cfg.DualErrorThreshold) < 0
	if primalFeasible && alphaD.Cmp(tiny) < 0 {
		return PrimalFeasibleJumpDetected
	}
	if dualFeasible && alphaP.Cmp(tiny) < 0 {
		return DualFeasibleJumpDetected
	}

	d.lastGoodX = w.X.Copy()
	d.lastGoodY = w.Y.Copy()
	d.lastGoodPV = append(d.lastGoodPV[:0], w.PrimalVector...)
	d.lastGoodDV = append(d.lastGoodDV[:0], w.DualVector...)

	for p := range w.PrimalVector {
		w.PrimalVector[p] = w.PrimalVector[p].Add(alphaP.Mul(dx[p]))
	}
	blockdiag.AddInto(w.X, w.X, dX, one, alphaP)
	for n := range w.DualVector {
		w.DualVector[n] = w.DualVector[n].Add(alphaD.Mul(dY.Diag[n]))
	}
	blockdiag.AddInto(w.Y, w.Y, dY, one, alphaD)

	return Running
}

// onFactorFailure implements the factorization-retry policy: restore the
// last iterate known to factor cleanly, halve the effective step length,
// and continue; a second consecutive failure is reported as Infeasible.
// stepScale is reset to 1 once the retried step lengths have been computed,
// so the halving is a one-time response to a single bad step rather than a
// permanent shrink.
func (d *Driver) onFactorFailure(w *Workspace) Reason {
	d.consecutiveFactorFailures++
	d.Logger.logf(LogVerbose, "factorization failed (count=%d)\n", d.consecutiveFactorFailures)
	if d.consecutiveFactorFailures >= 2 {
		return Infeasible
	}
	blockdiag.CopyInto(w.X, d.lastGoodX)
	blockdiag.CopyInto(w.Y, d.lastGoodY)
	copy(w.PrimalVector, d.lastGoodPV)
	copy(w.DualVector, d.lastGoodDV)
	d.stepScale = d.stepScale.Mul(scalar.FromFloat64(0.5))
	return Running
}

// Run iterates Step until a terminal Reason is reached, MaxIterations is
// exhausted, or MaxRuntime elapses.
func (d *Driver) Run(w *Workspace) Termination {
	start := time.Now()
	for iter := 0; ; iter++ {
		if iter >= d.Config.MaxIterations {
			return d.finish(w, MaxIterations, iter, start)
		}
		if time.Since(start) >= d.Config.MaxRuntime {
			return d.finish(w, MaxRuntime, iter, start)
		}
		reason := d.Step(w)
		if reason != Running {
			return d.finish(w, reason, iter+1, start)
		}
	}
}

func (d *Driver) finish(w *Workspace, reason Reason, iters int, start time.Time) Termination {
	objP, objD := d.objectives(w)
	d.Logger.logf(LogSummary, "terminated: %s after %d iterations\n", reason, iters)
	return Termination{
		Reason:          reason,
		Iterations:      iters,
		PrimalObjective: objP,
		DualObjective:   objD,
		DualityGap:      residual.DualityGap(objP, objD),
		Elapsed:         time.Since(start),
	}
}
