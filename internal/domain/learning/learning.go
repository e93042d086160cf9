// Package learning implements the Sample -> GradientEstimation ->
// (optional SR precondition) -> Update -> Barrier iteration the VMC
// optimizer runs to drive the variational ansatz toward the ground
// state: a Driver owns the Hamiltonian, Sampler, Machine, Optimizer and
// Communicator references and orchestrates one full training run.
package learning

import (
	"errors"
	"math/rand"

	"github.com/alexandercbooth/netket/internal/domain/hamiltonian"
	"github.com/alexandercbooth/netket/internal/domain/machine"
	"github.com/alexandercbooth/netket/internal/domain/observable"
	"github.com/alexandercbooth/netket/internal/domain/optimizer"
	"github.com/alexandercbooth/netket/internal/domain/sampler"
	"github.com/alexandercbooth/netket/internal/infrastructure/comm"
)

// errNoSamples guards against Aggregate being called before any Sample
// batch was collected.
var errNoSamples = errors.New("learning: no samples collected before aggregation")

// Method selects between the stochastic-reconfiguration driver and
// plain gradient descent.
type Method int

const (
	// Sr preconditions the raw gradient direction by the inverse
	// quantum geometric tensor.
	Sr Method = iota
	// Gd applies the raw gradient, scaled by 2, with no preconditioning.
	Gd
)

// Config holds the Learning section of the configuration document.
type Config struct {
	Method       Method
	Nsamples     int
	NiterOpt     int
	DiagShift    float64 // default 0.01
	RescaleShift bool
	UseIterative bool
}

// IterationStats is one record of the structured output log: spec §6's
// "iteration index, energy mean, energy variance, acceptance, and
// observable values."
type IterationStats struct {
	Iteration      int
	EnergyMean     float64
	EnergyVariance float64
	Acceptance     float64
	Observables    map[string]float64
	Degenerate     bool // true when a Numeric error downgraded this step
}

// Driver orchestrates one VMC optimization run.
type Driver struct {
	Ham         hamiltonian.Operator
	Sampler     sampler.Sampler
	Psi         machine.Machine
	Opt         optimizer.Optimizer
	Comm        comm.Communicator
	Observables *observable.Manager
	Cfg         Config

	npar  int
	iter0 int

	vsamp [][]float64
	ok    [][]complex128
	elocs []complex128
}

// NewDriver builds a Driver and initializes the optimizer's
// per-coordinate state. It does not start sampling; call Run or Step.
func NewDriver(ham hamiltonian.Operator, samp sampler.Sampler, psi machine.Machine, opt optimizer.Optimizer, c comm.Communicator, cfg Config) *Driver {
	npar := psi.Npar()
	opt.Init(npar)
	return &Driver{
		Ham: ham, Sampler: samp, Psi: psi, Opt: opt, Comm: c, Cfg: cfg,
		npar: npar,
	}
}

// Run performs niter iterations, each estimating the gradient from a
// fresh batch of samples, preconditioning it if the driver is
// configured for SR, and applying one optimizer step. It returns the
// per-iteration stats for the whole run in order.
func (d *Driver) Run(rng *rand.Rand, niter int) ([]IterationStats, error) {
	d.Opt.Reset()
	stats := make([]IterationStats, 0, niter)
	for i := 0; i < niter; i++ {
		s, err := d.Step(rng)
		if err != nil {
			return stats, err
		}
		s.Iteration = d.iter0 + i
		stats = append(stats, s)
	}
	d.iter0 += niter
	return stats, nil
}
