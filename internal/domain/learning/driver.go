package learning

import (
	"math/rand"

	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// sweepsPerSample is the number of full lattice sweeps separating two
// consecutive recorded samples in a Markov chain, matching the
// teacher's one-sweep-per-sample-by-default discretization.
const sweepsPerSample = 1

// Step runs one full Sample -> Aggregate -> (Precondition) -> Update ->
// Barrier iteration and returns its stats. A Numeric error (QR rank
// deficiency or CG non-convergence) is caught, logged against this
// iteration as Degenerate, and the parameters are left unchanged rather
// than aborting the run; every other error kind is returned to the
// caller, which per the Kind taxonomy's policy means the run stops.
func (d *Driver) Step(rng *rand.Rand) (IterationStats, error) {
	nLocal := localBatchSize(d.Cfg.Nsamples, d.Comm.Size())
	if err := d.Sample(rng, nLocal, sweepsPerSample); err != nil {
		return IterationStats{}, err
	}

	agg, err := d.Aggregate()
	if err != nil {
		return IterationStats{}, err
	}

	stats := IterationStats{
		EnergyMean:     real(agg.elocMean),
		EnergyVariance: agg.elocVar,
		Acceptance:     d.Sampler.Acceptance(),
		Observables:    make(map[string]float64, len(d.Observables.All())),
	}
	for _, obs := range d.Observables.All() {
		mean, err := d.observableMean(obs)
		if err != nil {
			return IterationStats{}, err
		}
		stats.Observables[obs.Name] = mean
	}

	grad, err := d.direction(agg)
	if err != nil {
		if !vmcerr.IsFatal(err) {
			stats.Degenerate = true
			return stats, nil
		}
		return stats, err
	}

	// Every worker runs Update/SetParameters itself rather than rank 0
	// updating and broadcasting: grad is already identical on every
	// worker (it came out of an all-reduce) and Opt.Update is a pure
	// function of its inputs, so the result is bit-identical without a
	// broadcast step.
	pars := d.Psi.GetParameters()
	updated := d.Opt.Update(pars, grad)
	d.Psi.SetParameters(updated)
	if err := d.Comm.Barrier(); err != nil {
		return stats, err
	}
	return stats, nil
}

// direction returns the final update direction passed to the optimizer:
// for Gd, the raw gradient scaled by 2 (spec's g = 2/(W*Mw) * sum
// Ok^dagger * Eloc_centered); for Sr, the SR-preconditioned step solving
// S*delta = b with no extra factor of 2, since the geometric tensor
// already carries the matching normalization.
func (d *Driver) direction(agg *aggregates) ([]complex128, error) {
	if d.Cfg.Method == Gd {
		grad := make([]complex128, len(agg.b))
		for i, x := range agg.b {
			grad[i] = 2 * x
		}
		return grad, nil
	}
	return d.Precondition(agg)
}

// localBatchSize divides nsamples as evenly as possible across w
// workers, matching the teacher's ceil(nsamples/w) per-worker sweep
// count (every worker samples the same count so Aggregate's division
// by a single shared Mw stays exact).
func localBatchSize(nsamples, w int) int {
	if w <= 0 {
		w = 1
	}
	return (nsamples + w - 1) / w
}

// CheckDerivatives validates a Machine's analytic DerLog against a
// central finite difference, exploiting holomorphicity: perturbing a
// parameter along the real axis and along the imaginary axis must
// produce the same derivative up to the usual i-rotation, so only the
// real-axis probe is taken here and compared against DerLog directly.
// It returns the maximum absolute discrepancy found across all
// parameters and sampled configurations, grounded on sr.hh's
// CheckDerLog debug routine.
func (d *Driver) CheckDerivatives(configs [][]float64, eps float64) float64 {
	pars := append([]complex128(nil), d.Psi.GetParameters()...)
	defer d.Psi.SetParameters(pars)

	maxDiff := 0.0
	for _, v := range configs {
		der := d.Psi.DerLog(v)
		for k := range pars {
			perturbed := append([]complex128(nil), pars...)
			perturbed[k] += complex(eps, 0)
			d.Psi.SetParameters(perturbed)
			lp := d.Psi.LogVal(v)

			perturbed[k] = pars[k] - complex(eps, 0)
			d.Psi.SetParameters(perturbed)
			lm := d.Psi.LogVal(v)

			fd := (lp - lm) / complex(2*eps, 0)
			diff := absComplex(fd - der[k])
			if diff > maxDiff {
				maxDiff = diff
			}
		}
	}
	return maxDiff
}
