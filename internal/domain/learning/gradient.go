package learning

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/alexandercbooth/netket/internal/domain/hamiltonian"
	"github.com/alexandercbooth/netket/internal/domain/machine"
	"github.com/alexandercbooth/netket/internal/domain/observable"
)

// Sample draws one batch of Markov-chain configurations from d.Sampler,
// sweepsPerSample full lattice sweeps apart, and records the local
// energy and log-derivative vector at each one. It does not reset the
// chain to a random configuration: successive calls continue the same
// chain, matching the teacher's once-at-startup, keep-thereafter
// reset discipline.
func (d *Driver) Sample(rng *rand.Rand, nsamplesLocal, sweeps int) error {
	d.Sampler.Reset(false, rng)
	d.vsamp = d.vsamp[:0]
	d.ok = d.ok[:0]
	d.elocs = d.elocs[:0]
	for s := 0; s < nsamplesLocal; s++ {
		for sw := 0; sw < sweeps; sw++ {
			if err := d.Sampler.Sweep(rng); err != nil {
				return err
			}
		}
		v := append([]float64(nil), d.Sampler.Visible()...)
		eloc, err := localEnergy(d.Ham, d.Psi, v)
		if err != nil {
			return err
		}
		der := d.Psi.DerLog(v)
		d.vsamp = append(d.vsamp, v)
		d.elocs = append(d.elocs, eloc)
		d.ok = append(d.ok, der)
	}
	return nil
}

// localEnergy computes E_loc(v) = sum_i mel_i * exp(logval(v_i') -
// logval(v)) over the sparse connections an Operator reports for v,
// using LogValDiff so no LogVal renormalization is needed for the
// diagonal (empty-Sites) connection.
func localEnergy(op hamiltonian.Operator, psi machine.Machine, v []float64) (complex128, error) {
	conns, err := op.FindConnections(v)
	if err != nil {
		return 0, err
	}
	diffs := psi.LogValDiff(v, conns.Sites, conns.NewValues)
	var eloc complex128
	for i, mel := range conns.Mels {
		eloc += mel * cmplx.Exp(diffs[i])
	}
	return eloc, nil
}

// observableMean computes the local-batch mean of an Observable's real
// expectation value over the current sample batch, without any
// cross-worker aggregation.
func (d *Driver) observableMean(obs observable.Observable) (float64, error) {
	var sum complex128
	for _, v := range d.vsamp {
		conns, err := obs.Op.FindConnections(v)
		if err != nil {
			return 0, err
		}
		diffs := d.Psi.LogValDiff(v, conns.Sites, conns.NewValues)
		var local complex128
		for i, mel := range conns.Mels {
			local += mel * cmplx.Exp(diffs[i])
		}
		sum += local
	}
	mean := sum / complex(float64(len(d.vsamp)), 0)
	return real(mean), nil
}

// aggregates holds the outcome of the Aggregate step of one gradient
// estimation: cross-worker means and the centered local sample
// matrices needed by both the plain-gradient and SR paths.
type aggregates struct {
	elocMean complex128
	elocVar  float64
	okMean   []complex128
	// b is the raw (no factor of 2) gradient direction Ok^H * elocsCentered
	// / (W*Mw), shared between the plain-GD path (scaled by 2) and the
	// SR path (used as-is as the right-hand side of S*delta=b).
	b []complex128
}

// Aggregate centers the local sample batch around the cross-worker
// means of E_loc and DerLog, then computes the raw gradient direction
// b = Ok^H * (elocs - elocMean) / (W*Mw), all-reduced across workers.
func (d *Driver) Aggregate() (*aggregates, error) {
	w := d.Comm.Size()
	mw := len(d.vsamp)
	if mw == 0 {
		return nil, errNoSamples
	}

	localElocMean := meanComplex(d.elocs)
	elocMeanParts, err := d.Comm.AllReduceSumComplex([]complex128{localElocMean})
	if err != nil {
		return nil, err
	}
	elocMean := elocMeanParts[0] / complex(float64(w), 0)

	localOkMean := columnMean(d.ok, d.npar)
	okMeanSummed, err := d.Comm.AllReduceSumComplex(localOkMean)
	if err != nil {
		return nil, err
	}
	okMean := make([]complex128, d.npar)
	for j := range okMean {
		okMean[j] = okMeanSummed[j] / complex(float64(w), 0)
	}

	elocsCentered := make([]complex128, mw)
	var localVarSum float64
	for i, e := range d.elocs {
		c := e - elocMean
		elocsCentered[i] = c
		localVarSum += real(c)*real(c) + imag(c)*imag(c)
	}
	varParts, err := d.Comm.AllReduceSumFloat64([]float64{localVarSum})
	if err != nil {
		return nil, err
	}
	elocVar := varParts[0] / float64(w*mw)

	localB := make([]complex128, d.npar)
	for i, row := range d.ok {
		ci := elocsCentered[i]
		for j, okij := range row {
			localB[j] += cmplx.Conj(okij-okMean[j]) * ci
		}
	}
	bSummed, err := d.Comm.AllReduceSumComplex(localB)
	if err != nil {
		return nil, err
	}
	b := make([]complex128, d.npar)
	denom := complex(float64(w*mw), 0)
	for j := range b {
		b[j] = bSummed[j] / denom
	}

	return &aggregates{elocMean: elocMean, elocVar: elocVar, okMean: okMean, b: b}, nil
}

// centeredOk returns the local batch's log-derivative matrix with
// okMean subtracted from every row, the form both the direct and
// iterative SR solvers need to build or apply S.
func (d *Driver) centeredOk(okMean []complex128) [][]complex128 {
	out := make([][]complex128, len(d.ok))
	for i, row := range d.ok {
		c := make([]complex128, len(row))
		for j, x := range row {
			c[j] = x - okMean[j]
		}
		out[i] = c
	}
	return out
}

func meanComplex(xs []complex128) complex128 {
	var s complex128
	for _, x := range xs {
		s += x
	}
	return s / complex(float64(len(xs)), 0)
}

func columnMean(rows [][]complex128, ncols int) []complex128 {
	out := make([]complex128, ncols)
	for _, row := range rows {
		for j, x := range row {
			out[j] += x
		}
	}
	n := complex(float64(len(rows)), 0)
	for j := range out {
		out[j] /= n
	}
	return out
}

func absComplex(x complex128) float64 {
	return math.Hypot(real(x), imag(x))
}
