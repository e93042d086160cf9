package sampler

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/alexandercbooth/netket/internal/domain/hilbert"
	"github.com/alexandercbooth/netket/internal/domain/machine"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// MetropolisLocal proposes single-site local moves (one visible unit at
// a time, redrawn to a uniformly random different local state) and
// accepts with probability min(1, |Psi(v')/Psi(v)|^2), the discrete
// Metropolis-Hastings rule for a symmetric proposal distribution.
type MetropolisLocal struct {
	psi machine.Machine
	h   hilbert.Hilbert

	nv     int
	local  []float64
	v      []float64
	lt     *machine.Lookup
	accept float64
	moves  float64

	// Debug enables the lookup-consistency assertions the original
	// implementation runs under its NDEBUG-gated block: a full LogVal
	// recompute is compared against the lookup-accelerated value and
	// against the accepted move's predicted log-ratio.
	Debug bool
}

// NewMetropolisLocal builds a sampler over psi's Hilbert space. The
// Hilbert space must be discrete (IsDiscrete() == true); continuous
// spaces need a different proposal kernel.
func NewMetropolisLocal(psi machine.Machine) (*MetropolisLocal, error) {
	h := psi.GetHilbert()
	if !h.IsDiscrete() {
		return nil, vmcerr.New(vmcerr.Domain, "sampler.NewMetropolisLocal", vmcerr.ErrNotDiscrete)
	}
	s := &MetropolisLocal{
		psi:   psi,
		h:     h,
		nv:    h.Size(),
		local: h.LocalStates(),
		v:     hilbert.NewConfiguration(h),
	}
	return s, nil
}

// Reset implements Sampler.
func (s *MetropolisLocal) Reset(random bool, rng *rand.Rand) {
	if random {
		if err := s.h.Random(s.v, rng); err != nil {
			// A configuration-level constraint failure here is a setup
			// error the caller should have caught earlier; keep the
			// previous configuration rather than leaving v undefined.
			return
		}
	}
	s.lt = s.psi.InitLookup(s.v)
	s.accept = 0
	s.moves = 0
}

// Visible implements Sampler.
func (s *MetropolisLocal) Visible() []float64 { return s.v }

// SetVisible implements Sampler.
func (s *MetropolisLocal) SetVisible(v []float64) {
	copy(s.v, v)
	s.lt = s.psi.InitLookup(s.v)
}

// Acceptance implements Sampler.
func (s *MetropolisLocal) Acceptance() float64 {
	if s.moves == 0 {
		return 0
	}
	return s.accept / s.moves
}

// Sweep implements Sampler.
func (s *MetropolisLocal) Sweep(rng *rand.Rand) error {
	nstates := len(s.local)
	for i := 0; i < s.nv; i++ {
		si := rng.Intn(s.nv)
		newState := rng.Intn(nstates)
		newVal := s.local[newState]
		for math.Abs(newVal-s.v[si]) < 1e-12 {
			newState = rng.Intn(nstates)
			newVal = s.local[newState]
		}

		sites := []int{si}
		newVals := []float64{newVal}

		if s.Debug {
			full := s.psi.LogVal(s.v)
			withLookup := s.psi.LogValWithLookup(s.v, s.lt)
			if cmplx.Abs(cmplx.Exp(full-withLookup)-1) > 1e-8 {
				return vmcerr.Newf(vmcerr.Numeric, "sampler.MetropolisLocal.Sweep", "lookup-accelerated LogVal disagrees with full recompute: %w", vmcerr.ErrInvalidLogRatio)
			}
		}

		lvd := s.psi.LogValDiffWithLookup(s.v, sites, newVals, s.lt)
		ratio := math.Pow(cmplx.Abs(cmplx.Exp(lvd)), 2)

		if ratio > rng.Float64() {
			var before complex128
			if s.Debug {
				before = s.psi.LogVal(s.v)
			}

			s.accept++
			s.psi.UpdateLookup(s.v, sites, newVals, s.lt)
			s.h.Update(s.v, sites, newVals)

			if s.Debug {
				after := s.psi.LogVal(s.v)
				if cmplx.Abs(cmplx.Exp(after-before-lvd)-1) > 1e-8 {
					return vmcerr.Newf(vmcerr.Numeric, "sampler.MetropolisLocal.Sweep", "accepted move's logarithm ratio disagrees with LogValDiff: %w", vmcerr.ErrInvalidLogRatio)
				}
			}
		}
		s.moves++
	}
	return nil
}
