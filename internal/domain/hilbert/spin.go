package hilbert

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// Spin is the Hilbert space of nspins integer- or half-integer-spin
// degrees of freedom. Local quantum numbers are represented as integers
// doubled relative to the physical spin: for S=3/2 the allowed local
// values are -3,-1,1,3; for S=1 they are -2,0,2. This mirrors
// original_source/Hilbert/spins.hh exactly so downstream Hamiltonians
// written against "2*Sz" integers need no rescaling.
type Spin struct {
	s       float64
	nspins  int
	local   []float64
	hasTotS bool
	totalS  float64
}

// NewSpin builds a Spin Hilbert space for nspins sites of spin S. S must
// be a positive integer or half-integer.
func NewSpin(nspins int, s float64) (*Spin, error) {
	if s <= 0 {
		return nil, vmcerr.New(vmcerr.Domain, "hilbert.NewSpin", fmt.Errorf("invalid spin value %v: must be positive", s))
	}
	if math.Floor(2*s) != 2*s {
		return nil, vmcerr.New(vmcerr.Domain, "hilbert.NewSpin", fmt.Errorf("spin value %v is neither integer nor half-integer", s))
	}
	nstates := int(math.Floor(2*s)) + 1
	local := make([]float64, nstates)
	sp := -math.Floor(2 * s)
	for i := 0; i < nstates; i++ {
		local[i] = sp
		sp += 2
	}
	return &Spin{s: s, nspins: nspins, local: local}, nil
}

// WithTotalSz returns a copy of this Hilbert space constrained to the
// given total magnetization (in physical, undoubled units).
func (h *Spin) WithTotalSz(totalSz float64) *Spin {
	clone := *h
	clone.hasTotS = true
	clone.totalS = totalSz
	return &clone
}

// IsDiscrete implements Hilbert.
func (h *Spin) IsDiscrete() bool { return true }

// LocalSize implements Hilbert.
func (h *Spin) LocalSize() int { return len(h.local) }

// Size implements Hilbert.
func (h *Spin) Size() int { return h.nspins }

// LocalStates implements Hilbert.
func (h *Spin) LocalStates() []float64 { return append([]float64(nil), h.local...) }

// S returns the physical spin quantum number.
func (h *Spin) S() float64 { return h.s }

// Random implements Hilbert.
func (h *Spin) Random(v []float64, rng *rand.Rand) error {
	if len(v) != h.nspins {
		return vmcerr.Newf(vmcerr.Domain, "hilbert.Spin.Random", "configuration length %d does not match Size() %d", len(v), h.nspins)
	}
	if !h.hasTotS {
		for i := range v {
			v[i] = h.local[rng.Intn(len(h.local))]
		}
		return nil
	}
	if h.s == 0.5 {
		return h.randomHalfSpinConstrained(v, rng)
	}
	return h.randomHigherSpinConstrained(v, rng)
}

func (h *Spin) randomHalfSpinConstrained(v []float64, rng *rand.Rand) error {
	nup := h.nspins/2 + int(h.totalS)
	ndown := h.nspins - nup
	if nup-ndown != int(2*h.totalS) {
		return vmcerr.New(vmcerr.Domain, "hilbert.Spin.Random", vmcerr.ErrConstraintInfeasible)
	}
	if nup < 0 || ndown < 0 {
		return vmcerr.New(vmcerr.Domain, "hilbert.Spin.Random", vmcerr.ErrConstraintInfeasible)
	}
	vect := make([]float64, h.nspins)
	for i := 0; i < nup; i++ {
		vect[i] = 1
	}
	for i := nup; i < h.nspins; i++ {
		vect[i] = -1
	}
	rng.Shuffle(h.nspins, func(i, j int) { vect[i], vect[j] = vect[j], vect[i] })
	copy(v, vect)
	return nil
}

func (h *Spin) randomHigherSpinConstrained(v []float64, rng *rand.Rand) error {
	numSteps := h.s*float64(h.nspins) + h.totalS
	rounded := math.Round(numSteps)
	if math.Abs(numSteps-rounded) > 1e-9 || rounded < 0 || rounded > 2*h.s*float64(h.nspins) {
		return vmcerr.New(vmcerr.Domain, "hilbert.Spin.Random", vmcerr.ErrConstraintInfeasible)
	}

	for i := range v {
		v[i] = -2 * h.s
	}
	sites := make([]int, h.nspins)
	for i := range sites {
		sites[i] = i
	}

	steps := int(rounded)
	for i := 0; i < steps; i++ {
		s := rng.Intn(len(sites))
		site := sites[s]
		v[site] += 2
		if v[site] > 2*h.s-1 {
			sites = append(sites[:s], sites[s+1:]...)
		}
	}
	return nil
}

// Update implements Hilbert.
func (h *Spin) Update(v []float64, sites []int, newValues []float64) {
	for i, s := range sites {
		v[s] = newValues[i]
	}
}
