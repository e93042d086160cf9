package hilbert

import (
	"fmt"
	"math/rand"

	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// Boson is the Hilbert space of nsites bosonic modes, each with
// occupation number in {0,...,Nmax}, with an optional constraint on the
// total particle number.
type Boson struct {
	nmax    int
	nsites  int
	local   []float64
	hasTot  bool
	total   float64
}

// NewBoson builds a Boson Hilbert space of nsites modes each truncated
// at Nmax particles.
func NewBoson(nsites, nmax int) (*Boson, error) {
	if nmax < 1 {
		return nil, vmcerr.New(vmcerr.Domain, "hilbert.NewBoson", fmt.Errorf("Nmax must be >= 1, got %d", nmax))
	}
	local := make([]float64, nmax+1)
	for i := range local {
		local[i] = float64(i)
	}
	return &Boson{nmax: nmax, nsites: nsites, local: local}, nil
}

// WithTotalNumber returns a copy of this Hilbert space constrained to
// the given total particle number.
func (h *Boson) WithTotalNumber(total float64) *Boson {
	clone := *h
	clone.hasTot = true
	clone.total = total
	return &clone
}

// IsDiscrete implements Hilbert.
func (h *Boson) IsDiscrete() bool { return true }

// LocalSize implements Hilbert.
func (h *Boson) LocalSize() int { return len(h.local) }

// Size implements Hilbert.
func (h *Boson) Size() int { return h.nsites }

// LocalStates implements Hilbert.
func (h *Boson) LocalStates() []float64 { return append([]float64(nil), h.local...) }

// Random implements Hilbert.
func (h *Boson) Random(v []float64, rng *rand.Rand) error {
	if len(v) != h.nsites {
		return vmcerr.Newf(vmcerr.Domain, "hilbert.Boson.Random", "configuration length %d does not match Size() %d", len(v), h.nsites)
	}
	if !h.hasTot {
		for i := range v {
			v[i] = h.local[rng.Intn(len(h.local))]
		}
		return nil
	}

	total := int(h.total)
	if float64(total) != h.total || total < 0 || total > h.nmax*h.nsites {
		return vmcerr.New(vmcerr.Domain, "hilbert.Boson.Random", vmcerr.ErrConstraintInfeasible)
	}

	for i := range v {
		v[i] = 0
	}
	sites := make([]int, h.nsites)
	for i := range sites {
		sites[i] = i
	}
	for step := 0; step < total; step++ {
		s := rng.Intn(len(sites))
		site := sites[s]
		v[site]++
		if int(v[site]) >= h.nmax {
			sites = append(sites[:s], sites[s+1:]...)
		}
	}
	return nil
}

// Update implements Hilbert.
func (h *Boson) Update(v []float64, sites []int, newValues []float64) {
	for i, s := range sites {
		v[s] = newValues[i]
	}
}
