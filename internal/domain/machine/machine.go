// Package machine implements the variational wavefunction ansatz: a
// parametrized map from a visible configuration to a complex log-amplitude,
// together with its log-derivatives with respect to the variational
// parameters. Restricted Boltzmann Machine ansatze (plain and
// permutation-symmetric) are the two concrete implementations.
package machine

import (
	"github.com/alexandercbooth/netket/internal/domain/hilbert"
)

// Lookup holds intermediate quantities (the RBM's hidden-unit "theta"
// vector) that let LogValDiff be evaluated in O(changed sites) time
// instead of recomputing the full forward pass.
type Lookup struct {
	Theta []complex128
}

// Clone returns an independent copy of the lookup table.
func (l *Lookup) Clone() *Lookup {
	theta := make([]complex128, len(l.Theta))
	copy(theta, l.Theta)
	return &Lookup{Theta: theta}
}

// Machine is the contract every variational ansatz satisfies.
type Machine interface {
	// GetHilbert returns the Hilbert space this ansatz is defined over.
	GetHilbert() hilbert.Hilbert
	// Npar returns the number of variational parameters.
	Npar() int
	// GetParameters returns the current parameter vector.
	GetParameters() []complex128
	// SetParameters overwrites the parameter vector. It panics if len(pars)
	// != Npar(), matching the teacher's fixed-shape-vector conventions.
	SetParameters(pars []complex128)
	// LogVal returns log(Psi(v)).
	LogVal(v []float64) complex128
	// LogValWithLookup returns log(Psi(v)) using a lookup table built by
	// InitLookup, avoiding the full forward pass.
	LogValWithLookup(v []float64, lt *Lookup) complex128
	// InitLookup builds the lookup table for configuration v from scratch.
	InitLookup(v []float64) *Lookup
	// UpdateLookup incrementally updates lt in place after v's values at
	// sites are replaced by newValues. The caller is responsible for
	// mutating v itself (via hilbert.Update) separately.
	UpdateLookup(v []float64, sites []int, newValues []float64, lt *Lookup)
	// LogValDiff returns, for each of the given flip proposals, the value
	// log(Psi(v')) - log(Psi(v)), without lookup acceleration. One entry
	// per proposal; an empty sites slice yields a diff of 0.
	LogValDiff(v []float64, sites [][]int, newValues [][]float64) []complex128
	// LogValDiffWithLookup is the lookup-accelerated single-proposal form
	// used by the sampler's accept/reject step.
	LogValDiffWithLookup(v []float64, sites []int, newValues []float64, lt *Lookup) complex128
	// DerLog returns d(log Psi(v))/d(theta_k) for every parameter k.
	DerLog(v []float64) []complex128
}
