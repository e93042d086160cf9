// Package hilbert provides the discrete local-state alphabet Hilbert
// spaces that the Sampler and Hamiltonian consume: random configuration
// generation under an optional global constraint, and in-place
// configuration updates.
package hilbert

import "math/rand"

// Hilbert is the contract every local-state Hilbert space satisfies. It
// is built once at startup; the constraint (if any) is preserved by
// every update issued through this interface, never validated after the
// fact.
type Hilbert interface {
	// IsDiscrete reports whether this Hilbert space has a finite local
	// alphabet. The Metropolis-local sampler requires true.
	IsDiscrete() bool
	// LocalSize returns the size d of the local alphabet.
	LocalSize() int
	// Size returns the configuration length N.
	Size() int
	// LocalStates returns the local alphabet L = {l0,...,l(d-1)}.
	LocalStates() []float64
	// Random draws a configuration of length Size() into v, satisfying
	// the global constraint if one is configured. v must already have
	// length Size().
	Random(v []float64, rng *rand.Rand) error
	// Update overwrites v at the given site indices with the given
	// local values. It does not validate the constraint: sampling
	// discipline is responsible for that.
	Update(v []float64, sites []int, newValues []float64)
}

// NewConfiguration allocates a zeroed configuration vector of the
// correct length for h.
func NewConfiguration(h Hilbert) []float64 {
	return make([]float64, h.Size())
}
