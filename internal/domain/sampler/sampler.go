// Package sampler implements Markov-chain sampling of configurations
// from the Born distribution |Psi(v)|^2 of a variational wavefunction,
// used to estimate expectation values by simple averages over the
// chain instead of a sum over the whole (exponentially large) Hilbert
// space.
package sampler

import "math/rand"

// Sampler is the contract every Markov-chain sampler satisfies.
type Sampler interface {
	// Reset restarts the chain. If random is true the visible
	// configuration is redrawn from the Hilbert space; otherwise the
	// current configuration is kept and only the lookup table and
	// accept/move counters are refreshed.
	Reset(random bool, rng *rand.Rand)
	// Sweep performs one full sweep (one proposal per visible unit) of
	// the chain, updating the visible configuration in place. In debug
	// mode it returns a Numeric-kind error (wrapping
	// vmcerr.ErrInvalidLogRatio) if the lookup-accelerated log-amplitude
	// ever disagrees with a full recompute beyond tolerance.
	Sweep(rng *rand.Rand) error
	// Visible returns the chain's current configuration. The returned
	// slice must not be mutated by the caller.
	Visible() []float64
	// SetVisible overwrites the chain's configuration and rebuilds the
	// lookup table from scratch.
	SetVisible(v []float64)
	// Acceptance returns the fraction of proposed moves accepted since
	// the last Reset.
	Acceptance() float64
}
