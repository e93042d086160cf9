// Package hamiltonian provides the sparse-connection contract consumed
// by the local-energy estimator: given a configuration v, produce the
// finite list of connected configurations v' and the matrix elements
// <v'|H|v>. Observables share the exact same contract.
package hamiltonian

import "github.com/alexandercbooth/netket/internal/domain/hilbert"

// Connections is the sparse row of an operator at a fixed configuration:
// parallel slices where entry k is the triple (Mels[k], Sites[k],
// NewValues[k]). By convention entry 0 is the diagonal: Sites[0] is
// empty and Mels[0] = <v|H|v>.
type Connections struct {
	Mels      []complex128
	Sites     [][]int
	NewValues [][]float64
}

// Len returns the number of connections.
func (c Connections) Len() int { return len(c.Mels) }

// Operator is the contract every Hamiltonian or Observable satisfies.
type Operator interface {
	// GetHilbert returns the Hilbert space this operator acts on.
	GetHilbert() hilbert.Hilbert
	// FindConnections returns the sparse row of the operator at v. It
	// returns a DomainError-classified error (ErrNonHermitian) if v is
	// not a configuration drawn from the canonical alphabet.
	FindConnections(v []float64) (Connections, error)
}
