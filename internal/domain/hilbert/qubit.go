package hilbert

// NewQubit builds a Qubit Hilbert space: nsites spin-½ degrees of
// freedom with local alphabet {-1, +1}, the discrete computational
// basis used by qubit-flavored Hamiltonians. It is Spin with S=1/2 under
// a different configuration name, matching the Hilbert.Name "Qubit"
// variant in the configuration document.
func NewQubit(nsites int) (*Spin, error) {
	return NewSpin(nsites, 0.5)
}
