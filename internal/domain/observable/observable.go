// Package observable tracks the arbitrary list of named operators whose
// expectation value the learning driver logs alongside the energy at
// every iteration, the same sparse-connection contract a Hamiltonian
// satisfies but evaluated read-only, never optimized against.
package observable

import "github.com/alexandercbooth/netket/internal/domain/hamiltonian"

// Observable pairs a log-record name with the operator whose real
// expectation value is estimated over the current sample batch.
type Observable struct {
	Name string
	Op   hamiltonian.Operator
}

// Manager holds the list of Observables a Learning run reports on,
// mirroring sr.hh's ObsManager: a flat, ordered list added once at
// setup and iterated once per optimization step.
type Manager struct {
	observables []Observable
}

// NewManager builds a Manager tracking the given Observables, in order.
func NewManager(obs ...Observable) *Manager {
	m := &Manager{observables: make([]Observable, len(obs))}
	copy(m.observables, obs)
	return m
}

// Add appends an Observable to the tracked list.
func (m *Manager) Add(obs Observable) {
	m.observables = append(m.observables, obs)
}

// All returns the tracked Observables, in the order they were added. A
// nil Manager tracks nothing, matching the zero-value Driver that never
// calls NewManager.
func (m *Manager) All() []Observable {
	if m == nil {
		return nil
	}
	return m.observables
}
