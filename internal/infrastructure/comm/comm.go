// Package comm implements the SPMD collective-communication layer the
// learning driver uses to aggregate per-worker sample statistics:
// rank/size queries, sum all-reduce, broadcast of the replicated
// parameter vector, and a barrier separating iterations. There is no
// MPI binding in this module; Local runs the worker group in-process
// over goroutines meeting at a mutex and condition-variable rendezvous,
// which is sufficient for the SPMD model
// the spec describes (no shared mutable memory, only collective
// rendezvous points).
package comm

// Communicator is the contract every collective-communication backend
// satisfies. All workers must reach a given collective call in the same
// order; implementations return ErrCollectiveMismatch (wrapped) when
// that invariant is violated.
type Communicator interface {
	// Rank returns this worker's rank in [0, Size()).
	Rank() int
	// Size returns the number of workers in the group.
	Size() int
	// AllReduceSumComplex sums local elementwise across every worker and
	// returns the identical result to all of them.
	AllReduceSumComplex(local []complex128) ([]complex128, error)
	// AllReduceSumFloat64 is the real-valued counterpart, used for scalar
	// energy means and variances.
	AllReduceSumFloat64(local []float64) ([]float64, error)
	// Broadcast distributes root's value of v to every worker, returning
	// the broadcast value. Every caller must pass a v of the same
	// length; a mismatch is a Protocol error.
	Broadcast(v []complex128, root int) ([]complex128, error)
	// Barrier blocks until every worker has called Barrier for this
	// iteration.
	Barrier() error
}
