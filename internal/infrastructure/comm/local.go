package comm

import (
	"sync"

	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

const (
	kindAllReduceComplex = "allreduce_complex"
	kindAllReduceFloat   = "allreduce_float"
	kindBroadcast        = "broadcast"
	kindBarrier          = "barrier"
)

// slot is one worker's contribution to the collective currently in
// flight.
type slot struct {
	kind        string
	complexData []complex128
	floatData   []float64
	root        int
}

// localGroup is the shared rendezvous point for a fixed-size SPMD
// worker group running as goroutines within a single process. Every
// collective is a generation-counted barrier: the last worker to arrive
// validates that every slot agrees on the collective kind (and length,
// for reductions and broadcasts) before releasing the others.
type localGroup struct {
	size  int
	mu    sync.Mutex
	cond  *sync.Cond
	count int
	gen   int
	slots []slot
	err   error
}

func newLocalGroup(size int) *localGroup {
	g := &localGroup{size: size, slots: make([]slot, size)}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// NewLocalGroup builds size Communicators sharing one in-process worker
// group, indexed by rank [0, size). Callers run each one on its own
// goroutine; every collective call blocks until every rank has called
// the matching method.
func NewLocalGroup(size int) []Communicator {
	g := newLocalGroup(size)
	out := make([]Communicator, size)
	for r := 0; r < size; r++ {
		out[r] = &Local{group: g, rank: r}
	}
	return out
}

// Local is one worker's handle onto a shared localGroup.
type Local struct {
	group *localGroup
	rank  int
}

// Rank implements Communicator.
func (l *Local) Rank() int { return l.rank }

// Size implements Communicator.
func (l *Local) Size() int { return l.group.size }

func (g *localGroup) rendezvous(rank int, s slot) ([]slot, error) {
	g.mu.Lock()
	g.slots[rank] = s
	// round keeps this collective's slots; the completing worker gives
	// the next collective a fresh slice, so a worker that reacquires the
	// lock late never sees the next round's contributions.
	round := g.slots
	gen := g.gen
	g.count++
	if g.count == g.size {
		g.err = g.checkConsistency()
		g.count = 0
		g.gen++
		g.slots = make([]slot, g.size)
		g.cond.Broadcast()
	} else {
		for g.gen == gen {
			g.cond.Wait()
		}
	}
	out := make([]slot, g.size)
	copy(out, round)
	err := g.err
	g.mu.Unlock()
	return out, err
}

func (g *localGroup) checkConsistency() error {
	kind := g.slots[0].kind
	for _, s := range g.slots[1:] {
		if s.kind != kind {
			return vmcerr.New(vmcerr.Protocol, "comm.Local", vmcerr.ErrCollectiveMismatch)
		}
	}
	switch kind {
	case kindAllReduceComplex, kindBroadcast:
		n := len(g.slots[0].complexData)
		for _, s := range g.slots[1:] {
			if len(s.complexData) != n {
				return vmcerr.New(vmcerr.Protocol, "comm.Local", vmcerr.ErrParameterSizeMismatch)
			}
		}
	case kindAllReduceFloat:
		n := len(g.slots[0].floatData)
		for _, s := range g.slots[1:] {
			if len(s.floatData) != n {
				return vmcerr.New(vmcerr.Protocol, "comm.Local", vmcerr.ErrParameterSizeMismatch)
			}
		}
	}
	return nil
}

// AllReduceSumComplex implements Communicator.
func (l *Local) AllReduceSumComplex(local []complex128) ([]complex128, error) {
	slots, err := l.group.rendezvous(l.rank, slot{kind: kindAllReduceComplex, complexData: local})
	if err != nil {
		return nil, err
	}
	sum := make([]complex128, len(local))
	for _, s := range slots {
		for i, x := range s.complexData {
			sum[i] += x
		}
	}
	return sum, nil
}

// AllReduceSumFloat64 implements Communicator.
func (l *Local) AllReduceSumFloat64(local []float64) ([]float64, error) {
	slots, err := l.group.rendezvous(l.rank, slot{kind: kindAllReduceFloat, floatData: local})
	if err != nil {
		return nil, err
	}
	sum := make([]float64, len(local))
	for _, s := range slots {
		for i, x := range s.floatData {
			sum[i] += x
		}
	}
	return sum, nil
}

// Broadcast implements Communicator.
func (l *Local) Broadcast(v []complex128, root int) ([]complex128, error) {
	slots, err := l.group.rendezvous(l.rank, slot{kind: kindBroadcast, complexData: v, root: root})
	if err != nil {
		return nil, err
	}
	out := make([]complex128, len(slots[root].complexData))
	copy(out, slots[root].complexData)
	return out, nil
}

// Barrier implements Communicator.
func (l *Local) Barrier() error {
	_, err := l.group.rendezvous(l.rank, slot{kind: kindBarrier})
	return err
}
