package hamiltonian

import (
	"fmt"

	"github.com/alexandercbooth/netket/internal/domain/graph"
	"github.com/alexandercbooth/netket/internal/domain/hilbert"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// Heisenberg implements H = J * sum_<i,j> S_i . S_j on a Spin-1/2
// Hilbert space, expanded as
//
//	J * sum_<i,j> [ Sz_i Sz_j + 1/2 (S+_i S-_j + S-_i S+_j) ]
//
// Local values are doubled spins in {-1,+1}, so Sz_i Sz_j = v_i*v_j/4
// and each flip-flop term contributes J/2 whenever the two sites are
// anti-aligned.
type Heisenberg struct {
	h     hilbert.Hilbert
	edges [][2]int
	coupJ float64
}

// NewHeisenberg builds the operator from a graph's adjacency list and a
// Spin-1/2 Hilbert space.
func NewHeisenberg(g graph.Graph, h hilbert.Hilbert, coupJ float64) (*Heisenberg, error) {
	if h.LocalSize() != 2 {
		return nil, vmcerr.New(vmcerr.Domain, "hamiltonian.NewHeisenberg", fmt.Errorf("Heisenberg requires a spin-1/2 (local size 2) Hilbert space, got local size %d", h.LocalSize()))
	}
	return &Heisenberg{h: h, edges: uniqueEdges(g), coupJ: coupJ}, nil
}

// GetHilbert implements hamiltonian.Operator.
func (op *Heisenberg) GetHilbert() hilbert.Hilbert { return op.h }

// FindConnections implements hamiltonian.Operator.
func (op *Heisenberg) FindConnections(v []float64) (Connections, error) {
	if err := validateAlphabet(op.h, v); err != nil {
		return Connections{}, err
	}

	diag := 0.0
	conns := Connections{
		Mels:      []complex128{0},
		Sites:     [][]int{nil},
		NewValues: [][]float64{nil},
	}

	for _, e := range op.edges {
		i, j := e[0], e[1]
		diag += op.coupJ * v[i] * v[j] / 4
		if v[i] != v[j] {
			conns.Mels = append(conns.Mels, complex(op.coupJ/2, 0))
			conns.Sites = append(conns.Sites, []int{i, j})
			conns.NewValues = append(conns.NewValues, []float64{v[j], v[i]})
		}
	}
	conns.Mels[0] = complex(diag, 0)
	return conns, nil
}
