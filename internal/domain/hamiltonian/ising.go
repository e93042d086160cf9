package hamiltonian

import (
	"fmt"

	"github.com/alexandercbooth/netket/internal/domain/graph"
	"github.com/alexandercbooth/netket/internal/domain/hilbert"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// TransverseFieldIsing implements H = -J * sum_<i,j> sigma^z_i sigma^z_j
// - h * sum_i sigma^x_i on a Spin-1/2 Hilbert space whose local states
// are {-1,+1} (i.e. 2*Sz). Passing J=0 and h=-1 reproduces the bare
// field Hamiltonian H = sum_i sigma^x_i used by the free-spins scenario.
type TransverseFieldIsing struct {
	h       hilbert.Hilbert
	edges   [][2]int
	coupJ   float64
	fieldH  float64
}

// NewTransverseFieldIsing builds the operator from a graph's adjacency
// list (each edge counted once) and a Spin-1/2 Hilbert space.
func NewTransverseFieldIsing(g graph.Graph, h hilbert.Hilbert, coupJ, fieldH float64) (*TransverseFieldIsing, error) {
	if h.LocalSize() != 2 {
		return nil, vmcerr.New(vmcerr.Domain, "hamiltonian.NewTransverseFieldIsing", fmt.Errorf("transverse-field Ising requires a spin-1/2 (local size 2) Hilbert space, got local size %d", h.LocalSize()))
	}
	edges := uniqueEdges(g)
	return &TransverseFieldIsing{h: h, edges: edges, coupJ: coupJ, fieldH: fieldH}, nil
}

func uniqueEdges(g graph.Graph) [][2]int {
	adj := g.AdjacencyList()
	var edges [][2]int
	for i, neighbors := range adj {
		for _, j := range neighbors {
			if i < j {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

// GetHilbert implements hamiltonian.Operator.
func (op *TransverseFieldIsing) GetHilbert() hilbert.Hilbert { return op.h }

// FindConnections implements hamiltonian.Operator.
func (op *TransverseFieldIsing) FindConnections(v []float64) (Connections, error) {
	if err := validateAlphabet(op.h, v); err != nil {
		return Connections{}, err
	}

	diag := complex(0, 0)
	for _, e := range op.edges {
		diag -= complex(op.coupJ*v[e[0]]*v[e[1]], 0)
	}

	conns := Connections{
		Mels:      []complex128{diag},
		Sites:     [][]int{nil},
		NewValues: [][]float64{nil},
	}

	for i := 0; i < op.h.Size(); i++ {
		conns.Mels = append(conns.Mels, complex(-op.fieldH, 0))
		conns.Sites = append(conns.Sites, []int{i})
		conns.NewValues = append(conns.NewValues, []float64{-v[i]})
	}
	return conns, nil
}

func validateAlphabet(h hilbert.Hilbert, v []float64) error {
	if len(v) != h.Size() {
		return vmcerr.Newf(vmcerr.Domain, "hamiltonian", "configuration length %d does not match Hilbert size %d", len(v), h.Size())
	}
	local := h.LocalStates()
	for _, x := range v {
		ok := false
		for _, l := range local {
			if l == x {
				ok = true
				break
			}
		}
		if !ok {
			return vmcerr.New(vmcerr.Domain, "hamiltonian", vmcerr.ErrNonHermitian)
		}
	}
	return nil
}
