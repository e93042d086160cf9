package hamiltonian

import (
	"fmt"

	"github.com/alexandercbooth/netket/internal/domain/graph"
	"github.com/alexandercbooth/netket/internal/domain/hilbert"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// GraphOperator sums an arbitrary local-site operator and/or an
// arbitrary bond operator over a graph's sites and edges. It is the
// general building block TransverseFieldIsing and Heisenberg specialize;
// callers needing a Hamiltonian with no canned constructor build one
// directly from dense operator matrices over the local alphabet.
//
// SiteOperator is a LocalSize x LocalSize matrix indexed by position in
// Hilbert.LocalStates(). BondOperator is a (LocalSize^2) x (LocalSize^2)
// matrix indexed by the pair index a*LocalSize+b for local-state indices
// (a, b).
type GraphOperator struct {
	h            hilbert.Hilbert
	edges        [][2]int
	siteOperator [][]complex128
	bondOperator [][]complex128
	stateIndex   map[float64]int
}

// NewGraphOperator validates operator shapes and builds the operator. A
// nil siteOperator or bondOperator disables that term entirely.
func NewGraphOperator(g graph.Graph, h hilbert.Hilbert, siteOperator, bondOperator [][]complex128) (*GraphOperator, error) {
	d := h.LocalSize()
	if siteOperator != nil {
		if err := checkSquare(siteOperator, d); err != nil {
			return nil, vmcerr.New(vmcerr.Config, "hamiltonian.NewGraphOperator", fmt.Errorf("siteOperator: %w", err))
		}
	}
	if bondOperator != nil {
		if err := checkSquare(bondOperator, d*d); err != nil {
			return nil, vmcerr.New(vmcerr.Config, "hamiltonian.NewGraphOperator", fmt.Errorf("bondOperator: %w", err))
		}
	}
	local := h.LocalStates()
	idx := make(map[float64]int, len(local))
	for i, x := range local {
		idx[x] = i
	}
	return &GraphOperator{
		h:            h,
		edges:        uniqueEdges(g),
		siteOperator: siteOperator,
		bondOperator: bondOperator,
		stateIndex:   idx,
	}, nil
}

func checkSquare(m [][]complex128, want int) error {
	if len(m) != want {
		return fmt.Errorf("expected %d rows, got %d", want, len(m))
	}
	for _, row := range m {
		if len(row) != want {
			return fmt.Errorf("expected %d columns, got %d", want, len(row))
		}
	}
	return nil
}

// GetHilbert implements hamiltonian.Operator.
func (op *GraphOperator) GetHilbert() hilbert.Hilbert { return op.h }

// FindConnections implements hamiltonian.Operator.
func (op *GraphOperator) FindConnections(v []float64) (Connections, error) {
	if err := validateAlphabet(op.h, v); err != nil {
		return Connections{}, err
	}
	local := op.h.LocalStates()
	d := len(local)

	diag := complex(0, 0)
	conns := Connections{
		Mels:      []complex128{0},
		Sites:     [][]int{nil},
		NewValues: [][]float64{nil},
	}

	if op.siteOperator != nil {
		for i := 0; i < op.h.Size(); i++ {
			a := op.stateIndex[v[i]]
			diag += op.siteOperator[a][a]
			for b := 0; b < d; b++ {
				if b == a {
					continue
				}
				if mel := op.siteOperator[b][a]; mel != 0 {
					conns.Mels = append(conns.Mels, mel)
					conns.Sites = append(conns.Sites, []int{i})
					conns.NewValues = append(conns.NewValues, []float64{local[b]})
				}
			}
		}
	}

	if op.bondOperator != nil {
		for _, e := range op.edges {
			i, j := e[0], e[1]
			ai, aj := op.stateIndex[v[i]], op.stateIndex[v[j]]
			aIdx := ai*d + aj
			diag += op.bondOperator[aIdx][aIdx]
			for bi := 0; bi < d; bi++ {
				for bj := 0; bj < d; bj++ {
					if bi == ai && bj == aj {
						continue
					}
					bIdx := bi*d + bj
					mel := op.bondOperator[bIdx][aIdx]
					if mel == 0 {
						continue
					}
					conns.Mels = append(conns.Mels, mel)
					conns.Sites = append(conns.Sites, []int{i, j})
					conns.NewValues = append(conns.NewValues, []float64{local[bi], local[bj]})
				}
			}
		}
	}

	conns.Mels[0] = diag
	return conns, nil
}
