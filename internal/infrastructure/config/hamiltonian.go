package config

import (
	"encoding/json"

	"github.com/alexandercbooth/netket/internal/domain/graph"
	"github.com/alexandercbooth/netket/internal/domain/hamiltonian"
	"github.com/alexandercbooth/netket/internal/domain/hilbert"
)

// BuildHamiltonian dispatches on the Hamiltonian section's Name field.
func BuildHamiltonian(section json.RawMessage, g graph.Graph, h hilbert.Hilbert) (hamiltonian.Operator, error) {
	name, err := sectionName(section, "Hamiltonian")
	if err != nil {
		return nil, err
	}
	switch name {
	case "Ising":
		return buildIsing(section, g, h)
	case "Heisenberg":
		return buildHeisenberg(section, g, h)
	case "Graph":
		return buildGraphOperator(section, g, h)
	default:
		return nil, unknownName("Hamiltonian", name)
	}
}

func buildIsing(section json.RawMessage, g graph.Graph, h hilbert.Hilbert) (hamiltonian.Operator, error) {
	var coupJ, fieldH float64
	if err := requiredField(section, "J", &coupJ); err != nil {
		return nil, err
	}
	if err := requiredField(section, "h", &fieldH); err != nil {
		return nil, err
	}
	return hamiltonian.NewTransverseFieldIsing(g, h, coupJ, fieldH)
}

func buildHeisenberg(section json.RawMessage, g graph.Graph, h hilbert.Hilbert) (hamiltonian.Operator, error) {
	coupJ := 1.0
	if err := defaultedField(section, "J", &coupJ); err != nil {
		return nil, err
	}
	return hamiltonian.NewHeisenberg(g, h, coupJ)
}

func buildGraphOperator(section json.RawMessage, g graph.Graph, h hilbert.Hilbert) (hamiltonian.Operator, error) {
	var siteFlat, bondFlat [][]complex128ish
	if err := requiredField(section, "SiteOps", &siteFlat); err != nil {
		return nil, err
	}
	if err := requiredField(section, "BondOps", &bondFlat); err != nil {
		return nil, err
	}
	return hamiltonian.NewGraphOperator(g, h, toComplexMatrix(siteFlat), toComplexMatrix(bondFlat))
}

// complex128ish is the [real, imaginary] wire encoding for one matrix
// entry, matching the checkpoint file's complexJSON convention.
type complex128ish [2]float64

func toComplexMatrix(rows [][]complex128ish) [][]complex128 {
	out := make([][]complex128, len(rows))
	for i, row := range rows {
		out[i] = make([]complex128, len(row))
		for j, c := range row {
			out[i][j] = complex(c[0], c[1])
		}
	}
	return out
}
