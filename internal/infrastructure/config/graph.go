package config

import (
	"encoding/json"

	"github.com/alexandercbooth/netket/internal/domain/graph"
)

// BuildGraph dispatches on the Graph section's Name field: "Hypercube"
// (the only closed-form generator this repo implements) or
// "CustomGraph" (an explicit adjacency list).
func BuildGraph(section json.RawMessage) (graph.Graph, error) {
	name, err := sectionName(section, "Graph")
	if err != nil {
		return nil, err
	}
	switch name {
	case "Hypercube":
		return buildHypercube(section)
	case "CustomGraph":
		return buildCustomGraph(section)
	default:
		return nil, unknownName("Graph", name)
	}
}

func buildHypercube(section json.RawMessage) (graph.Graph, error) {
	var length, ndim int
	if err := requiredField(section, "L", &length); err != nil {
		return nil, err
	}
	if err := requiredField(section, "Dimension", &ndim); err != nil {
		return nil, err
	}
	pbc := true
	if err := defaultedField(section, "Pbc", &pbc); err != nil {
		return nil, err
	}
	return graph.NewHypercube(length, ndim, pbc)
}

func buildCustomGraph(section json.RawMessage) (graph.Graph, error) {
	var adjacency [][]int
	if err := requiredField(section, "Adjacency", &adjacency); err != nil {
		return nil, err
	}
	var symmetry [][]int
	if err := defaultedField(section, "Symmetry", &symmetry); err != nil {
		return nil, err
	}
	bipartite := false
	if err := defaultedField(section, "IsBipartite", &bipartite); err != nil {
		return nil, err
	}
	return graph.NewCustom(adjacency, symmetry, bipartite)
}
