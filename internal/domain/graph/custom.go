package graph

import "fmt"

// Custom is a Graph defined directly by an adjacency list, for lattices
// with no closed-form generator (used by the "CustomGraph" Name in the
// configuration document).
type Custom struct {
	adjacency  [][]int
	symmetry   [][]int
	bipartite  bool
}

// NewCustom validates and wraps an explicit adjacency list. The
// adjacency relation must be symmetric.
func NewCustom(adjacency [][]int, symmetry [][]int, bipartite bool) (*Custom, error) {
	n := len(adjacency)
	present := make(map[[2]int]bool, n*2)
	for i, neighbors := range adjacency {
		for _, j := range neighbors {
			present[[2]int{i, j}] = true
		}
	}
	for i, neighbors := range adjacency {
		for _, j := range neighbors {
			if !present[[2]int{j, i}] {
				return nil, fmt.Errorf("graph: adjacency is not symmetric: edge %d->%d has no reverse edge", i, j)
			}
		}
	}
	for _, row := range symmetry {
		if len(row) != n {
			return nil, fmt.Errorf("graph: symmetry table row has length %d, want %d", len(row), n)
		}
		if !isBijection(row, n) {
			return nil, fmt.Errorf("graph: symmetry table row is not a bijection over 0..%d", n-1)
		}
	}
	return &Custom{adjacency: adjacency, symmetry: symmetry, bipartite: bipartite}, nil
}

func isBijection(row []int, n int) bool {
	seen := make([]bool, n)
	for _, v := range row {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// NSites implements Graph.
func (c *Custom) NSites() int { return len(c.adjacency) }

// AdjacencyList implements Graph.
func (c *Custom) AdjacencyList() [][]int {
	out := make([][]int, len(c.adjacency))
	for i, n := range c.adjacency {
		out[i] = append([]int(nil), n...)
	}
	return out
}

// SymmetryTable implements Graph.
func (c *Custom) SymmetryTable() ([][]int, error) {
	if len(c.symmetry) == 0 {
		return nil, fmt.Errorf("graph: no symmetry table was supplied for this custom graph")
	}
	out := make([][]int, len(c.symmetry))
	for i, row := range c.symmetry {
		out[i] = append([]int(nil), row...)
	}
	return out, nil
}

// IsBipartite implements Graph.
func (c *Custom) IsBipartite() bool { return c.bipartite }
