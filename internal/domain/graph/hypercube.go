package graph

import (
	"errors"
	"fmt"
)

// Hypercube is an L^Ndim hypercubic lattice, optionally with periodic
// boundary conditions, matching original_source/Graph/hypercube.hh.
type Hypercube struct {
	length int
	ndim   int
	pbc    bool

	sites      [][]int
	coord2site map[string]int
	adjacency  [][]int
}

// NewHypercube builds an Ndim-dimensional hypercube of edge length L.
// L must be positive and ndim at least 1.
func NewHypercube(length, ndim int, pbc bool) (*Hypercube, error) {
	if length <= 0 {
		return nil, fmt.Errorf("hypercube: L must be positive, got %d", length)
	}
	if ndim < 1 {
		return nil, fmt.Errorf("hypercube: Dimension must be >= 1, got %d", ndim)
	}
	h := &Hypercube{length: length, ndim: ndim, pbc: pbc}
	h.generateLatticePoints()
	h.generateAdjacencyList()
	return h, nil
}

func coordKey(coord []int) string {
	// Comma-terminated decimal encoding keeps the key collision-free for
	// any coordinate magnitude produced by this lattice (0..length-1).
	key := make([]byte, 0, len(coord)*6)
	for _, c := range coord {
		key = append(key, []byte(fmt.Sprintf("%d,", c))...)
	}
	return string(key)
}

func (h *Hypercube) generateLatticePoints() {
	h.coord2site = make(map[string]int)
	coord := make([]int, h.ndim)
	for {
		cp := append([]int(nil), coord...)
		h.coord2site[coordKey(cp)] = len(h.sites)
		h.sites = append(h.sites, cp)

		// odometer-style increment with base h.length
		d := h.ndim - 1
		for d >= 0 {
			coord[d]++
			if coord[d] < h.length {
				break
			}
			coord[d] = 0
			d--
		}
		if d < 0 {
			break
		}
	}
}

func (h *Hypercube) generateAdjacencyList() {
	n := len(h.sites)
	h.adjacency = make([][]int, n)
	for i, site := range h.sites {
		neigh := append([]int(nil), site...)
		for d := 0; d < h.ndim; d++ {
			if h.pbc {
				orig := neigh[d]
				neigh[d] = (site[d] + 1) % h.length
				j := h.coord2site[coordKey(neigh)]
				h.adjacency[i] = append(h.adjacency[i], j)
				h.adjacency[j] = append(h.adjacency[j], i)
				neigh[d] = orig
			} else if site[d]+1 < h.length {
				neigh[d] = site[d] + 1
				j := h.coord2site[coordKey(neigh)]
				h.adjacency[i] = append(h.adjacency[i], j)
				h.adjacency[j] = append(h.adjacency[j], i)
				neigh[d] = site[d]
			}
		}
	}
}

// NSites implements Graph.
func (h *Hypercube) NSites() int { return len(h.sites) }

// AdjacencyList implements Graph.
func (h *Hypercube) AdjacencyList() [][]int {
	out := make([][]int, len(h.adjacency))
	for i, n := range h.adjacency {
		out[i] = append([]int(nil), n...)
	}
	return out
}

// Length returns the edge length L.
func (h *Hypercube) Length() int { return h.length }

// Ndim returns the number of dimensions.
func (h *Hypercube) Ndim() int { return h.ndim }

// Pbc reports whether periodic boundary conditions are in effect.
func (h *Hypercube) Pbc() bool { return h.pbc }

// SiteCoord returns the integer coordinate vector of site i.
func (h *Hypercube) SiteCoord(i int) []int {
	return append([]int(nil), h.sites[i]...)
}

// SymmetryTable returns the translation-symmetry permutation table: for
// every site i (used as a translation vector), row i maps every site p
// to the site reached by translating p by the coordinate of i, modulo
// L in each dimension. Requires PBC, matching hypercube.hh.
func (h *Hypercube) SymmetryTable() ([][]int, error) {
	if !h.pbc {
		return nil, errors.New("hypercube: cannot generate translation symmetries without periodic boundary conditions")
	}
	n := len(h.sites)
	table := make([][]int, n)
	ts := make([]int, h.ndim)
	for i := 0; i < n; i++ {
		row := make([]int, n)
		for p := 0; p < n; p++ {
			for d := 0; d < h.ndim; d++ {
				ts[d] = (h.sites[i][d] + h.sites[p][d]) % h.length
			}
			row[p] = h.coord2site[coordKey(ts)]
		}
		table[i] = row
	}
	return table, nil
}

// IsBipartite implements Graph. Open-boundary hypercubes are
// two-colorable by coordinate-sum parity; with periodic boundaries the
// wrap-around bonds keep that coloring only when L is even.
func (h *Hypercube) IsBipartite() bool { return !h.pbc || h.length%2 == 0 }
