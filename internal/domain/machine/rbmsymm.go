package machine

import (
	"fmt"

	"github.com/alexandercbooth/netket/internal/domain/graph"
	"github.com/alexandercbooth/netket/internal/domain/hilbert"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// RbmSpinSymm is an RbmSpin whose parameters are constrained to respect
// a graph's permutation symmetry group: a single visible bias asymm
// shared by every site, alpha hidden biases bsymm shared across the
// permsize hidden units in each symmetry orbit, and an nv x alpha
// weight table wsymm shared across orbits. The forward pass (LogVal,
// lookups, LogValDiff) runs on the expanded bare parameters; DerLog
// folds the bare derivative back down onto the symmetric parameters.
type RbmSpinSymm struct {
	bare *RbmSpin

	permtable [][]int
	permsize  int
	nv, alpha int

	usea bool
	useb bool

	npar     int
	nbarepar int
	// symMap[kbare] is the symmetric parameter index that bare derivative
	// kbare folds into. kbare enumerates bare parameters in a, b, W
	// row-major order, matching RbmSpin.DerLog's output order.
	symMap []int

	asymm complex128
	bsymm []complex128
	// wsymm is stored row-major: wsymm[i][j], i in [0,nv), j in [0,alpha).
	wsymm [][]complex128
}

// NewRbmSpinSymm builds a permutation-symmetric RBM over g's symmetry
// group. g must have an applicable symmetry table (e.g. a
// periodic-boundary lattice); graphs without one return an error.
func NewRbmSpinSymm(h hilbert.Hilbert, g graph.Graph, alpha int, usea, useb bool) (*RbmSpinSymm, error) {
	if alpha < 1 {
		return nil, vmcerr.New(vmcerr.Config, "machine.NewRbmSpinSymm", fmt.Errorf("alpha must be >= 1, got %d", alpha))
	}
	permtable, err := g.SymmetryTable()
	if err != nil {
		return nil, vmcerr.New(vmcerr.Domain, "machine.NewRbmSpinSymm", err)
	}
	permsize := len(permtable)
	nv := h.Size()
	for _, row := range permtable {
		if len(row) != nv {
			return nil, vmcerr.New(vmcerr.Domain, "machine.NewRbmSpinSymm", fmt.Errorf("symmetry table row has %d entries, want %d", len(row), nv))
		}
	}

	// Build the bare RBM directly with nh = alpha*permsize hidden units;
	// NewRbmSpin's alpha parameter is expressed per-visible-unit, so
	// construct bare by hand instead of reusing that constructor.
	nh := alpha * permsize
	bareRbm := &RbmSpin{
		h: h, nv: nv, nh: nh, usea: usea, useb: useb,
		w: make([][]complex128, nv),
		a: make([]complex128, nv),
		b: make([]complex128, nh),
	}
	for i := range bareRbm.w {
		bareRbm.w[i] = make([]complex128, nh)
	}

	symMap, npar, nbarepar := buildSymmetryMap(nv, alpha, permsize, permtable, usea, useb)

	m := &RbmSpinSymm{
		bare:      bareRbm,
		permtable: permtable,
		permsize:  permsize,
		nv:        nv,
		alpha:     alpha,
		usea:      usea,
		useb:      useb,
		npar:      npar,
		nbarepar:  nbarepar,
		symMap:    symMap,
		bsymm:     make([]complex128, alpha),
		wsymm:     make([][]complex128, nv),
	}
	for i := range m.wsymm {
		m.wsymm[i] = make([]complex128, alpha)
	}
	return m, nil
}

// buildSymmetryMap reproduces, index for index, the bare-to-symmetric
// derivative map: a is one shared scalar; the hidden bias folds every
// hidden unit in an orbit (same position across all permsize group
// elements) into one of alpha entries; the weight matrix folds every
// (site, orbit-position) pair sharing a (symmetry-image site, orbit)
// into one of nv*alpha entries.
func buildSymmetryMap(nv, alpha, permsize int, permtable [][]int, usea, useb bool) (symMap []int, npar, nbarepar int) {
	nh := alpha * permsize
	npar = nv * alpha
	nbarepar = nv * nh
	if usea {
		npar++
		nbarepar += nv
	}
	if useb {
		npar += alpha
		nbarepar += nh
	}

	symMap = make([]int, nbarepar)
	k := 0
	kbare := 0

	if usea {
		for p := 0; p < nv; p++ {
			symMap[kbare] = k
			kbare++
		}
		k++
	}

	if useb {
		for p := 0; p < nh; p++ {
			jsymm := p / permsize
			symMap[kbare] = k + jsymm
			kbare++
		}
		k += alpha
	}

	for i := 0; i < nv; i++ {
		for j := 0; j < nh; j++ {
			isymm := permtable[i][j%permsize]
			jsymm := j / permsize
			ksymm := jsymm + alpha*isymm
			symMap[kbare] = k + ksymm
			kbare++
		}
	}
	return symMap, npar, nbarepar
}

// setBareParameters expands asymm/bsymm/wsymm into the bare a/b/W
// tensors the forward pass runs on.
func (m *RbmSpinSymm) setBareParameters() {
	for i := 0; i < m.nv; i++ {
		if m.usea {
			m.bare.a[i] = m.asymm
		} else {
			m.bare.a[i] = 0
		}
	}
	for j := 0; j < m.bare.nh; j++ {
		jsymm := j / m.permsize
		if m.useb {
			m.bare.b[j] = m.bsymm[jsymm]
		} else {
			m.bare.b[j] = 0
		}
	}
	for i := 0; i < m.nv; i++ {
		for j := 0; j < m.bare.nh; j++ {
			jsymm := j / m.permsize
			isymm := m.permtable[i][j%m.permsize]
			m.bare.w[i][j] = m.wsymm[isymm][jsymm]
		}
	}
}

// GetHilbert implements Machine.
func (m *RbmSpinSymm) GetHilbert() hilbert.Hilbert { return m.bare.GetHilbert() }

// Npar implements Machine.
func (m *RbmSpinSymm) Npar() int { return m.npar }

// GetParameters implements Machine. Order: asymm, then bsymm, then
// wsymm row-major on (site, orbit).
func (m *RbmSpinSymm) GetParameters() []complex128 {
	pars := make([]complex128, 0, m.npar)
	if m.usea {
		pars = append(pars, m.asymm)
	}
	if m.useb {
		pars = append(pars, m.bsymm...)
	}
	for i := 0; i < m.nv; i++ {
		pars = append(pars, m.wsymm[i]...)
	}
	return pars
}

// SetParameters implements Machine.
func (m *RbmSpinSymm) SetParameters(pars []complex128) {
	if len(pars) != m.npar {
		panic(fmt.Sprintf("machine.RbmSpinSymm.SetParameters: got %d parameters, want %d", len(pars), m.npar))
	}
	k := 0
	if m.usea {
		m.asymm = pars[k]
		k++
	} else {
		m.asymm = 0
	}
	if m.useb {
		copy(m.bsymm, pars[k:k+m.alpha])
		k += m.alpha
	} else {
		for j := range m.bsymm {
			m.bsymm[j] = 0
		}
	}
	for i := 0; i < m.nv; i++ {
		copy(m.wsymm[i], pars[k:k+m.alpha])
		k += m.alpha
	}
	m.setBareParameters()
}

// LogVal implements Machine.
func (m *RbmSpinSymm) LogVal(v []float64) complex128 { return m.bare.LogVal(v) }

// LogValWithLookup implements Machine.
func (m *RbmSpinSymm) LogValWithLookup(v []float64, lt *Lookup) complex128 {
	return m.bare.LogValWithLookup(v, lt)
}

// InitLookup implements Machine.
func (m *RbmSpinSymm) InitLookup(v []float64) *Lookup { return m.bare.InitLookup(v) }

// UpdateLookup implements Machine.
func (m *RbmSpinSymm) UpdateLookup(v []float64, sites []int, newValues []float64, lt *Lookup) {
	m.bare.UpdateLookup(v, sites, newValues, lt)
}

// LogValDiff implements Machine.
func (m *RbmSpinSymm) LogValDiff(v []float64, sites [][]int, newValues [][]float64) []complex128 {
	return m.bare.LogValDiff(v, sites, newValues)
}

// LogValDiffWithLookup implements Machine.
func (m *RbmSpinSymm) LogValDiffWithLookup(v []float64, sites []int, newValues []float64, lt *Lookup) complex128 {
	return m.bare.LogValDiffWithLookup(v, sites, newValues, lt)
}

// DerLog implements Machine: the bare derivative, folded down through
// symMap onto the symmetric parameters.
func (m *RbmSpinSymm) DerLog(v []float64) []complex128 {
	bareDer := m.bare.DerLog(v)
	der := make([]complex128, m.npar)
	for kbare, val := range bareDer {
		der[m.symMap[kbare]] += val
	}
	return der
}
