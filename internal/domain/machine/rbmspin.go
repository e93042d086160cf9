package machine

import (
	"fmt"

	"github.com/alexandercbooth/netket/internal/domain/hilbert"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// RbmSpin is the plain Restricted Boltzmann Machine ansatz:
//
//	Psi(v) = exp(a.v) * prod_j cosh(sum_i W[i][j]*v[i] + b[j])
//
// with nv visible units (one per Hilbert site) and nh = alpha*nv hidden
// units. Either bias vector can be disabled (usea_/useb_ in the
// original), in which case it contributes nothing to LogVal or DerLog.
type RbmSpin struct {
	h hilbert.Hilbert

	nv, nh int
	usea   bool
	useb   bool

	// w is stored row-major: w[i][j] is the weight between visible site i
	// and hidden unit j.
	w [][]complex128
	a []complex128
	b []complex128
}

// NewRbmSpin builds an RbmSpin ansatz with alpha*nv hidden units (alpha
// is the hidden-to-visible unit ratio) and zero-valued parameters.
func NewRbmSpin(h hilbert.Hilbert, alpha int, usea, useb bool) (*RbmSpin, error) {
	if alpha < 1 {
		return nil, vmcerr.New(vmcerr.Config, "machine.NewRbmSpin", fmt.Errorf("alpha must be >= 1, got %d", alpha))
	}
	nv := h.Size()
	nh := alpha * nv
	w := make([][]complex128, nv)
	for i := range w {
		w[i] = make([]complex128, nh)
	}
	return &RbmSpin{
		h: h, nv: nv, nh: nh, usea: usea, useb: useb,
		w: w,
		a: make([]complex128, nv),
		b: make([]complex128, nh),
	}, nil
}

// GetHilbert implements Machine.
func (m *RbmSpin) GetHilbert() hilbert.Hilbert { return m.h }

// Npar implements Machine.
func (m *RbmSpin) Npar() int {
	n := m.nv * m.nh
	if m.usea {
		n += m.nv
	}
	if m.useb {
		n += m.nh
	}
	return n
}

// GetParameters implements Machine. Parameter order matches
// DerLog's derivative order: a, then b, then W row-major.
func (m *RbmSpin) GetParameters() []complex128 {
	pars := make([]complex128, 0, m.Npar())
	if m.usea {
		pars = append(pars, m.a...)
	}
	if m.useb {
		pars = append(pars, m.b...)
	}
	for i := 0; i < m.nv; i++ {
		pars = append(pars, m.w[i]...)
	}
	return pars
}

// SetParameters implements Machine.
func (m *RbmSpin) SetParameters(pars []complex128) {
	if len(pars) != m.Npar() {
		panic(fmt.Sprintf("machine.RbmSpin.SetParameters: got %d parameters, want %d", len(pars), m.Npar()))
	}
	k := 0
	if m.usea {
		copy(m.a, pars[k:k+m.nv])
		k += m.nv
	} else {
		for i := range m.a {
			m.a[i] = 0
		}
	}
	if m.useb {
		copy(m.b, pars[k:k+m.nh])
		k += m.nh
	} else {
		for j := range m.b {
			m.b[j] = 0
		}
	}
	for i := 0; i < m.nv; i++ {
		copy(m.w[i], pars[k:k+m.nh])
		k += m.nh
	}
}

// theta computes W^T v + b.
func (m *RbmSpin) theta(v []float64) []complex128 {
	out := make([]complex128, m.nh)
	copy(out, m.b)
	for i := 0; i < m.nv; i++ {
		vi := complex(v[i], 0)
		if vi == 0 {
			continue
		}
		row := m.w[i]
		for j := 0; j < m.nh; j++ {
			out[j] += row[j] * vi
		}
	}
	return out
}

func (m *RbmSpin) avDot(v []float64) complex128 {
	var s complex128
	for i, vi := range v {
		s += m.a[i] * complex(vi, 0)
	}
	return s
}

// LogVal implements Machine.
func (m *RbmSpin) LogVal(v []float64) complex128 {
	th := m.theta(v)
	return m.avDot(v) + sumComplex(lncoshVec(th))
}

// InitLookup implements Machine.
func (m *RbmSpin) InitLookup(v []float64) *Lookup {
	return &Lookup{Theta: m.theta(v)}
}

// LogValWithLookup implements Machine.
func (m *RbmSpin) LogValWithLookup(v []float64, lt *Lookup) complex128 {
	return m.avDot(v) + sumComplex(lncoshVec(lt.Theta))
}

// UpdateLookup implements Machine.
func (m *RbmSpin) UpdateLookup(v []float64, sites []int, newValues []float64, lt *Lookup) {
	for s, site := range sites {
		delta := complex(newValues[s]-v[site], 0)
		row := m.w[site]
		for j := 0; j < m.nh; j++ {
			lt.Theta[j] += row[j] * delta
		}
	}
}

func (m *RbmSpin) thetaAfterFlip(theta []complex128, v []float64, sites []int, newValues []float64) ([]complex128, complex128) {
	thetaNew := make([]complex128, len(theta))
	copy(thetaNew, theta)
	var biasShift complex128
	for s, site := range sites {
		delta := newValues[s] - v[site]
		biasShift += m.a[site] * complex(delta, 0)
		row := m.w[site]
		for j := 0; j < m.nh; j++ {
			thetaNew[j] += row[j] * complex(delta, 0)
		}
	}
	return thetaNew, biasShift
}

// LogValDiff implements Machine.
func (m *RbmSpin) LogValDiff(v []float64, sites [][]int, newValues [][]float64) []complex128 {
	theta := m.theta(v)
	logSum := sumComplex(lncoshVec(theta))
	out := make([]complex128, len(sites))
	for k := range sites {
		if len(sites[k]) == 0 {
			continue
		}
		thetaNew, biasShift := m.thetaAfterFlip(theta, v, sites[k], newValues[k])
		out[k] = biasShift + sumComplex(lncoshVec(thetaNew)) - logSum
	}
	return out
}

// LogValDiffWithLookup implements Machine.
func (m *RbmSpin) LogValDiffWithLookup(v []float64, sites []int, newValues []float64, lt *Lookup) complex128 {
	if len(sites) == 0 {
		return 0
	}
	logSum := sumComplex(lncoshVec(lt.Theta))
	thetaNew, biasShift := m.thetaAfterFlip(lt.Theta, v, sites, newValues)
	return biasShift + sumComplex(lncoshVec(thetaNew)) - logSum
}

// DerLog implements Machine. Order matches GetParameters: a, then b,
// then W row-major.
func (m *RbmSpin) DerLog(v []float64) []complex128 {
	th := m.theta(v)
	tanhTh := tanhVec(th)

	der := make([]complex128, 0, m.Npar())
	if m.usea {
		for _, vi := range v {
			der = append(der, complex(vi, 0))
		}
	}
	if m.useb {
		der = append(der, tanhTh...)
	}
	for i := 0; i < m.nv; i++ {
		vi := complex(v[i], 0)
		for j := 0; j < m.nh; j++ {
			der = append(der, tanhTh[j]*vi)
		}
	}
	return der
}
