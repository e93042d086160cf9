package machine

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/alexandercbooth/netket/internal/domain/graph"
	"github.com/alexandercbooth/netket/internal/domain/hilbert"
)

func mustQubit(t *testing.T, n int) *hilbert.Spin {
	t.Helper()
	h, err := hilbert.NewQubit(n)
	if err != nil {
		t.Fatalf("NewQubit: %v", err)
	}
	return h
}

func randomParams(rng *rand.Rand, n int) []complex128 {
	pars := make([]complex128, n)
	for i := range pars {
		pars[i] = complex(0.1*rng.NormFloat64(), 0.1*rng.NormFloat64())
	}
	return pars
}

// Property: LogValWithLookup(v, InitLookup(v)) == LogVal(v).
func TestRbmSpinLookupMatchesLogVal(t *testing.T) {
	h := mustQubit(t, 4)
	m, err := NewRbmSpin(h, 2, true, true)
	if err != nil {
		t.Fatalf("NewRbmSpin: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	m.SetParameters(randomParams(rng, m.Npar()))

	v := []float64{1, -1, 1, -1}
	lt := m.InitLookup(v)
	got := m.LogValWithLookup(v, lt)
	want := m.LogVal(v)
	if cmplx.Abs(got-want) > 1e-10 {
		t.Fatalf("LogValWithLookup = %v, want %v", got, want)
	}
}

// Property: LogValDiff(v, flip) == LogVal(v') - LogVal(v).
func TestRbmSpinLogValDiffConsistency(t *testing.T) {
	h := mustQubit(t, 4)
	m, err := NewRbmSpin(h, 2, true, true)
	if err != nil {
		t.Fatalf("NewRbmSpin: %v", err)
	}
	rng := rand.New(rand.NewSource(2))
	m.SetParameters(randomParams(rng, m.Npar()))

	v := []float64{1, -1, 1, -1}
	sites := []int{1}
	newVals := []float64{1}
	diffs := m.LogValDiff(v, [][]int{sites}, [][]float64{newVals})

	vPrime := append([]float64(nil), v...)
	h.Update(vPrime, sites, newVals)
	want := m.LogVal(vPrime) - m.LogVal(v)

	if cmplx.Abs(diffs[0]-want) > 1e-10 {
		t.Fatalf("LogValDiff = %v, want %v", diffs[0], want)
	}
}

// Property: UpdateLookup followed by LogValWithLookup matches LogVal on
// the flipped configuration, i.e. the lookup table is maintained
// consistently across an accepted move.
func TestRbmSpinUpdateLookupMatchesFullRecompute(t *testing.T) {
	h := mustQubit(t, 5)
	m, err := NewRbmSpin(h, 1, true, true)
	if err != nil {
		t.Fatalf("NewRbmSpin: %v", err)
	}
	rng := rand.New(rand.NewSource(3))
	m.SetParameters(randomParams(rng, m.Npar()))

	v := []float64{1, 1, -1, -1, 1}
	lt := m.InitLookup(v)

	sites := []int{2}
	newVals := []float64{1}
	m.UpdateLookup(v, sites, newVals, lt)
	h.Update(v, sites, newVals)

	got := m.LogValWithLookup(v, lt)
	want := m.LogVal(v)
	if cmplx.Abs(got-want) > 1e-10 {
		t.Fatalf("post-update LogValWithLookup = %v, want %v", got, want)
	}
}

// Property: DerLog matches a central finite difference of LogVal with
// respect to each real and imaginary parameter component.
func TestRbmSpinDerLogFiniteDifference(t *testing.T) {
	h := mustQubit(t, 3)
	m, err := NewRbmSpin(h, 1, true, true)
	if err != nil {
		t.Fatalf("NewRbmSpin: %v", err)
	}
	rng := rand.New(rand.NewSource(4))
	pars := randomParams(rng, m.Npar())
	m.SetParameters(pars)

	v := []float64{1, -1, 1}
	der := m.DerLog(v)

	const eps = 1e-6
	for k := range pars {
		for _, axis := range []complex128{1, 1i} {
			bump := make([]complex128, len(pars))
			copy(bump, pars)
			bump[k] += complex(eps, 0) * axis
			m.SetParameters(bump)
			plus := m.LogVal(v)

			copy(bump, pars)
			bump[k] -= complex(eps, 0) * axis
			m.SetParameters(bump)
			minus := m.LogVal(v)

			fd := (plus - minus) / complex(2*eps, 0)
			want := der[k] * axis
			if cmplx.Abs(fd-want) > 1e-4 {
				t.Fatalf("param %d axis %v: finite-difference deriv = %v, want %v", k, axis, fd, want)
			}
		}
	}
	m.SetParameters(pars)
}

// Property: a permutation-symmetric RBM's log-amplitude is invariant
// under any symmetry-group permutation of the configuration.
func TestRbmSpinSymmExactness(t *testing.T) {
	g, err := graph.NewHypercube(4, 1, true)
	if err != nil {
		t.Fatalf("NewHypercube: %v", err)
	}
	h := mustQubit(t, 4)
	m, err := NewRbmSpinSymm(h, g, 2, true, true)
	if err != nil {
		t.Fatalf("NewRbmSpinSymm: %v", err)
	}
	rng := rand.New(rand.NewSource(5))
	m.SetParameters(randomParams(rng, m.Npar()))

	v := []float64{1, -1, 1, 1}
	base := m.LogVal(v)

	table, err := g.SymmetryTable()
	if err != nil {
		t.Fatalf("SymmetryTable: %v", err)
	}
	for gi, perm := range table {
		permuted := graph.Permute(perm, v)
		got := m.LogVal(permuted)
		if cmplx.Abs(got-base) > 1e-9 {
			t.Fatalf("group element %d: LogVal(permuted v) = %v, want %v (symmetry violated)", gi, got, base)
		}
	}
}

func TestRbmSpinSymmNparLessThanBare(t *testing.T) {
	g, err := graph.NewHypercube(6, 1, true)
	if err != nil {
		t.Fatalf("NewHypercube: %v", err)
	}
	h := mustQubit(t, 6)
	m, err := NewRbmSpinSymm(h, g, 2, true, true)
	if err != nil {
		t.Fatalf("NewRbmSpinSymm: %v", err)
	}
	if m.npar >= m.nbarepar {
		t.Fatalf("npar = %d, nbarepar = %d, want npar < nbarepar", m.npar, m.nbarepar)
	}
}

func TestLncoshMatchesDirectFormulaNearZero(t *testing.T) {
	z := complex(0.3, 0.2)
	got := lncosh(z)
	want := cmplx.Log(cmplx.Cosh(z))
	if cmplx.Abs(got-want) > 1e-9 {
		t.Fatalf("lncosh(%v) = %v, want %v", z, got, want)
	}
}

func TestLncoshStableForLargeMagnitude(t *testing.T) {
	z := complex(700.0, 1.2)
	got := lncosh(z)
	if cmplx.IsNaN(got) || cmplx.IsInf(got) {
		t.Fatalf("lncosh(%v) = %v, want a finite value", z, got)
	}
	wantReal := 700.0 - math.Ln2
	if math.Abs(real(got)-wantReal) > 1e-6 {
		t.Fatalf("Re(lncosh(%v)) = %v, want approximately %v", z, real(got), wantReal)
	}
}
