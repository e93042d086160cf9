package sampler

import (
	"math/rand"
	"testing"

	"github.com/alexandercbooth/netket/internal/domain/hilbert"
	"github.com/alexandercbooth/netket/internal/domain/machine"
)

func newTestMachine(t *testing.T, nsites int) (machine.Machine, *hilbert.Spin) {
	t.Helper()
	h, err := hilbert.NewQubit(nsites)
	if err != nil {
		t.Fatalf("NewQubit: %v", err)
	}
	m, err := machine.NewRbmSpin(h, 1, true, true)
	if err != nil {
		t.Fatalf("NewRbmSpin: %v", err)
	}
	rng := rand.New(rand.NewSource(11))
	pars := make([]complex128, m.Npar())
	for i := range pars {
		pars[i] = complex(0.2*rng.NormFloat64(), 0.2*rng.NormFloat64())
	}
	m.SetParameters(pars)
	return m, h
}

func TestMetropolisLocalSweepStaysInAlphabet(t *testing.T) {
	m, h := newTestMachine(t, 6)
	s, err := NewMetropolisLocal(m)
	if err != nil {
		t.Fatalf("NewMetropolisLocal: %v", err)
	}
	rng := rand.New(rand.NewSource(12))
	s.Reset(true, rng)

	local := h.LocalStates()
	for sweep := 0; sweep < 20; sweep++ {
		if err := s.Sweep(rng); err != nil {
			t.Fatalf("Sweep: %v", err)
		}
		for _, x := range s.Visible() {
			found := false
			for _, l := range local {
				if l == x {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("visible configuration left the local alphabet: %v", x)
			}
		}
	}
}

func TestMetropolisLocalAcceptanceIsFraction(t *testing.T) {
	m, _ := newTestMachine(t, 4)
	s, err := NewMetropolisLocal(m)
	if err != nil {
		t.Fatalf("NewMetropolisLocal: %v", err)
	}
	rng := rand.New(rand.NewSource(13))
	s.Reset(true, rng)
	for i := 0; i < 10; i++ {
		if err := s.Sweep(rng); err != nil {
			t.Fatalf("Sweep: %v", err)
		}
	}
	acc := s.Acceptance()
	if acc < 0 || acc > 1 {
		t.Fatalf("Acceptance() = %v, want a value in [0,1]", acc)
	}
}

func TestMetropolisLocalDebugModeDetectsNoFalsePositive(t *testing.T) {
	m, _ := newTestMachine(t, 5)
	s, err := NewMetropolisLocal(m)
	if err != nil {
		t.Fatalf("NewMetropolisLocal: %v", err)
	}
	s.Debug = true
	rng := rand.New(rand.NewSource(14))
	s.Reset(true, rng)
	for i := 0; i < 5; i++ {
		if err := s.Sweep(rng); err != nil {
			t.Fatalf("Sweep with Debug=true on a consistent machine returned an error: %v", err)
		}
	}
}

func TestNewMetropolisLocalRejectsContinuousHilbert(t *testing.T) {
	h, err := hilbert.NewCustom(3, []float64{0, 0.5, 1})
	if err != nil {
		t.Fatalf("NewCustom: %v", err)
	}
	m, err := machine.NewRbmSpin(h, 1, true, true)
	if err != nil {
		t.Fatalf("NewRbmSpin: %v", err)
	}
	// Custom is discrete, so wrap it to simulate a continuous space via a
	// minimal fake.
	fake := fakeContinuousHilbert{Hilbert: h}
	fakeMachine := &fakeMachineWithHilbert{Machine: m, h: fake}
	if _, err := NewMetropolisLocal(fakeMachine); err == nil {
		t.Fatal("expected an error for a continuous Hilbert space")
	}
}

type fakeContinuousHilbert struct {
	hilbert.Hilbert
}

func (fakeContinuousHilbert) IsDiscrete() bool { return false }

type fakeMachineWithHilbert struct {
	machine.Machine
	h hilbert.Hilbert
}

func (f *fakeMachineWithHilbert) GetHilbert() hilbert.Hilbert { return f.h }
