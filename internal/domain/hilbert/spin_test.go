package hilbert

import (
	"math"
	"math/rand"
	"testing"
)

func TestNewSpinRejectsNonHalfIntegerSpin(t *testing.T) {
	if _, err := NewSpin(4, 0.3); err == nil {
		t.Fatal("expected an error for a non-integer, non-half-integer spin")
	}
}

func TestSpinLocalStatesHalfInteger(t *testing.T) {
	h, err := NewSpin(4, 1.5)
	if err != nil {
		t.Fatalf("NewSpin: %v", err)
	}
	want := []float64{-3, -1, 1, 3}
	got := h.LocalStates()
	if len(got) != len(want) {
		t.Fatalf("LocalStates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LocalStates() = %v, want %v", got, want)
		}
	}
}

func TestSpinHalfConstraintPreservesMagnetization(t *testing.T) {
	h, err := NewSpin(8, 0.5)
	if err != nil {
		t.Fatalf("NewSpin: %v", err)
	}
	constrained := h.WithTotalSz(0)
	rng := rand.New(rand.NewSource(1))
	v := NewConfiguration(constrained)
	for trial := 0; trial < 50; trial++ {
		if err := constrained.Random(v, rng); err != nil {
			t.Fatalf("Random: %v", err)
		}
		sum := 0.0
		for _, x := range v {
			sum += x
		}
		if sum != 0 {
			t.Fatalf("trial %d: total magnetization = %v, want 0", trial, sum)
		}
	}
}

func TestSpinHalfConstraintInfeasible(t *testing.T) {
	h, err := NewSpin(4, 0.5)
	if err != nil {
		t.Fatalf("NewSpin: %v", err)
	}
	constrained := h.WithTotalSz(0.5) // odd total on an even site count with integer steps
	rng := rand.New(rand.NewSource(1))
	v := NewConfiguration(constrained)
	if err := constrained.Random(v, rng); err == nil {
		t.Fatal("expected ConstraintInfeasible")
	}
}

func TestSpinHigherSpinConstraintPreservesMagnetization(t *testing.T) {
	h, err := NewSpin(6, 1.0)
	if err != nil {
		t.Fatalf("NewSpin: %v", err)
	}
	constrained := h.WithTotalSz(2)
	rng := rand.New(rand.NewSource(7))
	v := NewConfiguration(constrained)
	for trial := 0; trial < 50; trial++ {
		if err := constrained.Random(v, rng); err != nil {
			t.Fatalf("Random: %v", err)
		}
		sum := 0.0
		for _, x := range v {
			sum += x
		}
		if math.Abs(sum-4) > 1e-9 { // 2x totalSz in doubled local units
			t.Fatalf("trial %d: sum(v) = %v, want 4", trial, sum)
		}
		for _, x := range v {
			if x < -2 || x > 2 {
				t.Fatalf("trial %d: local value %v out of range [-2,2] for S=1", trial, x)
			}
		}
	}
}

func TestSpinUpdateOverwritesOnlyGivenSites(t *testing.T) {
	h, err := NewSpin(4, 0.5)
	if err != nil {
		t.Fatalf("NewSpin: %v", err)
	}
	v := []float64{1, 1, -1, -1}
	h.Update(v, []int{1}, []float64{-1})
	want := []float64{1, -1, -1, -1}
	for i := range want {
		if v[i] != want[i] {
			t.Fatalf("Update result = %v, want %v", v, want)
		}
	}
}
