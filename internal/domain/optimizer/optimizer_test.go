package optimizer

import (
	"math/cmplx"
	"testing"
)

func TestSGDStep(t *testing.T) {
	o := NewSGD(0.1)
	o.Init(2)
	params := []complex128{1, 2}
	grad := []complex128{1, -1}
	got := o.Update(params, grad)
	want := []complex128{0.9, 2.1}
	for i := range want {
		if cmplx.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("Update()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMomentumAccumulates(t *testing.T) {
	o := NewMomentum(0.1, 0.5)
	o.Init(1)
	params := []complex128{0}
	grad := []complex128{1}
	p1 := o.Update(params, grad)
	// m = 0.5*0 + 1 = 1; theta = 0 - 0.1*1 = -0.1
	if cmplx.Abs(p1[0]-(-0.1)) > 1e-12 {
		t.Fatalf("after step 1: theta = %v, want -0.1", p1[0])
	}
	p2 := o.Update(p1, grad)
	// m = 0.5*1 + 1 = 1.5; theta = -0.1 - 0.1*1.5 = -0.25
	if cmplx.Abs(p2[0]-(-0.25)) > 1e-12 {
		t.Fatalf("after step 2: theta = %v, want -0.25", p2[0])
	}
}

func TestMomentumResetClearsState(t *testing.T) {
	o := NewMomentum(0.1, 0.9)
	o.Init(1)
	o.Update([]complex128{0}, []complex128{5})
	o.Reset()
	// m should be back to 0: one further step from theta=0 should match a
	// fresh optimizer's first step.
	got := o.Update([]complex128{0}, []complex128{1})
	fresh := NewMomentum(0.1, 0.9)
	fresh.Init(1)
	want := fresh.Update([]complex128{0}, []complex128{1})
	if cmplx.Abs(got[0]-want[0]) > 1e-12 {
		t.Fatalf("after Reset, Update = %v, want %v", got[0], want[0])
	}
}

func TestAdaMaxMovesOppositeGradientSign(t *testing.T) {
	o := NewAdaMax(0.01, 0, 0, 0)
	o.Init(1)
	params := []complex128{0}
	grad := []complex128{1}
	got := o.Update(params, grad)
	if real(got[0]) >= 0 {
		t.Fatalf("Update with positive gradient should decrease the parameter, got %v", got[0])
	}
}

func TestAdaDeltaProducesFiniteFirstStep(t *testing.T) {
	o := NewAdaDelta(0, 0)
	o.Init(1)
	got := o.Update([]complex128{0}, []complex128{1})
	if cmplx.IsNaN(got[0]) || cmplx.IsInf(got[0]) {
		t.Fatalf("AdaDelta first step = %v, want a finite value", got[0])
	}
}

func TestRMSPropMovesOppositeGradientSign(t *testing.T) {
	o := NewRMSProp(0.1, 0, 0)
	o.Init(1)
	params := []complex128{0}
	grad := []complex128{2}
	got := o.Update(params, grad)
	if real(got[0]) >= 0 {
		t.Fatalf("Update with positive gradient should decrease the parameter, got %v", got[0])
	}
}

func TestComplexGradientTreatedComponentwise(t *testing.T) {
	o := NewSGD(1.0)
	o.Init(1)
	got := o.Update([]complex128{0}, []complex128{complex(1, -2)})
	want := complex(-1, 2)
	if cmplx.Abs(got[0]-want) > 1e-12 {
		t.Fatalf("Update() = %v, want %v (real/imag updated independently)", got[0], want)
	}
}
