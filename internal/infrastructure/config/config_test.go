package config

import (
	"encoding/json"
	"testing"

	"github.com/alexandercbooth/netket/internal/infrastructure/comm"
)

func TestBuildGraphHypercube(t *testing.T) {
	g, err := BuildGraph(json.RawMessage(`{"Name":"Hypercube","L":4,"Dimension":1,"Pbc":true}`))
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	if g.NSites() != 4 {
		t.Fatalf("NSites() = %d, want 4", g.NSites())
	}
}

func TestBuildGraphUnknownName(t *testing.T) {
	if _, err := BuildGraph(json.RawMessage(`{"Name":"Penrose"}`)); err == nil {
		t.Fatalf("expected an error for an unknown Graph name")
	}
}

func TestBuildGraphMissingField(t *testing.T) {
	if _, err := BuildGraph(json.RawMessage(`{"Name":"Hypercube","L":4}`)); err == nil {
		t.Fatalf("expected an error for a missing required field")
	}
}

func TestBuildHilbertQubit(t *testing.T) {
	h, err := BuildHilbert(json.RawMessage(`{"Name":"Qubit","Nspins":4}`))
	if err != nil {
		t.Fatalf("BuildHilbert: %v", err)
	}
	if h.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", h.Size())
	}
}

func TestBuildHamiltonianIsing(t *testing.T) {
	g, err := BuildGraph(json.RawMessage(`{"Name":"Hypercube","L":4,"Dimension":1,"Pbc":true}`))
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	h, err := BuildHilbert(json.RawMessage(`{"Name":"Qubit","Nspins":4}`))
	if err != nil {
		t.Fatalf("BuildHilbert: %v", err)
	}
	ham, err := BuildHamiltonian(json.RawMessage(`{"Name":"Ising","J":1.0,"h":0.5}`), g, h)
	if err != nil {
		t.Fatalf("BuildHamiltonian: %v", err)
	}
	if ham.GetHilbert() != h {
		t.Fatalf("GetHilbert() mismatch")
	}
}

func TestBuildMachineRbmSpinWithInitRandom(t *testing.T) {
	h, err := BuildHilbert(json.RawMessage(`{"Name":"Qubit","Nspins":4}`))
	if err != nil {
		t.Fatalf("BuildHilbert: %v", err)
	}
	psi, err := BuildMachine(json.RawMessage(`{"Name":"RbmSpin","Alpha":1,"InitRandom":{"Sigma":0.1,"Seed":7}}`), nil, h)
	if err != nil {
		t.Fatalf("BuildMachine: %v", err)
	}
	pars := psi.GetParameters()
	allZero := true
	for _, p := range pars {
		if p != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatalf("expected InitRandom to produce nonzero parameters")
	}
}

func TestBuildOptimizerSgd(t *testing.T) {
	opt, err := BuildOptimizer(json.RawMessage(`{"Name":"Sgd","LearningRate":0.05}`))
	if err != nil {
		t.Fatalf("BuildOptimizer: %v", err)
	}
	opt.Init(3)
}

func TestBuildLearningSr(t *testing.T) {
	lo, err := BuildLearning(json.RawMessage(
		`{"Method":"Sr","Nsamples":128,"NiterOpt":50,"DiagShift":0.02,"OutputFile":"run.log","SaveEvery":10}`))
	if err != nil {
		t.Fatalf("BuildLearning: %v", err)
	}
	if lo.Config.Nsamples != 128 || lo.Config.NiterOpt != 50 || lo.Config.DiagShift != 0.02 {
		t.Fatalf("cfg = %+v, want Nsamples=128 NiterOpt=50 DiagShift=0.02", lo.Config)
	}
	if lo.OutputFile != "run.log" || lo.SaveEvery != 10 {
		t.Fatalf("outputFile=%q saveEvery=%d, want run.log/10", lo.OutputFile, lo.SaveEvery)
	}
	if lo.RegistryDriver != "sqlite" {
		t.Fatalf("RegistryDriver = %q, want default sqlite", lo.RegistryDriver)
	}
}

func TestBuildLearningPassphrase(t *testing.T) {
	lo, err := BuildLearning(json.RawMessage(
		`{"Method":"Sr","Nsamples":8,"NiterOpt":1,"Passphrase":"correct horse battery staple"}`))
	if err != nil {
		t.Fatalf("BuildLearning: %v", err)
	}
	if lo.Passphrase != "correct horse battery staple" {
		t.Fatalf("Passphrase = %q, want %q", lo.Passphrase, "correct horse battery staple")
	}
}

func TestBuildLearningUnknownMethod(t *testing.T) {
	if _, err := BuildLearning(json.RawMessage(`{"Method":"Newton","Nsamples":1,"NiterOpt":1}`)); err == nil {
		t.Fatalf("expected an error for an unknown Learning.Method")
	}
}

func TestBuildAssemblesFullRun(t *testing.T) {
	raw := []byte(`{
		"Graph": {"Name":"Hypercube","L":4,"Dimension":1,"Pbc":true},
		"Hilbert": {"Name":"Qubit","Nspins":4},
		"Hamiltonian": {"Name":"Ising","J":1.0,"h":0.5},
		"Machine": {"Name":"RbmSpin","Alpha":1,"InitRandom":{"Sigma":0.1,"Seed":1}},
		"Sampler": {"Name":"MetropolisLocal"},
		"Optimizer": {"Name":"Sgd","LearningRate":0.05},
		"Learning": {"Method":"Gd","Nsamples":32,"NiterOpt":2,"OutputFile":"run.log","SaveEvery":1}
	}`)
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	run, err := Build(&doc, comm.NewIdentity())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if run.Driver == nil {
		t.Fatalf("Driver is nil")
	}
	if run.NiterOpt != 2 || run.OutputFile != "run.log" || run.SaveEvery != 1 {
		t.Fatalf("run = %+v, want NiterOpt=2 OutputFile=run.log SaveEvery=1", run)
	}
}
