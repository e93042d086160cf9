package config

import (
	"encoding/json"
	"math/rand"

	"github.com/alexandercbooth/netket/internal/domain/graph"
	"github.com/alexandercbooth/netket/internal/domain/hilbert"
	"github.com/alexandercbooth/netket/internal/domain/machine"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// initRandomSection is the optional block that randomizes a freshly
// built machine's zero-valued parameters before learning starts.
type initRandomSection struct {
	Sigma float64 `json:"Sigma"`
	Seed  int64   `json:"Seed"`
}

// BuildMachine dispatches on the Machine section's Name field.
func BuildMachine(section json.RawMessage, g graph.Graph, h hilbert.Hilbert) (machine.Machine, error) {
	name, err := sectionName(section, "Machine")
	if err != nil {
		return nil, err
	}
	switch name {
	case "RbmSpin":
		return buildRbmSpin(section, h)
	case "RbmSpinSymm":
		return buildRbmSpinSymm(section, g, h)
	default:
		return nil, unknownName("Machine", name)
	}
}

func buildRbmSpin(section json.RawMessage, h hilbert.Hilbert) (machine.Machine, error) {
	var alpha int
	if err := requiredField(section, "Alpha", &alpha); err != nil {
		return nil, err
	}
	usea, useb := true, true
	if err := defaultedField(section, "UseVisibleBias", &usea); err != nil {
		return nil, err
	}
	if err := defaultedField(section, "UseHiddenBias", &useb); err != nil {
		return nil, err
	}
	psi, err := machine.NewRbmSpin(h, alpha, usea, useb)
	if err != nil {
		return nil, err
	}
	if err := maybeRandomize(section, psi); err != nil {
		return nil, err
	}
	return psi, nil
}

func buildRbmSpinSymm(section json.RawMessage, g graph.Graph, h hilbert.Hilbert) (machine.Machine, error) {
	var alpha int
	if err := requiredField(section, "Alpha", &alpha); err != nil {
		return nil, err
	}
	usea, useb := true, true
	if err := defaultedField(section, "UseVisibleBias", &usea); err != nil {
		return nil, err
	}
	if err := defaultedField(section, "UseHiddenBias", &useb); err != nil {
		return nil, err
	}
	psi, err := machine.NewRbmSpinSymm(h, g, alpha, usea, useb)
	if err != nil {
		return nil, err
	}
	if err := maybeRandomize(section, psi); err != nil {
		return nil, err
	}
	return psi, nil
}

// maybeRandomize applies the InitRandom section, if present, replacing a
// machine's zero-valued parameters with small Gaussian noise so learning
// does not start from the degenerate all-zero ansatz.
func maybeRandomize(section json.RawMessage, psi machine.Machine) error {
	if !hasField(section, "InitRandom") {
		return nil
	}
	var initRandom initRandomSection
	if err := requiredField(section, "InitRandom", &initRandom); err != nil {
		return err
	}
	if initRandom.Sigma <= 0 {
		return vmcerr.Newf(vmcerr.Config, "config.Machine", "InitRandom.Sigma must be > 0, got %v", initRandom.Sigma)
	}
	rng := rand.New(rand.NewSource(initRandom.Seed))
	pars := psi.GetParameters()
	for i := range pars {
		re := initRandom.Sigma * rng.NormFloat64()
		im := initRandom.Sigma * rng.NormFloat64()
		pars[i] = complex(re, im)
	}
	psi.SetParameters(pars)
	return nil
}
