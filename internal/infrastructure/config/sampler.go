package config

import (
	"encoding/json"

	"github.com/alexandercbooth/netket/internal/domain/machine"
	"github.com/alexandercbooth/netket/internal/domain/sampler"
)

// BuildSampler dispatches on the Sampler section's Name field.
// MetropolisLocal is the only variant this repo implements; the wider
// NetKet family (MetropolisExchange, MetropolisHamiltonian, Hartree...)
// has no domain-layer counterpart here.
func BuildSampler(section json.RawMessage, psi machine.Machine) (sampler.Sampler, error) {
	name, err := sectionName(section, "Sampler")
	if err != nil {
		return nil, err
	}
	switch name {
	case "MetropolisLocal":
		return sampler.NewMetropolisLocal(psi)
	default:
		return nil, unknownName("Sampler", name)
	}
}
