package config

import (
	"github.com/alexandercbooth/netket/internal/domain/learning"
	"github.com/alexandercbooth/netket/internal/infrastructure/comm"
)

// Run is a fully assembled VMC optimization run: the Driver plus the
// output-file path and checkpoint cadence the Learning section named,
// ready for a caller to drive through learning.Driver.Run.
type Run struct {
	Driver         *learning.Driver
	OutputFile     string
	SaveEvery      int
	NiterOpt       int
	RegistryDriver string
	RegistryDsn    string
	Passphrase     string
}

// Build parses doc's sections in netket.cc's own main() order — Graph,
// Hilbert, Hamiltonian, Machine, Sampler, Optimizer, Learning — wiring
// each constructor's output into the next, then assembles the Driver.
// c is the Communicator the run distributes over; pass comm.NewIdentity()
// for a single-process run.
func Build(doc *Document, c comm.Communicator) (*Run, error) {
	g, err := BuildGraph(doc.Graph)
	if err != nil {
		return nil, err
	}
	h, err := BuildHilbert(doc.Hilbert)
	if err != nil {
		return nil, err
	}
	ham, err := BuildHamiltonian(doc.Hamiltonian, g, h)
	if err != nil {
		return nil, err
	}
	psi, err := BuildMachine(doc.Machine, g, h)
	if err != nil {
		return nil, err
	}
	samp, err := BuildSampler(doc.Sampler, psi)
	if err != nil {
		return nil, err
	}
	opt, err := BuildOptimizer(doc.Optimizer)
	if err != nil {
		return nil, err
	}
	lo, err := BuildLearning(doc.Learning)
	if err != nil {
		return nil, err
	}

	driver := learning.NewDriver(ham, samp, psi, opt, c, lo.Config)
	return &Run{
		Driver:         driver,
		OutputFile:     lo.OutputFile,
		SaveEvery:      lo.SaveEvery,
		NiterOpt:       lo.Config.NiterOpt,
		RegistryDriver: lo.RegistryDriver,
		RegistryDsn:    lo.RegistryDsn,
		Passphrase:     lo.Passphrase,
	}, nil
}
