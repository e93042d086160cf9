package config

import (
	"encoding/json"

	"github.com/alexandercbooth/netket/internal/domain/learning"
)

// registrySection is the optional run-registry backend a Learning
// section can name, additive to the required flat .log/.wf output.
type registrySection struct {
	Driver string `json:"Driver"` // "sqlite" (default) or "postgres"
	Dsn    string `json:"Dsn"`
}

// learningSection mirrors spec §6's Learning section directly, with no
// Name dispatch: the method is a plain enum field, not a polymorphic
// factory choice.
type learningSection struct {
	Method       string          `json:"Method"`
	Nsamples     int             `json:"Nsamples"`
	NiterOpt     int             `json:"NiterOpt"`
	DiagShift    float64         `json:"DiagShift"`
	RescaleShift bool            `json:"RescaleShift"`
	UseIterative bool            `json:"UseIterative"`
	OutputFile   string          `json:"OutputFile"`
	SaveEvery    int             `json:"SaveEvery"`
	Registry     registrySection `json:"Registry"`
	Passphrase   string          `json:"Passphrase"`
}

// LearningOutput bundles everything BuildLearning decodes that the
// config package, rather than the learning.Driver itself, consumes:
// the output-file path, checkpoint cadence, and optional run registry.
type LearningOutput struct {
	Config         learning.Config
	OutputFile     string
	SaveEvery      int
	RegistryDriver string
	RegistryDsn    string
	Passphrase     string
}

// BuildLearning decodes the Learning section into a LearningOutput.
func BuildLearning(section json.RawMessage) (LearningOutput, error) {
	var ls learningSection
	ls.DiagShift = 0.01
	ls.Registry.Driver = "sqlite"
	if err := requiredField(section, "Nsamples", &ls.Nsamples); err != nil {
		return LearningOutput{}, err
	}
	if err := requiredField(section, "NiterOpt", &ls.NiterOpt); err != nil {
		return LearningOutput{}, err
	}
	if err := requiredField(section, "Method", &ls.Method); err != nil {
		return LearningOutput{}, err
	}
	if err := defaultedField(section, "DiagShift", &ls.DiagShift); err != nil {
		return LearningOutput{}, err
	}
	if err := defaultedField(section, "RescaleShift", &ls.RescaleShift); err != nil {
		return LearningOutput{}, err
	}
	if err := defaultedField(section, "UseIterative", &ls.UseIterative); err != nil {
		return LearningOutput{}, err
	}
	if err := defaultedField(section, "OutputFile", &ls.OutputFile); err != nil {
		return LearningOutput{}, err
	}
	if err := defaultedField(section, "SaveEvery", &ls.SaveEvery); err != nil {
		return LearningOutput{}, err
	}
	if err := defaultedField(section, "Registry", &ls.Registry); err != nil {
		return LearningOutput{}, err
	}
	if err := defaultedField(section, "Passphrase", &ls.Passphrase); err != nil {
		return LearningOutput{}, err
	}

	var method learning.Method
	switch ls.Method {
	case "Sr":
		method = learning.Sr
	case "Gd":
		method = learning.Gd
	default:
		return LearningOutput{}, unknownName("Learning.Method", ls.Method)
	}

	return LearningOutput{
		Config: learning.Config{
			Method:       method,
			Nsamples:     ls.Nsamples,
			NiterOpt:     ls.NiterOpt,
			DiagShift:    ls.DiagShift,
			RescaleShift: ls.RescaleShift,
			UseIterative: ls.UseIterative,
		},
		OutputFile:     ls.OutputFile,
		SaveEvery:      ls.SaveEvery,
		RegistryDriver: ls.Registry.Driver,
		RegistryDsn:    ls.Registry.Dsn,
		Passphrase:     ls.Passphrase,
	}, nil
}
