package config

import (
	"encoding/json"

	"github.com/alexandercbooth/netket/internal/domain/optimizer"
)

// BuildOptimizer dispatches on the Optimizer section's Name field.
func BuildOptimizer(section json.RawMessage) (optimizer.Optimizer, error) {
	name, err := sectionName(section, "Optimizer")
	if err != nil {
		return nil, err
	}
	switch name {
	case "Sgd":
		var eta float64
		if err := requiredField(section, "LearningRate", &eta); err != nil {
			return nil, err
		}
		return optimizer.NewSGD(eta), nil
	case "Momentum":
		eta, beta := 0.001, 0.9
		if err := defaultedField(section, "LearningRate", &eta); err != nil {
			return nil, err
		}
		if err := defaultedField(section, "Beta", &beta); err != nil {
			return nil, err
		}
		return optimizer.NewMomentum(eta, beta), nil
	case "AdaMax":
		eta, beta1, beta2, eps := 0.001, 0.9, 0.999, 1e-8
		if err := defaultedField(section, "LearningRate", &eta); err != nil {
			return nil, err
		}
		if err := defaultedField(section, "Beta1", &beta1); err != nil {
			return nil, err
		}
		if err := defaultedField(section, "Beta2", &beta2); err != nil {
			return nil, err
		}
		if err := defaultedField(section, "Epscut", &eps); err != nil {
			return nil, err
		}
		return optimizer.NewAdaMax(eta, beta1, beta2, eps), nil
	case "AdaDelta":
		rho, eps := 0.95, 1e-6
		if err := defaultedField(section, "Rho", &rho); err != nil {
			return nil, err
		}
		if err := defaultedField(section, "Epscut", &eps); err != nil {
			return nil, err
		}
		return optimizer.NewAdaDelta(rho, eps), nil
	case "RmsProp":
		eta, rho, eps := 0.001, 0.9, 1e-6
		if err := defaultedField(section, "LearningRate", &eta); err != nil {
			return nil, err
		}
		if err := defaultedField(section, "Rho", &rho); err != nil {
			return nil, err
		}
		if err := defaultedField(section, "Epscut", &eps); err != nil {
			return nil, err
		}
		return optimizer.NewRMSProp(eta, rho, eps), nil
	default:
		return nil, unknownName("Optimizer", name)
	}
}
