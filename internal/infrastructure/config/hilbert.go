package config

import (
	"encoding/json"

	"github.com/alexandercbooth/netket/internal/domain/hilbert"
)

// BuildHilbert dispatches on the Hilbert section's Name field.
func BuildHilbert(section json.RawMessage) (hilbert.Hilbert, error) {
	name, err := sectionName(section, "Hilbert")
	if err != nil {
		return nil, err
	}
	switch name {
	case "Spin":
		return buildSpin(section)
	case "Qubit":
		return buildQubit(section)
	case "Boson":
		return buildBoson(section)
	case "Custom":
		return buildCustomHilbert(section)
	default:
		return nil, unknownName("Hilbert", name)
	}
}

func buildSpin(section json.RawMessage) (hilbert.Hilbert, error) {
	var nspins int
	if err := requiredField(section, "Nspins", &nspins); err != nil {
		return nil, err
	}
	var s float64
	if err := requiredField(section, "S", &s); err != nil {
		return nil, err
	}
	h, err := hilbert.NewSpin(nspins, s)
	if err != nil {
		return nil, err
	}
	if hasField(section, "TotalSz") {
		var totalSz float64
		if err := requiredField(section, "TotalSz", &totalSz); err != nil {
			return nil, err
		}
		return h.WithTotalSz(totalSz), nil
	}
	return h, nil
}

func buildQubit(section json.RawMessage) (hilbert.Hilbert, error) {
	var nspins int
	if err := requiredField(section, "Nspins", &nspins); err != nil {
		return nil, err
	}
	return hilbert.NewQubit(nspins)
}

func buildBoson(section json.RawMessage) (hilbert.Hilbert, error) {
	var nsites, nmax int
	if err := requiredField(section, "Nspins", &nsites); err != nil {
		// Boson sites are also conventionally keyed "Nspins" in the
		// config schema (spec §6: "Nspins|Size"); fall back to "Size".
		if err2 := requiredField(section, "Size", &nsites); err2 != nil {
			return nil, err
		}
	}
	if err := requiredField(section, "Nmax", &nmax); err != nil {
		return nil, err
	}
	h, err := hilbert.NewBoson(nsites, nmax)
	if err != nil {
		return nil, err
	}
	var total float64
	if hasField(section, "TotalSz") {
		if err := requiredField(section, "TotalSz", &total); err != nil {
			return nil, err
		}
		return h.WithTotalNumber(total), nil
	}
	return h, nil
}

func buildCustomHilbert(section json.RawMessage) (hilbert.Hilbert, error) {
	var size int
	if err := requiredField(section, "Size", &size); err != nil {
		return nil, err
	}
	var local []float64
	if err := requiredField(section, "LocalStates", &local); err != nil {
		return nil, err
	}
	return hilbert.NewCustom(size, local)
}

// hasField reports whether a raw section object carries the given key,
// used for optional fields whose presence (not just their value) must
// be known, such as a total-magnetization constraint that is only
// applied when explicitly requested.
func hasField(section json.RawMessage, field string) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(section, &m); err != nil {
		return false
	}
	_, ok := m[field]
	return ok
}
