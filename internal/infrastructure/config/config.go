// Package config parses the single JSON configuration document spec §6
// describes and builds the concrete Graph / Hilbert / Hamiltonian /
// Machine / Sampler / Optimizer / Learning objects it names, each
// resolved by a factory dispatch on that section's "Name" field —
// NetKet's own `netket.cc` builds every top-level object directly off
// one parsed JSON document the same way, one constructor call per
// section.
package config

import (
	"encoding/json"
	"os"

	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// Document is the raw top-level JSON structure: each section is kept as
// raw JSON until its factory decodes it, since every section's shape
// depends on its own "Name" field.
type Document struct {
	Graph       json.RawMessage `json:"Graph"`
	Hilbert     json.RawMessage `json:"Hilbert"`
	Hamiltonian json.RawMessage `json:"Hamiltonian"`
	Machine     json.RawMessage `json:"Machine"`
	Sampler     json.RawMessage `json:"Sampler"`
	Learning    json.RawMessage `json:"Learning"`
	Optimizer   json.RawMessage `json:"Optimizer"`
}

// namedSection is every section's common shape: a "Name" discriminator
// plus whatever fields that Name's factory expects, decoded separately.
type namedSection struct {
	Name string `json:"Name"`
}

// Load reads and parses the configuration document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vmcerr.New(vmcerr.IO, "config.Load", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, vmcerr.New(vmcerr.Config, "config.Load", err)
	}
	return &doc, nil
}

// sectionName extracts the "Name" discriminator from a raw section, or
// a ConfigError if the section is missing or carries no Name.
func sectionName(section json.RawMessage, sectionLabel string) (string, error) {
	if len(section) == 0 {
		return "", vmcerr.Newf(vmcerr.Config, "config."+sectionLabel, "missing required %q section", sectionLabel)
	}
	var ns namedSection
	if err := json.Unmarshal(section, &ns); err != nil {
		return "", vmcerr.New(vmcerr.Config, "config."+sectionLabel, err)
	}
	if ns.Name == "" {
		return "", vmcerr.Newf(vmcerr.Config, "config."+sectionLabel, "%q section missing required field %q", sectionLabel, "Name")
	}
	return ns.Name, nil
}

// requiredField decodes a single required field from a raw JSON object,
// the Go equivalent of NetKet's FieldVal helper: missing or
// wrong-shaped fields are a ConfigError naming the field.
func requiredField(section json.RawMessage, field string, dst interface{}) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(section, &m); err != nil {
		return vmcerr.New(vmcerr.Config, "config."+field, err)
	}
	raw, ok := m[field]
	if !ok {
		return vmcerr.Newf(vmcerr.Config, "config", "missing required field %q", field)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return vmcerr.Newf(vmcerr.Config, "config", "field %q: %v", field, err)
	}
	return nil
}

// defaultedField decodes an optional field, leaving dst at its current
// value (the caller's default) if the field is absent — NetKet's
// FieldOrDefaultVal.
func defaultedField(section json.RawMessage, field string, dst interface{}) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(section, &m); err != nil {
		return vmcerr.New(vmcerr.Config, "config."+field, err)
	}
	raw, ok := m[field]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return vmcerr.Newf(vmcerr.Config, "config", "field %q: %v", field, err)
	}
	return nil
}

func unknownName(sectionLabel, name string) error {
	return vmcerr.Newf(vmcerr.Config, "config."+sectionLabel, "unknown %s %q", sectionLabel, name)
}
