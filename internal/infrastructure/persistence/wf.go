package persistence

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/alexandercbooth/netket/internal/domain/machine"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// complexJSON is the [real, imaginary] wire encoding for one
// complex128, since encoding/json has no native complex support.
type complexJSON [2]float64

func toComplexJSON(v complex128) complexJSON   { return complexJSON{real(v), imag(v)} }
func fromComplexJSON(c complexJSON) complex128 { return complex(c[0], c[1]) }

// Checkpoint is the `<base>.wf` document: the variational parameter
// vector plus enough machine metadata to validate a checkpoint against
// the ansatz it is being loaded into before SetParameters is called.
// PassphraseHash is empty for an unprotected checkpoint; when set, Apply
// refuses to load the checkpoint unless given the matching passphrase.
type Checkpoint struct {
	MachineName    string        `json:"machine_name"`
	Npar           int           `json:"npar"`
	Parameters     []complexJSON `json:"parameters"`
	PassphraseHash string        `json:"passphrase_hash,omitempty"`
}

// ErrPassphraseMismatch is returned by Checkpoint.Apply when a
// passphrase-protected checkpoint is given the wrong passphrase.
var ErrPassphraseMismatch = errors.New("checkpoint: passphrase does not match")

// SaveCheckpoint serializes psi's current parameters to path. A
// non-empty passphrase locks the checkpoint with CheckpointLock's bcrypt
// hash; an empty passphrase leaves the checkpoint unprotected.
func SaveCheckpoint(path, machineName string, psi machine.Machine, passphrase string) error {
	pars := psi.GetParameters()
	ck := Checkpoint{MachineName: machineName, Npar: len(pars), Parameters: make([]complexJSON, len(pars))}
	for i, p := range pars {
		ck.Parameters[i] = toComplexJSON(p)
	}
	if passphrase != "" {
		hash, err := NewDefaultCheckpointLock().Hash(passphrase)
		if err != nil {
			return vmcerr.New(vmcerr.IO, "persistence.SaveCheckpoint", err)
		}
		ck.PassphraseHash = hash
	}
	data, err := json.MarshalIndent(ck, "", "  ")
	if err != nil {
		return vmcerr.New(vmcerr.IO, "persistence.SaveCheckpoint", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return vmcerr.New(vmcerr.IO, "persistence.SaveCheckpoint", err)
	}
	return nil
}

// LoadCheckpoint reads a `<base>.wf` document from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vmcerr.New(vmcerr.IO, "persistence.LoadCheckpoint", err)
	}
	var ck Checkpoint
	if err := json.Unmarshal(data, &ck); err != nil {
		return nil, vmcerr.New(vmcerr.IO, "persistence.LoadCheckpoint", err)
	}
	return &ck, nil
}

// Apply loads the checkpoint's parameters into psi, failing with a
// ProtocolError (size mismatch is the same invariant violation the
// Communicator broadcast guards against, just across a file boundary
// instead of across workers) if the parameter counts disagree. If the
// checkpoint is passphrase-protected, passphrase must match it via
// CheckpointLock.Verify or Apply refuses to load the parameters.
func (ck *Checkpoint) Apply(psi machine.Machine, passphrase string) error {
	if ck.PassphraseHash != "" && !NewDefaultCheckpointLock().Verify(passphrase, ck.PassphraseHash) {
		return vmcerr.New(vmcerr.Protocol, "persistence.Checkpoint.Apply", ErrPassphraseMismatch)
	}
	if ck.Npar != psi.Npar() {
		return vmcerr.New(vmcerr.Protocol, "persistence.Checkpoint.Apply", vmcerr.ErrParameterSizeMismatch)
	}
	pars := make([]complex128, ck.Npar)
	for i, c := range ck.Parameters {
		pars[i] = fromComplexJSON(c)
	}
	psi.SetParameters(pars)
	return nil
}
