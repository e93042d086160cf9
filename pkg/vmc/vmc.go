// Package vmc provides the public API for the variational Monte Carlo
// optimizer: build a run from a config document, drive it, and persist
// its output.
//
// Example:
//
//	doc, err := vmc.LoadConfig("run.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	run, err := vmc.Build(doc, vmc.NewIdentityCommunicator())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stats, err := run.Driver.Run(rand.New(rand.NewSource(1)), run.NiterOpt)
package vmc

import (
	"github.com/alexandercbooth/netket/internal/domain/graph"
	"github.com/alexandercbooth/netket/internal/domain/hamiltonian"
	"github.com/alexandercbooth/netket/internal/domain/hilbert"
	"github.com/alexandercbooth/netket/internal/domain/learning"
	"github.com/alexandercbooth/netket/internal/domain/machine"
	"github.com/alexandercbooth/netket/internal/domain/observable"
	"github.com/alexandercbooth/netket/internal/domain/optimizer"
	"github.com/alexandercbooth/netket/internal/domain/sampler"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
	"github.com/alexandercbooth/netket/internal/infrastructure/comm"
	"github.com/alexandercbooth/netket/internal/infrastructure/config"
	"github.com/alexandercbooth/netket/internal/infrastructure/persistence"
)

// Re-export the domain and infrastructure types a caller assembling or
// driving a run needs, so importers never reach into internal/.
type (
	Graph          = graph.Graph
	Hilbert        = hilbert.Hilbert
	Operator       = hamiltonian.Operator
	Machine        = machine.Machine
	Sampler        = sampler.Sampler
	Optimizer      = optimizer.Optimizer
	Communicator   = comm.Communicator
	Driver         = learning.Driver
	LearningConfig = learning.Config
	LearningMethod = learning.Method
	IterationStats = learning.IterationStats
	Observable     = observable.Observable
	ObservableMgr  = observable.Manager
	Document       = config.Document
	Run            = config.Run
	Checkpoint     = persistence.Checkpoint
	LogRecord      = persistence.LogRecord
	RunRecord      = persistence.RunRecord
	RunStore       = persistence.RunStore
	ErrorKind      = vmcerr.Kind
)

const (
	// Sr preconditions the raw gradient by the inverse quantum geometric
	// tensor.
	Sr = learning.Sr
	// Gd applies the raw gradient direction, unpreconditioned.
	Gd = learning.Gd
)

// LoadConfig reads and parses a JSON configuration document.
func LoadConfig(path string) (*Document, error) { return config.Load(path) }

// Build assembles a full Run (Graph through Driver) from a parsed
// configuration document and a Communicator.
func Build(doc *Document, c Communicator) (*Run, error) { return config.Build(doc, c) }

// NewIdentityCommunicator returns the single-process Communicator.
func NewIdentityCommunicator() Communicator { return comm.NewIdentity() }

// NewLocalCommunicatorGroup returns an in-process group of n
// goroutine-backed Communicators sharing one collective barrier.
func NewLocalCommunicatorGroup(n int) []Communicator { return comm.NewLocalGroup(n) }

// NewObservableManager builds an observable.Manager from zero or more
// named Hamiltonian-shaped observables.
func NewObservableManager(obs ...Observable) *ObservableMgr { return observable.NewManager(obs...) }

// OpenLogWriter opens the structured per-iteration output log at path.
func OpenLogWriter(path string) (*persistence.LogWriter, error) { return persistence.OpenLogWriter(path) }

// ReadLog reads back a structured per-iteration output log.
func ReadLog(path string) ([]LogRecord, error) { return persistence.ReadLog(path) }

// SaveCheckpoint writes psi's current parameters to a checkpoint file. A
// non-empty passphrase bcrypt-locks the checkpoint; pass "" to leave it
// unprotected.
func SaveCheckpoint(path, machineName string, psi Machine, passphrase string) error {
	return persistence.SaveCheckpoint(path, machineName, psi, passphrase)
}

// LoadCheckpoint reads back a checkpoint file.
func LoadCheckpoint(path string) (*Checkpoint, error) { return persistence.LoadCheckpoint(path) }

// NewSQLiteStore opens (creating if needed) a sqlite-backed run registry.
func NewSQLiteStore(path string) (RunStore, error) { return persistence.NewSQLiteStore(path) }

// NewPostgresStore opens a Postgres-backed run registry.
func NewPostgresStore(dsn string) (RunStore, error) { return persistence.NewPostgresStore(dsn) }

// IsFatal reports whether err should abort a run, as opposed to being
// downgraded to a degenerate iteration (e.g. a transient SR
// rank-deficiency or CG non-convergence).
func IsFatal(err error) bool { return vmcerr.IsFatal(err) }
