// Package main provides the CLI entry point for running a VMC
// optimization from a JSON configuration document.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexandercbooth/netket/internal/infrastructure/comm"
	"github.com/alexandercbooth/netket/internal/infrastructure/config"
	"github.com/alexandercbooth/netket/internal/infrastructure/persistence"
	"github.com/alexandercbooth/netket/internal/shared"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "vmc-run",
	Short:   "Run a variational Monte Carlo optimization",
	Long:    `vmc-run drives a Stochastic Reconfiguration or plain gradient-descent VMC optimization from a JSON configuration document.`,
	Version: version,
}

var (
	runSeed       int64
	runStoreDSN   string
	runStoreDrv   string
	runDebug      bool
	runPassphrase string
)

var runCmd = &cobra.Command{
	Use:   "run <config.json>",
	Short: "Run an optimization from a config document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOptimization(args[0])
	},
}

func runOptimization(path string) error {
	doc, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	run, err := config.Build(doc, comm.NewIdentity())
	if err != nil {
		return fmt.Errorf("building run: %w", err)
	}

	rng := rand.New(rand.NewSource(runSeed))

	if runDebug {
		configs := make([][]float64, 8)
		h := run.Driver.Psi.GetHilbert()
		for i := range configs {
			v := make([]float64, h.Size())
			if err := h.Random(v, rng); err != nil {
				return fmt.Errorf("debug: sampling configuration: %w", err)
			}
			configs[i] = v
		}
		maxDiff := run.Driver.CheckDerivatives(configs, 1e-4)
		fmt.Printf("CheckDerivatives: max |finite-diff - DerLog| = %.3e\n", maxDiff)
	}

	storeDriver, storeDSN := run.RegistryDriver, run.RegistryDsn
	if runStoreDSN != "" {
		storeDriver, storeDSN = runStoreDrv, runStoreDSN
	}
	var store persistence.RunStore
	runID := shared.NewID("run")
	if storeDSN != "" {
		store, err = openStore(storeDriver, storeDSN)
		if err != nil {
			return fmt.Errorf("opening run store: %w", err)
		}
		defer store.Close()
		configJSON, _ := json.Marshal(doc)
		if err := store.RegisterRun(persistence.RunRecord{ID: runID, Config: string(configJSON), Status: "running"}); err != nil {
			return fmt.Errorf("registering run: %w", err)
		}
	}

	var logWriter *persistence.LogWriter
	if run.OutputFile != "" {
		logWriter, err = persistence.OpenLogWriter(fmt.Sprintf("%s.log", run.OutputFile))
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer logWriter.Close()
	}

	for i := 0; i < run.NiterOpt; i++ {
		stat, err := run.Driver.Step(rng)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		stat.Iteration = i
		fmt.Printf("iter %d energy=%.6f var=%.6f acceptance=%.3f degenerate=%v\n",
			stat.Iteration, stat.EnergyMean, stat.EnergyVariance, stat.Acceptance, stat.Degenerate)

		if logWriter != nil {
			if err := logWriter.Append(stat); err != nil {
				return fmt.Errorf("writing output record: %w", err)
			}
		}
		if store != nil {
			if err := store.AppendIteration(runID, stat); err != nil {
				return fmt.Errorf("appending iteration to store: %w", err)
			}
		}
		if run.SaveEvery > 0 && (i+1)%run.SaveEvery == 0 {
			ckPath := fmt.Sprintf("%s.wf", run.OutputFile)
			passphrase := runPassphrase
			if passphrase == "" {
				passphrase = run.Passphrase
			}
			if err := persistence.SaveCheckpoint(ckPath, "RbmSpin", run.Driver.Psi, passphrase); err != nil {
				return fmt.Errorf("saving checkpoint: %w", err)
			}
		}
	}

	if store != nil {
		if err := store.UpdateStatus(runID, "completed"); err != nil {
			return fmt.Errorf("updating run status: %w", err)
		}
	}
	return nil
}

func openStore(driver, dsn string) (persistence.RunStore, error) {
	switch driver {
	case "postgres":
		return persistence.NewPostgresStore(dsn)
	default:
		return persistence.NewSQLiteStore(dsn)
	}
}

func init() {
	runCmd.Flags().Int64VarP(&runSeed, "seed", "s", 1, "RNG seed")
	runCmd.Flags().StringVar(&runStoreDSN, "store-dsn", "", "optional run-registry DSN (sqlite path or Postgres DSN)")
	runCmd.Flags().StringVar(&runStoreDrv, "store-driver", "sqlite", "run-registry driver: sqlite or postgres")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "validate DerLog against a finite-difference check before running")
	runCmd.Flags().StringVar(&runPassphrase, "passphrase", "", "bcrypt-protect saved checkpoints with this passphrase (overrides the config document's Passphrase field)")
	rootCmd.AddCommand(runCmd)
}
