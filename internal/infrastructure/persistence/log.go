// Package persistence implements the flat-file and optional SQL-backed
// durable state spec §6 describes: an incrementally appended iteration
// log (`<base>.log`), a round-trippable parameter checkpoint
// (`<base>.wf`), an optional bcrypt-protected passphrase on that
// checkpoint, and an optional run registry mirroring the teacher's
// sqlite/Postgres memory-backend duality.
package persistence

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/alexandercbooth/netket/internal/domain/learning"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// LogRecord is the on-disk shape of one `<base>.log` line: exactly the
// fields spec §6 requires, plus the observable map it already carries.
type LogRecord struct {
	Iteration      int                `json:"iteration"`
	EnergyMean     float64            `json:"energy_mean"`
	EnergyVariance float64            `json:"energy_variance"`
	Acceptance     float64            `json:"acceptance"`
	Observables    map[string]float64 `json:"observables,omitempty"`
	Degenerate     bool               `json:"degenerate,omitempty"`
}

// LogWriter appends IterationStats to `<base>.log` as newline-delimited
// JSON, one record per call, flushing after every write so a crash mid
// run loses at most the record in flight.
type LogWriter struct {
	f *os.File
	w *bufio.Writer
}

// OpenLogWriter opens (creating or appending to) the log file at path.
func OpenLogWriter(path string) (*LogWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, vmcerr.New(vmcerr.IO, "persistence.OpenLogWriter", err)
	}
	return &LogWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one IterationStats record and flushes it to disk.
func (lw *LogWriter) Append(s learning.IterationStats) error {
	rec := LogRecord{
		Iteration:      s.Iteration,
		EnergyMean:     s.EnergyMean,
		EnergyVariance: s.EnergyVariance,
		Acceptance:     s.Acceptance,
		Observables:    s.Observables,
		Degenerate:     s.Degenerate,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return vmcerr.New(vmcerr.IO, "persistence.LogWriter.Append", err)
	}
	if _, err := lw.w.Write(data); err != nil {
		return vmcerr.New(vmcerr.IO, "persistence.LogWriter.Append", err)
	}
	if err := lw.w.WriteByte('\n'); err != nil {
		return vmcerr.New(vmcerr.IO, "persistence.LogWriter.Append", err)
	}
	return lw.w.Flush()
}

// Close closes the underlying file.
func (lw *LogWriter) Close() error {
	return lw.f.Close()
}

// ReadLog reads every record of a `<base>.log` file in order, for
// resuming a run or inspecting its history.
func ReadLog(path string) ([]LogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vmcerr.New(vmcerr.IO, "persistence.ReadLog", err)
	}
	defer f.Close()

	var records []LogRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec LogRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, vmcerr.New(vmcerr.IO, "persistence.ReadLog", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, vmcerr.New(vmcerr.IO, "persistence.ReadLog", err)
	}
	return records, nil
}
