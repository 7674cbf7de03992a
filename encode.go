package savings

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// This file contains functions to handle the stored and import/export
// formats. Both should remain human readable and easy to inspect.

// DecodeGoals parses and strictly validates a stored goal collection. The
// collection is accepted or rejected as a whole; a single invalid entry
// yields ErrCorruptData and nothing is loaded.
func DecodeGoals(data []byte) ([]Goal, error) {
	var goals []Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if err := ValidateGoals(goals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return goals, nil
}

// Backup is the transportable snapshot of the whole tracker state.
type Backup struct {
	Goals     []Goal
	Rates     ExchangeRates
	Timestamp time.Time
	Version   int
}

func (b Backup) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("version", b.Version)
	w.Append("timestamp", b.Timestamp.Format(time.RFC3339))
	w.Append("rates", b.Rates)
	goals := b.Goals
	if goals == nil {
		goals = []Goal{}
	}
	w.Append("goals", goals)
	return w.MarshalJSON()
}

// ExportBackup serializes the ledger state to 'w' as a single indented JSON
// object holding the goals, the rates, a timestamp and the schema version.
func ExportBackup(w io.Writer, l *Ledger) error {
	backup := Backup{
		Goals:     l.Goals(),
		Rates:     l.Rates(),
		Timestamp: time.Now(),
		Version:   SchemaVersion,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode backup: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// DecodeBackup parses a backup payload and strictly validates it. The whole
// payload is rejected when any goal fails validation or the schema version
// is unknown; a rejected import leaves existing state untouched.
func DecodeBackup(r io.Reader) (Backup, error) {
	// the readable version of the format can be summarized by a local type.
	var jbackup struct {
		Version   int             `json:"version"`
		Timestamp string          `json:"timestamp"`
		Rates     *ExchangeRates  `json:"rates"`
		Goals     json.RawMessage `json:"goals"`
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Backup{}, err
	}
	if err := json.Unmarshal(data, &jbackup); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if jbackup.Version != SchemaVersion {
		return Backup{}, fmt.Errorf("%w: unsupported backup version %d", ErrCorruptData, jbackup.Version)
	}
	if len(jbackup.Goals) == 0 {
		return Backup{}, fmt.Errorf("%w: missing goals", ErrCorruptData)
	}
	goals, err := DecodeGoals(jbackup.Goals)
	if err != nil {
		return Backup{}, err
	}
	backup := Backup{Goals: goals, Version: jbackup.Version}
	if jbackup.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, jbackup.Timestamp); err == nil {
			backup.Timestamp = ts
		}
	}
	if jbackup.Rates != nil && jbackup.Rates.Valid() {
		backup.Rates = *jbackup.Rates
	}
	return backup, nil
}

// ImportBackup replaces the ledger's goals wholesale with the backup's, and
// its rates too when the backup carries a usable record. The ledger is only
// touched after the payload fully validated.
func (l *Ledger) ImportBackup(r io.Reader) error {
	backup, err := DecodeBackup(r)
	if err != nil {
		return err
	}
	l.SetGoals(backup.Goals)
	if backup.Rates.Valid() {
		l.SetRates(backup.Rates)
	}
	return nil
}
