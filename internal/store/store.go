// Package store persists EPD regression history in a badger-backed
// key-value database, repurposing the teacher's badger-JSON storage
// pattern (hailam-chessplay's internal/storage/storage.go) from user
// preferences/stats to `run_test` pass/fail history keyed by EPD id.
package store

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Record is one EPD test case's most recent run outcome.
type Record struct {
	ID      string    `json:"id"`
	Passed  bool      `json:"passed"`
	Move    string    `json:"move"`
	LastRun time.Time `json:"last_run"`
}

// Store wraps a badger database of EPD regression records.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a badger database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRecord upserts the most recent outcome for an EPD id.
func (s *Store) SaveRecord(r Record) error {
	r.LastRun = time.Now()
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(r.ID), data)
	})
}

// LoadRecord returns the previous outcome for id, or (Record{}, false) if
// none exists.
func (s *Store) LoadRecord(id string) (Record, bool, error) {
	var rec Record
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, found, err
}

// Regressed reports whether id's prior run passed but the current outcome
// fails — the diagnostic `run_test` surfaces per-case.
func (s *Store) Regressed(id string, currentlyPassed bool) (bool, error) {
	prev, found, err := s.LoadRecord(id)
	if err != nil || !found {
		return false, err
	}
	return prev.Passed && !currentlyPassed, nil
}
