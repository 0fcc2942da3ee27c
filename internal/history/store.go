// Package history persists the append-only upload log. The backing file is a
// single JSON array of records and is fully read and fully rewritten on every
// append. There is no partial-write protection: a crash mid-rewrite can
// corrupt the log. That is a documented limitation of the on-disk format, not
// something this package papers over.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/csv-dashboard/backend/internal/models"
)

// PersistenceError reports a failure to read or write the history file.
type PersistenceError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the append-only upload log. It owns the backing file exclusively;
// no other component writes it.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a history store over the given file path. The file is
// created lazily on first append; an absent file reads as an empty log.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Append adds one record to the end of the log and rewrites the file.
// A malformed existing file fails the append rather than silently truncating
// the log.
func (s *Store) Append(rec models.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readLocked()
	if err != nil {
		return err
	}
	records = append(records, rec)

	data, err := json.Marshal(records)
	if err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	return nil
}

// ReadAll returns every record in insertion order.
func (s *Store) ReadAll() ([]models.UploadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *Store) readLocked() ([]models.UploadRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []models.UploadRecord{}, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read", Err: err}
	}

	var records []models.UploadRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &PersistenceError{Op: "read", Err: err}
	}
	return records, nil
}
