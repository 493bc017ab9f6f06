// Package prefs persists user preferences across sessions in a small JSON
// file, mirroring the client-local storage the web front-end uses.
package prefs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	dErrors "certledger/pkg/domain-errors"
)

// RealLedgerKey is the fixed name under which the ledger-mode flag is stored.
const RealLedgerKey = "realLedgerMode"

// Store reads and writes preferences to a single file. Writes replace the
// whole file; the data set is a handful of keys at most.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a preference store backed by the given file path.
// The file is created on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Bool returns the stored boolean for key, or fallback when the file or the
// key does not exist yet.
func (s *Store) Bool(key string, fallback bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return fallback
	}
	raw, ok := values[key]
	if !ok {
		return fallback
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	return v
}

// SetBool stores a boolean under key, creating the file if needed.
func (s *Store) SetBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode preference")
	}
	values[key] = raw

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode preferences")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return dErrors.Wrap(err, dErrors.CodeIOError, "failed to persist preferences")
	}
	return nil
}

func (s *Store) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeIOError, "failed to read preferences")
	}
	values := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt preference file falls back to defaults rather than
		// blocking startup.
		return map[string]json.RawMessage{}, nil
	}
	return values, nil
}
