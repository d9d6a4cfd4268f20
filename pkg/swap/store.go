package swap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	DefaultStoreFileName = ".crosschain-swap-txs.json"

	// pendingKey is the well-known resumption key for the one pending
	// redirect-based-signing transaction. Overwritten per attempt; the
	// resuming process reconciles and clears it.
	pendingKey = "pending-redirect"
)

// Store persists transaction records in a local JSON file: one record per
// deposit id plus the single pending-redirect slot.
type Store struct {
	filePath string
	mu       sync.RWMutex
	records  map[string]*NormalizedTxResponse
}

type storeFile struct {
	Records map[string]*NormalizedTxResponse `json:"records"`
}

// NewStore opens (or lazily creates) the store at filePath, defaulting to
// DefaultStoreFileName in the home directory.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStoreFileName)
	}

	store := &Store{
		filePath: filePath,
		records:  make(map[string]*NormalizedTxResponse),
	}

	if err := store.load(); err != nil {
		// Missing file is fine; it is created on first save.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load transaction records: %w", err)
		}
	}

	return store, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}

	s.records = f.Records
	if s.records == nil {
		s.records = make(map[string]*NormalizedTxResponse)
	}

	return nil
}

// save writes the record map to disk. Caller must hold at least a read
// lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(storeFile{Records: s.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to a temporary file first, then rename for atomic write
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Put stores a transaction record keyed by its deposit id.
func (s *Store) Put(tx *NormalizedTxResponse) error {
	if tx == nil || tx.ID == "" {
		return fmt.Errorf("transaction record has no deposit id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[tx.ID] = tx
	return s.save()
}

// Get returns the record for a deposit id.
func (s *Store) Get(depositID string) (*NormalizedTxResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.records[depositID]
	return tx, ok
}

// List returns all stored records, pending slot excluded.
func (s *Store) List() []*NormalizedTxResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*NormalizedTxResponse, 0, len(s.records))
	for key, tx := range s.records {
		if key == pendingKey {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// SavePending overwrites the pending-redirect slot. Written before
// control is handed to a redirect-based signer.
func (s *Store) SavePending(tx *NormalizedTxResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[pendingKey] = tx
	return s.save()
}

// Pending returns the pending-redirect record, if any.
func (s *Store) Pending() (*NormalizedTxResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.records[pendingKey]
	return tx, ok
}

// ClearPending removes the pending-redirect record once the resuming
// process has reconciled it.
func (s *Store) ClearPending() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[pendingKey]; !ok {
		return nil
	}
	delete(s.records, pendingKey)
	return s.save()
}
