package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/smartreach/agent/internal/model"
)

// LedgerStore is the append-only send ledger: one JSON record per line
// for every campaign send attempt. The set of contacted addresses is a
// derived, read-only view recomputed on each discovery run.
type LedgerStore struct {
	path string
}

// NewLedgerStore creates a ledger store backed by the given file path.
func NewLedgerStore(path string) *LedgerStore {
	return &LedgerStore{path: path}
}

// Append records one send attempt.
func (s *LedgerStore) Append(record model.SendRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding send record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening send ledger %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending send record: %w", err)
	}
	return nil
}

// SentAddresses derives the set of lower-cased addresses with at least
// one successful send. The derivation is best-effort: malformed lines
// are skipped and a missing ledger yields an empty set.
func (s *LedgerStore) SentAddresses() (map[string]bool, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening send ledger %s: %w", s.path, err)
	}
	defer f.Close()

	addresses := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record model.SendRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue
		}
		if record.Status != model.SendStatusSent || record.Email == "" {
			continue
		}
		addresses[strings.ToLower(record.Email)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning send ledger %s: %w", s.path, err)
	}

	return addresses, nil
}
