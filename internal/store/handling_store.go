package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smartreach/agent/internal/model"
)

// HandlingStore is the monotonic manual-handling suppression log: one
// JSON record per line, append-only, never compacted. Whether a
// recipient is suppressed depends only on the query-time window.
type HandlingStore struct {
	path string
	now  func() time.Time
}

// NewHandlingStore creates a handling store backed by the given file
// path.
func NewHandlingStore(path string) *HandlingStore {
	return &HandlingStore{path: path, now: time.Now}
}

// MarkHandled appends a manual-handling event for the recipient. Prior
// events are never deduplicated or removed.
func (s *HandlingStore) MarkHandled(email string) error {
	event := model.HandlingEvent{
		Timestamp:      s.now().UTC(),
		RecipientEmail: email,
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding handling event: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening handling log %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending handling event: %w", err)
	}
	return nil
}

// WasRecentlyHandled reports whether the recipient has a handling event
// inside the trailing window. The check fails open: a missing or
// corrupt log never blocks automated processing.
func (s *HandlingStore) WasRecentlyHandled(email string, window time.Duration) bool {
	f, err := os.Open(s.path)
	if err != nil {
		return false
	}
	defer f.Close()

	var latest time.Time
	found := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var event model.HandlingEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		if event.RecipientEmail != email {
			continue
		}
		if !found || event.Timestamp.After(latest) {
			latest = event.Timestamp
			found = true
		}
	}
	if scanner.Err() != nil || !found {
		return false
	}

	cutoff := s.now().Add(-window)
	return latest.After(cutoff)
}
