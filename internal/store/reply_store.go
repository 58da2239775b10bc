package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smartreach/agent/internal/model"
)

// ReplyStore is the durable pending-reply queue: a whole-file JSON
// array read and overwritten on each pass. Replies enter through
// discovery and leave only once a terminal outcome is confirmed.
type ReplyStore struct {
	path string
}

// NewReplyStore creates a reply store backed by the given file path.
func NewReplyStore(path string) *ReplyStore {
	return &ReplyStore{path: path}
}

// Load reads the pending queue. A missing file or malformed content
// yields an empty queue, never an error to the caller.
func (s *ReplyStore) Load() ([]model.Reply, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading pending replies %s: %w", s.path, err)
	}

	var replies []model.Reply
	if err := json.Unmarshal(data, &replies); err != nil {
		slog.Warn("pending reply store is malformed, treating as empty",
			"path", s.path, "err", err)
		return nil, nil
	}
	return replies, nil
}

// Append merges newly discovered replies onto the existing queue and
// persists the result.
func (s *ReplyStore) Append(replies []model.Reply) error {
	if len(replies) == 0 {
		return nil
	}

	existing, err := s.Load()
	if err != nil {
		return err
	}

	return s.Replace(append(existing, replies...))
}

// Replace overwrites the queue with the given replies.
func (s *ReplyStore) Replace(replies []model.Reply) error {
	if replies == nil {
		replies = []model.Reply{}
	}

	data, err := json.MarshalIndent(replies, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pending replies: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing pending replies %s: %w", s.path, err)
	}
	return nil
}
