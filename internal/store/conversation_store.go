package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/smartreach/agent/internal/model"
)

// NoHistory is returned when a recipient has no prior conversation.
// The draft generator's prompt depends on this being a well-formed
// phrase, never an empty string.
const NoHistory = "No previous conversation history."

// ConversationStore is the append-only per-recipient conversation log,
// persisted as a whole-file JSON array.
type ConversationStore struct {
	path string
}

// NewConversationStore creates a conversation store backed by the given
// file path.
func NewConversationStore(path string) *ConversationStore {
	return &ConversationStore{path: path}
}

// Entries reads the full log. Missing or malformed content yields an
// empty log.
func (s *ConversationStore) Entries() ([]model.ConversationEntry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading conversation log %s: %w", s.path, err)
	}

	var entries []model.ConversationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("conversation log is malformed, treating as empty",
			"path", s.path, "err", err)
		return nil, nil
	}
	return entries, nil
}

// Append adds one entry to the log.
func (s *ConversationStore) Append(entry model.ConversationEntry) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding conversation log: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing conversation log %s: %w", s.path, err)
	}
	return nil
}

// RecentHistory renders the most recent limit entries for the given
// recipient as a transcript, oldest to newest. The read is resilient:
// any failure yields the no-history sentinel.
func (s *ConversationStore) RecentHistory(email string, limit int) string {
	entries, err := s.Entries()
	if err != nil {
		slog.Warn("reading conversation history", "err", err)
		return NoHistory
	}

	var matched []model.ConversationEntry
	for _, e := range entries {
		if e.RecipientEmail == email {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return NoHistory
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	lines := make([]string, 0, len(matched))
	for _, e := range matched {
		response := ""
		if e.AiResponse != nil {
			response = *e.AiResponse
		}
		lines = append(lines, fmt.Sprintf(
			"Previous: %s | Response: %s", e.CustomerMessage, response,
		))
	}
	return strings.Join(lines, "\n")
}

// CountAiResponses returns the number of entries answered by the draft
// generator, used by the activity summary.
func (s *ConversationStore) CountAiResponses() (int, error) {
	entries, err := s.Entries()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, e := range entries {
		if e.AiResponse != nil && !e.NeedsHuman {
			count++
		}
	}
	return count, nil
}
