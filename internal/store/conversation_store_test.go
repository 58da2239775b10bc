package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartreach/agent/internal/model"
)

func conversationEntry(email, message string, response *string) model.ConversationEntry {
	return model.ConversationEntry{
		Timestamp:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		RecipientEmail:  email,
		RecipientName:   "Cust",
		CustomerMessage: message,
		AiResponse:      response,
		NeedsHuman:      response == nil,
	}
}

func strPtr(s string) *string { return &s }

func TestConversationStore_RecentHistoryNoEntries(t *testing.T) {
	s := NewConversationStore(filepath.Join(t.TempDir(), "conversation_log.json"))

	require.Equal(t, NoHistory, s.RecentHistory("cust@example.com", 3))
}

func TestConversationStore_RecentHistoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversation_log.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s := NewConversationStore(path)
	require.Equal(t, NoHistory, s.RecentHistory("cust@example.com", 3))
}

func TestConversationStore_RecentHistoryLastThree(t *testing.T) {
	s := NewConversationStore(filepath.Join(t.TempDir(), "conversation_log.json"))

	for i := 1; i <= 5; i++ {
		entry := conversationEntry(
			"cust@example.com",
			fmt.Sprintf("question %d", i),
			strPtr(fmt.Sprintf("answer %d", i)),
		)
		require.NoError(t, s.Append(entry))
	}
	// Another recipient's entries never leak into the transcript.
	require.NoError(t, s.Append(conversationEntry("other@example.com", "hi", strPtr("hello"))))

	got := s.RecentHistory("cust@example.com", 3)
	want := "Previous: question 3 | Response: answer 3\n" +
		"Previous: question 4 | Response: answer 4\n" +
		"Previous: question 5 | Response: answer 5"
	require.Equal(t, want, got)
}

func TestConversationStore_RecentHistoryEscalatedEntry(t *testing.T) {
	s := NewConversationStore(filepath.Join(t.TempDir(), "conversation_log.json"))

	require.NoError(t, s.Append(conversationEntry("cust@example.com", "refund me now", nil)))

	got := s.RecentHistory("cust@example.com", 3)
	require.Equal(t, "Previous: refund me now | Response: ", got)
}

func TestConversationStore_CountAiResponses(t *testing.T) {
	s := NewConversationStore(filepath.Join(t.TempDir(), "conversation_log.json"))

	require.NoError(t, s.Append(conversationEntry("a@example.com", "q1", strPtr("a1"))))
	require.NoError(t, s.Append(conversationEntry("b@example.com", "q2", nil)))
	require.NoError(t, s.Append(conversationEntry("a@example.com", "q3", strPtr("a3"))))

	count, err := s.CountAiResponses()
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
