package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartreach/agent/internal/model"
)

func newReply(email, subject string) model.Reply {
	return model.Reply{
		FromEmail: email,
		Subject:   subject,
		Body:      "body",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		MessageID: "<" + email + "-msg@example.com>",
	}
}

func TestReplyStore_LoadMissingFile(t *testing.T) {
	s := NewReplyStore(filepath.Join(t.TempDir(), "replies.json"))

	replies, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, replies)
}

func TestReplyStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewReplyStore(path)

	replies, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, replies)
}

func TestReplyStore_AppendAndLoad(t *testing.T) {
	s := NewReplyStore(filepath.Join(t.TempDir(), "replies.json"))

	require.NoError(t, s.Append([]model.Reply{newReply("a@example.com", "Re: Offer")}))
	require.NoError(t, s.Append([]model.Reply{newReply("b@example.com", "Re: Question")}))

	replies, err := s.Load()
	require.NoError(t, err)
	require.Len(t, replies, 2)
	require.Equal(t, "a@example.com", replies[0].FromEmail)
	require.Equal(t, "b@example.com", replies[1].FromEmail)
}

func TestReplyStore_ReplaceRewritesQueue(t *testing.T) {
	s := NewReplyStore(filepath.Join(t.TempDir(), "replies.json"))

	require.NoError(t, s.Append([]model.Reply{
		newReply("a@example.com", "Re: Offer"),
		newReply("b@example.com", "Re: Question"),
	}))

	require.NoError(t, s.Replace([]model.Reply{newReply("b@example.com", "Re: Question")}))

	replies, err := s.Load()
	require.NoError(t, err)
	require.Len(t, replies, 1)
	require.Equal(t, "b@example.com", replies[0].FromEmail)
}

func TestReplyStore_ReplaceNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.json")
	s := NewReplyStore(path)

	require.NoError(t, s.Append([]model.Reply{newReply("a@example.com", "Re: Offer")}))
	require.NoError(t, s.Replace(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(data))
}
