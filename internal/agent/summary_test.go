package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartreach/agent/internal/model"
)

type fakeActivity struct {
	campaigns int
	sent      int
	err       error
}

func (a *fakeActivity) CampaignTotals(context.Context) (int, int, error) {
	return a.campaigns, a.sent, a.err
}

type fakeCounter struct {
	count int
	err   error
}

func (c *fakeCounter) CountAiResponses() (int, error) {
	return c.count, c.err
}

func TestReporter_Summary(t *testing.T) {
	queue := &fakeQueue{replies: []model.Reply{
		pendingReply("a@example.com"),
		pendingReply("b@example.com"),
	}}
	r := NewReporter(&fakeActivity{campaigns: 3, sent: 42}, queue, &fakeCounter{count: 7})

	summary, err := r.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.Summary{
		TotalCampaigns: 3,
		EmailsSent:     42,
		PendingReplies: 2,
		AiResponses:    7,
	}, summary)
}

func TestReporter_SummaryPropagatesErrors(t *testing.T) {
	r := NewReporter(&fakeActivity{err: errors.New("db locked")}, &fakeQueue{}, &fakeCounter{})

	_, err := r.Summary(context.Background())
	require.Error(t, err)
}
