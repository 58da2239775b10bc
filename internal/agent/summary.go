package agent

import (
	"context"
	"fmt"

	"github.com/smartreach/agent/internal/model"
)

// ActivitySource aggregates campaign counters from the campaign store.
type ActivitySource interface {
	CampaignTotals(ctx context.Context) (campaigns, sent int, err error)
}

// ConversationCounter counts recorded AI responses.
type ConversationCounter interface {
	CountAiResponses() (int, error)
}

// Reporter assembles the dashboard summary.
type Reporter struct {
	activity      ActivitySource
	queue         ReplyQueue
	conversations ConversationCounter
}

func NewReporter(activity ActivitySource, queue ReplyQueue, conversations ConversationCounter) *Reporter {
	return &Reporter{
		activity:      activity,
		queue:         queue,
		conversations: conversations,
	}
}

func (r *Reporter) Summary(ctx context.Context) (model.Summary, error) {
	var summary model.Summary

	campaigns, sent, err := r.activity.CampaignTotals(ctx)
	if err != nil {
		return summary, fmt.Errorf("loading campaign totals: %w", err)
	}
	summary.TotalCampaigns = campaigns
	summary.EmailsSent = sent

	pending, err := r.queue.Load()
	if err != nil {
		return summary, fmt.Errorf("loading pending replies: %w", err)
	}
	summary.PendingReplies = len(pending)

	responses, err := r.conversations.CountAiResponses()
	if err != nil {
		return summary, fmt.Errorf("counting AI responses: %w", err)
	}
	summary.AiResponses = responses

	return summary, nil
}
