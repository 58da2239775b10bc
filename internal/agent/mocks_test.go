package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smartreach/agent/internal/ai"
	"github.com/smartreach/agent/internal/mail"
	"github.com/smartreach/agent/internal/model"
)

type fakeQueue struct {
	replies      []model.Reply
	loadErr      error
	appendErr    error
	replaced     []model.Reply
	replaceCalls int
}

func (q *fakeQueue) Load() ([]model.Reply, error) {
	if q.loadErr != nil {
		return nil, q.loadErr
	}
	return q.replies, nil
}

func (q *fakeQueue) Append(replies []model.Reply) error {
	if q.appendErr != nil {
		return q.appendErr
	}
	q.replies = append(q.replies, replies...)
	return nil
}

func (q *fakeQueue) Replace(replies []model.Reply) error {
	q.replaceCalls++
	q.replaced = replies
	return nil
}

type fakeHandling struct {
	suppressed map[string]bool
	marked     []string
}

func (h *fakeHandling) MarkHandled(email string) error {
	h.marked = append(h.marked, email)
	return nil
}

func (h *fakeHandling) WasRecentlyHandled(email string, _ time.Duration) bool {
	return h.suppressed[email]
}

type fakeConversations struct {
	entries   []model.ConversationEntry
	history   string
	appendErr error
}

func (c *fakeConversations) Append(entry model.ConversationEntry) error {
	if c.appendErr != nil {
		return c.appendErr
	}
	c.entries = append(c.entries, entry)
	return nil
}

func (c *fakeConversations) RecentHistory(string, int) string {
	if c.history == "" {
		return "No previous conversation history."
	}
	return c.history
}

type fakeProducts struct {
	campaign *model.Campaign
	err      error
}

func (p *fakeProducts) LatestCampaign(context.Context) (*model.Campaign, error) {
	return p.campaign, p.err
}

type fakeStatus struct {
	lines []string
}

func (s *fakeStatus) Record(status, email, detail string) {
	s.lines = append(s.lines, fmt.Sprintf("%s %s %s", status, email, detail))
}

func (s *fakeStatus) has(status, email string) bool {
	for _, line := range s.lines {
		if strings.HasPrefix(line, status+" "+email) {
			return true
		}
	}
	return false
}

type sentMessage struct {
	to        string
	subject   string
	body      string
	inReplyTo string
	fromName  string
}

type fakeTransport struct {
	inbound  []mail.Inbound
	fetchErr error

	seen        []uint32
	markSeenErr error

	replies  []sentMessage
	replyErr error

	notifications []sentMessage
	notifyErr     error

	campaignSends []sentMessage
	campaignErr   error

	fetchCalls int
}

func (t *fakeTransport) FetchUnseenFrom(_ context.Context, _ []string) ([]mail.Inbound, error) {
	t.fetchCalls++
	if t.fetchErr != nil {
		return nil, t.fetchErr
	}
	return t.inbound, nil
}

func (t *fakeTransport) MarkSeen(_ context.Context, uid uint32) error {
	if t.markSeenErr != nil {
		return t.markSeenErr
	}
	t.seen = append(t.seen, uid)
	return nil
}

func (t *fakeTransport) SendReply(_ context.Context, to, subject, htmlBody, inReplyTo string) error {
	if t.replyErr != nil {
		return t.replyErr
	}
	t.replies = append(t.replies, sentMessage{
		to: to, subject: subject, body: htmlBody, inReplyTo: inReplyTo,
	})
	return nil
}

func (t *fakeTransport) SendNotification(_ context.Context, subject, htmlBody string) error {
	if t.notifyErr != nil {
		return t.notifyErr
	}
	t.notifications = append(t.notifications, sentMessage{subject: subject, body: htmlBody})
	return nil
}

func (t *fakeTransport) SendCampaign(_ context.Context, fromName, to, subject, htmlBody string) error {
	if t.campaignErr != nil {
		return t.campaignErr
	}
	t.campaignSends = append(t.campaignSends, sentMessage{
		fromName: fromName, to: to, subject: subject, body: htmlBody,
	})
	return nil
}

type fakeGenerator struct {
	draft model.Draft
	err   error
	calls int
	last  model.DraftRequest
}

func (g *fakeGenerator) Draft(_ context.Context, req model.DraftRequest) (model.Draft, error) {
	g.calls++
	g.last = req
	if g.err != nil {
		return model.Draft{}, g.err
	}
	return g.draft, nil
}

type fakeLedger struct {
	records   []model.SendRecord
	sent      map[string]bool
	sentErr   error
	appendErr error
}

func (l *fakeLedger) Append(record model.SendRecord) error {
	if l.appendErr != nil {
		return l.appendErr
	}
	l.records = append(l.records, record)
	return nil
}

func (l *fakeLedger) SentAddresses() (map[string]bool, error) {
	if l.sentErr != nil {
		return nil, l.sentErr
	}
	if l.sent == nil {
		return map[string]bool{}, nil
	}
	return l.sent, nil
}

type fakeCampaigns struct {
	created    []*model.Campaign
	createErr  error
	statsByID  map[string]model.CampaignStats
	updateErr  error
	nextNumber int
}

func (c *fakeCampaigns) CreateCampaign(_ context.Context, campaign *model.Campaign) error {
	if c.createErr != nil {
		return c.createErr
	}
	c.nextNumber++
	campaign.ID = fmt.Sprintf("campaign-%d", c.nextNumber)
	campaign.StartedAt = time.Now().UTC()
	c.created = append(c.created, campaign)
	return nil
}

func (c *fakeCampaigns) UpdateCampaignStats(_ context.Context, id string, stats model.CampaignStats) error {
	if c.updateErr != nil {
		return c.updateErr
	}
	if c.statsByID == nil {
		c.statsByID = map[string]model.CampaignStats{}
	}
	c.statsByID[id] = stats
	return nil
}

type fakeComposer struct {
	err   error
	calls int
}

func (c *fakeComposer) ComposeCampaign(
	_ context.Context,
	recipientName, offer, _, _ string,
) (ai.CampaignEmail, error) {
	c.calls++
	if c.err != nil {
		return ai.CampaignEmail{}, c.err
	}
	return ai.CampaignEmail{
		Subject: "An offer for " + recipientName,
		Body:    "Hi " + recipientName + ", " + offer,
	}, nil
}
