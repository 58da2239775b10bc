package ai

import (
	"fmt"
	"strings"

	"github.com/smartreach/agent/internal/model"
)

// buildDraftMessages assembles the prompt for a customer response. The
// sender name, history, and product context all arrive as explicit
// request fields.
func buildDraftMessages(req model.DraftRequest) []chatMessage {
	system := strings.Join([]string{
		"You are a professional customer service assistant replying to",
		"an email campaign recipient.",
		"",
		"PRODUCT/SERVICE INFO:",
		"Offer: " + req.Offer,
		"Description: " + req.Description,
		"",
		"CONVERSATION HISTORY:",
		req.History,
		"",
		"RULES:",
		"1. If the customer's question can be answered from the product",
		"   info and history above, answer it clearly and concisely.",
		"2. Do not offer multiple-choice options like Yes, No, Maybe.",
		"3. If required details are missing or the request needs a",
		"   person, set needs_human to true and state the reason.",
		"4. Respond as JSON with 'response', 'needs_human', and",
		"   'reason' fields.",
	}, "\n")

	user := fmt.Sprintf(
		"Customer %s asked: %q", req.SenderName, req.Message,
	)

	return []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

// buildCampaignMessages assembles the prompt for a marketing email.
func buildCampaignMessages(
	recipientName, offer, description, senderName string,
) []chatMessage {
	system := strings.Join([]string{
		"You are a professional email marketing assistant crafting",
		"personalized outreach emails.",
		"",
		"Additional product details:",
		description,
		"",
		"Requirements:",
		"- Address the recipient by name.",
		"- Explain the offer clearly and persuasively.",
		"- Subject line should be catchy and short.",
		"- Body must be valid HTML, concise, with no buttons.",
		"- End with 'Best regards' and the sender name " + senderName + ".",
		"",
		"Respond as JSON with 'subject' and 'body' fields.",
	}, "\n")

	user := fmt.Sprintf(
		"Create a marketing email for %s about: %s",
		recipientName, offer,
	)

	return []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}
