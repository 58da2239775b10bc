package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// CampaignEmail is a generated marketing email.
type CampaignEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ComposeCampaign generates a personalized marketing email for one
// recipient. Unlike Draft, a malformed model response here is an error:
// the launcher skips the recipient and counts a generation failure
// instead of sending garbage.
func (c *Client) ComposeCampaign(
	ctx context.Context,
	recipientName, offer, description, senderName string,
) (CampaignEmail, error) {
	raw, err := c.chat(
		ctx,
		buildCampaignMessages(recipientName, offer, description, senderName),
		campaignResponseFormat(),
	)
	if err != nil {
		return CampaignEmail{}, err
	}

	var email CampaignEmail
	if err := json.Unmarshal([]byte(stripFences(raw)), &email); err != nil {
		return CampaignEmail{}, fmt.Errorf(
			"ai: malformed campaign email output: %w", err,
		)
	}
	if strings.TrimSpace(email.Subject) == "" ||
		strings.TrimSpace(email.Body) == "" {
		return CampaignEmail{}, fmt.Errorf(
			"ai: campaign email output missing subject or body",
		)
	}

	return email, nil
}

func campaignResponseFormat() *responseFormat {
	return &responseFormat{
		Type: "json_schema",
		JSONSchema: jsonSchemaConfig{
			Name:   "campaign_email",
			Strict: true,
			Schema: json.RawMessage(`{
				"type":"object",
				"additionalProperties":false,
				"properties":{
					"subject":{"type":"string"},
					"body":{"type":"string"}
				},
				"required":["subject","body"]
			}`),
		},
	}
}
