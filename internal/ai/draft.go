package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/smartreach/agent/internal/model"
)

// needsHumanMarker is the sentinel some models embed in the response
// text instead of setting the needs_human field.
const needsHumanMarker = "NEEDS_HUMAN_INTERVENTION"

// draftPayload is the JSON contract the model is instructed to return.
type draftPayload struct {
	Response   string `json:"response"`
	NeedsHuman bool   `json:"needs_human"`
	Reason     string `json:"reason"`
}

// Draft asks the model for a customer response. Malformed model output
// is signalled as an escalation with the parse problem as the reason,
// never as an error; errors are reserved for transport-level failures.
func (c *Client) Draft(
	ctx context.Context, req model.DraftRequest,
) (model.Draft, error) {
	raw, err := c.chat(ctx, buildDraftMessages(req), draftResponseFormat())
	if err != nil {
		return model.Draft{}, err
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return model.Draft{
			NeedsHuman: true,
			Reason:     "malformed generator output: " + err.Error(),
		}, nil
	}

	// Some models put the marker in the response text regardless of
	// the needs_human field.
	if idx := strings.Index(payload.Response, needsHumanMarker); idx >= 0 {
		reason := strings.TrimSpace(strings.TrimPrefix(
			payload.Response[idx+len(needsHumanMarker):], ":",
		))
		if reason == "" {
			reason = "model requested human review"
		}
		return model.Draft{NeedsHuman: true, Reason: reason}, nil
	}

	if payload.NeedsHuman {
		reason := strings.TrimSpace(payload.Reason)
		if reason == "" {
			reason = "Complex query"
		}
		return model.Draft{NeedsHuman: true, Reason: reason}, nil
	}

	if strings.TrimSpace(payload.Response) == "" {
		return model.Draft{
			NeedsHuman: true,
			Reason:     "empty generator output",
		}, nil
	}

	return model.Draft{Response: payload.Response}, nil
}

func draftResponseFormat() *responseFormat {
	return &responseFormat{
		Type: "json_schema",
		JSONSchema: jsonSchemaConfig{
			Name:   "customer_response",
			Strict: true,
			Schema: json.RawMessage(`{
				"type":"object",
				"additionalProperties":false,
				"properties":{
					"response":{"type":"string"},
					"needs_human":{"type":"boolean"},
					"reason":{"type":"string"}
				},
				"required":["response","needs_human","reason"]
			}`),
		},
	}
}
