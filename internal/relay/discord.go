package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Discord rejects message content longer than this.
const discordContentLimit = 2000

// Discord posts submissions as chat messages to a webhook.
type Discord struct {
	webhookURL string
	client     *http.Client
}

// NewDiscord creates a webhook relay.
func NewDiscord(webhookURL string, client *http.Client) *Discord {
	return &Discord{webhookURL: webhookURL, client: client}
}

// Name identifies the relay in logs and /health.
func (d *Discord) Name() string { return "discord" }

type discordPayload struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

// SubmitServiceRequest formats the raw fields into one message.
func (d *Discord) SubmitServiceRequest(ctx context.Context, fields url.Values) error {
	return d.send(ctx, ServiceRequestText(fields))
}

// SubmitOrder sends the preformatted order message.
func (d *Discord) SubmitOrder(ctx context.Context, msg OrderMessage) error {
	return d.send(ctx, msg.Message)
}

func (d *Discord) send(ctx context.Context, content string) error {
	body, err := json.Marshal(discordPayload{
		Content:  Truncate(content, discordContentLimit),
		Username: "Courier Orders",
	})
	if err != nil {
		return fmt.Errorf("encode discord payload: %w", err)
	}
	return post(ctx, d.client, d.webhookURL, "application/json", bytes.NewReader(body), decodeMessage)
}
