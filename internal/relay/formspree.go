package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultFormspreeEndpoint is the Formspree submission base URL.
const DefaultFormspreeEndpoint = "https://formspree.io/f"

// Formspree posts submissions to a Formspree form.
type Formspree struct {
	target string
	client *http.Client
}

// NewFormspree creates a relay for the form formID under endpoint.
func NewFormspree(endpoint, formID string, client *http.Client) *Formspree {
	if endpoint == "" {
		endpoint = DefaultFormspreeEndpoint
	}
	return &Formspree{
		target: strings.TrimRight(endpoint, "/") + "/" + url.PathEscape(formID),
		client: client,
	}
}

// Name identifies the relay in logs and /health.
func (f *Formspree) Name() string { return "formspree" }

// SubmitServiceRequest posts the raw form fields unchanged.
func (f *Formspree) SubmitServiceRequest(ctx context.Context, fields url.Values) error {
	return post(ctx, f.client, f.target, "application/x-www-form-urlencoded",
		strings.NewReader(fields.Encode()), decodeMessage)
}

// SubmitOrder posts the order as JSON.
func (f *Formspree) SubmitOrder(ctx context.Context, msg OrderMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode order message: %w", err)
	}
	return post(ctx, f.client, f.target, "application/json", bytes.NewReader(body), decodeMessage)
}
