// Package relay forwards submissions to the third-party service that notifies
// the operator: a Formspree form or a Discord webhook.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GenericFailure is shown when the relay gives no usable message.
const GenericFailure = "Submission failed. Please try again or reach us on Discord."

const maxErrorBody = 64 << 10

// ErrNotConfigured is returned by Disabled. No relay endpoint is set.
var ErrNotConfigured = errors.New("relay not configured")

// Error is a failed submission. Message is safe to show to the customer.
type Error struct {
	Status  int
	Message string
	Err     error
}

// Error describes the failure for logs. Use Message for customers.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("relay responded %d: %s", e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("relay request failed: %v", e.Err)
	}
	return "relay request failed: " + e.Message
}

// Unwrap returns the transport error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Relay delivers submissions. Implementations never retry.
type Relay interface {
	Name() string
	SubmitServiceRequest(ctx context.Context, fields url.Values) error
	SubmitOrder(ctx context.Context, msg OrderMessage) error
}

// Config selects and configures the relay.
type Config struct {
	FormID     string
	Endpoint   string
	WebhookURL string
	Timeout    time.Duration
}

// New picks the relay from cfg. A form id wins over a webhook URL; with
// neither set every submission fails with ErrNotConfigured.
func New(cfg Config, logger *slog.Logger) Relay {
	client := &http.Client{Timeout: cfg.Timeout}

	switch {
	case cfg.FormID != "":
		if cfg.WebhookURL != "" {
			logger.Info("both relay form id and webhook url are set, using the form relay")
		}
		return NewFormspree(cfg.Endpoint, cfg.FormID, client)
	case cfg.WebhookURL != "":
		logger.Warn("using discord webhook relay, prefer FORMSPREE_FORM_ID so the webhook secret is not deployed with the site")
		return NewDiscord(cfg.WebhookURL, client)
	default:
		logger.Warn("no relay configured, submissions will be rejected")
		return Disabled{}
	}
}

// Disabled rejects every submission.
type Disabled struct{}

// Name identifies the relay in logs and /health.
func (Disabled) Name() string { return "disabled" }

// SubmitServiceRequest always fails with ErrNotConfigured.
func (Disabled) SubmitServiceRequest(context.Context, url.Values) error { return ErrNotConfigured }

// SubmitOrder always fails with ErrNotConfigured.
func (Disabled) SubmitOrder(context.Context, OrderMessage) error { return ErrNotConfigured }

// post sends one request and turns any failure into an *Error. extract pulls
// a human-readable message out of an error body.
func post(ctx context.Context, client *http.Client, target, contentType string, body io.Reader, extract func([]byte) string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return fmt.Errorf("create relay request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &Error{Message: GenericFailure, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg := ""
	if b, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil && len(b) > 0 {
		msg = strings.TrimSpace(extract(b))
	}
	if msg == "" {
		msg = GenericFailure
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

// decodeMessage reads the common {"error": "..."}, {"message": "..."} and
// {"errors": [{"message": "..."}]} error shapes.
func decodeMessage(b []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return ""
	}

	if len(body.Errors) > 0 {
		parts := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			if e.Message == "" {
				continue
			}
			if e.Field != "" {
				parts = append(parts, e.Field+": "+e.Message)
			} else {
				parts = append(parts, e.Message)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
