package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Simplici0/diamond-courier/internal/geo"
	"github.com/Simplici0/diamond-courier/internal/metrics"
	"github.com/Simplici0/diamond-courier/internal/pricing"
	"github.com/Simplici0/diamond-courier/internal/relay"
)

// RecoveryFormatError is the field message for malformed recovery coordinates.
const (
	RecoveryFormatError = "Recovery coordinates must look like: 100, 64, -200"
	serviceTypeError    = "Choose a service"
)

// DraftStore clears a client's saved form.
type DraftStore interface {
	ClearDraft(ctx context.Context, clientID string) error
}

// Submission acknowledges a relayed service request. The estimate is
// advisory and is not sent to the relay.
type Submission struct {
	SubmissionID string         `json:"submissionId"`
	Estimate     pricing.Result `json:"estimate"`
}

type requestContact struct {
	Discord string `json:"discordUsername" validate:"required,max=64"`
	IGN     string `json:"ign" validate:"required,max=32"`
}

// RequestService validates and relays service requests.
type RequestService struct {
	relay    relay.Relay
	drafts   DraftStore
	validate *validator.Validate
	log      *slog.Logger
}

// NewRequestService creates a new request service.
func NewRequestService(r relay.Relay, drafts DraftStore, log *slog.Logger) *RequestService {
	return &RequestService{
		relay:    r,
		drafts:   drafts,
		validate: newValidator(),
		log:      log,
	}
}

// Submit forwards the raw form fields to the relay and clears the client's
// draft on success. Only coordinate fields the chosen service requires can
// block submission.
func (s *RequestService) Submit(ctx context.Context, clientID string, fields url.Values) (*Submission, error) {
	f := pricing.FormFields(fields)
	req := f.Request()

	if err := s.check(fields, f, req.ServiceType); err != nil {
		return nil, err
	}

	err := s.relay.SubmitServiceRequest(ctx, fields)
	metrics.ObserveRelay("request", err)
	if err != nil {
		return nil, fmt.Errorf("relay service request: %w", err)
	}

	if clientID != "" {
		if err := s.drafts.ClearDraft(ctx, clientID); err != nil {
			s.log.Warn("failed to clear draft", "client_id", clientID, "error", err)
		}
	}

	sub := &Submission{
		SubmissionID: uuid.New().String(),
		Estimate:     pricing.Estimate(req),
	}
	s.log.Info("service request relayed",
		"submission_id", sub.SubmissionID,
		"service_type", req.ServiceType,
		"relay", s.relay.Name(),
	)
	return sub, nil
}

func (s *RequestService) check(fields url.Values, f pricing.Fields, t pricing.ServiceType) error {
	ve := &ValidationError{}

	contact := requestContact{
		Discord: strings.TrimSpace(fields.Get("discordUsername")),
		IGN:     strings.TrimSpace(fields.Get("ign")),
	}
	if err := check(s.validate, contact, ve); err != nil {
		return err
	}

	if !t.Valid() {
		ve.add("serviceType", serviceTypeError)
		return ve
	}

	switch {
	case t.NeedsRoute():
		requireCoords(ve, "pickupCoords", f.PickupCoords, geo.PickupFormatError)
		requireCoords(ve, "dropoffCoords", f.DropoffCoords, geo.DeliveryFormatError)
	case t == pricing.ServiceRecovery:
		requireCoords(ve, "recoveryCoords", f.RecoveryCoords, RecoveryFormatError)
	}
	return ve.orNil()
}

func requireCoords(ve *ValidationError, field, raw, formatMsg string) {
	if geo.IsBlank(raw) {
		ve.add(field, "This field is required")
		return
	}
	if _, ok := geo.Parse(raw); !ok {
		ve.add(field, formatMsg)
	}
}
