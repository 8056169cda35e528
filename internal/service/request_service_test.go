package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/diamond-courier/internal/geo"
	"github.com/Simplici0/diamond-courier/internal/relay"
)

func deliveryForm() url.Values {
	return url.Values{
		"serviceType":     {"delivery"},
		"discordUsername": {"steve#0001"},
		"ign":             {"Steve"},
		"pickupCoords":    {"0, 64, 0"},
		"dropoffCoords":   {"250, 70, 0"},
		"urgency":         {"soon"},
		"dimension":       {"overworld"},
		"paymentOffer":    {"a stack of iron"},
	}
}

func TestRequestService_Submit(t *testing.T) {
	r := &fakeRelay{}
	drafts := &fakeDrafts{}
	svc := NewRequestService(r, drafts, discardLogger)

	form := deliveryForm()
	sub, err := svc.Submit(context.Background(), "client-a", form)
	require.NoError(t, err)

	assert.NotEmpty(t, sub.SubmissionID)
	require.NotNil(t, sub.Estimate.Diamonds)
	assert.Equal(t, 9, *sub.Estimate.Diamonds)

	require.Len(t, r.requests, 1)
	assert.Equal(t, form, r.requests[0], "raw fields are relayed unchanged")
	assert.Equal(t, []string{"client-a"}, drafts.cleared)
}

func TestRequestService_Validation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(url.Values)
		wantFields map[string]string
	}{
		{
			name:       "missing contact",
			mutate:     func(v url.Values) { v.Del("discordUsername"); v.Set("ign", "  ") },
			wantFields: map[string]string{"discordUsername": "This field is required", "ign": "This field is required"},
		},
		{
			name:       "unknown service",
			mutate:     func(v url.Values) { v.Set("serviceType", "teleport") },
			wantFields: map[string]string{"serviceType": serviceTypeError},
		},
		{
			name:       "malformed pickup",
			mutate:     func(v url.Values) { v.Set("pickupCoords", "north of spawn") },
			wantFields: map[string]string{"pickupCoords": geo.PickupFormatError},
		},
		{
			name:       "blank dropoff",
			mutate:     func(v url.Values) { v.Del("dropoffCoords") },
			wantFields: map[string]string{"dropoffCoords": "This field is required"},
		},
		{
			name: "recovery needs recovery coords",
			mutate: func(v url.Values) {
				v.Set("serviceType", "recovery")
				v.Set("recoveryCoords", "1,2")
			},
			wantFields: map[string]string{"recoveryCoords": RecoveryFormatError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRelay{}
			svc := NewRequestService(r, &fakeDrafts{}, discardLogger)

			form := deliveryForm()
			tt.mutate(form)
			_, err := svc.Submit(context.Background(), "client-a", form)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.wantFields, ve.Fields)
			assert.Empty(t, r.requests, "invalid requests must not be relayed")
		})
	}
}

func TestRequestService_TaskIgnoresMalformedOptionalCoords(t *testing.T) {
	r := &fakeRelay{}
	svc := NewRequestService(r, &fakeDrafts{}, discardLogger)

	form := url.Values{
		"serviceType":     {"task"},
		"discordUsername": {"alex"},
		"ign":             {"Alex"},
		"pickupCoords":    {"garbage"},
	}
	sub, err := svc.Submit(context.Background(), "client-a", form)
	require.NoError(t, err)
	require.NotNil(t, sub.Estimate.Diamonds)
	assert.Equal(t, 2, *sub.Estimate.Diamonds, "20 default minutes price as two 10-minute blocks")
}

func TestRequestService_RelayFailureKeepsDraft(t *testing.T) {
	r := &fakeRelay{err: &relay.Error{Status: 422, Message: "spam detected"}}
	drafts := &fakeDrafts{}
	svc := NewRequestService(r, drafts, discardLogger)

	_, err := svc.Submit(context.Background(), "client-a", deliveryForm())

	var relayErr *relay.Error
	require.True(t, errors.As(err, &relayErr))
	assert.Equal(t, "spam detected", relayErr.Message)
	assert.Empty(t, drafts.cleared)
}

func TestRequestService_DraftFailureIsNotFatal(t *testing.T) {
	svc := NewRequestService(&fakeRelay{}, &fakeDrafts{err: errors.New("disk full")}, discardLogger)

	_, err := svc.Submit(context.Background(), "client-a", deliveryForm())
	assert.NoError(t, err)
}

func TestRequestService_NotConfigured(t *testing.T) {
	svc := NewRequestService(relay.Disabled{}, &fakeDrafts{}, discardLogger)

	_, err := svc.Submit(context.Background(), "client-a", deliveryForm())
	assert.ErrorIs(t, err, relay.ErrNotConfigured)
}
