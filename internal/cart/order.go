package cart

import (
	"time"

	"github.com/Simplici0/diamond-courier/internal/geo"
)

// Order is the receipt of a completed checkout.
type Order struct {
	SubmissionID string         `json:"submissionId,omitempty"`
	Items        []Item         `json:"cartItems"`
	Subtotal     int            `json:"subtotal"`
	DeliveryFee  int            `json:"deliveryFee"`
	Total        int            `json:"total"`
	UserLocation geo.Coordinate `json:"userLocation"`
	Discord      string         `json:"discord"`
	IGN          string         `json:"ign"`
	SubmittedAt  time.Time      `json:"submittedAt"`
}
