package cart

import "github.com/Simplici0/diamond-courier/internal/geo"

// Marketplace delivery fee: a base plus a charge per started 100 blocks.
const (
	DeliveryBase   = 3
	DeliveryPer100 = 2
)

// ETA is a display-only delivery window in minutes.
type ETA struct {
	MinMinutes int `json:"minMinutes"`
	MaxMinutes int `json:"maxMinutes"`
}

// Quote is the priced cart. DeliveryFee, Total and ETA are nil until a valid
// drop-off location is known.
type Quote struct {
	Subtotal     int      `json:"subtotal"`
	DeliveryFee  *int     `json:"deliveryFee"`
	Total        *int     `json:"total"`
	Segments     int      `json:"segments"`
	MaxDistance  int      `json:"maxDistance"`
	FurthestShop *ShopRef `json:"furthestShop,omitempty"`
	ETA          *ETA     `json:"eta,omitempty"`
}

// Ready reports whether the delivery fee could be computed.
func (q Quote) Ready() bool {
	return q.DeliveryFee != nil
}

// Quote prices the cart for delivery to dest. The fee covers the single
// longest trip: the furthest shop from dest sets the segment count.
func (c *Cart) Quote(dest *geo.Coordinate) Quote {
	q := Quote{Subtotal: c.Subtotal()}
	if dest == nil {
		return q
	}

	maxFlat := 0.0
	for _, shop := range c.Shops() {
		d := geo.Measure(shop.Coords, *dest)
		if q.FurthestShop == nil || d.Flat > maxFlat {
			maxFlat = d.Flat
			s := shop
			q.FurthestShop = &s
		}
	}

	segments := geo.Segments(maxFlat)
	fee := DeliveryFee(segments)
	total := q.Subtotal + fee

	q.Segments = segments
	q.MaxDistance = geo.Distance{Flat: maxFlat}.Blocks()
	q.DeliveryFee = &fee
	q.Total = &total
	q.ETA = &ETA{
		MinMinutes: 10 + 3*segments,
		MaxMinutes: 15 + 5*segments,
	}
	return q
}

// DeliveryFee converts a segment count into diamonds.
func DeliveryFee(segments int) int {
	return DeliveryBase + segments*DeliveryPer100
}
