package relay

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Simplici0/diamond-courier/internal/cart"
)

// OrderMessage is the marketplace payload: a ready-to-read summary plus the
// structured fields it was built from.
type OrderMessage struct {
	Message     string `json:"message"`
	IGN         string `json:"ign"`
	Discord     string `json:"discord"`
	Coords      string `json:"coords"`
	Items       string `json:"items"`
	DeliveryFee int    `json:"deliveryFee"`
	Total       int    `json:"total"`
}

// OrderMessageFor summarizes a completed checkout.
func OrderMessageFor(o cart.Order) OrderMessage {
	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("%d× %s (%s) = %d", it.Quantity, it.Product.Name, it.Shop.Name, it.LineTotal()))
	}
	items := strings.Join(lines, "\n")
	coords := o.UserLocation.String()

	var b strings.Builder
	b.WriteString("**New marketplace order**\n")
	fmt.Fprintf(&b, "IGN: %s\n", o.IGN)
	fmt.Fprintf(&b, "Discord: %s\n", o.Discord)
	fmt.Fprintf(&b, "Deliver to: %s\n", coords)
	b.WriteString("\nItems:\n")
	for _, l := range lines {
		b.WriteString("- " + l + "\n")
	}
	fmt.Fprintf(&b, "\nSubtotal: %d\n", o.Subtotal)
	fmt.Fprintf(&b, "Delivery: %d\n", o.DeliveryFee)
	fmt.Fprintf(&b, "Total: %d diamonds", o.Total)

	return OrderMessage{
		Message:     b.String(),
		IGN:         o.IGN,
		Discord:     o.Discord,
		Coords:      coords,
		Items:       items,
		DeliveryFee: o.DeliveryFee,
		Total:       o.Total,
	}
}

// serviceFieldLabels fixes the order service-request fields are listed in.
var serviceFieldLabels = []struct{ key, label string }{
	{"serviceType", "Service"},
	{"discordUsername", "Discord"},
	{"ign", "IGN"},
	{"itemDescription", "Items"},
	{"pickupCoords", "Pickup"},
	{"dropoffCoords", "Drop-off"},
	{"villagerCount", "Villagers"},
	{"taskDescription", "Task"},
	{"timeBlockMinutes", "Minutes"},
	{"recoveryCoords", "Recovery at"},
	{"dimension", "Dimension"},
	{"urgency", "Urgency"},
	{"hazardous", "Hazardous"},
	{"paymentOffer", "Offer"},
	{"notes", "Notes"},
}

// ServiceRequestText renders the raw request fields, skipping blank ones.
// Unknown fields follow the known ones in key order.
func ServiceRequestText(fields url.Values) string {
	var b strings.Builder
	b.WriteString("**New service request**")

	known := make(map[string]bool, len(serviceFieldLabels))
	for _, f := range serviceFieldLabels {
		known[f.key] = true
		if v := strings.TrimSpace(fields.Get(f.key)); v != "" {
			fmt.Fprintf(&b, "\n%s: %s", f.label, v)
		}
	}

	extra := make([]string, 0)
	for k := range fields {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		if v := strings.TrimSpace(fields.Get(k)); v != "" {
			fmt.Fprintf(&b, "\n%s: %s", k, v)
		}
	}
	return b.String()
}

// Truncate cuts s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}
