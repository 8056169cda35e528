package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Simplici0/diamond-courier/internal/cart"
	"github.com/Simplici0/diamond-courier/internal/catalog"
	"github.com/Simplici0/diamond-courier/internal/geo"
	"github.com/Simplici0/diamond-courier/internal/metrics"
	"github.com/Simplici0/diamond-courier/internal/relay"
)

// Cart and checkout errors. Handlers map them to 400 and 422 responses.
var (
	ErrInvalidProduct   = errors.New("invalid product")
	ErrInvalidQuantity  = cart.ErrInvalidQuantity
	ErrTotalTooLarge    = cart.ErrTotalTooLarge
	ErrEmptyCart        = errors.New("cart must contain at least one item")
	ErrLocationRequired = errors.New("a valid delivery location is required")
)

// ProductLookup resolves a product id to the product and its shop.
type ProductLookup interface {
	Lookup(ctx context.Context, productID string) (catalog.Product, catalog.Shop, error)
}

// ReceiptStore keeps a client's most recent order.
type ReceiptStore interface {
	SaveLastOrder(ctx context.Context, clientID string, o cart.Order) error
}

// LineRequest is one cart line as sent by the client.
type LineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// QuoteRequest prices a cart without submitting it.
type QuoteRequest struct {
	Items  []LineRequest `json:"items"`
	Coords string        `json:"coords"`
}

// CheckoutRequest submits a cart for delivery.
type CheckoutRequest struct {
	Items   []LineRequest `json:"items"`
	Coords  string        `json:"coords"`
	Discord string        `json:"discord" validate:"required,max=64"`
	IGN     string        `json:"ign" validate:"required,max=32"`
}

// CartQuote is the resolved cart with its delivery pricing.
type CartQuote struct {
	Items []cart.Item `json:"items"`
	cart.Quote
	CoordsError string `json:"coordsError"`
}

// CheckoutService handles marketplace quoting and checkout.
type CheckoutService struct {
	products ProductLookup
	receipts ReceiptStore
	relay    relay.Relay
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(products ProductLookup, receipts ReceiptStore, r relay.Relay, log *slog.Logger) *CheckoutService {
	return &CheckoutService{
		products: products,
		receipts: receipts,
		relay:    r,
		validate: newValidator(),
		log:      log,
		now:      time.Now,
	}
}

// Quote prices the cart. An empty cart quotes a zero subtotal; a blank or
// malformed location leaves the fee unknown.
func (s *CheckoutService) Quote(ctx context.Context, req QuoteRequest) (*CartQuote, error) {
	c, err := s.buildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	q := &CartQuote{
		Items: c.Items(),
		Quote: c.Quote(geo.ParsePtr(req.Coords)),
	}
	if !geo.IsBlank(req.Coords) && !q.Ready() {
		q.CoordsError = geo.DeliveryFormatError
	}
	return q, nil
}

// Checkout relays the order and records it as the client's last receipt.
func (s *CheckoutService) Checkout(ctx context.Context, clientID string, req CheckoutRequest) (*cart.Order, error) {
	req.Discord = strings.TrimSpace(req.Discord)
	req.IGN = strings.TrimSpace(req.IGN)

	ve := &ValidationError{}
	if err := check(s.validate, req, ve); err != nil {
		return nil, err
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	dest, ok := geo.Parse(req.Coords)
	if !ok {
		return nil, ErrLocationRequired
	}

	c, err := s.buildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	q := c.Quote(&dest)

	order := cart.Order{
		SubmissionID: uuid.New().String(),
		Items:        c.Items(),
		Subtotal:     q.Subtotal,
		DeliveryFee:  *q.DeliveryFee,
		Total:        *q.Total,
		UserLocation: dest,
		Discord:      req.Discord,
		IGN:          req.IGN,
		SubmittedAt:  s.now().UTC(),
	}

	err = s.relay.SubmitOrder(ctx, relay.OrderMessageFor(order))
	metrics.ObserveRelay("order", err)
	if err != nil {
		return nil, fmt.Errorf("relay order: %w", err)
	}

	if clientID != "" {
		if err := s.receipts.SaveLastOrder(ctx, clientID, order); err != nil {
			s.log.Warn("failed to save last order", "client_id", clientID, "error", err)
		}
	}

	s.log.Info("order relayed",
		"submission_id", order.SubmissionID,
		"items_count", len(order.Items),
		"total", order.Total,
		"relay", s.relay.Name(),
	)
	return &order, nil
}

// buildCart resolves every line against the catalog. Repeated product ids
// merge into one line.
func (s *CheckoutService) buildCart(ctx context.Context, lines []LineRequest) (*cart.Cart, error) {
	c := cart.New()
	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > cart.MaxQuantity {
			return nil, ErrInvalidQuantity
		}

		p, shop, err := s.products.Lookup(ctx, strings.TrimSpace(line.ProductID))
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProduct, line.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("lookup product %q: %w", line.ProductID, err)
		}

		if err := c.Put(p, cart.RefOf(shop), line.Quantity); err != nil {
			return nil, err
		}
	}
	return c, nil
}
