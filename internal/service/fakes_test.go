package service

import (
	"context"
	"io"
	"log/slog"
	"net/url"

	"github.com/Simplici0/diamond-courier/internal/cart"
	"github.com/Simplici0/diamond-courier/internal/catalog"
	"github.com/Simplici0/diamond-courier/internal/geo"
	"github.com/Simplici0/diamond-courier/internal/relay"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeRelay struct {
	err      error
	requests []url.Values
	orders   []relay.OrderMessage
}

func (f *fakeRelay) Name() string { return "fake" }

func (f *fakeRelay) SubmitServiceRequest(_ context.Context, fields url.Values) error {
	f.requests = append(f.requests, fields)
	return f.err
}

func (f *fakeRelay) SubmitOrder(_ context.Context, msg relay.OrderMessage) error {
	f.orders = append(f.orders, msg)
	return f.err
}

type fakeDrafts struct {
	err     error
	cleared []string
}

func (f *fakeDrafts) ClearDraft(_ context.Context, clientID string) error {
	f.cleared = append(f.cleared, clientID)
	return f.err
}

type fakeReceipts struct {
	err   error
	saved map[string]cart.Order
}

func (f *fakeReceipts) SaveLastOrder(_ context.Context, clientID string, o cart.Order) error {
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = make(map[string]cart.Order)
	}
	f.saved[clientID] = o
	return nil
}

// fakeCatalog sells from two shops 300 and 1000 blocks east of spawn.
type fakeCatalog struct {
	err error
}

var (
	forge = catalog.Shop{ID: "forge", Name: "Smith's Forge", Coords: geo.Coordinate{X: 300, Y: 64, Z: 0}}
	farm  = catalog.Shop{ID: "farm", Name: "Green Acres", Coords: geo.Coordinate{X: 1000, Y: 70, Z: 0}}

	products = map[string]struct {
		p    catalog.Product
		shop catalog.Shop
	}{
		"iron":  {catalog.Product{ID: "iron", ShopID: "forge", Name: "Iron Block", Price: 10}, forge},
		"wheat": {catalog.Product{ID: "wheat", ShopID: "farm", Name: "Wheat Bale", Price: 2}, farm},
	}
)

func (f fakeCatalog) Lookup(_ context.Context, id string) (catalog.Product, catalog.Shop, error) {
	if f.err != nil {
		return catalog.Product{}, catalog.Shop{}, f.err
	}
	entry, ok := products[id]
	if !ok {
		return catalog.Product{}, catalog.Shop{}, catalog.ErrNotFound
	}
	return entry.p, entry.shop, nil
}
