package cart

import (
	"testing"

	"github.com/Simplici0/diamond-courier/internal/catalog"
	"github.com/Simplici0/diamond-courier/internal/geo"
)

var (
	near = ShopRef{ID: "near", Name: "Near Shop", Coords: geo.Coordinate{X: 80, Y: 64, Z: 0}}
	far  = ShopRef{ID: "far", Name: "Far Shop", Coords: geo.Coordinate{X: 0, Y: 64, Z: 320}}

	apples = catalog.Product{ID: "apples", ShopID: "near", Name: "Golden Apples", Price: 4}
	rods   = catalog.Product{ID: "rods", ShopID: "far", Name: "Blaze Rods", Price: 6}
	pearls = catalog.Product{ID: "pearls", ShopID: "far", Name: "Ender Pearls", Price: 3}
)

func TestCart_AddMergesSameProduct(t *testing.T) {
	c := New()
	c.Add(apples, near)
	c.Add(apples, near)
	c.Add(rods, far)

	if c.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", c.Len())
	}
	if q := c.Items()[0].Quantity; q != 2 {
		t.Fatalf("apples quantity = %d, want 2", q)
	}
	if got := c.Subtotal(); got != 2*4+6 {
		t.Fatalf("subtotal = %d, want 14", got)
	}
}

func TestCart_PutRejectsNonPositive(t *testing.T) {
	c := New()
	if err := c.Put(apples, near, 0); err != ErrInvalidQuantity {
		t.Fatalf("Put(0) error = %v, want ErrInvalidQuantity", err)
	}
	if err := c.Put(apples, near, 3); err != nil {
		t.Fatalf("Put(3) error = %v", err)
	}
	if err := c.Put(apples, near, 2); err != nil {
		t.Fatalf("Put(2) error = %v", err)
	}
	if q := c.Items()[0].Quantity; q != 5 {
		t.Fatalf("quantity = %d, want 5", q)
	}
}

func TestCart_PutEnforcesLimits(t *testing.T) {
	const maxInt = int(^uint(0) >> 1)

	c := New()
	if err := c.Put(apples, near, maxInt/4+1); err != ErrInvalidQuantity {
		t.Fatalf("Put(huge) error = %v, want ErrInvalidQuantity", err)
	}
	if err := c.Put(apples, near, MaxQuantity); err != nil {
		t.Fatalf("Put(max) error = %v", err)
	}
	if err := c.Put(apples, near, 1); err != ErrInvalidQuantity {
		t.Fatalf("merge past max error = %v, want ErrInvalidQuantity", err)
	}
	if q := c.Items()[0].Quantity; q != MaxQuantity {
		t.Fatalf("quantity = %d, want %d", q, MaxQuantity)
	}

	c.Increment("apples")
	if q := c.Items()[0].Quantity; q != MaxQuantity {
		t.Fatalf("Increment past max: quantity = %d", q)
	}

	pricey := catalog.Product{ID: "beacon", ShopID: "far", Name: "Beacon", Price: maxInt / 10}
	if err := c.Put(pricey, far, 2); err != ErrTotalTooLarge {
		t.Fatalf("Put(pricey) error = %v, want ErrTotalTooLarge", err)
	}
	if c.Len() != 1 || c.Subtotal() != MaxQuantity*apples.Price {
		t.Fatalf("rejected line changed the cart: len=%d subtotal=%d", c.Len(), c.Subtotal())
	}
}

func TestCart_DecrementFloorsAtOne(t *testing.T) {
	c := New()
	c.Add(apples, near)
	c.Increment("apples")

	c.Decrement("apples")
	c.Decrement("apples")
	c.Decrement("apples")

	if q := c.Items()[0].Quantity; q != 1 {
		t.Fatalf("quantity = %d, want 1", q)
	}
	if c.Decrement("missing") || c.Increment("missing") {
		t.Fatalf("expected unknown product to report false")
	}
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := New()
	c.Add(apples, near)
	c.Add(rods, far)
	c.Add(pearls, far)

	if !c.Remove("rods") {
		t.Fatalf("expected rods to be removed")
	}
	if c.Remove("rods") {
		t.Fatalf("expected second remove to report false")
	}
	items := c.Items()
	if len(items) != 2 || items[0].Product.ID != "apples" || items[1].Product.ID != "pearls" {
		t.Fatalf("unexpected lines after remove: %+v", items)
	}

	c.Clear()
	if c.Len() != 0 || c.Subtotal() != 0 {
		t.Fatalf("expected an empty cart after Clear")
	}
}

func TestCart_ItemsIsACopy(t *testing.T) {
	c := New()
	c.Add(apples, near)
	items := c.Items()
	items[0].Quantity = 99

	if c.Items()[0].Quantity != 1 {
		t.Fatalf("mutating Items() leaked into the cart")
	}
}

func TestQuote_UsesFurthestShop(t *testing.T) {
	c := New()
	c.Add(apples, near)
	c.Add(rods, far)
	c.Add(pearls, far)

	dest := geo.Coordinate{X: 0, Y: 70, Z: 0}
	q := c.Quote(&dest)

	if !q.Ready() {
		t.Fatalf("expected a delivery fee")
	}
	if q.Segments != 4 {
		t.Fatalf("segments = %d, want 4", q.Segments)
	}
	if *q.DeliveryFee != 11 {
		t.Fatalf("fee = %d, want 11", *q.DeliveryFee)
	}
	if *q.Total != 4+6+3+11 {
		t.Fatalf("total = %d, want 24", *q.Total)
	}
	if q.FurthestShop == nil || q.FurthestShop.ID != "far" {
		t.Fatalf("furthest shop = %+v, want far", q.FurthestShop)
	}
	if q.MaxDistance != 320 {
		t.Fatalf("max distance = %d, want 320", q.MaxDistance)
	}
	if q.ETA.MinMinutes != 22 || q.ETA.MaxMinutes != 35 {
		t.Fatalf("eta = %+v", q.ETA)
	}
}

func TestQuote_UnknownWithoutLocation(t *testing.T) {
	c := New()
	c.Add(apples, near)

	q := c.Quote(nil)
	if q.Ready() || q.Total != nil || q.ETA != nil {
		t.Fatalf("expected fee and total to be unknown, got %+v", q)
	}
	if q.Subtotal != 4 {
		t.Fatalf("subtotal = %d, want 4", q.Subtotal)
	}
}

func TestQuote_ETAIsMonotonic(t *testing.T) {
	c := New()
	c.Add(apples, ShopRef{ID: "origin", Coords: geo.Coordinate{}})

	prevMin, prevMax := 0, 0
	for x := 0; x <= 2000; x += 50 {
		dest := geo.Coordinate{X: x}
		q := c.Quote(&dest)
		if q.ETA.MinMinutes < prevMin || q.ETA.MaxMinutes < prevMax {
			t.Fatalf("eta decreased at x=%d: %+v", x, q.ETA)
		}
		prevMin, prevMax = q.ETA.MinMinutes, q.ETA.MaxMinutes
	}
}
