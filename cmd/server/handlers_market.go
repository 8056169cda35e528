package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/diamond-courier/internal/catalog"
	"github.com/Simplici0/diamond-courier/internal/service"
	"github.com/Simplici0/diamond-courier/internal/store"
)

func (s *server) handleListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := s.shops.ListShops(r.Context())
	if err != nil {
		s.log.Error("failed to list shops", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load shops", s.log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"shops": shops}, s.log)
}

func (s *server) handleGetShop(w http.ResponseWriter, r *http.Request) {
	shop, err := s.shops.Shop(r.Context(), chi.URLParam(r, "shopID"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Shop not found", s.log)
		return
	}
	if err != nil {
		s.log.Error("failed to load shop", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load shop", s.log)
		return
	}

	writeJSON(w, http.StatusOK, shop, s.log)
}

func (s *server) handleCartQuote(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.log)
		return
	}

	q, err := s.checkout.Quote(r.Context(), req)
	if err != nil {
		if s.writeCartError(w, err) {
			return
		}
		s.log.Error("failed to quote cart", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", s.log)
		return
	}

	writeJSON(w, http.StatusOK, q, s.log)
}

func (s *server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.log)
		return
	}

	order, err := s.checkout.Checkout(r.Context(), clientIDFrom(r.Context()), req)
	if err != nil {
		if s.writeCartError(w, err) || writeSubmitError(w, err, s.log) {
			return
		}
		s.log.Error("failed to check out", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", s.log)
		return
	}

	writeJSON(w, http.StatusCreated, order, s.log)
}

func (s *server) writeCartError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "Your cart is empty", s.log)
	case errors.Is(err, service.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "Quantity must be between 1 and 999", s.log)
	case errors.Is(err, service.ErrTotalTooLarge):
		writeError(w, http.StatusBadRequest, "Cart total is too large", s.log)
	case errors.Is(err, service.ErrInvalidProduct):
		writeError(w, http.StatusBadRequest, "Invalid product", s.log)
	case errors.Is(err, service.ErrLocationRequired):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string]string{"coords": "Enter your delivery coordinates like: 100, 64, -200"},
		}, s.log)
	default:
		return false
	}
	return true
}

func (s *server) handleLastOrder(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFrom(r.Context())

	order, err := s.state.LastOrder(r.Context(), clientID)
	if err != nil {
		if !errors.Is(err, store.ErrEmpty) {
			s.log.Warn("failed to read last order", "client_id", clientID, "error", err)
		}
		writeError(w, http.StatusNotFound, "No order yet", s.log)
		return
	}

	writeJSON(w, http.StatusOK, order, s.log)
}
