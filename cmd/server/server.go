package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/diamond-courier/internal/cart"
	"github.com/Simplici0/diamond-courier/internal/catalog"
	"github.com/Simplici0/diamond-courier/internal/middleware"
	"github.com/Simplici0/diamond-courier/internal/service"
	"github.com/Simplici0/diamond-courier/internal/store"
)

const requestTimeout = 30 * time.Second

type shopLister interface {
	ListShops(ctx context.Context) ([]catalog.Shop, error)
	Shop(ctx context.Context, id string) (*catalog.Shop, error)
}

type stateStore interface {
	SaveDraft(ctx context.Context, clientID string, d store.Draft) error
	Draft(ctx context.Context, clientID string) (store.Draft, error)
	ClearDraft(ctx context.Context, clientID string) error
	LastOrder(ctx context.Context, clientID string) (*cart.Order, error)
}

type server struct {
	log      *slog.Logger
	shops    shopLister
	state    stateStore
	requests *service.RequestService
	checkout *service.CheckoutService
	sessions *clientSessions
	relay    string
}

func (s *server) routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(s.log))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(cors.Handler(corsOptions(allowedOrigins)))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.sessions.middleware)

		r.Post("/estimate", s.handleEstimate)
		r.Post("/requests", s.handleSubmitRequest)

		r.Get("/draft", s.handleGetDraft)
		r.Put("/draft", s.handlePutDraft)
		r.Delete("/draft", s.handleDeleteDraft)

		r.Get("/shops", s.handleListShops)
		r.Get("/shops/{shopID}", s.handleGetShop)

		r.Post("/cart/quote", s.handleCartQuote)
		r.Post("/checkout", s.handleCheckout)
		r.Get("/orders/last", s.handleLastOrder)
	})

	return r
}

// corsOptions allows credentials only for an explicit origin list; browsers
// reject credentials with a wildcard origin.
func corsOptions(origins []string) cors.Options {
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "relay": s.relay}, s.log)
}
