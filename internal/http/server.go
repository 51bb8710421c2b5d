// Package http exposes the entity store and its derived views over a JSON
// API. This layer is presentation glue: it validates caller input, calls the
// store's operations, and reads the pure analytics; the domain invariants
// themselves live below it.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"autopay/internal/store"
	"autopay/internal/syncer"
)

// Server holds the handler dependencies.
type Server struct {
	log      *slog.Logger
	store    *store.Store
	sync     *syncer.Syncer
	validate *validator.Validate
}

func NewServer(log *slog.Logger, st *store.Store, sy *syncer.Syncer) *Server {
	return &Server{
		log:      log,
		store:    st,
		sync:     sy,
		validate: validator.New(),
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cards", s.listCards)
		r.Post("/cards", s.createCard)
		r.Delete("/cards/{id}", s.deleteCard)
		r.Get("/cards/{id}/spend", s.cardSpend)

		r.Get("/services", s.listServices)
		r.Post("/services", s.createService)
		r.Delete("/services/{id}", s.deleteService)

		r.Get("/subscriptions", s.listSubscriptions)
		r.Post("/subscriptions", s.createSubscription)
		r.Delete("/subscriptions/{id}", s.deleteSubscription)

		r.Get("/dashboard", s.dashboard)

		r.Get("/prefs/sidebar", s.getSidebarPref)
		r.Put("/prefs/sidebar", s.putSidebarPref)
	})

	r.Get("/health", s.health)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"OK"}`))
}
