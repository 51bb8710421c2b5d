package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"autopay/internal/core"
	"autopay/internal/http/response"
)

// createServiceRequest mirrors the add-service form fields. DefaultPrice is
// genuinely optional; a negative value fails to decode because Money rejects
// signs.
type createServiceRequest struct {
	Name         string      `json:"name" validate:"required"`
	DefaultPrice *core.Money `json:"defaultPrice,omitempty"`
	BillingURL   string      `json:"billingUrl"`
	Category     string      `json:"category,omitempty"`
}

func (s *Server) listServices(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(s.store.Services()))
}

func (s *Server) createService(w http.ResponseWriter, r *http.Request) {
	const op = "http.createService"
	log := s.log.With(
		"op", op,
		"request_id", middleware.GetReqID(r.Context()),
	)

	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := s.validate.Struct(req); err != nil {
		log.Error("validation failed", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	svc := core.Service{
		Name:         req.Name,
		DefaultPrice: req.DefaultPrice,
		BillingURL:   req.BillingURL,
		Category:     req.Category,
	}
	if err := svc.Validate(); err != nil {
		log.Error("service fields rejected", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	created := s.store.AddService(svc)
	log.Info("service created", "id", created.ID, "name", created.Name)

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}

func (s *Server) deleteService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Subscriptions created from this template are untouched; they keep
	// their snapshot of its fields.
	ok := s.store.DeleteService(id)
	if ok {
		s.log.Info("service deleted", "op", "http.deleteService", "id", id)
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"deleted": ok}))
}
