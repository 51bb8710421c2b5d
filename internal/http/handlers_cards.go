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

// createCardRequest mirrors the add-card form fields. Identifier and creation
// timestamp are assigned by the store.
type createCardRequest struct {
	Name   string `json:"name" validate:"required"`
	Last4  string `json:"last4" validate:"required,len=4,numeric"`
	Expiry string `json:"expiry" validate:"required"`
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(s.store.Cards()))
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	const op = "http.createCard"
	log := s.log.With(
		"op", op,
		"request_id", middleware.GetReqID(r.Context()),
	)

	var req createCardRequest
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

	card := core.Card{
		Name:   req.Name,
		Last4:  req.Last4,
		Expiry: req.Expiry,
	}
	if err := card.Validate(); err != nil {
		log.Error("card fields rejected", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	created := s.store.AddCard(card)
	log.Info("card created", "id", created.ID)

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}

func (s *Server) deleteCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cascaded, ok := s.store.DeleteCard(id)
	if ok {
		s.log.Info("card deleted",
			"op", "http.deleteCard",
			"id", id,
			"cascaded_subscriptions", cascaded)
	}

	// Deleting an unknown id is a silent no-op, not an error.
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted":                ok,
		"cascaded_subscriptions": cascaded,
	}))
}

func (s *Server) cardSpend(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	render.JSON(w, r, response.OKWithData(core.SpendByCard(id, s.store.Subscriptions())))
}
