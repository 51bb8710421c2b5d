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

// createSubscriptionRequest mirrors the add-subscription form. Service,
// price and billing URL are the snapshot copied from the chosen template (or
// typed in freely); serviceId is the optional link back to it. The renewal
// date arrives as a YYYY-MM-DD string and is parsed here so the store only
// ever sees well-formed dates.
type createSubscriptionRequest struct {
	CardID      string     `json:"cardId" validate:"required"`
	ServiceID   string     `json:"serviceId,omitempty"`
	Service     string     `json:"service" validate:"required"`
	Price       core.Money `json:"price"`
	Credits     string     `json:"credits"`
	RenewalDate string     `json:"renewalDate" validate:"required"`
	Notes       string     `json:"notes"`
	BillingURL  string     `json:"billingUrl"`
}

func (s *Server) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(s.store.Subscriptions()))
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	const op = "http.createSubscription"
	log := s.log.With(
		"op", op,
		"request_id", middleware.GetReqID(r.Context()),
	)

	var req createSubscriptionRequest
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

	renewal, err := core.ParseDate(req.RenewalDate)
	if err != nil {
		log.Error("invalid renewal date", "value", req.RenewalDate)
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("renewalDate must be in YYYY-MM-DD format"))
		return
	}

	sub := core.Subscription{
		CardID:      req.CardID,
		ServiceID:   req.ServiceID,
		ServiceName: req.Service,
		Price:       req.Price,
		Credits:     req.Credits,
		RenewalDate: renewal,
		Notes:       req.Notes,
		BillingURL:  req.BillingURL,
	}
	if err := sub.Validate(); err != nil {
		log.Error("subscription fields rejected", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	created := s.store.AddSubscription(sub)
	log.Info("subscription created",
		"id", created.ID,
		"service", created.ServiceName,
		"card_id", created.CardID)

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}

func (s *Server) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok := s.store.DeleteSubscription(id)
	if ok {
		s.log.Info("subscription deleted", "op", "http.deleteSubscription", "id", id)
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"deleted": ok}))
}
