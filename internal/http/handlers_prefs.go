package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"autopay/internal/http/response"
)

type sidebarPref struct {
	SidebarCollapsed bool `json:"sidebarCollapsed"`
}

func (s *Server) getSidebarPref(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(sidebarPref{
		SidebarCollapsed: s.sync.SidebarCollapsed(r.Context()),
	}))
}

func (s *Server) putSidebarPref(w http.ResponseWriter, r *http.Request) {
	var req sidebarPref
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	s.sync.SetSidebarCollapsed(r.Context(), req.SidebarCollapsed)
	render.JSON(w, r, response.OK())
}
