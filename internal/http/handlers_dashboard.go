package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"autopay/internal/core"
	"autopay/internal/http/response"
)

type (
	upcomingRenewal struct {
		core.Subscription
		DaysLeft int `json:"daysLeft"`
	}

	dashboardData struct {
		TotalSpend    core.Money           `json:"totalSpend"`
		Subscriptions int                  `json:"subscriptions"`
		Services      int                  `json:"services"`
		Cards         int                  `json:"cards"`
		ByService     []core.ServiceAmount `json:"byService"`
		Upcoming      []upcomingRenewal    `json:"upcoming"`
	}
)

// dashboard assembles the derived views in one read. The clock is sampled
// once here and passed down so the analytics stay pure.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	windowDays := core.DefaultRenewalWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("days must be a non-negative number"))
			return
		}
		windowDays = n
	}

	now := time.Now()
	subs := s.store.Subscriptions()

	due := core.UpcomingRenewals(subs, now, windowDays)
	upcoming := make([]upcomingRenewal, len(due))
	for i, sub := range due {
		upcoming[i] = upcomingRenewal{
			Subscription: sub,
			DaysLeft:     core.DaysUntil(sub.RenewalDate, now),
		}
	}

	render.JSON(w, r, response.OKWithData(dashboardData{
		TotalSpend:    core.TotalSpend(subs),
		Subscriptions: len(subs),
		Services:      len(s.store.Services()),
		Cards:         len(s.store.Cards()),
		ByService:     core.SpendByService(subs),
		Upcoming:      upcoming,
	}))
}
