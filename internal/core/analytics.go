package core

import (
	"math"
	"sort"
	"time"
)

// DefaultRenewalWindowDays is the forward-looking window used by the
// dashboard and the reminder worker when none is configured.
const DefaultRenewalWindowDays = 30

type (
	// ServiceAmount is the spend aggregated under one service display name.
	ServiceAmount struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
	}

	// CardSpend summarizes the subscriptions funded by a single card.
	// It backs the per-card totals and the warning shown before a card
	// delete cascades.
	CardSpend struct {
		Count int   `json:"count"`
		Total Money `json:"total"`
	}
)

// TotalSpend sums the price of every subscription.
//
// There is no billing-cycle normalization: every subscription contributes its
// stored price once, so "total" and "monthly recurring" are the same metric.
func TotalSpend(subs []Subscription) Money {
	var total Money
	for _, s := range subs {
		total = total.Add(s.Price)
	}
	return total
}

// SpendByService groups subscription spend by the snapshot display name, in
// first-appearance order. Two subscriptions sharing a name but pointing at
// different service templates land in the same bucket: the grouping key is
// what the user sees, not the template id.
func SpendByService(subs []Subscription) []ServiceAmount {
	index := make(map[string]int, len(subs))
	out := make([]ServiceAmount, 0, len(subs))
	for _, s := range subs {
		i, ok := index[s.ServiceName]
		if !ok {
			index[s.ServiceName] = len(out)
			out = append(out, ServiceAmount{Name: s.ServiceName})
			i = len(out) - 1
		}
		out[i].Amount = out[i].Amount.Add(s.Price)
	}
	return out
}

// UpcomingRenewals returns the subscriptions whose renewal date falls within
// the closed interval [now, now+windowDays], comparing calendar days so that
// a renewal due today is included regardless of the time of day. The result
// is ordered by ascending renewal date; ties keep their input order.
func UpcomingRenewals(subs []Subscription, now time.Time, windowDays int) []Subscription {
	today := DateOf(now)
	end := Date{Time: today.AddDate(0, 0, windowDays)}

	var due []Subscription
	for _, s := range subs {
		d := s.RenewalDate
		if d.Before(today.Time) || d.After(end.Time) {
			continue
		}
		due = append(due, s)
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].RenewalDate.Before(due[j].RenewalDate.Time)
	})
	return due
}

// DaysUntil is the day-ceiling of the time remaining until a renewal.
// Zero means due today; negative means the date has already passed.
func DaysUntil(renewal Date, now time.Time) int {
	return int(math.Ceil(renewal.Sub(now).Hours() / 24))
}

// SpendByCard counts and sums the subscriptions funded by the given card.
// A card with no subscriptions yields a zero count and a zero total.
func SpendByCard(cardID string, subs []Subscription) CardSpend {
	var cs CardSpend
	for _, s := range subs {
		if s.CardID != cardID {
			continue
		}
		cs.Count++
		cs.Total = cs.Total.Add(s.Price)
	}
	return cs
}
