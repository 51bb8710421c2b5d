package amqp

import (
	"encoding/json"
	"time"

	"autopay/internal/core"
)

// RenewalDueMessage announces one subscription renewal falling inside the
// reminder window. It carries the snapshot fields a sender needs to format a
// notification without reading any store.
type RenewalDueMessage struct {
	SubscriptionID string    `json:"subscription_id"`
	Service        string    `json:"service"`
	PriceCents     int64     `json:"price_cents"`
	RenewalDate    string    `json:"renewal_date"` // YYYY-MM-DD
	DaysLeft       int       `json:"days_left"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewRenewalDueMessage builds a reminder for the given subscription.
func NewRenewalDueMessage(sub core.Subscription, daysLeft int) *RenewalDueMessage {
	return &RenewalDueMessage{
		SubscriptionID: sub.ID,
		Service:        sub.ServiceName,
		PriceCents:     sub.Price.Cents,
		RenewalDate:    sub.RenewalDate.String(),
		DaysLeft:       daysLeft,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RenewalDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RenewalDueMessageFromJSON creates a message from JSON bytes.
func RenewalDueMessageFromJSON(data []byte) (*RenewalDueMessage, error) {
	var msg RenewalDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
