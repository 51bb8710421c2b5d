package amqp

import (
	"testing"

	"autopay/internal/core"
)

func TestRenewalDueMessageRoundTrip(t *testing.T) {
	sub := core.Subscription{
		ID:          "sub-1",
		ServiceName: "Netflix",
		Price:       core.NewMoney(999),
		RenewalDate: core.NewDate(2026, 9, 5),
	}

	msg := NewRenewalDueMessage(sub, 5)
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := RenewalDueMessageFromJSON(data)
	if err != nil {
		t.Fatalf("RenewalDueMessageFromJSON() error = %v", err)
	}

	if got.SubscriptionID != "sub-1" {
		t.Errorf("SubscriptionID = %q, want %q", got.SubscriptionID, "sub-1")
	}
	if got.Service != "Netflix" {
		t.Errorf("Service = %q, want %q", got.Service, "Netflix")
	}
	if got.PriceCents != 999 {
		t.Errorf("PriceCents = %d, want 999", got.PriceCents)
	}
	if got.RenewalDate != "2026-09-05" {
		t.Errorf("RenewalDate = %q, want %q", got.RenewalDate, "2026-09-05")
	}
	if got.DaysLeft != 5 {
		t.Errorf("DaysLeft = %d, want 5", got.DaysLeft)
	}
	if !got.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestRenewalDueMessageFromJSONRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", []byte(`{"subscription_id":`)},
		{"wrong type", []byte(`{"price_cents":"not a number"}`)},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenewalDueMessageFromJSON(tt.data); err == nil {
				t.Error("RenewalDueMessageFromJSON() error = nil, want error")
			}
		})
	}
}
