// Package worker implements the background renewal-reminder processor. It
// observes the persisted subscription snapshot and never mutates state.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"autopay/internal/amqp"
	"autopay/internal/core"
	"autopay/internal/syncer"
)

// SnapshotReader reads persisted values from the durable store.
type SnapshotReader interface {
	Load(ctx context.Context, key string) ([]byte, bool)
}

// Publisher publishes renewal reminders. A nil Publisher disables publishing;
// due renewals are then only logged, mirroring how the rest of the system
// degrades when AMQP is not configured.
type Publisher interface {
	PublishRenewalDue(ctx context.Context, msg *amqp.RenewalDueMessage) error
}

// Reminder scans the persisted subscriptions on every tick and publishes one
// reminder per subscription per renewal date.
type Reminder struct {
	kv         SnapshotReader
	pub        Publisher
	windowDays int

	// subscription id -> renewal date already announced
	notified map[string]string
}

func NewReminder(kv SnapshotReader, pub Publisher, windowDays int) *Reminder {
	if windowDays <= 0 {
		windowDays = core.DefaultRenewalWindowDays
	}
	return &Reminder{
		kv:         kv,
		pub:        pub,
		windowDays: windowDays,
		notified:   make(map[string]string),
	}
}

// ProcessDue finds renewals inside the window relative to now and publishes a
// reminder for each one not yet announced for that renewal date. It returns
// the number of reminders published.
func (r *Reminder) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	data, ok := r.kv.Load(ctx, syncer.KeySubscriptions)
	if !ok {
		slog.DebugContext(ctx, "No subscriptions snapshot yet, nothing to do")
		return 0, nil
	}
	subs := syncer.DecodeSubscriptions(data)

	due := core.UpcomingRenewals(subs, now, r.windowDays)
	published := 0
	for _, sub := range due {
		renewal := sub.RenewalDate.String()
		if r.notified[sub.ID] == renewal {
			continue
		}

		daysLeft := core.DaysUntil(sub.RenewalDate, now)
		if r.pub == nil {
			slog.InfoContext(ctx, "Renewal due (AMQP disabled, not publishing)",
				"subscription_id", sub.ID,
				"service", sub.ServiceName,
				"renewal_date", renewal,
				"days_left", daysLeft)
			r.notified[sub.ID] = renewal
			continue
		}

		msg := amqp.NewRenewalDueMessage(sub, daysLeft)
		if err := r.pub.PublishRenewalDue(ctx, msg); err != nil {
			// Leave the entry unmarked so the next tick retries it.
			return published, fmt.Errorf("publish reminder for %s: %w", sub.ID, err)
		}
		r.notified[sub.ID] = renewal
		published++
	}

	r.prune(subs)
	return published, nil
}

// prune drops dedup entries for subscriptions that no longer exist, so the
// map does not grow without bound across deletes.
func (r *Reminder) prune(subs []core.Subscription) {
	alive := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		alive[s.ID] = struct{}{}
	}
	for id := range r.notified {
		if _, ok := alive[id]; !ok {
			delete(r.notified, id)
		}
	}
}
