package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autopay/internal/core"
)

func newTestStore() *Store {
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	now := func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}
	return NewWith(newID, now)
}

func TestAddAssignsUniqueIDsAndTimestamps(t *testing.T) {
	st := newTestStore()

	card := st.AddCard(core.Card{Name: "Visa", Last4: "4242", Expiry: "04/27"})
	svc := st.AddService(core.Service{Name: "Netflix"})
	sub := st.AddSubscription(core.Subscription{
		CardID:      card.ID,
		ServiceName: "Netflix",
		Price:       core.NewMoney(999),
		RenewalDate: core.NewDate(2026, 9, 15),
	})

	ids := map[string]bool{card.ID: true, svc.ID: true, sub.ID: true}
	assert.Len(t, ids, 3, "ids must be unique across all issued entities")
	assert.False(t, card.CreatedAt.IsZero())
	assert.False(t, svc.CreatedAt.IsZero())
	assert.False(t, sub.CreatedAt.IsZero())
}

func TestInsertionOrderPreserved(t *testing.T) {
	st := newTestStore()
	for _, name := range []string{"first", "second", "third"} {
		st.AddCard(core.Card{Name: name, Last4: "0000", Expiry: "01/27"})
	}

	cards := st.Cards()
	require.Len(t, cards, 3)
	assert.Equal(t, "first", cards[0].Name)
	assert.Equal(t, "second", cards[1].Name)
	assert.Equal(t, "third", cards[2].Name)
}

func TestDeleteCardCascades(t *testing.T) {
	st := newTestStore()

	keep := st.AddCard(core.Card{Name: "Keep", Last4: "1111", Expiry: "01/27"})
	doomed := st.AddCard(core.Card{Name: "Doomed", Last4: "2222", Expiry: "02/27"})

	st.AddSubscription(core.Subscription{CardID: keep.ID, ServiceName: "A", RenewalDate: core.NewDate(2026, 9, 1)})
	st.AddSubscription(core.Subscription{CardID: doomed.ID, ServiceName: "B", RenewalDate: core.NewDate(2026, 9, 2)})
	st.AddSubscription(core.Subscription{CardID: doomed.ID, ServiceName: "C", RenewalDate: core.NewDate(2026, 9, 3)})

	cascaded, ok := st.DeleteCard(doomed.ID)
	require.True(t, ok)
	assert.Equal(t, 2, cascaded)

	require.Len(t, st.Cards(), 1)
	subs := st.Subscriptions()
	require.Len(t, subs, 1)
	for _, s := range subs {
		assert.NotEqual(t, doomed.ID, s.CardID, "no subscription may reference a deleted card")
	}
}

func TestDeleteCardNotifiesBothCollectionsAfterTransition(t *testing.T) {
	st := newTestStore()
	card := st.AddCard(core.Card{Name: "Visa", Last4: "4242", Expiry: "04/27"})
	st.AddSubscription(core.Subscription{CardID: card.ID, ServiceName: "A", RenewalDate: core.NewDate(2026, 9, 1)})

	var events []Collection
	st.SetOnChange(func(c Collection) {
		events = append(events, c)
		// By the time any notification fires, the whole transition is
		// visible: the card and its subscriptions are both gone.
		assert.Empty(t, st.Cards())
		assert.Empty(t, st.Subscriptions())
	})

	_, ok := st.DeleteCard(card.ID)
	require.True(t, ok)
	assert.Equal(t, []Collection{CollectionCards, CollectionSubscriptions}, events)
}

func TestDeleteNonexistentIsSilentNoOp(t *testing.T) {
	st := newTestStore()
	card := st.AddCard(core.Card{Name: "Visa", Last4: "4242", Expiry: "04/27"})
	svc := st.AddService(core.Service{Name: "Netflix"})
	sub := st.AddSubscription(core.Subscription{CardID: card.ID, ServiceName: "Netflix", RenewalDate: core.NewDate(2026, 9, 1)})

	var events []Collection
	st.SetOnChange(func(c Collection) { events = append(events, c) })

	cascaded, ok := st.DeleteCard("missing")
	assert.False(t, ok)
	assert.Zero(t, cascaded)
	assert.False(t, st.DeleteService("missing"))
	assert.False(t, st.DeleteSubscription("missing"))

	assert.Empty(t, events, "no-op deletes must not trigger writes")
	assert.Equal(t, []core.Card{card}, st.Cards())
	assert.Equal(t, []core.Service{svc}, st.Services())
	assert.Equal(t, []core.Subscription{sub}, st.Subscriptions())
}

func TestDeleteServicePreservesSubscriptionSnapshot(t *testing.T) {
	st := newTestStore()
	card := st.AddCard(core.Card{Name: "Visa", Last4: "4242", Expiry: "04/27"})
	svc := st.AddService(core.Service{Name: "Netflix", BillingURL: "https://netflix.com/account"})

	sub := st.AddSubscription(core.Subscription{
		CardID:      card.ID,
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Price:       core.NewMoney(999),
		RenewalDate: core.NewDate(2026, 9, 15),
	})

	require.True(t, st.DeleteService(svc.ID))

	subs := st.Subscriptions()
	require.Len(t, subs, 1)
	assert.Equal(t, sub, subs[0], "the snapshot must survive template deletion unchanged")
	assert.Equal(t, "Netflix", subs[0].ServiceName)
	assert.Equal(t, int64(999), subs[0].Price.Cents)
	assert.Equal(t, "https://netflix.com/account", subs[0].BillingURL)
}

func TestAddSubscriptionBillingURLFallback(t *testing.T) {
	st := newTestStore()
	card := st.AddCard(core.Card{Name: "Visa", Last4: "4242", Expiry: "04/27"})
	svc := st.AddService(core.Service{Name: "Netflix", BillingURL: "https://netflix.com/account"})

	// Empty billing URL with a template reference copies the template's URL.
	fallback := st.AddSubscription(core.Subscription{
		CardID: card.ID, ServiceID: svc.ID, ServiceName: "Netflix",
		RenewalDate: core.NewDate(2026, 9, 1),
	})
	assert.Equal(t, "https://netflix.com/account", fallback.BillingURL)

	// An explicit URL wins over the template's.
	explicit := st.AddSubscription(core.Subscription{
		CardID: card.ID, ServiceID: svc.ID, ServiceName: "Netflix",
		BillingURL:  "https://example.com/billing",
		RenewalDate: core.NewDate(2026, 9, 1),
	})
	assert.Equal(t, "https://example.com/billing", explicit.BillingURL)

	// No template reference, nothing to fall back to.
	bare := st.AddSubscription(core.Subscription{
		CardID: card.ID, ServiceName: "Netflix",
		RenewalDate: core.NewDate(2026, 9, 1),
	})
	assert.Empty(t, bare.BillingURL)
}

func TestReplaceSeedsWithoutNotifying(t *testing.T) {
	st := newTestStore()

	var events []Collection
	st.SetOnChange(func(c Collection) { events = append(events, c) })

	// A dangling cardId in loaded state is retained as-is.
	st.Replace(
		[]core.Card{{ID: "c1", Name: "Visa", Last4: "4242", Expiry: "04/27"}},
		nil,
		[]core.Subscription{{ID: "s1", CardID: "gone", ServiceName: "Orphan", RenewalDate: core.NewDate(2026, 9, 1)}},
	)

	assert.Empty(t, events, "seeding is not a mutation")
	require.Len(t, st.Subscriptions(), 1)
	assert.Equal(t, "gone", st.Subscriptions()[0].CardID)
}

func TestAccessorsReturnCopies(t *testing.T) {
	st := newTestStore()
	st.AddCard(core.Card{Name: "Visa", Last4: "4242", Expiry: "04/27"})

	cards := st.Cards()
	cards[0].Name = "mutated"

	assert.Equal(t, "Visa", st.Cards()[0].Name)
}
