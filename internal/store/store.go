// Package store holds the in-memory entity collections and enforces their
// referential-integrity rules. It is the only place entities are created or
// destroyed: adds assign identifiers and creation timestamps, deletes are
// silent no-ops for unknown ids, and deleting a card removes its
// subscriptions in the same transition.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"autopay/internal/core"
)

// Collection names the three entity collections for change notifications.
type Collection string

const (
	CollectionCards         Collection = "cards"
	CollectionServices      Collection = "services"
	CollectionSubscriptions Collection = "subscriptions"
)

// Store owns the collections. All access goes through its methods; accessors
// return copies so callers never hold references into the owned slices.
//
// The store trusts its callers for field-level validity (the API layer
// validates input before calling Add*). What it does guarantee is that no
// subscription ever outlives the card funding it.
type Store struct {
	mu       sync.Mutex
	cards    []core.Card
	services []core.Service
	subs     []core.Subscription

	newID    func() string
	now      func() time.Time
	onChange func(Collection)
}

// New creates a Store issuing UUID identifiers and wall-clock timestamps.
func New() *Store {
	return NewWith(uuid.NewString, time.Now)
}

// NewWith creates a Store with explicit id and clock functions, so tests can
// freeze both.
func NewWith(newID func() string, now func() time.Time) *Store {
	return &Store{newID: newID, now: now}
}

// SetOnChange registers the single change listener. The sync layer attaches
// itself here only after the initial load has completed, which is what keeps
// empty startup state from ever overwriting persisted data.
func (s *Store) SetOnChange(fn func(Collection)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) notify(cols ...Collection) {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn == nil {
		return
	}
	for _, c := range cols {
		fn(c)
	}
}

// AddCard assigns an id and creation timestamp and appends the card.
func (s *Store) AddCard(c core.Card) core.Card {
	s.mu.Lock()
	c.ID = s.newID()
	c.CreatedAt = s.now()
	s.cards = append(s.cards, c)
	s.mu.Unlock()

	s.notify(CollectionCards)
	return c
}

// DeleteCard removes the card and every subscription funded by it in one
// transition. It reports how many subscriptions were cascaded and whether the
// card existed; deleting an unknown id changes nothing.
func (s *Store) DeleteCard(id string) (cascaded int, ok bool) {
	s.mu.Lock()
	kept := s.cards[:0]
	for _, c := range s.cards {
		if c.ID == id {
			ok = true
			continue
		}
		kept = append(kept, c)
	}
	s.cards = kept

	keptSubs := s.subs[:0]
	for _, sub := range s.subs {
		if sub.CardID == id {
			cascaded++
			continue
		}
		keptSubs = append(keptSubs, sub)
	}
	s.subs = keptSubs
	s.mu.Unlock()

	if ok {
		s.notify(CollectionCards)
	}
	if cascaded > 0 {
		s.notify(CollectionSubscriptions)
	}
	return cascaded, ok
}

// AddService assigns an id and creation timestamp and appends the service.
func (s *Store) AddService(svc core.Service) core.Service {
	s.mu.Lock()
	svc.ID = s.newID()
	svc.CreatedAt = s.now()
	if svc.DefaultPrice != nil {
		p := *svc.DefaultPrice
		svc.DefaultPrice = &p
	}
	s.services = append(s.services, svc)
	s.mu.Unlock()

	s.notify(CollectionServices)
	return svc
}

// DeleteService removes the service template. Subscriptions created from it
// are left untouched: they keep their own snapshot of the service fields.
func (s *Store) DeleteService(id string) bool {
	s.mu.Lock()
	var ok bool
	kept := s.services[:0]
	for _, svc := range s.services {
		if svc.ID == id {
			ok = true
			continue
		}
		kept = append(kept, svc)
	}
	s.services = kept
	s.mu.Unlock()

	if ok {
		s.notify(CollectionServices)
	}
	return ok
}

// AddSubscription assigns an id and creation timestamp and appends the
// subscription. When the billing URL is empty and a service template is
// referenced, the template's URL is copied in: a snapshot taken now, not a
// live link.
func (s *Store) AddSubscription(sub core.Subscription) core.Subscription {
	s.mu.Lock()
	sub.ID = s.newID()
	sub.CreatedAt = s.now()
	if sub.BillingURL == "" && sub.ServiceID != "" {
		for _, svc := range s.services {
			if svc.ID == sub.ServiceID {
				sub.BillingURL = svc.BillingURL
				break
			}
		}
	}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	s.notify(CollectionSubscriptions)
	return sub
}

// DeleteSubscription removes the subscription with the given id, if any.
func (s *Store) DeleteSubscription(id string) bool {
	s.mu.Lock()
	var ok bool
	kept := s.subs[:0]
	for _, sub := range s.subs {
		if sub.ID == id {
			ok = true
			continue
		}
		kept = append(kept, sub)
	}
	s.subs = kept
	s.mu.Unlock()

	if ok {
		s.notify(CollectionSubscriptions)
	}
	return ok
}

// Cards returns a copy of the card collection in insertion order.
func (s *Store) Cards() []core.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Card(nil), s.cards...)
}

// Services returns a copy of the service collection in insertion order.
func (s *Store) Services() []core.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Service(nil), s.services...)
}

// Subscriptions returns a copy of the subscription collection in insertion
// order.
func (s *Store) Subscriptions() []core.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Subscription(nil), s.subs...)
}

// Replace seeds all three collections at once during the initial load. It
// does not fire change notifications; loaded state is not a mutation.
// Subscriptions whose card no longer exists are kept as-is; display fallback
// for dangling references is the caller's concern.
func (s *Store) Replace(cards []core.Card, services []core.Service, subs []core.Subscription) {
	s.mu.Lock()
	s.cards = append([]core.Card(nil), cards...)
	s.services = append([]core.Service(nil), services...)
	s.subs = append([]core.Subscription(nil), subs...)
	s.mu.Unlock()
}
