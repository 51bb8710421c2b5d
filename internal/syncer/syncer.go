// Package syncer bridges the in-memory collections and the durable store.
//
// The protocol is load-once, then write-on-change: exactly one load runs at
// startup, and only after it completes does the syncer start observing store
// mutations. Every mutation rewrites that collection's full snapshot. Nothing
// is ever written before the load, so empty startup state cannot clobber
// persisted data.
package syncer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"autopay/internal/core"
	"autopay/internal/store"
)

// Persisted key namespace, carried over unchanged so existing databases keep
// working.
const (
	KeyCards            = "autopay_cards"
	KeyServices         = "autopay_services"
	KeySubscriptions    = "autopay_subscriptions"
	KeySidebarCollapsed = "autopay_sidebar_collapsed"
)

// KV is the durable-store capability the syncer consumes. Loads never fail
// (absence and damage look the same); saves may.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, bool)
	Save(ctx context.Context, key string, value []byte) error
}

// Syncer performs the one-shot load and mirrors every subsequent store
// mutation back to the durable store.
type Syncer struct {
	kv     KV
	store  *store.Store
	loaded bool

	// mu serializes snapshot-read plus save as one step. Mutations arrive
	// from concurrent request handlers; without this, a stale snapshot
	// taken first could be written last and lose the newer entity.
	mu sync.Mutex
}

func New(kv KV, st *store.Store) *Syncer {
	return &Syncer{kv: kv, store: st}
}

// Load reads the three collections from the durable store, seeds the entity
// store with them, and begins observing mutations. A key that is absent or
// fails to parse leaves that collection empty; Load itself never fails.
//
// Load must be called exactly once, before the store is handed to callers.
func (s *Syncer) Load(ctx context.Context) {
	cards := loadCollection[core.Card](ctx, s.kv, KeyCards)
	services := loadCollection[core.Service](ctx, s.kv, KeyServices)
	subs := loadCollection[core.Subscription](ctx, s.kv, KeySubscriptions)

	s.store.Replace(cards, services, subs)
	s.loaded = true
	s.store.SetOnChange(s.collectionChanged)

	slog.InfoContext(ctx, "State loaded from durable store",
		"cards", len(cards),
		"services", len(services),
		"subscriptions", len(subs))
}

func (s *Syncer) collectionChanged(c store.Collection) {
	if !s.loaded {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := context.Background()

	var (
		key      string
		snapshot any
	)
	switch c {
	case store.CollectionCards:
		key, snapshot = KeyCards, s.store.Cards()
	case store.CollectionServices:
		key, snapshot = KeyServices, s.store.Services()
	case store.CollectionSubscriptions:
		key, snapshot = KeySubscriptions, s.store.Subscriptions()
	default:
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("Failed to encode collection snapshot", "collection", c, "error", err)
		return
	}
	if err := s.kv.Save(ctx, key, data); err != nil {
		// Mutating callers never see storage failures; state stays correct
		// in memory and the next mutation retries the full snapshot.
		slog.Error("Failed to persist collection", "collection", c, "error", err)
	}
}

// SidebarCollapsed reads the one UI preference flag the durable store keeps
// alongside the collections. Absent or damaged means not collapsed.
func (s *Syncer) SidebarCollapsed(ctx context.Context) bool {
	data, ok := s.kv.Load(ctx, KeySidebarCollapsed)
	if !ok {
		return false
	}
	var collapsed bool
	if err := json.Unmarshal(data, &collapsed); err != nil {
		slog.WarnContext(ctx, "Failed to parse sidebar preference, using default", "error", err)
		return false
	}
	return collapsed
}

// SetSidebarCollapsed persists the UI preference flag.
func (s *Syncer) SetSidebarCollapsed(ctx context.Context, collapsed bool) {
	if !s.loaded {
		return
	}
	data, _ := json.Marshal(collapsed)
	if err := s.kv.Save(ctx, KeySidebarCollapsed, data); err != nil {
		slog.ErrorContext(ctx, "Failed to persist sidebar preference", "error", err)
	}
}

// DecodeSubscriptions parses a persisted subscriptions snapshot, applying the
// same fail-soft policy as Load. The reminder worker uses it to read the
// snapshot written by the main process.
func DecodeSubscriptions(data []byte) []core.Subscription {
	return decode[core.Subscription](data, KeySubscriptions)
}

func loadCollection[T any](ctx context.Context, kv KV, key string) []T {
	data, ok := kv.Load(ctx, key)
	if !ok {
		return nil
	}
	return decode[T](data, key)
}

func decode[T any](data []byte, key string) []T {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("Discarding unparseable collection, starting empty",
			"key", key, "error", err)
		return nil
	}
	return items
}
