package events

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler receives every event published to the channel it is subscribed to.
// Handlers must not block; slow consumers buffer on their own side.
type Handler func(TenantEvent)

// Bus is the tenant-scoped publish/subscribe register. It is constructed once
// at process start and passed to every component that publishes or subscribes,
// so it can be swapped for a test double or the Redis-backed implementation.
type Bus interface {
	// Publish invokes every handler currently subscribed to the event's
	// tenant channel. Publishing to a tenant with no subscribers is a no-op.
	Publish(ctx context.Context, ev TenantEvent) error
	// Subscribe registers a handler on the tenant's channel and returns a
	// handle for removal.
	Subscribe(ctx context.Context, tenantID uuid.UUID, h Handler) (*Subscription, error)
	// Unsubscribe removes a subscription. Removing one that is already gone
	// is a no-op.
	Unsubscribe(sub *Subscription)
	// SubscriberCount reports the number of live subscriptions on a channel.
	SubscriberCount(tenantID uuid.UUID) int
	Close() error
}

// Subscription is the removal handle returned by Subscribe. A handle belongs
// to exactly one channel.
type Subscription struct {
	tenantID uuid.UUID
	id       uint64
	remove   sync.Once
	cancel   func()
}

// TenantID returns the channel this subscription listens to.
func (s *Subscription) TenantID() uuid.UUID { return s.tenantID }

// MemoryBus is the in-process Bus. Fan-out is synchronous: Publish snapshots
// the channel's handlers under the lock and invokes them in registration
// order outside it, so a subscriber unsubscribing mid-publish cannot skip or
// duplicate delivery to others. There is no cap on subscriber count;
// warnThreshold only logs when exceeded.
type MemoryBus struct {
	mu            sync.RWMutex
	nextID        uint64
	channels      map[uuid.UUID]map[uint64]Handler
	warnThreshold int
	closed        bool
}

// NewMemoryBus creates an empty bus. warnThreshold of 0 disables the
// high-subscriber warning.
func NewMemoryBus(warnThreshold int) *MemoryBus {
	return &MemoryBus{
		channels:      make(map[uuid.UUID]map[uint64]Handler),
		warnThreshold: warnThreshold,
	}
}

func (b *MemoryBus) Publish(_ context.Context, ev TenantEvent) error {
	b.mu.RLock()
	ch := b.channels[ev.TenantID]
	ids := make([]uint64, 0, len(ch))
	for id := range ch {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]Handler, len(ids))
	for i, id := range ids {
		handlers[i] = ch[id]
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, ev)
	}

	return nil
}

// deliver isolates a panicking handler so one failing subscriber cannot
// prevent delivery to the rest of the channel.
func (b *MemoryBus) deliver(h Handler, ev TenantEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("event_type", string(ev.Type)).
				Str("tenant_id", ev.TenantID.String()).
				Msg("events: subscriber panicked during delivery")
		}
	}()
	h(ev)
}

func (b *MemoryBus) Subscribe(_ context.Context, tenantID uuid.UUID, h Handler) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.channels[tenantID]
	if !ok {
		ch = make(map[uint64]Handler)
		b.channels[tenantID] = ch
	}

	b.nextID++
	id := b.nextID
	ch[id] = h

	if b.warnThreshold > 0 && len(ch) > b.warnThreshold {
		log.Warn().
			Str("tenant_id", tenantID.String()).
			Int("subscribers", len(ch)).
			Int("threshold", b.warnThreshold).
			Msg("events: subscriber count above warn threshold")
	}

	sub := &Subscription{tenantID: tenantID, id: id}
	sub.cancel = func() { b.removeHandler(tenantID, id) }

	return sub, nil
}

func (b *MemoryBus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	sub.remove.Do(sub.cancel)
}

// removeHandler prunes the channel map entry when the last subscriber leaves
// so registry memory does not grow with tenant churn.
func (b *MemoryBus) removeHandler(tenantID uuid.UUID, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.channels[tenantID]
	if !ok {
		return
	}
	delete(ch, id)
	if len(ch) == 0 {
		delete(b.channels, tenantID)
	}
}

func (b *MemoryBus) SubscriberCount(tenantID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.channels[tenantID])
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.channels = make(map[uuid.UUID]map[uint64]Handler)
	return nil
}
