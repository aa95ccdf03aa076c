package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisBus is the distributed Bus implementation for multi-node deployments.
// Each tenant channel maps to a Redis pub/sub channel, so an event published
// on one node reaches stream sessions connected to every node. Semantics
// match MemoryBus except that delivery is asynchronous and per-channel
// ordering follows Redis pub/sub ordering.
type RedisBus struct {
	client *redis.Client

	mu     sync.Mutex
	nextID uint64
	counts map[uuid.UUID]int
}

// NewRedisBus connects and pings the Redis server.
func NewRedisBus(ctx context.Context, addr, password string, db int) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("events.NewRedisBus: ping: %w", err)
	}

	return &RedisBus{client: client, counts: make(map[uuid.UUID]int)}, nil
}

// wireEvent is the frame stored on the Redis channel. Data is kept raw on the
// subscriber side so forwarding re-marshals the exact published bytes.
type wireEvent struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

func (b *RedisBus) Publish(ctx context.Context, ev TenantEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events.RedisBus.Publish: marshal: %w", err)
	}

	if err := b.client.Publish(ctx, ChannelName(ev.TenantID), payload).Err(); err != nil {
		return fmt.Errorf("events.RedisBus.Publish: %w", err)
	}

	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, tenantID uuid.UUID, h Handler) (*Subscription, error) {
	pubsub := b.client.Subscribe(ctx, ChannelName(tenantID))

	// Wait for subscription confirmation so no published event is missed
	// between Subscribe returning and the pump starting.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("events.RedisBus.Subscribe: receive confirmation: %w", err)
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.counts[tenantID]++
	b.mu.Unlock()

	go b.pump(ctx, tenantID, pubsub.Channel(), h)

	sub := &Subscription{tenantID: tenantID, id: id}
	sub.cancel = func() {
		_ = pubsub.Close()
		b.mu.Lock()
		b.counts[tenantID]--
		if b.counts[tenantID] <= 0 {
			delete(b.counts, tenantID)
		}
		b.mu.Unlock()
	}

	return sub, nil
}

func (b *RedisBus) pump(ctx context.Context, tenantID uuid.UUID, messages <-chan *redis.Message, h Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var wire wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &wire); err != nil {
				// Malformed frame: drop and log rather than kill the pump.
				log.Warn().Err(err).Str("channel", msg.Channel).Msg("events: malformed frame dropped")
				continue
			}

			h(TenantEvent{
				TenantID:  tenantID,
				Type:      wire.Type,
				Data:      wire.Data,
				Timestamp: wire.Timestamp,
			})
		}
	}
}

func (b *RedisBus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	sub.remove.Do(sub.cancel)
}

func (b *RedisBus) SubscriberCount(tenantID uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[tenantID]
}

func (b *RedisBus) Close() error {
	if err := b.client.Close(); err != nil {
		return fmt.Errorf("events.RedisBus.Close: %w", err)
	}
	return nil
}
