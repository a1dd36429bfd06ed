package events

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher is the subset of Bus that producers depend on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Bus fans events out to subscribers and optionally persists them.
type Bus struct {
	mu       sync.RWMutex
	byType   map[string][]chan Event
	wildcard []chan Event
	log      *EventLog // may be nil
	logger   *slog.Logger
	closed   bool
}

var _ Publisher = (*Bus)(nil)

// NewBus creates a new event bus.
// The EventLog is optional - pass nil to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		byType: make(map[string][]chan Event),
		log:    log,
		logger: logger.With("component", "events"),
	}
}

// Publish persists e and delivers it to every matching subscriber.
// Delivery never blocks: a full subscriber misses the event.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return nil
	}

	if b.log != nil {
		if _, err := b.log.Append(ctx, e); err != nil {
			// Subscribers still get the event.
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	// Sends never block, so the read lock is held during delivery.
	// This keeps Unsubscribe from closing a channel mid-send.
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, subs := range [][]chan Event{b.byType[e.EventType()], b.wildcard} {
		for _, ch := range subs {
			select {
			case ch <- e:
			default:
				b.logger.Warn("subscriber channel full, dropping event",
					"type", e.EventType(),
					"entity_type", e.EntityType(),
					"entity_id", e.EntityID())
			}
		}
	}
	return nil
}

// Subscribe returns a channel for events of a specific type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.byType[eventType] = append(b.byType[eventType], ch)
	return ch
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.wildcard = append(b.wildcard, ch)
	return ch
}

// SubscribeEntity returns events for a single entity.
// The channel closes when ctx ends or the bus closes.
func (b *Bus) SubscribeEntity(ctx context.Context, entityType string, entityID int64, bufferSize int) <-chan Event {
	all := b.SubscribeAll(bufferSize * 4)
	out := make(chan Event, bufferSize)

	go func() {
		defer close(out)
		defer b.Unsubscribe(all)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-all:
				if !ok {
					return
				}
				if e.EntityType() != entityType || e.EntityID() != entityID {
					continue
				}
				select {
				case out <- e:
				default:
				}
			}
		}
	}()

	return out
}

// Unsubscribe removes and closes a subscription channel. Unknown channels are ignored.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.byType {
		if i := indexOf(subs, ch); i >= 0 {
			close(subs[i])
			b.byType[eventType] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
	if i := indexOf(b.wildcard, ch); i >= 0 {
		close(b.wildcard[i])
		b.wildcard = append(b.wildcard[:i], b.wildcard[i+1:]...)
	}
}

func indexOf(subs []chan Event, ch <-chan Event) int {
	for i, sub := range subs {
		if sub == ch {
			return i
		}
	}
	return -1
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.byType {
		for _, ch := range subs {
			close(ch)
		}
	}
	for _, ch := range b.wildcard {
		close(ch)
	}
	b.byType = nil
	b.wildcard = nil
	return nil
}
