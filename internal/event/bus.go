package event

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// Handler handles a published event.
type Handler func(Event)

type subscription struct {
	id      string
	topic   string
	handler Handler
}

// Wildcard subscribes a handler to every topic.
const Wildcard = "*"

// Bus delivers events synchronously, in registration order, on the
// publisher's goroutine. A panicking handler is logged and skipped.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription
	log           *slog.Logger
}

// NewBus creates a bus that logs handler panics to log; nil discards.
func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		subscriptions: make(map[string][]subscription),
		log:           log,
	}
}

// Subscribe registers handler for topic and returns an id for Unsubscribe.
func (b *Bus) Subscribe(topic string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.subscriptions[topic] = append(b.subscriptions[topic], subscription{
		id:      id,
		topic:   topic,
		handler: handler,
	})
	return id
}

// Unsubscribe removes a subscription. It reports whether id was found.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for topic, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				b.subscriptions[topic] = append(subs[:i:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish dispatches e to topic subscribers, then to wildcard subscribers.
func (b *Bus) Publish(e Event) {
	topic := e.EventType()

	b.mu.RLock()
	specific := append([]subscription(nil), b.subscriptions[topic]...)
	wildcard := append([]subscription(nil), b.subscriptions[Wildcard]...)
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub, e)
	}
	for _, sub := range wildcard {
		b.safeCall(sub, e)
	}
}

func (b *Bus) safeCall(sub subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				"topic", e.EventType(),
				"subscription", sub.id,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	sub.handler(e)
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, subs := range b.subscriptions {
		n += len(subs)
	}
	return n
}
