package bus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/zeusync/tileworld/internal/core/observability/log"
)

var ErrNilHandler = errors.New("bus: nil handler")

type subscription struct {
	id        string
	eventType string
	handler   EventHandler

	mu     sync.Mutex
	active bool
	cancel func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }

func (s *subscription) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *subscription) Cancel() error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = false
	s.mu.Unlock()

	s.cancel()
	return nil
}

// inMemoryBus keeps subscriptions per event type in registration order.
type inMemoryBus struct {
	mu        sync.RWMutex
	routes    map[string][]*subscription
	observers map[Observer]struct{}
	metrics   Metrics
	holds     int
	queue     []Event
	logger    log.Log
}

// New creates an EventBus. A nil logger falls back to the process logger.
func New(logger log.Log) EventBus {
	if logger == nil {
		logger = log.Provide()
	}
	return &inMemoryBus{
		routes:    make(map[string][]*subscription),
		observers: make(map[Observer]struct{}),
		logger:    logger.With(log.String("component", "bus")),
	}
}

func (b *inMemoryBus) Publish(event Event) error {
	b.mu.Lock()
	if b.holds > 0 {
		b.queue = append(b.queue, event)
		if len(b.observers) > 0 {
			b.metrics.Queued++
		}
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	return b.deliver(event)
}

func (b *inMemoryBus) PublishBatch(events ...Event) error {
	var all error
	for _, e := range events {
		if err := b.Publish(e); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

func (b *inMemoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	s := &subscription{
		id:        uuid.NewString(),
		eventType: eventType,
		handler:   handler,
		active:    true,
	}
	s.cancel = func() { b.remove(s) }

	b.mu.Lock()
	b.routes[eventType] = append(b.routes[eventType], s)
	b.mu.Unlock()

	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) Hold() {
	b.mu.Lock()
	b.holds++
	b.mu.Unlock()
}

func (b *inMemoryBus) Release() error {
	b.mu.Lock()
	if b.holds == 0 {
		b.mu.Unlock()
		return nil
	}
	b.holds--
	if b.holds > 0 {
		b.mu.Unlock()
		return nil
	}
	queued := b.queue
	b.queue = nil
	b.mu.Unlock()

	return b.PublishBatch(queued...)
}

func (b *inMemoryBus) AddObserver(obs Observer) {
	b.mu.Lock()
	b.observers[obs] = struct{}{}
	b.mu.Unlock()
}

func (b *inMemoryBus) RemoveObserver(obs Observer) {
	b.mu.Lock()
	delete(b.observers, obs)
	b.mu.Unlock()
}

func (b *inMemoryBus) Metrics() Metrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}

func (b *inMemoryBus) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.routes[s.eventType]
	for i, existing := range subs {
		if existing == s {
			b.routes[s.eventType] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.routes[s.eventType]) == 0 {
		delete(b.routes, s.eventType)
	}
}

func (b *inMemoryBus) deliver(event Event) error {
	b.mu.RLock()
	subs := append([]*subscription(nil), b.routes[event.Type]...)
	observers := make([]Observer, 0, len(b.observers))
	for obs := range b.observers {
		observers = append(observers, obs)
	}
	b.mu.RUnlock()

	for _, obs := range observers {
		obs.OnPublish(event)
	}

	var all error
	delivered := 0
	for _, s := range subs {
		if !s.Active() {
			continue
		}
		delivered++
		if err := s.handler(event); err != nil {
			b.logger.Warn("Event handler failed",
				log.String("event", event.Type),
				log.Error(err),
			)
			all = errors.Join(all, fmt.Errorf("%s: %w", event.Type, err))
		}
	}

	if len(observers) == 0 {
		return all
	}

	for _, obs := range observers {
		obs.OnDelivered(event, delivered, all)
	}

	b.mu.Lock()
	b.metrics.Published++
	b.metrics.DeliveredHandlers += uint64(delivered)
	if all != nil {
		b.metrics.Errors++
	}
	var active uint64
	for _, s := range b.routes {
		active += uint64(len(s))
	}
	b.metrics.Subscribers = active
	b.mu.Unlock()

	return all
}
