package bus

import "time"

// EventBus is an in-process publish/subscribe hub used by the world to
// announce engine-state transitions, loaded levels and trigger events.
//
// Delivery is synchronous: Publish calls every matching handler on the
// caller's goroutine, in subscription order, and joins the handler errors.
// Between Hold and the matching Release, publishes are queued instead and
// Release delivers them in order. The world holds the bus for the length of
// a tick, so handlers never run under the world lock.
// All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers the event to the subscribers of event.Type. While
	// the bus is held it queues the event and returns nil.
	Publish(event Event) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil subscription is ignored.
	Unsubscribe(sub Subscription) error

	// Hold starts queueing publishes. Holds nest.
	Hold()
	// Release ends one Hold. The outermost Release delivers the queue and
	// returns the joined handler errors.
	Release() error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// Metrics are only collected while at least one observer is registered.
	Metrics() Metrics
}

// Event is an immutable notification.
type Event struct {
	Type   string
	Source string
	Time   time.Time
	Data   any
}

// NewEvent stamps an event with the current time.
func NewEvent(typ, source string, data any) Event {
	return Event{Type: typ, Source: source, Time: time.Now(), Data: data}
}

// EventHandler is invoked once per delivered event.
type EventHandler func(event Event) error

// Subscription is a registered handler. Cancel is idempotent.
type Subscription interface {
	ID() string
	EventType() string
	Active() bool
	Cancel() error
}

// Observer is told about every delivery and its outcome.
type Observer interface {
	OnPublish(event Event)
	OnDelivered(event Event, handlers int, err error)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	Subscribers       uint64
	Queued            uint64
}
