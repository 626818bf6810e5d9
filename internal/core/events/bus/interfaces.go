package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus used to fan simulation
// output out to consumers such as render clients.
//
// - Handlers subscribe by Event.Type() within a topic. The default topic is "".
// - Publish calls handlers synchronously in the publisher goroutine, in the
//   order they subscribed.
// - Handler errors are joined and returned from Publish.
// - Metrics are collected only while at least one observer is registered.
//
// Handlers run on the simulation goroutine; they must be quick and must not
// publish back into the bus.
type EventBus interface {
	// Publish delivers the event to the default topic.
	Publish(event Event) error
	// PublishToTopic delivers the event to subscribers of event.Type() in topic.
	PublishToTopic(topic string, event Event) error

	// Subscribe registers a handler for eventType in the default topic.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// SubscribeTopic registers a handler for eventType within topic.
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. A nil subscription is a no-op.
	Unsubscribe(Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// Metrics returns a snapshot of the counters collected while observed.
	Metrics() Metrics
	// Topics lists known topics sorted by name.
	Topics() []TopicInfo
}

// Event is an immutable message transported by the EventBus.
//
// Tick is the simulation tick the event was produced on, or zero for events
// that are not tied to a tick.
type Event interface {
	Type() string
	Source() string
	Tick() uint64
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked once per delivered event.
	EventHandler func(event Event) error
)

// Subscription is a registered handler bound to a topic and event type.
type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is notified about every publish and its delivery outcome.
type Observer interface {
	OnPublish(topic string, event Event)
	OnDelivered(topic string, event Event, handlers int, err error, took time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
	Topics            uint64
}

type TopicInfo struct {
	Name       string
	EventTypes int
	Subs       int
}
