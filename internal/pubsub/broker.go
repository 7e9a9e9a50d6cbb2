package pubsub

import (
	"encoding/json"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Topic names. The staff console subscribes to TopicOrders and sees every
// event; an ordering client subscribes to its own table's topic.
const TopicOrders = "orders"

// TableTopic returns the topic carrying events for one table's orders.
func TableTopic(tableNumber int) string {
	return "tables/" + strconv.Itoa(tableNumber)
}

// Event is a notification fanned out to subscribers. Payload is a full order
// snapshot serialized at emission time.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// subscriptionBuffer bounds how far a subscriber may fall behind before
// events are dropped for it.
const subscriptionBuffer = 256

// Subscription is a client's live interest in a topic. Its lifetime governs
// delivery: nothing before Subscribe, nothing after Unsubscribe.
type Subscription struct {
	topic string
	ch    chan Event
}

// Topic returns the topic this subscription is registered on.
func (s *Subscription) Topic() string { return s.topic }

// Events is the delivery channel. It is closed by Unsubscribe.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Broker delivers every published event to all current subscribers of a
// topic. Delivery order is preserved per subscriber; there is no ordering
// guarantee across subscribers and no replay for late or disconnected ones.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	log    *zap.Logger
}

func NewBroker(log *zap.Logger) *Broker {
	return &Broker{
		topics: make(map[string]map[*Subscription]struct{}),
		log:    log,
	}
}

// Subscribe registers interest in a topic and returns the subscription
// handle. Safe for concurrent use.
func (b *Broker) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan Event, subscriptionBuffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[*Subscription]struct{})
	}
	b.topics[topic][sub] = struct{}{}
	return sub
}

// Unsubscribe stops delivery and closes the subscription's channel. Calling
// it more than once is safe.
func (b *Broker) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[sub.topic]
	if !ok {
		return
	}
	if _, exists := subs[sub]; !exists {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
	}
}

// Publish delivers the event to every current subscriber of the topic. A
// subscriber whose buffer is full has this event dropped for it alone; the
// drop is logged and delivery to the remaining subscribers proceeds. Dropped
// events are not retried; the affected client re-fetches state on reconnect.
func (b *Broker) Publish(topic string, evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.topics[topic] {
		select {
		case sub.ch <- evt:
		default:
			b.log.Warn("subscriber buffer full, dropping event",
				zap.String("topic", topic),
				zap.String("event_type", evt.Type),
			)
		}
	}
}
