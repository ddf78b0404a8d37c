package messages

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriptionID identifies an EventBus subscription.
type SubscriptionID uint32

// ValidationEvent reports the terminal outcome of validating one
// message. It is published by core validators through an optional
// EventBus, giving a caller a structured-event sink instead of a
// package-global log stream.
type ValidationEvent struct {
	MessageType MessageType
	Round       ConsensusRoundIdentifier
	Sender      Address
	Accepted    bool

	// Reason carries the rejecting ErrorKind's name when Accepted is
	// false; empty otherwise. Kept as a plain string, not a core error
	// type, so that this package never imports core (core imports
	// messages, not the other way around).
	Reason string
}

// Filter narrows an EventBus subscription. A zero MessageType matches
// any message type; a nil Round matches any round.
type Filter struct {
	MessageType MessageType
	Round       *ConsensusRoundIdentifier
}

func (f Filter) matches(ev ValidationEvent) bool {
	if f.MessageType != 0 && f.MessageType != ev.MessageType {
		return false
	}

	if f.Round != nil && !f.Round.Equal(ev.Round) {
		return false
	}

	return true
}

// EventBus fans validation outcomes out to subscribers. It is the only
// piece of mutable, concurrency-guarded state the validators touch; every
// validator treats a nil *EventBus as a no-op, so the core remains
// usable with zero observability wiring.
type EventBus struct {
	mu               sync.RWMutex
	subscriptions    map[SubscriptionID]*subscription
	numSubscriptions int64
}

// NewEventBus creates an empty EventBus.
func NewEventBus() *EventBus {
	return &EventBus{
		subscriptions: make(map[SubscriptionID]*subscription),
	}
}

// Subscribe registers a new listener for validation events matching
// filter. The returned channel is closed once Cancel is called.
func (b *EventBus) Subscribe(filter Filter) (SubscriptionID, <-chan ValidationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := SubscriptionID(uuid.New().ID())
	sub := &subscription{
		filter:   filter,
		outputCh: make(chan ValidationEvent),
		doneCh:   make(chan struct{}),
		notifyCh: make(chan ValidationEvent, 1),
	}

	b.subscriptions[id] = sub

	go sub.runLoop()

	atomic.AddInt64(&b.numSubscriptions, 1)

	return id, sub.outputCh
}

// Cancel stops and removes a subscription. Cancelling an unknown or
// already-cancelled ID is a no-op.
func (b *EventBus) Cancel(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscriptions[id]; ok {
		sub.close()
		delete(b.subscriptions, id)
		atomic.AddInt64(&b.numSubscriptions, -1)
	}
}

// Close stops every subscription, leaving the bus ready to be
// discarded.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subscriptions {
		sub.close()
		delete(b.subscriptions, id)
	}

	atomic.StoreInt64(&b.numSubscriptions, 0)
}

// Publish is a non-blocking best-effort fan-out of ev to every
// subscription whose filter matches. A validator with no subscribers
// pays only the cost of one atomic load.
func (b *EventBus) Publish(ev ValidationEvent) {
	if atomic.LoadInt64(&b.numSubscriptions) < 1 {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscriptions {
		sub.push(ev)
	}
}
