package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestEventBus_PublishDelivers(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewEventBus()
	defer bus.Close()

	_, ch := bus.Subscribe(Filter{})

	bus.Publish(ValidationEvent{MessageType: MessageTypeCommit, Accepted: true})

	select {
	case ev := <-ch:
		assert.Equal(t, MessageTypeCommit, ev.MessageType)
		assert.True(t, ev.Accepted)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEventBus_FilterByMessageType(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewEventBus()
	defer bus.Close()

	_, ch := bus.Subscribe(Filter{MessageType: MessageTypeCommit})

	bus.Publish(ValidationEvent{MessageType: MessageTypePrepare})
	bus.Publish(ValidationEvent{MessageType: MessageTypeCommit})

	select {
	case ev := <-ch:
		assert.Equal(t, MessageTypeCommit, ev.MessageType)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case ev := <-ch:
		t.Fatalf("unexpected second event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_NoSubscribersSkipsWork(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewEventBus()
	defer bus.Close()

	assert.NotPanics(t, func() {
		bus.Publish(ValidationEvent{MessageType: MessageTypeCommit})
	})
}

func TestEventBus_CancelStopsDelivery(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewEventBus()
	defer bus.Close()

	id, ch := bus.Subscribe(Filter{})
	bus.Cancel(id)

	bus.Publish(ValidationEvent{MessageType: MessageTypeCommit})

	select {
	case ev, open := <-ch:
		if open {
			t.Fatalf("unexpected event after cancel: %+v", ev)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_CloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewEventBus()

	bus.Subscribe(Filter{})
	bus.Subscribe(Filter{})

	assert.NotPanics(t, func() {
		bus.Close()
		bus.Close()
	})
}

func TestFilter_MatchesRound(t *testing.T) {
	defer goleak.VerifyNone(t)

	round := ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 2}
	other := ConsensusRoundIdentifier{SequenceNumber: 10, RoundNumber: 3}

	filter := Filter{Round: &round}

	assert.True(t, filter.matches(ValidationEvent{Round: round}))
	assert.False(t, filter.matches(ValidationEvent{Round: other}))

	require.True(t, Filter{}.matches(ValidationEvent{Round: other}))
}
