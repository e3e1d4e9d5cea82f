package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublisher_AccumulatesEvents(t *testing.T) {
	pub := NewMemoryPublisher()
	pub.Publish([]BookEvent{{Type: EventOpened, OrderID: 1}})
	pub.Publish([]BookEvent{{Type: EventCancelled, OrderID: 1}})

	assert.Equal(t, 2, pub.Count())
	events := pub.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventOpened, events[0].Type)
	assert.Equal(t, EventCancelled, events[1].Type)
}

func TestMemoryPublisher_EventsReturnsACopy(t *testing.T) {
	pub := NewMemoryPublisher()
	pub.Publish([]BookEvent{{Type: EventOpened, OrderID: 1}})

	events := pub.Events()
	events[0].OrderID = 999

	assert.EqualValues(t, 1, pub.Events()[0].OrderID)
}

func TestDiscardPublisher_DropsEverything(t *testing.T) {
	var pub DiscardPublisher
	pub.Publish([]BookEvent{{Type: EventOpened}})
}

func TestRingBufferPublisher_DeliversToDownstream(t *testing.T) {
	downstream := NewMemoryPublisher()
	rbPub := NewRingBufferPublisher(16, downstream)

	for i := 0; i < 5; i++ {
		rbPub.Publish([]BookEvent{{Type: EventOpened, OrderID: OrderID(i)}})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, rbPub.Shutdown(ctx))

	assert.Equal(t, 5, downstream.Count())
}

func TestBuildEvent_StampsSequenceAndTimestamp(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	ev := buildEvent(7, EventMatched, now)

	assert.EqualValues(t, 7, ev.SequenceID)
	assert.Equal(t, EventMatched, ev.Type)
	assert.Equal(t, now, ev.CreatedAt)
	assert.NotEmpty(t, ev.EventID)
}
