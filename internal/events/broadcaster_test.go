package events_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arclight-dev/taskloom/internal/events"
)

func TestSubscribeThenPublishDeliversToAllSubscribers(t *testing.T) {
	b := events.NewBroadcaster()
	ch1, unsub1 := b.Subscribe()
	defer unsub1()
	ch2, unsub2 := b.Subscribe()
	defer unsub2()

	require.Equal(t, 2, b.SubscriberCount())
	b.Publish(events.Event{Type: "routed", TaskID: "t1"})

	select {
	case ev := <-ch1:
		require.Equal(t, "routed", ev.Type)
	case <-time.After(time.Second):
		t.Fatal("subscriber 1 did not receive event")
	}
	select {
	case ev := <-ch2:
		require.Equal(t, "routed", ev.Type)
	case <-time.After(time.Second):
		t.Fatal("subscriber 2 did not receive event")
	}
}

func TestUnsubscribeStopsDeliveryAndClosesChannel(t *testing.T) {
	b := events.NewBroadcaster()
	ch, unsub := b.Subscribe()
	unsub()
	require.Equal(t, 0, b.SubscriberCount())

	_, ok := <-ch
	require.False(t, ok)
}

func TestPublishDropsOldestWhenSubscriberBufferFull(t *testing.T) {
	b := events.NewBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	for i := 0; i < 100; i++ {
		b.Publish(events.Event{Type: "checked", TaskID: strconv.Itoa(i)})
	}

	// The channel never blocks the publisher even though far more events
	// were published than the buffer holds.
	require.LessOrEqual(t, len(ch), cap(ch))

	// The oldest events were dropped: the first one still buffered is the
	// one published cap(ch) events before the last.
	first := <-ch
	require.Equal(t, strconv.Itoa(100-cap(ch)), first.TaskID)
}
