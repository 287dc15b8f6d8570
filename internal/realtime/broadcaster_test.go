package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestBroadcaster() *Broadcaster {
	return NewBroadcaster(nopLogger{}, nil)
}

func collectEvents(n int) (Handler, <-chan Event) {
	ch := make(chan Event, n)
	return func(e Event) { ch <- e }, ch
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBroadcaster_EmitDeliversToSubscriber(t *testing.T) {
	b := newTestBroadcaster()
	defer b.Disconnect()

	handler, events := collectEvents(1)
	b.Subscribe(EventAvailabilityUpdated, handler)

	b.Emit(EventAvailabilityUpdated, 7, AvailabilityPayload{Date: "2025-06-02", Status: "partial", SlotCount: 3})

	e := waitEvent(t, events)
	assert.Equal(t, EventAvailabilityUpdated, e.Type)
	assert.Equal(t, int64(7), e.UserID)
	assert.False(t, e.Timestamp.IsZero())

	payload, ok := e.Payload.(AvailabilityPayload)
	require.True(t, ok)
	assert.Equal(t, "2025-06-02", payload.Date)
	assert.Equal(t, 3, payload.SlotCount)
}

func TestBroadcaster_EmitWithoutConnectReconnectsLazily(t *testing.T) {
	b := newTestBroadcaster()
	defer b.Disconnect()

	handler, events := collectEvents(1)
	b.Subscribe(EventBookingUpdated, handler)

	// Connect не вызывался явно
	b.Emit(EventBookingUpdated, 1, BookingPayload{BookingID: "booking-1"})

	e := waitEvent(t, events)
	assert.Equal(t, EventBookingUpdated, e.Type)
}

func TestBroadcaster_TypeIsolation(t *testing.T) {
	b := newTestBroadcaster()
	defer b.Disconnect()

	handler, events := collectEvents(2)
	b.Subscribe(EventConflictDetected, handler)

	b.Emit(EventAvailabilityUpdated, 1, AvailabilityPayload{Date: "2025-06-02"})
	b.Emit(EventConflictDetected, 1, ConflictPayload{ConflictID: "conflict-1"})

	e := waitEvent(t, events)
	assert.Equal(t, EventConflictDetected, e.Type)

	select {
	case extra := <-events:
		t.Fatalf("unexpected extra event: %v", extra.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcaster_OrderWithinSubscription(t *testing.T) {
	b := newTestBroadcaster()
	defer b.Disconnect()

	const total = 20
	received := make([]string, 0, total)
	var mu sync.Mutex
	done := make(chan struct{})

	b.Subscribe(EventAvailabilityUpdated, func(e Event) {
		payload := e.Payload.(AvailabilityPayload)
		mu.Lock()
		received = append(received, payload.Date)
		if len(received) == total {
			close(done)
		}
		mu.Unlock()
	})

	dates := make([]string, total)
	for i := 0; i < total; i++ {
		dates[i] = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format("2006-01-02")
		b.Emit(EventAvailabilityUpdated, 1, AvailabilityPayload{Date: dates[i]})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for all events")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, dates, received)
}

func TestBroadcaster_HandlerPanicDoesNotAbortDelivery(t *testing.T) {
	b := newTestBroadcaster()
	defer b.Disconnect()

	b.Subscribe(EventBookingUpdated, func(Event) {
		panic("handler blew up")
	})
	healthy, events := collectEvents(1)
	b.Subscribe(EventBookingUpdated, healthy)

	b.Emit(EventBookingUpdated, 1, BookingPayload{BookingID: "booking-1"})

	e := waitEvent(t, events)
	assert.Equal(t, EventBookingUpdated, e.Type)
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := newTestBroadcaster()
	defer b.Disconnect()

	handler, events := collectEvents(2)
	token := b.Subscribe(EventPatternApplied, handler)

	b.Emit(EventPatternApplied, 1, PatternPayload{PatternID: "pattern-1"})
	waitEvent(t, events)

	b.Unsubscribe(token)
	b.Emit(EventPatternApplied, 1, PatternPayload{PatternID: "pattern-2"})

	select {
	case e := <-events:
		t.Fatalf("received event after unsubscribe: %v", e.Payload)
	case <-time.After(100 * time.Millisecond):
	}

	// Неизвестный токен игнорируется
	b.Unsubscribe(SubscriptionToken("missing"))
}

func TestBroadcaster_DisconnectWithoutConnect(t *testing.T) {
	b := newTestBroadcaster()
	b.Disconnect()
	b.Disconnect()

	b.Connect()
	b.Connect()
	b.Disconnect()
}
