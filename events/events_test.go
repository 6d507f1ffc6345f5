package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitDeliversToSubscribers(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(2)
	received := make(chan Event, 2)
	for i := 0; i < 2; i++ {
		bus.Subscribe(EventTypeStaleRetry, func(ctx context.Context, event Event) {
			defer wg.Done()
			received <- event
		})
	}

	bus.Emit(context.Background(), StaleRetryEvent{Operation: "place_wager", Attempt: 1})
	wg.Wait()
	close(received)

	count := 0
	for ev := range received {
		assert.Equal(t, EventTypeStaleRetry, ev.Type())
		count++
	}
	assert.Equal(t, 2, count)
}

func TestBus_HandlerPanicIsRecovered(t *testing.T) {
	bus := NewBus()
	done := make(chan struct{})

	bus.Subscribe(EventTypeOddsMoved, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeOddsMoved, func(ctx context.Context, event Event) {
		close(done)
	})

	bus.Emit(context.Background(), OddsMovedEvent{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second handler was not called")
	}
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	bus := NewBus()
	delivered := make(chan Event, 4)
	bus.Subscribe(EventTypeWagerSettled, func(ctx context.Context, event Event) {
		delivered <- event
	})

	t.Run("discard drops pending events", func(t *testing.T) {
		tx := NewTransactionalBus(bus)
		require.NoError(t, tx.Publish(WagerSettledEvent{}))
		assert.Equal(t, 1, tx.Pending())

		tx.Discard()
		assert.Equal(t, 0, tx.Pending())

		select {
		case <-delivered:
			t.Fatal("discarded event was delivered")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("flush delivers pending events", func(t *testing.T) {
		tx := NewTransactionalBus(bus)
		require.NoError(t, tx.Publish(WagerSettledEvent{}))
		require.NoError(t, tx.Publish(WagerSettledEvent{}))

		tx.Flush(context.Background())
		assert.Equal(t, 0, tx.Pending())

		for i := 0; i < 2; i++ {
			select {
			case ev := <-delivered:
				assert.Equal(t, EventTypeWagerSettled, ev.Type())
			case <-time.After(time.Second):
				t.Fatal("flushed event not delivered")
			}
		}
	})
}
