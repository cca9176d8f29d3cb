package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	ch1, cancel1 := bus.Subscribe(4)
	ch2, cancel2 := bus.Subscribe(4)
	defer cancel1()
	defer cancel2()

	bus.Publish(models.Envelope{EventName: "doorbell_ding", SystemID: 123})

	env := <-ch1
	assert.Equal(t, "doorbell_ding", env.EventName)
	env = <-ch2
	assert.Equal(t, int64(123), env.SystemID)
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(models.Envelope{EventName: "first"})
	bus.Publish(models.Envelope{EventName: "second"}) // dropped, buffer full

	env := <-ch
	assert.Equal(t, "first", env.EventName)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected envelope %q", extra.EventName)
	default:
	}
}

func TestBusCancelClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)

	cancel()
	cancel() // idempotent

	_, open := <-ch
	require.False(t, open)

	// Publishing after cancel must not panic.
	bus.Publish(models.Envelope{EventName: "late"})
}
