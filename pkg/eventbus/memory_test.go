package eventbus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	"github.com/pennywiseapp/pennywise/pkg/eventbus"
)

type testEvent struct{ name string }

func (e testEvent) Type() string { return e.name }

func TestPublishRunsHandlersInSubscriptionOrder(t *testing.T) {
	bus := eventbus.NewMemoryEventBus()
	var calls []string
	bus.Subscribe("thing.happened", func(_ context.Context, ev domain.Event) {
		calls = append(calls, "first")
	})
	bus.Subscribe("thing.happened", func(_ context.Context, ev domain.Event) {
		calls = append(calls, "second")
	})

	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "thing.happened"}))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishDeliversOnlyToMatchingType(t *testing.T) {
	bus := eventbus.NewMemoryEventBus()
	var got []string
	bus.Subscribe("a", func(_ context.Context, ev domain.Event) {
		got = append(got, ev.Type())
	})

	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "a"}))
	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "b"}))
	assert.Equal(t, []string{"a"}, got)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := eventbus.NewMemoryEventBus()
	assert.NoError(t, bus.Publish(context.Background(), testEvent{name: "nobody.listens"}))
}
