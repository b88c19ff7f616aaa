package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secureguard/phishsim-service/internal/events"
)

func TestDispatcherDeliversByType(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var launched, clicked []events.Event
	dispatcher.Subscribe(events.EventCampaignLaunched, func(_ context.Context, e events.Event) error {
		launched = append(launched, e)
		return nil
	})
	dispatcher.Subscribe(events.EventRecipientClicked, func(_ context.Context, e events.Event) error {
		clicked = append(clicked, e)
		return nil
	})

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:         "evt-1",
		Type:       events.EventCampaignLaunched,
		CampaignID: "camp-1",
	})
	require.NoError(t, err)

	require.Len(t, launched, 1)
	assert.Equal(t, "camp-1", launched[0].CampaignID)
	assert.Empty(t, clicked)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	calls := 0
	dispatcher.Subscribe(events.EventCampaignCancelled, func(_ context.Context, _ events.Event) error {
		calls++
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(events.EventCampaignCancelled, func(_ context.Context, _ events.Event) error {
		calls++
		return nil
	})

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventCampaignCancelled})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventCampaignCompleted})

	assert.NoError(t, err)
}
