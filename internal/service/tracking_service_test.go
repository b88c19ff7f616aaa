package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/events"
	"github.com/secureguard/phishsim-service/internal/service"
)

func newTrackingFixture() (*memStore, *service.TrackingService, events.Dispatcher) {
	store := newMemStore()
	dispatcher := events.NewInMemoryDispatcher()
	return store, service.NewTrackingService(store.recipientRepo(), dispatcher, zap.NewNop()), dispatcher
}

func TestRecordClickUnknownToken(t *testing.T) {
	_, tracking, _ := newTrackingFixture()

	outcome := tracking.RecordClick(context.Background(), "no-such-token")

	assert.Equal(t, domain.ClickResultTokenNotFound, outcome.Result)
	assert.Empty(t, outcome.CampaignID)
	assert.Empty(t, outcome.UserID)
}

func TestRecordClickEmptyToken(t *testing.T) {
	_, tracking, _ := newTrackingFixture()

	outcome := tracking.RecordClick(context.Background(), "")

	assert.Equal(t, domain.ClickResultTokenNotFound, outcome.Result)
}

func TestRecordClickFirstThenRepeat(t *testing.T) {
	store, tracking, _ := newTrackingFixture()
	store.seedRecipient(domain.Recipient{
		CampaignID:    "camp-1",
		UserID:        "user-1",
		Group:         "Engineering",
		TrackingToken: "tok-1",
	})

	first := tracking.RecordClick(context.Background(), "tok-1")
	require.Equal(t, domain.ClickResultFirstClick, first.Result)
	assert.Equal(t, "camp-1", first.CampaignID)
	assert.Equal(t, "user-1", first.UserID)

	second := tracking.RecordClick(context.Background(), "tok-1")
	require.Equal(t, domain.ClickResultAlreadyClicked, second.Result)
	assert.Equal(t, "camp-1", second.CampaignID)

	rec, err := store.recipientRepo().GetByToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ClickCount)
	require.NotNil(t, rec.ClickedAt)
}

func TestRecordClickFirstClickTimestampNeverMoves(t *testing.T) {
	store, tracking, _ := newTrackingFixture()
	store.seedRecipient(domain.Recipient{
		CampaignID:    "camp-1",
		UserID:        "user-1",
		TrackingToken: "tok-1",
	})
	ctx := context.Background()

	tracking.RecordClick(ctx, "tok-1")
	rec, err := store.recipientRepo().GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, rec.ClickedAt)
	firstAt := *rec.ClickedAt

	time.Sleep(5 * time.Millisecond)
	tracking.RecordClick(ctx, "tok-1")

	rec, err = store.recipientRepo().GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, rec.ClickedAt.Equal(firstAt), "repeat clicks must not move the first-click timestamp")
}

func TestRecordClickConcurrentSingleWinner(t *testing.T) {
	store, tracking, _ := newTrackingFixture()
	store.seedRecipient(domain.Recipient{
		CampaignID:    "camp-1",
		UserID:        "user-1",
		TrackingToken: "tok-race",
	})

	const hits = 50
	outcomes := make([]domain.ClickOutcome, hits)

	var wg sync.WaitGroup
	wg.Add(hits)
	for i := 0; i < hits; i++ {
		go func(i int) {
			defer wg.Done()
			outcomes[i] = tracking.RecordClick(context.Background(), "tok-race")
		}(i)
	}
	wg.Wait()

	firstClicks, repeats := 0, 0
	for _, outcome := range outcomes {
		switch outcome.Result {
		case domain.ClickResultFirstClick:
			firstClicks++
		case domain.ClickResultAlreadyClicked:
			repeats++
		default:
			t.Fatalf("unexpected outcome %q", outcome.Result)
		}
	}
	assert.Equal(t, 1, firstClicks, "exactly one concurrent hit may claim the first click")
	assert.Equal(t, hits-1, repeats)

	rec, err := store.recipientRepo().GetByToken(context.Background(), "tok-race")
	require.NoError(t, err)
	assert.Equal(t, hits, rec.ClickCount)
}

func TestRecordClickPublishesOnlyFirstClick(t *testing.T) {
	store, tracking, dispatcher := newTrackingFixture()
	store.seedRecipient(domain.Recipient{
		CampaignID:    "camp-1",
		UserID:        "user-1",
		TrackingToken: "tok-1",
	})

	var mu sync.Mutex
	clicked := 0
	dispatcher.Subscribe(events.EventRecipientClicked, func(_ context.Context, _ events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		clicked++
		return nil
	})

	ctx := context.Background()
	tracking.RecordClick(ctx, "tok-1")
	tracking.RecordClick(ctx, "tok-1")
	tracking.RecordClick(ctx, "tok-1")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, clicked, "only the first click is an event")
}
