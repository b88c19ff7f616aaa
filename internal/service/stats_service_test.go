package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/service"
)

func newStatsFixture() (*memStore, *service.StatsService) {
	store := newMemStore()
	stats := service.NewStatsService(service.StatsDependencies{
		RecipientRepo: store.recipientRepo(),
		CampaignRepo:  store.campaignRepo(),
		UserRepo:      store.userRepo(),
		TemplateRepo:  store.templateRepo(),
		Logger:        zap.NewNop(),
	})
	return store, stats
}

func clickedAt(offset time.Duration) *time.Time {
	at := time.Now().Add(offset)
	return &at
}

func TestCampaignStatsEmptyCampaign(t *testing.T) {
	_, stats := newStatsFixture()

	got, err := stats.CampaignStats(context.Background(), "camp-1")

	require.NoError(t, err)
	assert.Equal(t, 0, got.Sent)
	assert.Equal(t, 0, got.Clicked)
	assert.Equal(t, 0.0, got.ClickRate, "zero sent must not divide by zero")
}

func TestCampaignStatsDerivedFromRecipients(t *testing.T) {
	store, stats := newStatsFixture()
	store.seedRecipient(domain.Recipient{CampaignID: "camp-1", UserID: "u1", TrackingToken: "t1", ClickedAt: clickedAt(-time.Hour), ClickCount: 3})
	store.seedRecipient(domain.Recipient{CampaignID: "camp-1", UserID: "u2", TrackingToken: "t2"})
	store.seedRecipient(domain.Recipient{CampaignID: "camp-1", UserID: "u3", TrackingToken: "t3", ClickedAt: clickedAt(-time.Minute), ClickCount: 1})
	store.seedRecipient(domain.Recipient{CampaignID: "camp-2", UserID: "u4", TrackingToken: "t4", ClickedAt: clickedAt(-time.Minute), ClickCount: 1})

	got, err := stats.CampaignStats(context.Background(), "camp-1")

	require.NoError(t, err)
	assert.Equal(t, 3, got.Sent)
	assert.Equal(t, 2, got.Clicked)
	assert.InDelta(t, 2.0/3.0, got.ClickRate, 1e-9)
}

func TestGroupBreakdown(t *testing.T) {
	store, stats := newStatsFixture()
	store.seedRecipient(domain.Recipient{CampaignID: "camp-1", UserID: "u1", Group: "Engineering", TrackingToken: "t1", ClickedAt: clickedAt(-time.Hour)})
	store.seedRecipient(domain.Recipient{CampaignID: "camp-1", UserID: "u2", Group: "Engineering", TrackingToken: "t2"})
	store.seedRecipient(domain.Recipient{CampaignID: "camp-1", UserID: "u3", Group: "Sales", TrackingToken: "t3"})

	got, err := stats.GroupBreakdown(context.Background(), "camp-1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.GroupStats{Sent: 2, Clicked: 1}, got["Engineering"])
	assert.Equal(t, domain.GroupStats{Sent: 1, Clicked: 0}, got["Sales"])
}

func TestOrganizationStatsWithoutCache(t *testing.T) {
	store, stats := newStatsFixture()
	ctx := context.Background()

	require.NoError(t, store.userRepo().Create(ctx, &domain.User{Username: "alice", Status: domain.UserStatusActive}))
	require.NoError(t, store.userRepo().Create(ctx, &domain.User{Username: "bob", Status: domain.UserStatusDisabled}))
	require.NoError(t, store.templateRepo().Create(ctx, &domain.Template{Name: "T1"}))

	active := &domain.Campaign{Name: "C1", TemplateID: "tpl", TargetGroup: "Engineering", Status: domain.CampaignStatusDraft}
	require.NoError(t, store.campaignRepo().Create(ctx, active))
	_, err := store.campaignRepo().TransitionStatus(ctx, active.ID,
		[]domain.CampaignStatus{domain.CampaignStatusDraft}, domain.CampaignStatusActive)
	require.NoError(t, err)

	store.seedRecipient(domain.Recipient{CampaignID: active.ID, UserID: "u1", TrackingToken: "t1", ClickedAt: clickedAt(-time.Minute)})
	store.seedRecipient(domain.Recipient{CampaignID: active.ID, UserID: "u2", TrackingToken: "t2"})

	got, err := stats.OrganizationStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalUsers, "disabled users do not count")
	assert.Equal(t, 1, got.ActiveCampaigns)
	assert.Equal(t, 1, got.TotalTemplates)
	assert.InDelta(t, 0.5, got.OverallClickRate, 1e-9)
}

func TestClickRateGuardsZeroSent(t *testing.T) {
	assert.Equal(t, 0.0, domain.ClickRate(0, 0))
	assert.Equal(t, 0.0, domain.ClickRate(5, 0))
	assert.Equal(t, 0.5, domain.ClickRate(1, 2))
	assert.Equal(t, 1.0, domain.ClickRate(3, 3))
}
