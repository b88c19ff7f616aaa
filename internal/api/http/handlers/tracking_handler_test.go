package handlers_test

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/secureguard/phishsim-service/internal/api/http/handlers"
	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/observability"
	"github.com/secureguard/phishsim-service/internal/service"
)

// tokenRepo is a minimal recipient store keyed by tracking token.
type tokenRepo struct {
	mu   sync.Mutex
	recs map[string]*domain.Recipient
}

func newTokenRepo(tokens ...string) *tokenRepo {
	repo := &tokenRepo{recs: make(map[string]*domain.Recipient)}
	for _, token := range tokens {
		repo.recs[token] = &domain.Recipient{
			CampaignID:    "camp-1",
			UserID:        "user-1",
			TrackingToken: token,
		}
	}
	return repo
}

func (r *tokenRepo) ListByCampaign(context.Context, string) ([]domain.Recipient, error) {
	return nil, nil
}

func (r *tokenRepo) GetByToken(_ context.Context, token string) (*domain.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.recs[token]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *tokenRepo) ClaimFirstClick(_ context.Context, token string, at time.Time) (string, string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[token]
	if !ok || rec.ClickedAt != nil {
		return "", "", false, nil
	}
	clicked := at
	rec.ClickedAt = &clicked
	rec.ClickCount++
	return rec.CampaignID, rec.UserID, true, nil
}

func (r *tokenRepo) RecordRepeatClick(_ context.Context, token string) (string, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[token]
	if !ok {
		return "", "", pgx.ErrNoRows
	}
	rec.ClickCount++
	return rec.CampaignID, rec.UserID, nil
}

func (r *tokenRepo) CampaignTotals(context.Context, string) (int, int, error) { return 0, 0, nil }
func (r *tokenRepo) GroupTotals(context.Context, string) (map[string]domain.GroupStats, error) {
	return nil, nil
}
func (r *tokenRepo) GlobalTotals(context.Context) (int, int, error) { return 0, 0, nil }

func newTrackingApp(repo *tokenRepo) (*fiber.App, *observability.Metrics) {
	tracking := service.NewTrackingService(repo, nil, zap.NewNop())
	metrics := observability.NewMetrics()
	handler := handlers.NewTrackingHandler(tracking, metrics)

	app := fiber.New()
	app.Get("/t/:token", handler.Hit)
	return app, metrics
}

func TestTrackingHitKnownToken(t *testing.T) {
	repo := newTokenRepo("tok-1")
	app, metrics := newTrackingApp(repo)

	resp, err := app.Test(httptest.NewRequest("GET", "/t/tok-1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "simulated phishing test")
	assert.Equal(t, int64(1), metrics.ClickCount(string(domain.ClickResultFirstClick)))

	rec, err := repo.GetByToken(context.Background(), "tok-1")
	require.NoError(t, err)
	require.NotNil(t, rec.ClickedAt)
}

func TestTrackingHitUnknownTokenSamePage(t *testing.T) {
	repo := newTokenRepo("tok-1")
	app, metrics := newTrackingApp(repo)

	known, err := app.Test(httptest.NewRequest("GET", "/t/tok-1", nil))
	require.NoError(t, err)
	knownBody, err := io.ReadAll(known.Body)
	require.NoError(t, err)
	known.Body.Close()

	unknown, err := app.Test(httptest.NewRequest("GET", "/t/definitely-wrong", nil))
	require.NoError(t, err)
	unknownBody, err := io.ReadAll(unknown.Body)
	require.NoError(t, err)
	unknown.Body.Close()

	assert.Equal(t, fiber.StatusOK, unknown.StatusCode)
	assert.Equal(t, string(knownBody), string(unknownBody), "unknown tokens must be indistinguishable")
	assert.Equal(t, int64(1), metrics.ClickCount(string(domain.ClickResultTokenNotFound)))
}

func TestTrackingHitRepeatCounted(t *testing.T) {
	repo := newTokenRepo("tok-1")
	app, metrics := newTrackingApp(repo)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/t/tok-1", nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, int64(1), metrics.ClickCount(string(domain.ClickResultFirstClick)))
	assert.Equal(t, int64(2), metrics.ClickCount(string(domain.ClickResultAlreadyClicked)))

	rec, err := repo.GetByToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.ClickCount)
}
