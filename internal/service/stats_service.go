package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/repository"
)

const orgStatsCacheKey = "stats:organization"

// StatsService derives campaign and organization metrics live from
// recipient rows. Nothing is counted incrementally, so the numbers can
// never drift from the authoritative records. The organization aggregate
// may be served from a short-TTL Redis cache.
type StatsService struct {
	recipients repository.RecipientRepository
	campaigns  repository.CampaignRepository
	users      repository.UserRepository
	templates  repository.TemplateRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// StatsDependencies bundles repositories for the stats service.
type StatsDependencies struct {
	RecipientRepo repository.RecipientRepository
	CampaignRepo  repository.CampaignRepository
	UserRepo      repository.UserRepository
	TemplateRepo  repository.TemplateRepository
	Cache         *redis.Client
	CacheTTL      time.Duration
	Logger        *zap.Logger
}

// NewStatsService constructs the service. Cache may be nil.
func NewStatsService(deps StatsDependencies) *StatsService {
	return &StatsService{
		recipients: deps.RecipientRepo,
		campaigns:  deps.CampaignRepo,
		users:      deps.UserRepo,
		templates:  deps.TemplateRepo,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		logger:     deps.Logger,
	}
}

// CampaignStats returns sent/clicked/rate for one campaign.
func (s *StatsService) CampaignStats(ctx context.Context, campaignID string) (*domain.CampaignStats, error) {
	sent, clicked, err := s.recipients.CampaignTotals(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return &domain.CampaignStats{
		CampaignID: campaignID,
		Sent:       sent,
		Clicked:    clicked,
		ClickRate:  domain.ClickRate(clicked, sent),
	}, nil
}

// GroupBreakdown returns per-group sent/clicked for one campaign, keyed by
// the group each recipient belonged to at launch time.
func (s *StatsService) GroupBreakdown(ctx context.Context, campaignID string) (map[string]domain.GroupStats, error) {
	return s.recipients.GroupTotals(ctx, campaignID)
}

// OrganizationStats aggregates across all users, campaigns and templates.
func (s *StatsService) OrganizationStats(ctx context.Context) (*domain.OrganizationStats, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	totalUsers, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	activeCampaigns, err := s.campaigns.CountByStatus(ctx, domain.CampaignStatusActive)
	if err != nil {
		return nil, err
	}
	totalTemplates, err := s.templates.Count(ctx)
	if err != nil {
		return nil, err
	}
	sent, clicked, err := s.recipients.GlobalTotals(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.OrganizationStats{
		TotalUsers:       totalUsers,
		ActiveCampaigns:  activeCampaigns,
		OverallClickRate: domain.ClickRate(clicked, sent),
		TotalTemplates:   totalTemplates,
	}
	s.toCache(ctx, stats)
	return stats, nil
}

func (s *StatsService) fromCache(ctx context.Context) *domain.OrganizationStats {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, orgStatsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats domain.OrganizationStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, stats *domain.OrganizationStats) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, orgStatsCacheKey, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Debug("org stats cache write failed", zap.Error(err))
	}
}
