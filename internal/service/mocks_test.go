package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/repository"
)

// memStore backs the in-memory repositories used by the service tests. It
// mirrors the atomicity guarantees of the Postgres layer: a global token
// index with unique-insert semantics and a mutex-guarded compare-and-set
// for first clicks.
type memStore struct {
	mu sync.Mutex

	users      map[string]*domain.User
	templates  map[string]*domain.Template
	campaigns  map[string]*domain.Campaign
	recipients map[string]*domain.Recipient // keyed by tracking token

	// failLaunches forces the next N Launch calls to report a token
	// collision, for exercising the retry path.
	failLaunches int
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*domain.User),
		templates:  make(map[string]*domain.Template),
		campaigns:  make(map[string]*domain.Campaign),
		recipients: make(map[string]*domain.Recipient),
	}
}

func (m *memStore) userRepo() repository.UserRepository           { return &memUserRepo{m} }
func (m *memStore) templateRepo() repository.TemplateRepository   { return &memTemplateRepo{m} }
func (m *memStore) campaignRepo() repository.CampaignRepository   { return &memCampaignRepo{m} }
func (m *memStore) recipientRepo() repository.RecipientRepository { return &memRecipientRepo{m} }

// seedRecipient injects a recipient row directly, for stats tests.
func (m *memStore) seedRecipient(rec domain.Recipient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m.recipients[rec.TrackingToken] = &rec
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *user
	cp.UpdatedAt = time.Now()
	r.store.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user, ok := r.store.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.User
	for _, user := range r.store.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r *memUserRepo) ListActiveByGroup(_ context.Context, group string) ([]domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.User
	for _, user := range r.store.users {
		if user.Group == group && user.Status == domain.UserStatusActive {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *memUserRepo) CountActive(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, user := range r.store.users {
		if user.Status == domain.UserStatusActive {
			count++
		}
	}
	return count, nil
}

type memTemplateRepo struct{ store *memStore }

func (r *memTemplateRepo) Create(_ context.Context, tpl *domain.Template) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tpl.ID = uuid.NewString()
	tpl.CreatedAt = time.Now()
	tpl.UpdatedAt = tpl.CreatedAt
	cp := *tpl
	r.store.templates[tpl.ID] = &cp
	return nil
}

func (r *memTemplateRepo) Update(_ context.Context, tpl *domain.Template) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.templates[tpl.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *tpl
	cp.UpdatedAt = time.Now()
	r.store.templates[tpl.ID] = &cp
	return nil
}

func (r *memTemplateRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.templates[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.templates, id)
	return nil
}

func (r *memTemplateRepo) GetByID(_ context.Context, id string) (*domain.Template, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if tpl, ok := r.store.templates[id]; ok {
		cp := *tpl
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memTemplateRepo) List(_ context.Context) ([]domain.Template, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Template
	for _, tpl := range r.store.templates {
		result = append(result, *tpl)
	}
	return result, nil
}

func (r *memTemplateRepo) Count(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.templates), nil
}

type memCampaignRepo struct{ store *memStore }

func (r *memCampaignRepo) Create(_ context.Context, campaign *domain.Campaign) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	campaign.ID = uuid.NewString()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	cp := *campaign
	r.store.campaigns[campaign.ID] = &cp
	return nil
}

func (r *memCampaignRepo) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	campaign, ok := r.store.campaigns[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *campaign
	if campaign.Snapshot != nil {
		snap := *campaign.Snapshot
		cp.Snapshot = &snap
	}
	return &cp, nil
}

func (r *memCampaignRepo) List(_ context.Context, limit, offset int) ([]domain.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Campaign
	for _, campaign := range r.store.campaigns {
		result = append(result, *campaign)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *memCampaignRepo) ListDueScheduled(_ context.Context, now time.Time) ([]domain.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Campaign
	for _, campaign := range r.store.campaigns {
		if campaign.Status == domain.CampaignStatusScheduled &&
			campaign.ScheduledAt != nil && !campaign.ScheduledAt.After(now) {
			result = append(result, *campaign)
		}
	}
	return result, nil
}

func (r *memCampaignRepo) TransitionStatus(_ context.Context, id string, from []domain.CampaignStatus, to domain.CampaignStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	campaign, ok := r.store.campaigns[id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if campaign.Status == status {
			campaign.Status = to
			campaign.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (r *memCampaignRepo) Launch(_ context.Context, campaign *domain.Campaign, recipients []domain.Recipient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.failLaunches > 0 {
		r.store.failLaunches--
		return repository.ErrTokenCollision
	}

	stored, ok := r.store.campaigns[campaign.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Status != domain.CampaignStatusDraft && stored.Status != domain.CampaignStatusScheduled {
		return pgx.ErrNoRows
	}

	// the collision check happens before any write so a collision leaves
	// no partial state, like a rolled-back transaction
	for i := range recipients {
		if _, exists := r.store.recipients[recipients[i].TrackingToken]; exists {
			return repository.ErrTokenCollision
		}
	}

	stored.Status = domain.CampaignStatusActive
	stored.LaunchedAt = campaign.LaunchedAt
	snap := *campaign.Snapshot
	stored.Snapshot = &snap
	stored.UpdatedAt = time.Now()

	for i := range recipients {
		recipients[i].ID = uuid.NewString()
		cp := recipients[i]
		r.store.recipients[cp.TrackingToken] = &cp
	}
	return nil
}

func (r *memCampaignRepo) CountLiveByTemplate(_ context.Context, templateID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, campaign := range r.store.campaigns {
		if campaign.TemplateID != templateID {
			continue
		}
		switch campaign.Status {
		case domain.CampaignStatusDraft, domain.CampaignStatusScheduled, domain.CampaignStatusActive:
			count++
		}
	}
	return count, nil
}

func (r *memCampaignRepo) CountByStatus(_ context.Context, status domain.CampaignStatus) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, campaign := range r.store.campaigns {
		if campaign.Status == status {
			count++
		}
	}
	return count, nil
}

type memRecipientRepo struct{ store *memStore }

func (r *memRecipientRepo) ListByCampaign(_ context.Context, campaignID string) ([]domain.Recipient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Recipient
	for _, rec := range r.store.recipients {
		if rec.CampaignID == campaignID {
			result = append(result, *rec)
		}
	}
	return result, nil
}

func (r *memRecipientRepo) GetByToken(_ context.Context, token string) (*domain.Recipient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if rec, ok := r.store.recipients[token]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memRecipientRepo) ClaimFirstClick(_ context.Context, token string, at time.Time) (string, string, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.recipients[token]
	if !ok || rec.ClickedAt != nil {
		return "", "", false, nil
	}
	clicked := at
	rec.ClickedAt = &clicked
	rec.ClickCount++
	return rec.CampaignID, rec.UserID, true, nil
}

func (r *memRecipientRepo) RecordRepeatClick(_ context.Context, token string) (string, string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.recipients[token]
	if !ok {
		return "", "", pgx.ErrNoRows
	}
	rec.ClickCount++
	return rec.CampaignID, rec.UserID, nil
}

func (r *memRecipientRepo) CampaignTotals(_ context.Context, campaignID string) (int, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sent, clicked := 0, 0
	for _, rec := range r.store.recipients {
		if rec.CampaignID != campaignID {
			continue
		}
		sent++
		if rec.ClickedAt != nil {
			clicked++
		}
	}
	return sent, clicked, nil
}

func (r *memRecipientRepo) GroupTotals(_ context.Context, campaignID string) (map[string]domain.GroupStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make(map[string]domain.GroupStats)
	for _, rec := range r.store.recipients {
		if rec.CampaignID != campaignID {
			continue
		}
		stats := result[rec.Group]
		stats.Sent++
		if rec.ClickedAt != nil {
			stats.Clicked++
		}
		result[rec.Group] = stats
	}
	return result, nil
}

func (r *memRecipientRepo) GlobalTotals(_ context.Context) (int, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sent, clicked := 0, 0
	for _, rec := range r.store.recipients {
		sent++
		if rec.ClickedAt != nil {
			clicked++
		}
	}
	return sent, clicked, nil
}
