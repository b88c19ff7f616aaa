package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/events"
	"github.com/secureguard/phishsim-service/internal/repository"
	"github.com/secureguard/phishsim-service/pkg/apperrors"
)

// launchRetryLimit bounds token-collision retries during launch.
const launchRetryLimit = 3

// CampaignService coordinates the campaign lifecycle: creation, launch with
// token issuance, cancellation and completion.
type CampaignService struct {
	campaigns  repository.CampaignRepository
	recipients repository.RecipientRepository
	templates  repository.TemplateRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// CampaignDependencies bundles repositories for the campaign service.
type CampaignDependencies struct {
	CampaignRepo  repository.CampaignRepository
	RecipientRepo repository.RecipientRepository
	TemplateRepo  repository.TemplateRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
}

// NewCampaignService constructs the service.
func NewCampaignService(deps CampaignDependencies) *CampaignService {
	return &CampaignService{
		campaigns:  deps.CampaignRepo,
		recipients: deps.RecipientRepo,
		templates:  deps.TemplateRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CampaignInput describes campaign creation payload.
type CampaignInput struct {
	Name        string
	TemplateID  string
	TargetGroup string
	ScheduledAt *time.Time
}

// Create registers a campaign in DRAFT (or SCHEDULED when a schedule time
// is given). The target group resolves to concrete users at launch, not
// here; only the template reference is validated now.
func (s *CampaignService) Create(ctx context.Context, input CampaignInput) (*domain.Campaign, error) {
	if _, err := s.templates.GetByID(ctx, input.TemplateID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New("TEMPLATE_NOT_FOUND", "template not found", 404, map[string]any{"template_id": input.TemplateID})
		}
		return nil, err
	}

	campaign := &domain.Campaign{
		Name:        strings.TrimSpace(input.Name),
		TemplateID:  input.TemplateID,
		TargetGroup: strings.TrimSpace(input.TargetGroup),
		Status:      domain.CampaignStatusDraft,
		ScheduledAt: input.ScheduledAt,
	}
	if input.ScheduledAt != nil {
		campaign.Status = domain.CampaignStatusScheduled
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Launch transitions a DRAFT/SCHEDULED campaign to ACTIVE: it freezes the
// template content onto the campaign, resolves the target group against the
// current active membership, issues one fresh tracking token per recipient
// and stamps delivery times. Everything runs in one transaction, so a
// crashed or raced launch can be retried without double-issuing tokens.
func (s *CampaignService) Launch(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch campaign.Status {
	case domain.CampaignStatusDraft, domain.CampaignStatusScheduled:
	case domain.CampaignStatusActive:
		return nil, apperrors.NewConflict(apperrors.CodeAlreadyLaunch, "campaign already launched", map[string]any{"campaign_id": id})
	default:
		return nil, apperrors.NewInvalidState("campaign cannot be launched from "+string(campaign.Status), map[string]any{"campaign_id": id})
	}

	tpl, err := s.templates.GetByID(ctx, campaign.TemplateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New("TEMPLATE_NOT_FOUND", "template not found", 404, map[string]any{"template_id": campaign.TemplateID})
		}
		return nil, err
	}

	targets, err := s.users.ListActiveByGroup(ctx, campaign.TargetGroup)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, apperrors.New(apperrors.CodeEmptyGroup, "target group resolves to zero users", 400,
			map[string]any{"target_group": campaign.TargetGroup})
	}

	now := time.Now().UTC()
	snapshot := tpl.Snapshot()
	campaign.Snapshot = &snapshot
	campaign.LaunchedAt = &now

	for attempt := 0; attempt < launchRetryLimit; attempt++ {
		recipients, err := buildRecipients(campaign.ID, targets, now)
		if err != nil {
			return nil, err
		}

		err = s.campaigns.Launch(ctx, campaign, recipients)
		if errors.Is(err, repository.ErrTokenCollision) {
			continue
		}
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the race to a concurrent launch
			return nil, apperrors.NewConflict(apperrors.CodeAlreadyLaunch, "campaign already launched", map[string]any{"campaign_id": id})
		}
		if err != nil {
			return nil, err
		}

		campaign.Status = domain.CampaignStatusActive
		s.publish(ctx, events.Event{
			Type:       events.EventCampaignLaunched,
			CampaignID: campaign.ID,
			Payload: events.CampaignLaunchedPayload{
				Name:           campaign.Name,
				TargetGroup:    campaign.TargetGroup,
				RecipientCount: len(recipients),
				LaunchedAt:     campaign.LaunchedAt,
			},
		})
		return campaign, nil
	}
	return nil, apperrors.NewConflict("", "tracking token collision persisted across retries", nil)
}

// Cancel moves any non-terminal campaign to CANCELLED. It is idempotent and
// never revokes issued tokens; clicks after cancellation are still recorded.
func (s *CampaignService) Cancel(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status.IsTerminal() {
		return campaign, nil
	}

	oldStatus := campaign.Status
	changed, err := s.campaigns.TransitionStatus(ctx, id,
		[]domain.CampaignStatus{domain.CampaignStatusDraft, domain.CampaignStatusScheduled, domain.CampaignStatusActive},
		domain.CampaignStatusCancelled)
	if err != nil {
		return nil, err
	}
	if changed {
		campaign.Status = domain.CampaignStatusCancelled
		s.publish(ctx, events.Event{
			Type:       events.EventCampaignCancelled,
			CampaignID: id,
			Payload:    events.CampaignStatusPayload{OldStatus: oldStatus, NewStatus: domain.CampaignStatusCancelled},
		})
	}
	return campaign, nil
}

// Complete moves an ACTIVE campaign to COMPLETED. Recipient clicks continue
// to be recorded for analytics afterwards.
func (s *CampaignService) Complete(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status == domain.CampaignStatusCompleted {
		return campaign, nil
	}
	if campaign.Status != domain.CampaignStatusActive {
		return nil, apperrors.NewInvalidState("only active campaigns can be completed",
			map[string]any{"campaign_id": id, "status": string(campaign.Status)})
	}

	changed, err := s.campaigns.TransitionStatus(ctx, id,
		[]domain.CampaignStatus{domain.CampaignStatusActive}, domain.CampaignStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, apperrors.NewInvalidState("only active campaigns can be completed", map[string]any{"campaign_id": id})
	}
	campaign.Status = domain.CampaignStatusCompleted
	s.publish(ctx, events.Event{
		Type:       events.EventCampaignCompleted,
		CampaignID: id,
		Payload:    events.CampaignStatusPayload{OldStatus: domain.CampaignStatusActive, NewStatus: domain.CampaignStatusCompleted},
	})
	return campaign, nil
}

// Get fetches one campaign.
func (s *CampaignService) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", map[string]any{"id": id})
		}
		return nil, err
	}
	return campaign, nil
}

// List returns campaigns newest-first.
func (s *CampaignService) List(ctx context.Context, limit, offset int) ([]domain.Campaign, error) {
	return s.campaigns.List(ctx, limit, offset)
}

// Recipients lists a campaign's recipient rows.
func (s *CampaignService) Recipients(ctx context.Context, id string) ([]domain.Recipient, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.recipients.ListByCampaign(ctx, id)
}

// LaunchDue launches every SCHEDULED campaign whose schedule time has
// passed, returning the ids it activated. Called by the scheduler worker.
func (s *CampaignService) LaunchDue(ctx context.Context, now time.Time) ([]string, error) {
	due, err := s.campaigns.ListDueScheduled(ctx, now)
	if err != nil {
		return nil, err
	}
	var launched []string
	for _, campaign := range due {
		if _, err := s.Launch(ctx, campaign.ID); err != nil {
			// a raced or empty-group launch must not block the rest
			continue
		}
		launched = append(launched, campaign.ID)
	}
	return launched, nil
}

func buildRecipients(campaignID string, targets []domain.User, deliveredAt time.Time) ([]domain.Recipient, error) {
	recipients := make([]domain.Recipient, 0, len(targets))
	for _, target := range targets {
		token, err := GenerateTrackingToken()
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, domain.Recipient{
			CampaignID:    campaignID,
			UserID:        target.ID,
			Group:         target.Group,
			TrackingToken: token,
			DeliveredAt:   deliveredAt,
		})
	}
	return recipients, nil
}

func (s *CampaignService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
