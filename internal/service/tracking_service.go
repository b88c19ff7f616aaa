package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/events"
	"github.com/secureguard/phishsim-service/internal/repository"
)

// TrackingService resolves inbound tracking tokens and records clicks
// exactly once per recipient. It never returns an error to callers: the
// tracking endpoint must behave identically for valid, repeated and unknown
// tokens, so failures degrade to TokenNotFound and are only logged.
type TrackingService struct {
	recipients repository.RecipientRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTrackingService constructs the service.
func NewTrackingService(recipients repository.RecipientRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TrackingService {
	return &TrackingService{recipients: recipients, dispatcher: dispatcher, logger: logger}
}

// RecordClick applies first-click-wins semantics to a token. The first hit
// claims the click timestamp through an atomic compare-and-set; every later
// hit bumps the audit counter without touching the timestamp. Concurrent
// duplicate hits on one token yield exactly one FirstClick.
func (s *TrackingService) RecordClick(ctx context.Context, token string) domain.ClickOutcome {
	if token == "" {
		return domain.ClickOutcome{Result: domain.ClickResultTokenNotFound}
	}

	now := time.Now().UTC()
	campaignID, userID, claimed, err := s.recipients.ClaimFirstClick(ctx, token, now)
	if err != nil {
		s.logger.Error("tracking click claim failed", zap.Error(err))
		return domain.ClickOutcome{Result: domain.ClickResultTokenNotFound}
	}
	if claimed {
		s.publishClicked(ctx, campaignID, userID, now)
		return domain.ClickOutcome{
			Result:     domain.ClickResultFirstClick,
			CampaignID: campaignID,
			UserID:     userID,
		}
	}

	campaignID, userID, err = s.recipients.RecordRepeatClick(ctx, token)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("tracking repeat click failed", zap.Error(err))
		}
		return domain.ClickOutcome{Result: domain.ClickResultTokenNotFound}
	}
	return domain.ClickOutcome{
		Result:     domain.ClickResultAlreadyClicked,
		CampaignID: campaignID,
		UserID:     userID,
	}
}

func (s *TrackingService) publishClicked(ctx context.Context, campaignID, userID string, at time.Time) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventRecipientClicked,
		CampaignID: campaignID,
		Timestamp:  at,
		Payload:    events.RecipientClickedPayload{UserID: userID, ClickedAt: at},
	})
}
