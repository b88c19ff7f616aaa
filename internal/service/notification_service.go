package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/secureguard/phishsim-service/internal/config"
	"github.com/secureguard/phishsim-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Delivery is stubbed; real channels would slot in behind the same handlers.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotifyConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotifyConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCampaignLaunched, n.handleCampaignLaunched)
	n.dispatcher.Subscribe(events.EventCampaignCancelled, n.handleCampaignStatus)
	n.dispatcher.Subscribe(events.EventCampaignCompleted, n.handleCampaignStatus)
	n.dispatcher.Subscribe(events.EventRecipientClicked, n.handleRecipientClicked)
}

func (n *NotificationService) handleCampaignLaunched(ctx context.Context, event events.Event) error {
	n.logger.Info("CampaignLaunched", zap.String("campaign_id", event.CampaignID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCampaignStatus(ctx context.Context, event events.Event) error {
	n.logger.Info("CampaignStatusChanged", zap.String("campaign_id", event.CampaignID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRecipientClicked(ctx context.Context, event events.Event) error {
	n.logger.Info("RecipientClicked", zap.String("campaign_id", event.CampaignID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("campaign_id", event.CampaignID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("campaign_id", event.CampaignID),
		zap.String("event_type", string(event.Type)))
}
