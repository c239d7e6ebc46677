package messaging

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/messaging"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// testMessage is sent when the caller does not provide one
const testMessage = "Mensagem de teste do Roksell. Canal configurado com sucesso!"

// MessagingService handles the per-tenant configuration of notification
// channels and on-demand test sends
type MessagingService struct {
	configRepo     messaging.ChannelConfigRepository
	notifiers      map[messaging.Channel]messaging.Notifier
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewMessagingService creates a new messaging service. One notifier per
// channel; channels without a notifier can be configured but not used.
func NewMessagingService(
	configRepo messaging.ChannelConfigRepository,
	notifiers []messaging.Notifier,
	logger *zap.Logger,
) *MessagingService {
	return &MessagingService{
		configRepo: configRepo,
		notifiers:  notifierIndex(notifiers),
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *MessagingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListChannels retrieves the configuration of every channel, including
// channels the tenant has not configured yet
func (s *MessagingService) ListChannels(ctx context.Context, tenantID uuid.UUID) ([]ChannelConfigResponse, error) {
	configs, err := s.configRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byChannel := make(map[messaging.Channel]*messaging.ChannelConfig, len(configs))
	for _, config := range configs {
		byChannel[config.Channel] = config
	}

	channels := []messaging.Channel{messaging.ChannelWhatsApp, messaging.ChannelTelegram}
	responses := make([]ChannelConfigResponse, 0, len(channels))
	for _, channel := range channels {
		if config, ok := byChannel[channel]; ok {
			responses = append(responses, ToChannelConfigResponse(config))
		} else {
			responses = append(responses, ToUnconfiguredChannelResponse(channel))
		}
	}

	return responses, nil
}

// GetChannel retrieves the configuration of one channel. A channel the
// tenant never configured comes back disabled with the defaults.
func (s *MessagingService) GetChannel(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel) (*ChannelConfigResponse, error) {
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Invalid messaging channel")
	}

	config, err := s.configRepo.FindByTenantAndChannel(ctx, tenantID, channel)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			response := ToUnconfiguredChannelResponse(channel)
			return &response, nil
		}
		return nil, err
	}

	response := ToChannelConfigResponse(config)
	return &response, nil
}

// UpdateChannel creates or updates the configuration of one channel.
// Credentials are applied before the enabled flag so a single request
// can configure and enable a channel.
func (s *MessagingService) UpdateChannel(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel, req UpdateChannelRequest) (*ChannelConfigResponse, error) {
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Invalid messaging channel")
	}

	config, err := s.configRepo.FindByTenantAndChannel(ctx, tenantID, channel)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		config, err = messaging.NewChannelConfig(tenantID, channel)
		if err != nil {
			return nil, err
		}
	}

	if req.Credentials != nil {
		creds := messaging.ChannelCredentials{
			AccessToken:   req.Credentials.AccessToken,
			PhoneNumberID: req.Credentials.PhoneNumberID,
			BotToken:      req.Credentials.BotToken,
			ChatID:        req.Credentials.ChatID,
		}
		if err := config.SetCredentials(creds); err != nil {
			return nil, err
		}
	}

	if req.NotifyOn != nil {
		events := make([]messaging.NotifyEvent, len(req.NotifyOn))
		for i, e := range req.NotifyOn {
			events[i] = messaging.NotifyEvent(e)
		}
		if err := config.SetNotifyOn(events); err != nil {
			return nil, err
		}
	}

	for event, template := range req.Templates {
		if err := config.SetTemplate(messaging.NotifyEvent(event), template); err != nil {
			return nil, err
		}
	}

	if req.Enabled != nil && *req.Enabled != config.Enabled {
		if *req.Enabled {
			err = config.Enable()
		} else {
			err = config.Disable()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.configRepo.Save(ctx, config); err != nil {
		s.logger.Error("Failed to save channel config",
			zap.String("tenant_id", tenantID.String()),
			zap.String("channel", channel.String()),
			zap.Error(err))
		return nil, err
	}

	s.publishDomainEvents(ctx, config)

	s.logger.Info("Channel config updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("channel", channel.String()),
		zap.Bool("enabled", config.Enabled))

	response := ToChannelConfigResponse(config)
	return &response, nil
}

// TestSend delivers a test message through the channel. The channel
// needs credentials but does not need to be enabled, so merchants can
// test before turning notifications on.
func (s *MessagingService) TestSend(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel, req TestSendRequest) error {
	config, err := s.findConfig(ctx, tenantID, channel)
	if err != nil {
		return err
	}

	if !config.HasCredentials() {
		return shared.NewDomainError("NO_CREDENTIALS", "Set credentials before sending a test message")
	}

	notifier, err := s.notifierFor(channel)
	if err != nil {
		return err
	}

	message := req.Message
	if message == "" {
		message = testMessage
	}

	if err := notifier.Send(ctx, config, req.Recipient, message); err != nil {
		s.logger.Warn("Test message failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("channel", channel.String()),
			zap.Error(err))
		return shared.NewDomainError("SEND_FAILED", "Could not deliver the test message")
	}

	s.logger.Info("Test message sent",
		zap.String("tenant_id", tenantID.String()),
		zap.String("channel", channel.String()))

	return nil
}

// VerifyChannel checks the stored credentials against the provider and
// records the result
func (s *MessagingService) VerifyChannel(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel) (*ChannelConfigResponse, error) {
	config, err := s.findConfig(ctx, tenantID, channel)
	if err != nil {
		return nil, err
	}

	if !config.HasCredentials() {
		return nil, shared.NewDomainError("NO_CREDENTIALS", "Set credentials before verifying the channel")
	}

	notifier, err := s.notifierFor(channel)
	if err != nil {
		return nil, err
	}

	if err := notifier.Verify(ctx, config); err != nil {
		s.logger.Warn("Channel verification failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("channel", channel.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("VERIFICATION_FAILED", "The provider rejected the credentials")
	}

	config.MarkVerified()

	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}

	s.logger.Info("Channel verified",
		zap.String("tenant_id", tenantID.String()),
		zap.String("channel", channel.String()))

	response := ToChannelConfigResponse(config)
	return &response, nil
}

// DeleteChannel removes the configuration of one channel, credentials
// included
func (s *MessagingService) DeleteChannel(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel) error {
	if _, err := s.findConfig(ctx, tenantID, channel); err != nil {
		return err
	}

	if err := s.configRepo.Delete(ctx, tenantID, channel); err != nil {
		return err
	}

	s.logger.Info("Channel config deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("channel", channel.String()))

	return nil
}

func (s *MessagingService) findConfig(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel) (*messaging.ChannelConfig, error) {
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Invalid messaging channel")
	}

	config, err := s.configRepo.FindByTenantAndChannel(ctx, tenantID, channel)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CHANNEL_NOT_CONFIGURED", "Channel is not configured")
		}
		return nil, err
	}

	return config, nil
}

func (s *MessagingService) notifierFor(channel messaging.Channel) (messaging.Notifier, error) {
	notifier, ok := s.notifiers[channel]
	if !ok {
		return nil, shared.NewDomainError("CHANNEL_UNAVAILABLE", "Channel is not available on this server")
	}
	return notifier, nil
}

// publishDomainEvents publishes all domain events from the aggregate
func (s *MessagingService) publishDomainEvents(ctx context.Context, config *messaging.ChannelConfig) {
	if s.eventPublisher == nil {
		return
	}

	events := config.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	// Publish errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	config.ClearDomainEvents()
}

func notifierIndex(notifiers []messaging.Notifier) map[messaging.Channel]messaging.Notifier {
	index := make(map[messaging.Channel]messaging.Notifier, len(notifiers))
	for _, n := range notifiers {
		index[n.Channel()] = n
	}
	return index
}
