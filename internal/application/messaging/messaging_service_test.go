package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/messaging"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockChannelConfigRepository is a mock implementation of messaging.ChannelConfigRepository
type MockChannelConfigRepository struct {
	mock.Mock
}

func (m *MockChannelConfigRepository) Save(ctx context.Context, config *messaging.ChannelConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockChannelConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.ChannelConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.ChannelConfig), args.Error(1)
}

func (m *MockChannelConfigRepository) FindByTenantAndChannel(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel) (*messaging.ChannelConfig, error) {
	args := m.Called(ctx, tenantID, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.ChannelConfig), args.Error(1)
}

func (m *MockChannelConfigRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*messaging.ChannelConfig, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messaging.ChannelConfig), args.Error(1)
}

func (m *MockChannelConfigRepository) FindEnabledByTenant(ctx context.Context, tenantID uuid.UUID) ([]*messaging.ChannelConfig, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messaging.ChannelConfig), args.Error(1)
}

func (m *MockChannelConfigRepository) Delete(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel) error {
	args := m.Called(ctx, tenantID, channel)
	return args.Error(0)
}

var _ messaging.ChannelConfigRepository = (*MockChannelConfigRepository)(nil)

// MockNotifier is a mock implementation of messaging.Notifier
type MockNotifier struct {
	mock.Mock
	channel messaging.Channel
}

func NewMockNotifier(channel messaging.Channel) *MockNotifier {
	return &MockNotifier{channel: channel}
}

func (m *MockNotifier) Channel() messaging.Channel {
	return m.channel
}

func (m *MockNotifier) Send(ctx context.Context, config *messaging.ChannelConfig, recipient, message string) error {
	args := m.Called(ctx, config, recipient, message)
	return args.Error(0)
}

func (m *MockNotifier) Verify(ctx context.Context, config *messaging.ChannelConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

var _ messaging.Notifier = (*MockNotifier)(nil)

func messagingTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

// createWhatsAppConfig builds a WhatsApp config with credentials set
func createWhatsAppConfig(t *testing.T, enabled bool) *messaging.ChannelConfig {
	t.Helper()
	config, err := messaging.NewChannelConfig(messagingTestTenantID(), messaging.ChannelWhatsApp)
	require.NoError(t, err)
	require.NoError(t, config.SetCredentials(messaging.ChannelCredentials{
		AccessToken:   "EAAtoken",
		PhoneNumberID: "5511999990000",
	}))
	if enabled {
		require.NoError(t, config.Enable())
	}
	config.ClearDomainEvents()
	return config
}

// createTelegramConfig builds a Telegram config with credentials set
func createTelegramConfig(t *testing.T, enabled bool) *messaging.ChannelConfig {
	t.Helper()
	config, err := messaging.NewChannelConfig(messagingTestTenantID(), messaging.ChannelTelegram)
	require.NoError(t, err)
	require.NoError(t, config.SetCredentials(messaging.ChannelCredentials{
		BotToken: "123456:bottoken",
		ChatID:   "-1001234567890",
	}))
	if enabled {
		require.NoError(t, config.Enable())
	}
	config.ClearDomainEvents()
	return config
}

func createMessagingService(configRepo *MockChannelConfigRepository, notifiers ...messaging.Notifier) *MessagingService {
	return NewMessagingService(configRepo, notifiers, zap.NewNop())
}

func TestMessagingService_ListChannels_IncludesUnconfigured(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	whatsapp := createWhatsAppConfig(t, true)
	configRepo.On("FindByTenant", mock.Anything, tenantID).
		Return([]*messaging.ChannelConfig{whatsapp}, nil)

	responses, err := service.ListChannels(context.Background(), tenantID)

	assert.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "whatsapp", responses[0].Channel)
	assert.True(t, responses[0].Enabled)
	assert.True(t, responses[0].HasCredentials)
	assert.Equal(t, "5511999990000", responses[0].PhoneNumberID)
	assert.Equal(t, "telegram", responses[1].Channel)
	assert.False(t, responses[1].Enabled)
	assert.False(t, responses[1].HasCredentials)
	assert.Equal(t, []string{"order_placed", "order_status_changed"}, responses[1].NotifyOn)
	assert.Equal(t, messaging.DefaultTemplate(messaging.NotifyOrderPlaced),
		responses[1].Templates["order_placed"])
}

func TestMessagingService_GetChannel_NeverEchoesSecrets(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	telegram := createTelegramConfig(t, false)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelTelegram).
		Return(telegram, nil)

	response, err := service.GetChannel(context.Background(), tenantID, messaging.ChannelTelegram)

	assert.NoError(t, err)
	require.NotNil(t, response)
	assert.True(t, response.HasCredentials)
	assert.Equal(t, "-1001234567890", response.ChatID)
	assert.Empty(t, response.PhoneNumberID)
}

func TestMessagingService_GetChannel_Unconfigured(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(nil, shared.ErrNotFound)

	response, err := service.GetChannel(context.Background(), tenantID, messaging.ChannelWhatsApp)

	assert.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, "whatsapp", response.Channel)
	assert.False(t, response.Enabled)
	assert.False(t, response.HasCredentials)
	assert.False(t, response.Verified)
}

func TestMessagingService_GetChannel_InvalidChannel(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)

	response, err := service.GetChannel(context.Background(), messagingTestTenantID(), messaging.Channel("sms"))

	assert.Nil(t, response)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CHANNEL", domainErr.Code)
}

func TestMessagingService_UpdateChannel_CreatesAndEnables(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(nil, shared.ErrNotFound)

	var saved *messaging.ChannelConfig
	configRepo.On("Save", mock.Anything, mock.AnythingOfType("*messaging.ChannelConfig")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*messaging.ChannelConfig)
		}).
		Return(nil)

	enabled := true
	response, err := service.UpdateChannel(context.Background(), tenantID, messaging.ChannelWhatsApp, UpdateChannelRequest{
		Enabled: &enabled,
		Credentials: &CredentialsRequest{
			AccessToken:   "EAAtoken",
			PhoneNumberID: "5511999990000",
		},
	})

	assert.NoError(t, err)
	require.NotNil(t, response)
	assert.True(t, response.Enabled)
	assert.True(t, response.HasCredentials)

	require.NotNil(t, saved)
	assert.Equal(t, tenantID, saved.TenantID)
	assert.Equal(t, messaging.ChannelWhatsApp, saved.Channel)
	assert.True(t, saved.Enabled)
}

func TestMessagingService_UpdateChannel_EnableWithoutCredentials(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelTelegram).
		Return(nil, shared.ErrNotFound)

	enabled := true
	response, err := service.UpdateChannel(context.Background(), tenantID, messaging.ChannelTelegram, UpdateChannelRequest{
		Enabled: &enabled,
	})

	assert.Nil(t, response)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_CREDENTIALS", domainErr.Code)
	configRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMessagingService_UpdateChannel_TemplateOverride(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	config := createWhatsAppConfig(t, true)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(config, nil)
	configRepo.On("Save", mock.Anything, config).Return(nil)

	custom := "Recebemos seu pedido {{.Number}}! Total: R$ {{.Total}}"
	response, err := service.UpdateChannel(context.Background(), tenantID, messaging.ChannelWhatsApp, UpdateChannelRequest{
		Templates: map[string]string{"order_placed": custom},
	})

	assert.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, custom, response.Templates["order_placed"])
	assert.Equal(t, messaging.DefaultTemplate(messaging.NotifyOrderStatusChanged),
		response.Templates["order_status_changed"])
}

func TestMessagingService_UpdateChannel_NotifyOnReplaced(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	config := createTelegramConfig(t, true)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelTelegram).
		Return(config, nil)
	configRepo.On("Save", mock.Anything, config).Return(nil)

	response, err := service.UpdateChannel(context.Background(), tenantID, messaging.ChannelTelegram, UpdateChannelRequest{
		NotifyOn: []string{"order_placed"},
	})

	assert.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, []string{"order_placed"}, response.NotifyOn)
	assert.True(t, config.ShouldNotify(messaging.NotifyOrderPlaced))
	assert.False(t, config.ShouldNotify(messaging.NotifyOrderStatusChanged))
}

func TestMessagingService_UpdateChannel_InvalidNotifyEvent(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	config := createWhatsAppConfig(t, false)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(config, nil)

	response, err := service.UpdateChannel(context.Background(), tenantID, messaging.ChannelWhatsApp, UpdateChannelRequest{
		NotifyOn: []string{"order_shipped"},
	})

	assert.Nil(t, response)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_NOTIFY_EVENT", domainErr.Code)
	configRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMessagingService_TestSend_Success(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	notifier := NewMockNotifier(messaging.ChannelWhatsApp)
	service := createMessagingService(configRepo, notifier)
	tenantID := messagingTestTenantID()

	config := createWhatsAppConfig(t, false)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(config, nil)
	notifier.On("Send", mock.Anything, config, "11988887777", "Olá, teste!").Return(nil)

	err := service.TestSend(context.Background(), tenantID, messaging.ChannelWhatsApp, TestSendRequest{
		Recipient: "11988887777",
		Message:   "Olá, teste!",
	})

	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestMessagingService_TestSend_DefaultMessage(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	notifier := NewMockNotifier(messaging.ChannelTelegram)
	service := createMessagingService(configRepo, notifier)
	tenantID := messagingTestTenantID()

	config := createTelegramConfig(t, true)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelTelegram).
		Return(config, nil)
	notifier.On("Send", mock.Anything, config, "", testMessage).Return(nil)

	err := service.TestSend(context.Background(), tenantID, messaging.ChannelTelegram, TestSendRequest{})

	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestMessagingService_TestSend_NotConfigured(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	notifier := NewMockNotifier(messaging.ChannelWhatsApp)
	service := createMessagingService(configRepo, notifier)
	tenantID := messagingTestTenantID()

	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(nil, shared.ErrNotFound)

	err := service.TestSend(context.Background(), tenantID, messaging.ChannelWhatsApp, TestSendRequest{})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CHANNEL_NOT_CONFIGURED", domainErr.Code)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMessagingService_TestSend_ProviderFailure(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	notifier := NewMockNotifier(messaging.ChannelWhatsApp)
	service := createMessagingService(configRepo, notifier)
	tenantID := messagingTestTenantID()

	config := createWhatsAppConfig(t, true)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(config, nil)
	notifier.On("Send", mock.Anything, config, "", testMessage).
		Return(errors.New("401 unauthorized"))

	err := service.TestSend(context.Background(), tenantID, messaging.ChannelWhatsApp, TestSendRequest{})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SEND_FAILED", domainErr.Code)
}

func TestMessagingService_TestSend_NoNotifierRegistered(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	config := createWhatsAppConfig(t, true)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(config, nil)

	err := service.TestSend(context.Background(), tenantID, messaging.ChannelWhatsApp, TestSendRequest{})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CHANNEL_UNAVAILABLE", domainErr.Code)
}

func TestMessagingService_VerifyChannel_Success(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	notifier := NewMockNotifier(messaging.ChannelTelegram)
	service := createMessagingService(configRepo, notifier)
	tenantID := messagingTestTenantID()

	config := createTelegramConfig(t, true)
	require.False(t, config.IsVerified())

	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelTelegram).
		Return(config, nil)
	notifier.On("Verify", mock.Anything, config).Return(nil)
	configRepo.On("Save", mock.Anything, config).Return(nil)

	response, err := service.VerifyChannel(context.Background(), tenantID, messaging.ChannelTelegram)

	assert.NoError(t, err)
	require.NotNil(t, response)
	assert.True(t, response.Verified)
	assert.NotNil(t, response.VerifiedAt)
	assert.True(t, config.IsVerified())
}

func TestMessagingService_VerifyChannel_ProviderRejects(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	notifier := NewMockNotifier(messaging.ChannelWhatsApp)
	service := createMessagingService(configRepo, notifier)
	tenantID := messagingTestTenantID()

	config := createWhatsAppConfig(t, true)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(config, nil)
	notifier.On("Verify", mock.Anything, config).Return(errors.New("invalid token"))

	response, err := service.VerifyChannel(context.Background(), tenantID, messaging.ChannelWhatsApp)

	assert.Nil(t, response)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VERIFICATION_FAILED", domainErr.Code)
	assert.False(t, config.IsVerified())
	configRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMessagingService_DeleteChannel_Success(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	config := createWhatsAppConfig(t, true)
	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelWhatsApp).
		Return(config, nil)
	configRepo.On("Delete", mock.Anything, tenantID, messaging.ChannelWhatsApp).Return(nil)

	err := service.DeleteChannel(context.Background(), tenantID, messaging.ChannelWhatsApp)

	assert.NoError(t, err)
	configRepo.AssertExpectations(t)
}

func TestMessagingService_DeleteChannel_NotConfigured(t *testing.T) {
	configRepo := new(MockChannelConfigRepository)
	service := createMessagingService(configRepo)
	tenantID := messagingTestTenantID()

	configRepo.On("FindByTenantAndChannel", mock.Anything, tenantID, messaging.ChannelTelegram).
		Return(nil, shared.ErrNotFound)

	err := service.DeleteChannel(context.Background(), tenantID, messaging.ChannelTelegram)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CHANNEL_NOT_CONFIGURED", domainErr.Code)
	configRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
