package messaging

import (
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/messaging"
)

// CredentialsRequest carries the channel credentials. WhatsApp needs
// AccessToken and PhoneNumberID; Telegram needs BotToken and ChatID.
type CredentialsRequest struct {
	AccessToken   string `json:"access_token" binding:"max=500"`
	PhoneNumberID string `json:"phone_number_id" binding:"max=50"`
	BotToken      string `json:"bot_token" binding:"max=200"`
	ChatID        string `json:"chat_id" binding:"max=50"`
}

// UpdateChannelRequest represents a request to change a channel's
// configuration. Nil fields are left untouched; an empty template
// restores the platform default.
type UpdateChannelRequest struct {
	Enabled     *bool               `json:"enabled"`
	Credentials *CredentialsRequest `json:"credentials"`
	NotifyOn    []string            `json:"notify_on" binding:"omitempty,dive,oneof=order_placed order_status_changed"`
	Templates   map[string]string   `json:"templates" binding:"omitempty,dive,keys,oneof=order_placed order_status_changed,endkeys,max=1000"`
}

// TestSendRequest represents a request to send a test message through a
// channel. Recipient is a phone number for WhatsApp and ignored by
// Telegram, which posts to the configured chat.
type TestSendRequest struct {
	Recipient string `json:"recipient" binding:"max=20"`
	Message   string `json:"message" binding:"max=1000"`
}

// ChannelConfigResponse represents a channel configuration in API
// responses. Secrets never leave the server; only the non-secret
// destination identifiers are echoed back.
type ChannelConfigResponse struct {
	Channel        string            `json:"channel"`
	Enabled        bool              `json:"enabled"`
	HasCredentials bool              `json:"has_credentials"`
	PhoneNumberID  string            `json:"phone_number_id,omitempty"`
	ChatID         string            `json:"chat_id,omitempty"`
	NotifyOn       []string          `json:"notify_on"`
	Templates      map[string]string `json:"templates"`
	Verified       bool              `json:"verified"`
	VerifiedAt     *time.Time        `json:"verified_at,omitempty"`
	UpdatedAt      *time.Time        `json:"updated_at,omitempty"`
}

// ToChannelConfigResponse converts a domain ChannelConfig to its
// response form. Templates are resolved per event, falling back to the
// platform defaults.
func ToChannelConfigResponse(c *messaging.ChannelConfig) ChannelConfigResponse {
	notifyOn, _ := c.GetNotifyOn()
	events := make([]string, len(notifyOn))
	for i, e := range notifyOn {
		events[i] = string(e)
	}

	response := ChannelConfigResponse{
		Channel:        string(c.Channel),
		Enabled:        c.Enabled,
		HasCredentials: c.HasCredentials(),
		NotifyOn:       events,
		Templates:      resolvedTemplates(c.Template),
		Verified:       c.IsVerified(),
		VerifiedAt:     c.VerifiedAt,
	}

	if !c.UpdatedAt.IsZero() {
		updatedAt := c.UpdatedAt
		response.UpdatedAt = &updatedAt
	}

	if creds, err := c.GetCredentials(); err == nil {
		response.PhoneNumberID = creds.PhoneNumberID
		response.ChatID = creds.ChatID
	}

	return response
}

// ToUnconfiguredChannelResponse builds the response for a channel the
// tenant has not configured yet: disabled, default notify set, default
// templates.
func ToUnconfiguredChannelResponse(channel messaging.Channel) ChannelConfigResponse {
	return ChannelConfigResponse{
		Channel: string(channel),
		NotifyOn: []string{
			string(messaging.NotifyOrderPlaced),
			string(messaging.NotifyOrderStatusChanged),
		},
		Templates: resolvedTemplates(messaging.DefaultTemplate),
	}
}

func resolvedTemplates(resolve func(messaging.NotifyEvent) string) map[string]string {
	return map[string]string{
		string(messaging.NotifyOrderPlaced):        resolve(messaging.NotifyOrderPlaced),
		string(messaging.NotifyOrderStatusChanged): resolve(messaging.NotifyOrderStatusChanged),
	}
}
