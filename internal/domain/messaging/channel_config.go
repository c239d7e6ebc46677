package messaging

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Channel identifies a messaging channel
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTelegram Channel = "telegram"
)

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	return c == ChannelWhatsApp || c == ChannelTelegram
}

// String returns the string representation of Channel
func (c Channel) String() string {
	return string(c)
}

// NotifyEvent names an order event that can trigger a notification
type NotifyEvent string

const (
	NotifyOrderPlaced        NotifyEvent = "order_placed"
	NotifyOrderStatusChanged NotifyEvent = "order_status_changed"
)

// IsValid checks if the notify event is valid
func (e NotifyEvent) IsValid() bool {
	return e == NotifyOrderPlaced || e == NotifyOrderStatusChanged
}

// ChannelCredentials holds the per-channel API credentials. WhatsApp
// uses the Cloud API token plus phone number ID; Telegram uses a bot
// token plus destination chat ID.
type ChannelCredentials struct {
	AccessToken   string `json:"access_token,omitempty"`
	PhoneNumberID string `json:"phone_number_id,omitempty"`
	BotToken      string `json:"bot_token,omitempty"`
	ChatID        string `json:"chat_id,omitempty"`
}

// ChannelConfig is the per-tenant configuration of one messaging
// channel: credentials, which order events notify, and message
// template overrides.
type ChannelConfig struct {
	shared.TenantAggregateRoot
	Channel     Channel        `gorm:"type:varchar(10);not null;index"`
	Enabled     bool           `gorm:"not null;default:false"`
	Credentials datatypes.JSON `gorm:"type:jsonb"` // ChannelCredentials
	NotifyOn    datatypes.JSON `gorm:"type:jsonb"` // []NotifyEvent
	Templates   datatypes.JSON `gorm:"type:jsonb"` // map[NotifyEvent]template
	VerifiedAt  *time.Time

	credentials *ChannelCredentials    `gorm:"-"`
	notifyOn    []NotifyEvent          `gorm:"-"`
	templates   map[NotifyEvent]string `gorm:"-"`
}

// TableName returns the table name for GORM
func (ChannelConfig) TableName() string {
	return "channel_configs"
}

// NewChannelConfig creates a disabled channel configuration with the
// default notify set
func NewChannelConfig(tenantID uuid.UUID, channel Channel) (*ChannelConfig, error) {
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Invalid messaging channel")
	}

	config := &ChannelConfig{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Channel:             channel,
		Enabled:             false,
	}

	if err := config.setNotifyOn([]NotifyEvent{NotifyOrderPlaced, NotifyOrderStatusChanged}); err != nil {
		return nil, err
	}

	config.AddDomainEvent(NewChannelConfigCreatedEvent(config))

	return config, nil
}

// SetCredentials stores the channel credentials. Changing credentials
// drops the verified mark until the next verification.
func (c *ChannelConfig) SetCredentials(creds ChannelCredentials) error {
	switch c.Channel {
	case ChannelWhatsApp:
		if strings.TrimSpace(creds.AccessToken) == "" || strings.TrimSpace(creds.PhoneNumberID) == "" {
			return shared.NewDomainError("INVALID_CREDENTIALS", "WhatsApp needs an access token and a phone number ID")
		}
	case ChannelTelegram:
		if strings.TrimSpace(creds.BotToken) == "" || strings.TrimSpace(creds.ChatID) == "" {
			return shared.NewDomainError("INVALID_CREDENTIALS", "Telegram needs a bot token and a chat ID")
		}
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Could not encode credentials")
	}

	c.Credentials = data
	c.credentials = &creds
	c.VerifiedAt = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewChannelConfigUpdatedEvent(c))

	return nil
}

// GetCredentials decodes and returns the stored credentials
func (c *ChannelConfig) GetCredentials() (ChannelCredentials, error) {
	if c.credentials != nil {
		return *c.credentials, nil
	}
	var creds ChannelCredentials
	if len(c.Credentials) > 0 {
		if err := json.Unmarshal(c.Credentials, &creds); err != nil {
			return ChannelCredentials{}, shared.NewDomainError("INVALID_CREDENTIALS", "Could not decode credentials")
		}
	}
	c.credentials = &creds
	return creds, nil
}

// HasCredentials returns true if credentials are stored
func (c *ChannelConfig) HasCredentials() bool {
	return len(c.Credentials) > 0
}

// Enable turns the channel on. Credentials must be set first.
func (c *ChannelConfig) Enable() error {
	if c.Enabled {
		return shared.NewDomainError("ALREADY_ENABLED", "Channel is already enabled")
	}
	if !c.HasCredentials() {
		return shared.NewDomainError("NO_CREDENTIALS", "Set credentials before enabling the channel")
	}

	c.Enabled = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewChannelConfigStatusChangedEvent(c, true))

	return nil
}

// Disable turns the channel off
func (c *ChannelConfig) Disable() error {
	if !c.Enabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Channel is already disabled")
	}

	c.Enabled = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewChannelConfigStatusChangedEvent(c, false))

	return nil
}

// SetNotifyOn replaces the set of notifying events
func (c *ChannelConfig) SetNotifyOn(events []NotifyEvent) error {
	if err := c.setNotifyOn(events); err != nil {
		return err
	}

	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewChannelConfigUpdatedEvent(c))

	return nil
}

func (c *ChannelConfig) setNotifyOn(events []NotifyEvent) error {
	seen := make(map[NotifyEvent]bool)
	deduped := make([]NotifyEvent, 0, len(events))
	for _, event := range events {
		if !event.IsValid() {
			return shared.NewDomainError("INVALID_NOTIFY_EVENT", "Unknown notify event")
		}
		if !seen[event] {
			seen[event] = true
			deduped = append(deduped, event)
		}
	}

	data, err := json.Marshal(deduped)
	if err != nil {
		return shared.NewDomainError("INVALID_NOTIFY_EVENT", "Could not encode notify events")
	}

	c.NotifyOn = data
	c.notifyOn = deduped

	return nil
}

// GetNotifyOn decodes and returns the notifying events
func (c *ChannelConfig) GetNotifyOn() ([]NotifyEvent, error) {
	if c.notifyOn != nil {
		return c.notifyOn, nil
	}
	events := make([]NotifyEvent, 0)
	if len(c.NotifyOn) > 0 {
		if err := json.Unmarshal(c.NotifyOn, &events); err != nil {
			return nil, shared.NewDomainError("INVALID_NOTIFY_EVENT", "Could not decode notify events")
		}
	}
	c.notifyOn = events
	return events, nil
}

// ShouldNotify reports whether the channel is enabled and subscribed
// to the event
func (c *ChannelConfig) ShouldNotify(event NotifyEvent) bool {
	if !c.Enabled {
		return false
	}
	events, err := c.GetNotifyOn()
	if err != nil {
		return false
	}
	for _, e := range events {
		if e == event {
			return true
		}
	}
	return false
}

// SetTemplate overrides the message template for an event. An empty
// template restores the default.
func (c *ChannelConfig) SetTemplate(event NotifyEvent, template string) error {
	if !event.IsValid() {
		return shared.NewDomainError("INVALID_NOTIFY_EVENT", "Unknown notify event")
	}
	if len(template) > 1000 {
		return shared.NewDomainError("INVALID_TEMPLATE", "Template cannot exceed 1000 characters")
	}

	templates, err := c.GetTemplates()
	if err != nil {
		return err
	}

	if strings.TrimSpace(template) == "" {
		delete(templates, event)
	} else {
		templates[event] = template
	}

	data, err := json.Marshal(templates)
	if err != nil {
		return shared.NewDomainError("INVALID_TEMPLATE", "Could not encode templates")
	}

	c.Templates = data
	c.templates = templates
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewChannelConfigUpdatedEvent(c))

	return nil
}

// GetTemplates decodes and returns the template overrides
func (c *ChannelConfig) GetTemplates() (map[NotifyEvent]string, error) {
	if c.templates != nil {
		return c.templates, nil
	}
	templates := make(map[NotifyEvent]string)
	if len(c.Templates) > 0 {
		if err := json.Unmarshal(c.Templates, &templates); err != nil {
			return nil, shared.NewDomainError("INVALID_TEMPLATE", "Could not decode templates")
		}
	}
	c.templates = templates
	return templates, nil
}

// Template returns the message template for an event, falling back to
// the platform default
func (c *ChannelConfig) Template(event NotifyEvent) string {
	templates, err := c.GetTemplates()
	if err == nil {
		if custom, ok := templates[event]; ok && custom != "" {
			return custom
		}
	}
	return DefaultTemplate(event)
}

// MarkVerified records a successful credential verification
func (c *ChannelConfig) MarkVerified() {
	now := time.Now()
	c.VerifiedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
}

// IsVerified returns true if the credentials were verified after the
// last change
func (c *ChannelConfig) IsVerified() bool {
	return c.VerifiedAt != nil
}

// DefaultTemplate returns the platform default message for an event.
// Placeholders follow text/template syntax over NotificationData.
func DefaultTemplate(event NotifyEvent) string {
	switch event {
	case NotifyOrderPlaced:
		return "🛎️ Novo pedido {{.Number}} de {{.CustomerName}} — total R$ {{.Total}}."
	case NotifyOrderStatusChanged:
		return "Pedido {{.Number}}: {{.StatusLabel}}."
	}
	return ""
}

// NotificationData is the payload rendered into message templates
type NotificationData struct {
	Number       string
	CustomerName string
	Total        string
	Status       string
	StatusLabel  string
	StoreName    string
}
