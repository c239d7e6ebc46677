package messaging

// Default provider endpoints. Tenant credentials live in the database;
// these configs only carry the endpoint and client timeout, so tests
// can point the notifiers at a local server.
const (
	// WhatsAppAPIURL is the WhatsApp Cloud API endpoint (Graph API)
	WhatsAppAPIURL = "https://graph.facebook.com/v21.0"
	// TelegramAPIURL is the Telegram Bot API endpoint
	TelegramAPIURL = "https://api.telegram.org"

	defaultTimeoutSeconds = 15
)

// WhatsAppConfig holds the WhatsApp Cloud API client settings
type WhatsAppConfig struct {
	// BaseURL is the Graph API base, version included
	BaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NewWhatsAppConfig creates a WhatsApp config with defaults
func NewWhatsAppConfig() *WhatsAppConfig {
	return &WhatsAppConfig{
		BaseURL:        WhatsAppAPIURL,
		TimeoutSeconds: defaultTimeoutSeconds,
	}
}

// Validate fills missing fields with defaults
func (c *WhatsAppConfig) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = WhatsAppAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	return nil
}

// TelegramConfig holds the Telegram Bot API client settings
type TelegramConfig struct {
	// BaseURL is the Bot API base, without the /bot<token> segment
	BaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NewTelegramConfig creates a Telegram config with defaults
func NewTelegramConfig() *TelegramConfig {
	return &TelegramConfig{
		BaseURL:        TelegramAPIURL,
		TimeoutSeconds: defaultTimeoutSeconds,
	}
}

// Validate fills missing fields with defaults
func (c *TelegramConfig) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = TelegramAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	return nil
}
