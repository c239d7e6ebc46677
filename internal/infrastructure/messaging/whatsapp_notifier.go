package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/messaging"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
)

// WhatsAppNotifier implements the Notifier interface for the WhatsApp
// Cloud API. Messages go out through the tenant's business number to
// the recipient passed on each send, so customers get order updates on
// their own phones.
type WhatsAppNotifier struct {
	config     *WhatsAppConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWhatsAppNotifier creates a new WhatsApp notifier
func NewWhatsAppNotifier(config *WhatsAppConfig, logger *zap.Logger) (*WhatsAppNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &WhatsAppNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// Channel returns the channel this notifier serves
func (n *WhatsAppNotifier) Channel() messaging.Channel {
	return messaging.ChannelWhatsApp
}

// Send delivers a text message to the recipient phone
func (n *WhatsAppNotifier) Send(ctx context.Context, config *messaging.ChannelConfig, recipient, message string) error {
	creds, err := config.GetCredentials()
	if err != nil {
		return fmt.Errorf("whatsapp: failed to read credentials: %w", err)
	}
	if creds.AccessToken == "" || creds.PhoneNumberID == "" {
		return fmt.Errorf("whatsapp: channel credentials are not set")
	}
	if recipient == "" {
		return fmt.Errorf("whatsapp: recipient is required")
	}

	phone, err := valueobject.NewPhone(recipient)
	if err != nil {
		return fmt.Errorf("whatsapp: invalid recipient: %w", err)
	}

	body := whatsappSendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               "55" + phone.Digits(),
		Type:             "text",
		Text:             whatsappText{Body: message},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("whatsapp: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", n.config.BaseURL, creds.PhoneNumberID)
	respBody, err := n.doRequest(ctx, http.MethodPost, url, creds.AccessToken, bodyBytes)
	if err != nil {
		return err
	}

	var sendResp whatsappSendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		return fmt.Errorf("whatsapp: failed to parse response: %w", err)
	}

	messageID := ""
	if len(sendResp.Messages) > 0 {
		messageID = sendResp.Messages[0].ID
	}
	n.logger.Debug("WhatsApp message sent",
		zap.String("tenant_id", config.TenantID.String()),
		zap.String("message_id", messageID))

	return nil
}

// Verify checks the credentials by fetching the phone number object
func (n *WhatsAppNotifier) Verify(ctx context.Context, config *messaging.ChannelConfig) error {
	creds, err := config.GetCredentials()
	if err != nil {
		return fmt.Errorf("whatsapp: failed to read credentials: %w", err)
	}
	if creds.AccessToken == "" || creds.PhoneNumberID == "" {
		return fmt.Errorf("whatsapp: channel credentials are not set")
	}

	url := fmt.Sprintf("%s/%s?fields=display_phone_number", n.config.BaseURL, creds.PhoneNumberID)
	respBody, err := n.doRequest(ctx, http.MethodGet, url, creds.AccessToken, nil)
	if err != nil {
		return err
	}

	var phoneResp whatsappPhoneNumberResponse
	if err := json.Unmarshal(respBody, &phoneResp); err != nil {
		return fmt.Errorf("whatsapp: failed to parse response: %w", err)
	}

	n.logger.Debug("WhatsApp credentials verified",
		zap.String("tenant_id", config.TenantID.String()),
		zap.String("display_phone_number", phoneResp.DisplayPhoneNumber))

	return nil
}

// doRequest performs an HTTP request against the Cloud API
func (n *WhatsAppNotifier) doRequest(ctx context.Context, method, url, accessToken string, body []byte) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp whatsappErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("whatsapp: api error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("whatsapp: HTTP %d", resp.StatusCode)
	}

	return respBody, nil
}

type whatsappSendRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsappText `json:"text"`
}

type whatsappText struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type whatsappSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type whatsappPhoneNumberResponse struct {
	ID                 string `json:"id"`
	DisplayPhoneNumber string `json:"display_phone_number"`
}

type whatsappErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Ensure WhatsAppNotifier implements the Notifier interface
var _ messaging.Notifier = (*WhatsAppNotifier)(nil)
