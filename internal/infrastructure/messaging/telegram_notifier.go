package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/messaging"
)

// TelegramNotifier implements the Notifier interface for the Telegram
// Bot API. Messages always go to the chat configured for the tenant,
// typically the merchant's group; the per-send recipient is ignored.
type TelegramNotifier struct {
	config     *TelegramConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(config *TelegramConfig, logger *zap.Logger) (*TelegramNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &TelegramNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// Channel returns the channel this notifier serves
func (n *TelegramNotifier) Channel() messaging.Channel {
	return messaging.ChannelTelegram
}

// Send posts a text message to the configured chat
func (n *TelegramNotifier) Send(ctx context.Context, config *messaging.ChannelConfig, _, message string) error {
	creds, err := config.GetCredentials()
	if err != nil {
		return fmt.Errorf("telegram: failed to read credentials: %w", err)
	}
	if creds.BotToken == "" || creds.ChatID == "" {
		return fmt.Errorf("telegram: channel credentials are not set")
	}

	body := telegramSendRequest{
		ChatID: creds.ChatID,
		Text:   message,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal request: %w", err)
	}

	result, err := n.doRequest(ctx, creds.BotToken, "sendMessage", bodyBytes)
	if err != nil {
		return err
	}

	var sent telegramMessage
	if err := json.Unmarshal(result, &sent); err == nil {
		n.logger.Debug("Telegram message sent",
			zap.String("tenant_id", config.TenantID.String()),
			zap.Int64("message_id", sent.MessageID))
	}

	return nil
}

// Verify checks the bot token by calling getMe
func (n *TelegramNotifier) Verify(ctx context.Context, config *messaging.ChannelConfig) error {
	creds, err := config.GetCredentials()
	if err != nil {
		return fmt.Errorf("telegram: failed to read credentials: %w", err)
	}
	if creds.BotToken == "" {
		return fmt.Errorf("telegram: channel credentials are not set")
	}

	result, err := n.doRequest(ctx, creds.BotToken, "getMe", nil)
	if err != nil {
		return err
	}

	var bot telegramBot
	if err := json.Unmarshal(result, &bot); err != nil {
		return fmt.Errorf("telegram: failed to parse response: %w", err)
	}

	n.logger.Debug("Telegram credentials verified",
		zap.String("tenant_id", config.TenantID.String()),
		zap.String("bot_username", bot.Username))

	return nil
}

// doRequest calls a Bot API method and returns the result payload. The
// Bot API reports failures in the body with ok=false, so the body is
// parsed regardless of the HTTP status.
func (n *TelegramNotifier) doRequest(ctx context.Context, botToken, method string, body []byte) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", n.config.BaseURL, botToken, method)

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		// url.Error strings include the request URL, which carries the
		// bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("telegram: request failed: %w", urlErr.Err)
		}
		return nil, fmt.Errorf("telegram: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("telegram: failed to read response: %w", err)
	}

	var apiResp telegramResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("telegram: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("telegram: failed to parse response: %w", err)
	}

	if !apiResp.OK {
		return nil, fmt.Errorf("telegram: api error %d: %s", apiResp.ErrorCode, apiResp.Description)
	}

	return apiResp.Result, nil
}

type telegramSendRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

type telegramMessage struct {
	MessageID int64 `json:"message_id"`
}

type telegramBot struct {
	ID       int64  `json:"id"`
	IsBot    bool   `json:"is_bot"`
	Username string `json:"username"`
}

// Ensure TelegramNotifier implements the Notifier interface
var _ messaging.Notifier = (*TelegramNotifier)(nil)
