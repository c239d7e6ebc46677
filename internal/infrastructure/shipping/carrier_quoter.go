// Package shipping provides delivery quote adapters backed by carrier
// HTTP APIs.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/storefront"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/config"
)

// CarrierQuoter implements ShippingQuoter against a carrier quote API.
// A failed or slow carrier call never fails the checkout: the caller
// falls back to the store's flat fee when Quote returns an error.
type CarrierQuoter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCarrierQuoter creates a carrier-backed shipping quoter
func NewCarrierQuoter(cfg *config.ShippingConfig, logger *zap.Logger) (*CarrierQuoter, error) {
	if cfg.CarrierBaseURL == "" {
		return nil, fmt.Errorf("shipping: carrier base URL is required")
	}

	timeout := cfg.CarrierTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &CarrierQuoter{
		baseURL:    cfg.CarrierBaseURL,
		apiKey:     cfg.CarrierAPIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Quote prices a delivery between two CEPs for the given cart subtotal
func (q *CarrierQuoter) Quote(ctx context.Context, origin, destination valueobject.CEP, subtotal valueobject.Money) (*storefront.ShippingQuote, error) {
	if origin.IsZero() || destination.IsZero() {
		return nil, fmt.Errorf("shipping: origin and destination CEPs are required")
	}

	body := carrierQuoteRequest{
		OriginCEP:      origin.Digits(),
		DestinationCEP: destination.Digits(),
		DeclaredValue:  subtotal.Amount().StringFixed(2),
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("shipping: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.baseURL+"/v1/quotes", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("shipping: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+q.apiKey)
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shipping: carrier request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("shipping: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var errResp carrierErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return nil, fmt.Errorf("shipping: carrier error %d: %s", resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("shipping: carrier HTTP %d", resp.StatusCode)
	}

	var quoteResp carrierQuoteResponse
	if err := json.Unmarshal(respBody, &quoteResp); err != nil {
		return nil, fmt.Errorf("shipping: failed to parse response: %w", err)
	}
	if quoteResp.FeeCents < 0 {
		return nil, fmt.Errorf("shipping: carrier returned negative fee")
	}

	q.logger.Debug("carrier quote obtained",
		zap.String("destination", destination.Masked()),
		zap.Int64("fee_cents", quoteResp.FeeCents),
		zap.String("carrier", quoteResp.Carrier))

	return &storefront.ShippingQuote{
		Fee:     valueobject.NewMoneyBRLFromCents(quoteResp.FeeCents),
		Carrier: quoteResp.Carrier,
	}, nil
}

type carrierQuoteRequest struct {
	OriginCEP      string `json:"origin_cep"`
	DestinationCEP string `json:"destination_cep"`
	DeclaredValue  string `json:"declared_value"`
}

type carrierQuoteResponse struct {
	FeeCents int64  `json:"fee_cents"`
	Carrier  string `json:"carrier"`
	Days     int    `json:"estimated_days"`
}

type carrierErrorResponse struct {
	Message string `json:"message"`
}

// Ensure CarrierQuoter implements the ShippingQuoter interface
var _ storefront.ShippingQuoter = (*CarrierQuoter)(nil)
