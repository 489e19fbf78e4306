// Package provider implements the external collaborators behind the
// pkg/provider contracts.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennywiseapp/pennywise/pkg/config"
	"github.com/pennywiseapp/pennywise/pkg/domain"
	"github.com/pennywiseapp/pennywise/pkg/provider"
)

// ExchangeRateAPIProvider fetches live rates from exchangerate-api.com
// using the v6 endpoint.
type ExchangeRateAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// exchangeRateAPIResponseV6 is the v6 response shape. See
// https://www.exchangerate-api.com/docs/standard-requests.
type exchangeRateAPIResponseV6 struct {
	Result             string             `json:"result"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	BaseCode           string             `json:"base_code"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	ErrorType          string             `json:"error-type,omitempty"`
}

// NewExchangeRateAPIProvider creates an exchangerate-api.com provider
// from config.
func NewExchangeRateAPIProvider(cfg config.ExchangeRateConfig, logger *slog.Logger) *ExchangeRateAPIProvider {
	return &ExchangeRateAPIProvider{
		apiKey:  cfg.ApiKey,
		baseURL: cfg.ApiUrl,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

var _ provider.ExchangeRate = (*ExchangeRateAPIProvider)(nil)

// GetRate implements provider.ExchangeRate. All failure modes wrap
// domain.ErrExternalService so callers can map them uniformly.
func (p *ExchangeRateAPIProvider) GetRate(ctx context.Context, from, to string) (*provider.Quote, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", p.baseURL, p.apiKey, from)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build rate request: %v", domain.ErrExternalService, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch rate: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: rate API returned status %d: %s", domain.ErrExternalService, resp.StatusCode, string(body))
	}

	var apiResp exchangeRateAPIResponseV6
	if err = json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: decode rate response: %v", domain.ErrExternalService, err)
	}

	if apiResp.Result != "success" {
		return nil, fmt.Errorf("%w: rate API returned result=%s error-type=%s", domain.ErrExternalService, apiResp.Result, apiResp.ErrorType)
	}

	rate, exists := apiResp.ConversionRates[to]
	if !exists {
		return nil, fmt.Errorf("%w: currency %s not found in rate response", domain.ErrExternalService, to)
	}

	timestamp := time.Now()
	if apiResp.TimeLastUpdateUnix > 0 {
		timestamp = time.Unix(apiResp.TimeLastUpdateUnix, 0)
	}

	return &provider.Quote{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         decimal.NewFromFloat(rate),
		Timestamp:    timestamp,
		Source:       p.Name(),
	}, nil
}

// Name implements provider.ExchangeRate.
func (p *ExchangeRateAPIProvider) Name() string {
	return "exchangerate-api"
}

// IsHealthy implements provider.ExchangeRate.
func (p *ExchangeRateAPIProvider) IsHealthy() bool {
	return p.apiKey != "" && p.baseURL != ""
}
