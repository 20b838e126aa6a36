// Package marketdata is the market-data collaborator: it hands the engine a
// cleaned, time-ordered OHLC window per instrument.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/pkg/types"
)

// BybitClient fetches kline windows from Bybit's v5 market endpoints.
type BybitClient struct {
	httpClient *bybit_api.Client
	category   string
	interval   string
	retry      retryPolicy
}

// NewBybitClient creates a client against mainnet or testnet per cfg.
func NewBybitClient(cfg config.Exchange) *BybitClient {
	baseURL := bybit_api.MAINNET
	if cfg.Testnet {
		baseURL = bybit_api.TESTNET
	}

	return &BybitClient{
		httpClient: bybit_api.NewBybitHttpClient(
			cfg.APIKey,
			cfg.Secret,
			bybit_api.WithBaseURL(baseURL),
		),
		category: cfg.Category,
		interval: cfg.Interval,
		retry:    defaultRetryPolicy(),
	}
}

// GetBars fetches up to limit bars for symbol and returns them in
// chronological order. Bybit caps a single request at 1000 bars.
func (c *BybitClient) GetBars(ctx context.Context, symbol string, limit int) ([]types.PriceBar, error) {
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}

	params := map[string]interface{}{
		"category": c.category,
		"symbol":   symbol,
		"interval": c.interval,
		"limit":    limit,
	}

	var result interface{}
	err := withRetry(ctx, c.retry, func() error {
		r, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	bars, err := parseKlineResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kline response: %w", err)
	}
	return bars, nil
}

// parseKlineResponse unpacks the v5 kline payload. Bybit returns rows
// newest first; the engine wants strictly increasing timestamps, so the
// rows are reversed.
func parseKlineResponse(response interface{}) ([]types.PriceBar, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var klineResult struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	bars := make([]types.PriceBar, 0, len(klineResult.List))
	for i := len(klineResult.List) - 1; i >= 0; i-- {
		item := klineResult.List[i]
		if len(item) < 6 {
			continue
		}

		// Row format: [startTime, open, high, low, close, volume, turnover]
		bars = append(bars, types.PriceBar{
			Timestamp: time.UnixMilli(parseInt64(item[0])),
			Open:      parseFloat64(item[1]),
			High:      parseFloat64(item[2]),
			Low:       parseFloat64(item[3]),
			Close:     parseFloat64(item[4]),
			Volume:    parseFloat64(item[5]),
		})
	}
	return bars, nil
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat64(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
