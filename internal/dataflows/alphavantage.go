package dataflows

import (
	"context"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/StockSage/config"
	"github.com/dyike/StockSage/consts"
)

// AlphaVantageConfig holds what the daily series endpoint needs.
type AlphaVantageConfig struct {
	APIKey       string
	BaseURL      string
	OutputSize   string
	CacheDir     string
	CacheEnabled bool
}

// AlphaVantageClient fetches TIME_SERIES_DAILY payloads. Requests are sent
// once: no retry and no client-side timeout.
type AlphaVantageClient struct {
	client *resty.Client
	cache  *SeriesCache
	cfg    AlphaVantageConfig
}

var _ Source = (*AlphaVantageClient)(nil)

// NewAlphaVantageClient creates a new Alpha Vantage client
func NewAlphaVantageClient(cfg AlphaVantageConfig) *AlphaVantageClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultAlphaVantageBaseURL
	}
	if cfg.OutputSize == "" {
		cfg.OutputSize = config.DefaultOutputSize
	}

	cacheDir := filepath.Join(cfg.CacheDir, "alphavantage")
	cache := NewSeriesCache(cacheDir, 12*time.Hour, cfg.CacheEnabled && cfg.CacheDir != "")

	return &AlphaVantageClient{
		client: resty.New(),
		cache:  cache,
		cfg:    cfg,
	}
}

// BuildDailyURL returns the TIME_SERIES_DAILY query URL for symbol.
func BuildDailyURL(baseURL, symbol, outputSize, apiKey string) string {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", outputSize)
	q.Set("apikey", apiKey)
	return baseURL + "?" + q.Encode()
}

func (c *AlphaVantageClient) Name() string {
	return consts.SourceAlphaVantage
}

// FetchStockData performs one GET on a fully formed URL and parses the daily
// series. Transport errors are returned as the HTTP client produced them.
func (c *AlphaVantageClient) FetchStockData(ctx context.Context, rawURL string) (*QuoteTable, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return ParseDailySeries(body)
}

// DailySeries builds the query URL for symbol and fetches it, consulting the
// response cache when enabled.
func (c *AlphaVantageClient) DailySeries(ctx context.Context, symbol string) (*QuoteTable, error) {
	cacheKey := DailyCacheKey{
		BaseURL:    c.cfg.BaseURL,
		Symbol:     symbol,
		OutputSize: c.cfg.OutputSize,
		APIKey:     c.cfg.APIKey,
	}

	if cached, ok := c.cache.Get(cacheKey); ok {
		if table, err := ParseDailySeries(cached); err == nil {
			slog.Debug("daily series served from cache", "symbol", symbol)
			return table, nil
		}
	}

	body, err := c.get(ctx, BuildDailyURL(c.cfg.BaseURL, symbol, c.cfg.OutputSize, c.cfg.APIKey))
	if err != nil {
		return nil, err
	}
	table, err := ParseDailySeries(body)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(cacheKey, body); err != nil {
		slog.Warn("failed to cache daily series", "symbol", symbol, "error", err)
	}
	return table, nil
}

func (c *AlphaVantageClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, &HTTPError{
			Service:    consts.SourceAlphaVantage,
			StatusCode: resp.StatusCode(),
			Body:       truncate(resp.String(), 200),
		}
	}
	return resp.Body(), nil
}
