package dataflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/dyike/StockSage/consts"
)

// Source yields the daily series of one symbol as a QuoteTable.
type Source interface {
	Name() string
	DailySeries(ctx context.Context, symbol string) (*QuoteTable, error)
}

// NewSource returns the market data source selected by cfg.DataSource.
func NewSource(cfg *Config) (Source, error) {
	switch strings.ToLower(cfg.DataSource) {
	case "", consts.SourceAlphaVantage:
		return NewAlphaVantageClient(AlphaVantageConfig{
			APIKey:       cfg.AlphaVantageAPIKey,
			BaseURL:      cfg.AlphaVantageBaseURL,
			OutputSize:   cfg.OutputSize,
			CacheDir:     cfg.DataCacheDir,
			CacheEnabled: cfg.CacheEnabled,
		}), nil
	case consts.SourceYahoo:
		return NewYahooFinanceClient(cfg.OutputSize), nil
	case consts.SourceLongport:
		client, err := NewLongportClient(LongportConfig{
			AppKey:      cfg.LongportAppKey,
			AppSecret:   cfg.LongportAppSecret,
			AccessToken: cfg.LongportAccessToken,
			OutputSize:  cfg.OutputSize,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown data source %q (want one of %s)",
			cfg.DataSource, strings.Join(consts.Sources(), ", "))
	}
}

// compactRows mirrors Alpha Vantage's outputsize=compact.
const compactRows = 100

func rowLimit(outputSize string) int {
	if outputSize == "full" {
		return 0
	}
	return compactRows
}
