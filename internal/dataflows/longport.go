package dataflows

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"

	"github.com/dyike/StockSage/consts"
)

// LongportConfig carries the Longport OpenAPI credentials.
type LongportConfig struct {
	AppKey      string
	AppSecret   string
	AccessToken string
	OutputSize  string
}

// LongportClient holds a quote context connection; call Close when done.
type LongportClient struct {
	quoteCtx   *quote.QuoteContext
	outputSize string
}

var (
	_ Source    = (*LongportClient)(nil)
	_ io.Closer = (*LongportClient)(nil)
)

func NewLongportClient(cfg LongportConfig) (*LongportClient, error) {
	if cfg.AppKey == "" || cfg.AppSecret == "" || cfg.AccessToken == "" {
		return nil, errors.New("longport API credentials not configured (LONGPORT_APP_KEY, LONGPORT_APP_SECRET, LONGPORT_ACCESS_TOKEN)")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.AppKey, cfg.AppSecret, cfg.AccessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{
		quoteCtx:   quoteContext,
		outputSize: cfg.OutputSize,
	}, nil
}

func (lpc *LongportClient) Name() string {
	return consts.SourceLongport
}

// DailySeries fetches day candlesticks for a Longport symbol such as
// "700.HK" or "QQQ.US", newest first.
func (lpc *LongportClient) DailySeries(ctx context.Context, symbol string) (*QuoteTable, error) {
	if lpc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	// The candlestick endpoint caps a single request at 1000 bars.
	count := 1000
	if limit := rowLimit(lpc.outputSize); limit > 0 {
		count = limit
	}

	sticks, err := lpc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, int32(count), quote.AdjustTypeNo)
	if err != nil {
		return nil, err
	}

	return candlesticksToTable(symbol, sticks), nil
}

// Close releases the quote context connection.
func (lpc *LongportClient) Close() error {
	if lpc.quoteCtx == nil {
		return nil
	}
	return lpc.quoteCtx.Close()
}

// candlesticksToTable turns oldest-first candlesticks into a newest-first
// table. Nil sticks are skipped and nil prices render as NaN.
func candlesticksToTable(symbol string, sticks []*quote.Candlestick) *QuoteTable {
	table := &QuoteTable{
		Symbol:  symbol,
		Columns: append([]string(nil), DailyColumns...),
	}
	for i := len(sticks) - 1; i >= 0; i-- {
		stick := sticks[i]
		if stick == nil {
			continue
		}
		table.Rows = append(table.Rows, Row{
			Date: time.Unix(stick.Timestamp, 0).UTC().Format("2006-01-02"),
			Fields: map[string]string{
				ColumnOpen:   fixedPrice(stick.Open),
				ColumnHigh:   fixedPrice(stick.High),
				ColumnLow:    fixedPrice(stick.Low),
				ColumnClose:  fixedPrice(stick.Close),
				ColumnVolume: strconv.FormatInt(stick.Volume, 10),
			},
		})
	}
	return table
}

func fixedPrice(d *decimal.Decimal) string {
	if d == nil {
		return missingCell
	}
	return d.StringFixed(4)
}
