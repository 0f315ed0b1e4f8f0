package dataflows

import (
	"context"
	"fmt"
	"strconv"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/dyike/StockSage/consts"
)

// YahooFinanceClient reads daily bars from the Yahoo chart API.
type YahooFinanceClient struct {
	outputSize string
}

var _ Source = (*YahooFinanceClient)(nil)

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient(outputSize string) *YahooFinanceClient {
	return &YahooFinanceClient{outputSize: outputSize}
}

func (yf *YahooFinanceClient) Name() string {
	return consts.SourceYahoo
}

// DailySeries gets the daily bars for symbol, newest first. A compact
// request covers roughly the last 100 trading days; a full one 20 years.
func (yf *YahooFinanceClient) DailySeries(ctx context.Context, symbol string) (*QuoteTable, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	end := time.Now()
	start := end.AddDate(0, 0, -150)
	if yf.outputSize == "full" {
		start = end.AddDate(-20, 0, 0)
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	var bars []*finance.ChartBar
	for iter.Next() {
		bars = append(bars, iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
	}

	return chartBarsToTable(symbol, bars, rowLimit(yf.outputSize)), nil
}

// chartBarsToTable converts oldest-first chart bars into a newest-first
// table with the standard daily columns. limit <= 0 keeps every bar.
func chartBarsToTable(symbol string, bars []*finance.ChartBar, limit int) *QuoteTable {
	table := &QuoteTable{
		Symbol:  symbol,
		Columns: append([]string(nil), DailyColumns...),
	}
	for i := len(bars) - 1; i >= 0; i-- {
		if limit > 0 && len(table.Rows) == limit {
			break
		}
		bar := bars[i]
		if bar == nil {
			continue
		}
		table.Rows = append(table.Rows, Row{
			Date: time.Unix(int64(bar.Timestamp), 0).UTC().Format("2006-01-02"),
			Fields: map[string]string{
				ColumnOpen:   bar.Open.StringFixed(4),
				ColumnHigh:   bar.High.StringFixed(4),
				ColumnLow:    bar.Low.StringFixed(4),
				ColumnClose:  bar.Close.StringFixed(4),
				ColumnVolume: strconv.FormatInt(int64(bar.Volume), 10),
			},
		})
	}
	return table
}
