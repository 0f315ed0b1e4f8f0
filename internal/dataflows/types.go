package dataflows

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dyike/StockSage/config"
)

// Config is an alias for the main application config
type Config = config.Config

// DailySeriesKey is the object holding one entry per trading day in an
// Alpha Vantage TIME_SERIES_DAILY response.
const DailySeriesKey = "Time Series (Daily)"

// Alpha Vantage field names. Every source emits these columns.
const (
	ColumnOpen   = "1. open"
	ColumnHigh   = "2. high"
	ColumnLow    = "3. low"
	ColumnClose  = "4. close"
	ColumnVolume = "5. volume"
)

// DailyColumns lists the standard columns in provider order.
var DailyColumns = []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

// Row is one dated entry of a QuoteTable. Fields holds the cells exactly as
// the provider sent them.
type Row struct {
	Date   string            `json:"date"`
	Fields map[string]string `json:"fields"`
}

// QuoteTable is a row-per-date, column-per-field view of a daily series.
// Rows keep the provider's key order; nothing is sorted or type-converted.
type QuoteTable struct {
	Symbol  string   `json:"symbol,omitempty"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Bar is the typed form of a Row.
type Bar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// CloseStats summarises the close column of a table.
type CloseStats struct {
	LatestDate time.Time
	Latest     decimal.Decimal
	Min        decimal.Decimal
	Max        decimal.Decimal
}
