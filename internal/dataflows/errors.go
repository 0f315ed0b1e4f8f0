package dataflows

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSeries means the response decoded but carried no daily series.
	ErrMissingSeries = errors.New(`response has no "Time Series (Daily)" object`)
	// ErrMalformedSeries means the daily series is not an object of objects.
	ErrMalformedSeries = errors.New("malformed daily series")
	// ErrMissingField is returned by Bars when a standard column is absent.
	ErrMissingField = errors.New("missing field")
	// ErrNoRows is returned by CloseStats on an empty table.
	ErrNoRows = errors.New("table has no rows")
)

// HTTPError is a non-2xx answer from a market data provider.
type HTTPError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s http %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s http %d: %s", e.Service, e.StatusCode, e.Body)
}

// APIError is a well-formed provider answer without data. Alpha Vantage
// reports invalid keys, unknown symbols and throttling this way with HTTP 200.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return ErrMissingSeries.Error()
	}
	return fmt.Sprintf("%s: %s", ErrMissingSeries, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrMissingSeries
}
