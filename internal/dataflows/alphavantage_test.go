package dataflows

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDailyResponse = `{
	"Meta Data": {
		"1. Information": "Daily Prices (open, high, low, close) and Volumes",
		"2. Symbol": "QQQ"
	},
	"Time Series (Daily)": {
		"2025-09-22": {
			"1. open": "480.00",
			"2. high": "485.00",
			"3. low": "478.00",
			"4. close": "482.50",
			"5. volume": "1000000"
		},
		"2025-09-21": {
			"1. open": "475.00",
			"2. high": "481.00",
			"3. low": "474.00",
			"4. close": "479.75",
			"5. volume": "1200000"
		}
	}
}`

func newJSONServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBuildDailyURL(t *testing.T) {
	t.Parallel()

	raw := BuildDailyURL("https://www.alphavantage.co/query", "QQQ", "compact", "test")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.alphavantage.co", u.Host)
	assert.Equal(t, "/query", u.Path)

	q := u.Query()
	assert.Equal(t, "TIME_SERIES_DAILY", q.Get("function"))
	assert.Equal(t, "QQQ", q.Get("symbol"))
	assert.Equal(t, "compact", q.Get("outputsize"))
	assert.Equal(t, "test", q.Get("apikey"))
}

func TestAlphaVantageClient_FetchStockData_Success(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "QQQ", r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDailyResponse))
	}))
	defer server.Close()

	client := NewAlphaVantageClient(AlphaVantageConfig{})
	table, err := client.FetchStockData(context.Background(), BuildDailyURL(server.URL, "QQQ", "compact", "test"))
	require.NoError(t, err)

	rows, cols := table.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 5, cols)
	assert.Equal(t, int32(1), requests.Load(), "exactly one request, no retry")
	assert.Equal(t, "QQQ", table.Symbol)
	assert.Equal(t, DailyColumns, table.Columns)
	assert.Equal(t, "2025-09-22", table.Rows[0].Date)

	closePrice, ok := table.Value(1, ColumnClose)
	require.True(t, ok)
	assert.Equal(t, "479.75", closePrice, "cells stay as delivered")
}

func TestAlphaVantageClient_FetchStockData_PreservesSourceOrder(t *testing.T) {
	t.Parallel()

	server := newJSONServer(t, http.StatusOK, `{"Time Series (Daily)": {
		"2025-09-19": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"},
		"2025-09-22": {"1. open": "2", "2. high": "2", "3. low": "2", "4. close": "2", "5. volume": "2"},
		"2025-09-20": {"1. open": "3", "2. high": "3", "3. low": "3", "4. close": "3", "5. volume": "3"}
	}}`)

	table, err := NewAlphaVantageClient(AlphaVantageConfig{}).FetchStockData(context.Background(), server.URL)
	require.NoError(t, err)

	dates := make([]string, 0, table.Len())
	for _, row := range table.Rows {
		dates = append(dates, row.Date)
	}
	assert.Equal(t, []string{"2025-09-19", "2025-09-22", "2025-09-20"}, dates)
}

func TestAlphaVantageClient_FetchStockData_TransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := NewAlphaVantageClient(AlphaVantageConfig{}).FetchStockData(context.Background(), addr)
	require.Error(t, err)

	var urlErr *url.Error
	assert.True(t, errors.As(err, &urlErr), "expected *url.Error, got %T: %v", err, err)
}

func TestAlphaVantageClient_FetchStockData_InvalidJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"truncated object", `{invalid json`},
		{"plain text", `not json at all`},
		{"html", `<html><body>Bad Gateway</body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newJSONServer(t, http.StatusOK, tt.body)
			_, err := NewAlphaVantageClient(AlphaVantageConfig{}).FetchStockData(context.Background(), server.URL)
			require.Error(t, err)

			var syntaxErr *json.SyntaxError
			assert.True(t, errors.As(err, &syntaxErr), "expected *json.SyntaxError, got %T: %v", err, err)
		})
	}
}

func TestAlphaVantageClient_FetchStockData_HTTPError(t *testing.T) {
	t.Parallel()

	server := newJSONServer(t, http.StatusServiceUnavailable, `upstream down`)

	_, err := NewAlphaVantageClient(AlphaVantageConfig{}).FetchStockData(context.Background(), server.URL)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestAlphaVantageClient_FetchStockData_ProviderMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "invalid key",
			body:    `{"Error Message": "Invalid API call. Please retry or visit the documentation."}`,
			message: "Invalid API call",
		},
		{
			name:    "rate limited",
			body:    `{"Information": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`,
			message: "25 requests per day",
		},
		{
			name: "empty object",
			body: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newJSONServer(t, http.StatusOK, tt.body)
			_, err := NewAlphaVantageClient(AlphaVantageConfig{}).FetchStockData(context.Background(), server.URL)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingSeries)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			if tt.message != "" {
				assert.Contains(t, apiErr.Message, tt.message)
			}
		})
	}
}

func TestAlphaVantageClient_FetchStockData_MalformedSeries(t *testing.T) {
	t.Parallel()

	bodies := []string{
		`{"Time Series (Daily)": ["2025-09-22"]}`,
		`{"Time Series (Daily)": {"2025-09-22": "480.00"}}`,
	}
	for _, body := range bodies {
		server := newJSONServer(t, http.StatusOK, body)
		_, err := NewAlphaVantageClient(AlphaVantageConfig{}).FetchStockData(context.Background(), server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedSeries)
	}
}

func TestAlphaVantageClient_FetchStockData_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(sampleDailyResponse))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewAlphaVantageClient(AlphaVantageConfig{}).FetchStockData(ctx, server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAlphaVantageClient_DailySeries(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "TIME_SERIES_DAILY", q.Get("function"))
		assert.Equal(t, "SPY", q.Get("symbol"))
		assert.Equal(t, "full", q.Get("outputsize"))
		assert.Equal(t, "secret", q.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDailyResponse))
	}))
	defer server.Close()

	client := NewAlphaVantageClient(AlphaVantageConfig{
		APIKey:     "secret",
		BaseURL:    server.URL,
		OutputSize: "full",
	})
	assert.Equal(t, "alphavantage", client.Name())

	table, err := client.DailySeries(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	_, err = client.DailySeries(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load(), "cache is off by default")
}

func TestAlphaVantageClient_DailySeries_Cache(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDailyResponse))
	}))
	defer server.Close()

	client := NewAlphaVantageClient(AlphaVantageConfig{
		APIKey:       "secret",
		BaseURL:      server.URL,
		CacheDir:     t.TempDir(),
		CacheEnabled: true,
	})

	first, err := client.DailySeries(context.Background(), "QQQ")
	require.NoError(t, err)
	second, err := client.DailySeries(context.Background(), "QQQ")
	require.NoError(t, err)

	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, first.String(), second.String(), "cached body keeps row order")
}

func TestAlphaVantageClient_DailySeries_CacheKeyedByEndpoint(t *testing.T) {
	t.Parallel()

	serve := func(closePrice string) *httptest.Server {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Time Series (Daily)": {"2025-09-22": {"4. close": "` + closePrice + `"}}}`))
		}))
		t.Cleanup(server.Close)
		return server
	}
	first := serve("111")
	second := serve("222")

	cacheDir := t.TempDir()
	fetchClose := func(baseURL, apiKey string) string {
		client := NewAlphaVantageClient(AlphaVantageConfig{
			APIKey:       apiKey,
			BaseURL:      baseURL,
			CacheDir:     cacheDir,
			CacheEnabled: true,
		})
		table, err := client.DailySeries(context.Background(), "QQQ")
		require.NoError(t, err)
		v, ok := table.Value(0, ColumnClose)
		require.True(t, ok)
		return v
	}

	assert.Equal(t, "111", fetchClose(first.URL, "k1"))
	assert.Equal(t, "222", fetchClose(second.URL, "k1"), "a new endpoint must not hit the old entry")
	assert.Equal(t, "111", fetchClose(first.URL, "k1"))

	first.Close()
	_, err := NewAlphaVantageClient(AlphaVantageConfig{
		APIKey:       "k2",
		BaseURL:      first.URL,
		CacheDir:     cacheDir,
		CacheEnabled: true,
	}).DailySeries(context.Background(), "QQQ")
	assert.Error(t, err, "a new api key must not hit the old entry")
}
