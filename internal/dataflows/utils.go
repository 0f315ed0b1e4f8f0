package dataflows

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DailyCacheKey identifies one TIME_SERIES_DAILY response. The endpoint and
// API key are part of it so that switching either never serves a payload
// fetched under the old settings.
type DailyCacheKey struct {
	BaseURL    string
	Symbol     string
	OutputSize string
	APIKey     string
}

// fileName hashes the whole key; the API key never appears on disk.
func (k DailyCacheKey) fileName() string {
	h := sha256.New()
	for _, part := range []string{k.BaseURL, NormalizeSymbol(k.Symbol), k.OutputSize, k.APIKey} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("daily_%x.json", h.Sum(nil)[:12])
}

// SeriesCache keeps raw daily series bodies on disk for a fixed TTL.
type SeriesCache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

func NewSeriesCache(dir string, ttl time.Duration, enabled bool) *SeriesCache {
	return &SeriesCache{
		dir:     dir,
		ttl:     ttl,
		enabled: enabled && dir != "",
	}
}

// Get returns the cached body for key if present and not expired.
func (c *SeriesCache) Get(key DailyCacheKey) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	path := filepath.Join(c.dir, key.fileName())
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		os.Remove(path) // expired
		return nil, false
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return body, true
}

// Set stores body under key. It is a no-op when the cache is disabled.
func (c *SeriesCache) Set(key DailyCacheKey, body []byte) error {
	if !c.enabled {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key.fileName()), body, 0644)
}

// ValidateSymbol checks if a stock symbol is valid format
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts symbol to standard format
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
