package trading

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dyike/StockSage/config"
	"github.com/dyike/StockSage/internal/dataflows"
	"github.com/dyike/StockSage/internal/llm"
	"github.com/dyike/StockSage/pkg/utils"
)

// RecommenderFactory builds the LLM client. It runs after the quote table
// has been fetched.
type RecommenderFactory func(ctx context.Context, cfg *config.Config) (llm.Recommender, error)

// TradingSession fetches one daily series and asks an LLM for a
// recommendation on it.
type TradingSession struct {
	config         *config.Config
	symbol         string
	source         dataflows.Source
	newRecommender RecommenderFactory
	out            io.Writer
	logger         *slog.Logger
}

type SessionOption func(*TradingSession)

// WithSource replaces the source selected by the config.
func WithSource(src dataflows.Source) SessionOption {
	return func(s *TradingSession) {
		s.source = src
	}
}

func WithRecommenderFactory(f RecommenderFactory) SessionOption {
	return func(s *TradingSession) {
		if f != nil {
			s.newRecommender = f
		}
	}
}

// WithOutput sets where diagnostics and the recommendation are printed.
func WithOutput(w io.Writer) SessionOption {
	return func(s *TradingSession) {
		if w != nil {
			s.out = w
		}
	}
}

func WithLogger(l *slog.Logger) SessionOption {
	return func(s *TradingSession) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewTradingSession creates a session for symbol. An empty symbol falls
// back to the configured ticker, then to QQQ.
func NewTradingSession(cfg *config.Config, symbol string, opts ...SessionOption) *TradingSession {
	if symbol == "" {
		symbol = cfg.Ticker
	}
	if symbol == "" {
		symbol = config.DefaultTicker
	}

	s := &TradingSession{
		config:         cfg,
		symbol:         dataflows.NormalizeSymbol(symbol),
		newRecommender: llm.NewRecommender,
		out:            os.Stdout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TradingSession) Symbol() string {
	return s.symbol
}

// Execute runs fetch, prompt and print once. Every failure is printed as a
// one-line diagnostic and returned unchanged.
func (s *TradingSession) Execute(ctx context.Context) (string, error) {
	table, err := s.fetch(ctx)
	if err != nil {
		if isHTTPError(err) {
			fmt.Fprintf(s.out, "HTTP error occurred querying stock data: %v\n", err)
		} else {
			fmt.Fprintf(s.out, "Other error occurred: %v\n", err)
		}
		return "", err
	}
	s.logger.Debug("daily series fetched", "symbol", s.symbol, "rows", table.Len())

	if s.config.ShowTable {
		dataflows.DisplayTable(s.out, table)
	}
	if s.config.SortAscending {
		table = table.SortedByDate()
	}
	if s.config.ExportCSV {
		s.exportCSV(table)
	}

	recommender, err := s.newRecommender(ctx, s.config)
	if err != nil {
		fmt.Fprintf(s.out, "Error initializing LLM: %v\n", err)
		return "", err
	}

	prompt := llm.BuildPrompt(table.String())
	s.logger.Debug("prompting model", "provider", recommender.Name(), "prompt_bytes", len(prompt))

	recommendation, err := recommender.Generate(ctx, prompt, llm.WithModel(s.config.LLMModel))
	if err != nil {
		if isHTTPError(err) {
			fmt.Fprintf(s.out, "HTTP error occurred prompting models: %v\n", err)
		} else {
			fmt.Fprintf(s.out, "Other error occurred: %v\n", err)
		}
		return "", err
	}

	fmt.Fprintln(s.out, recommendation)

	if s.config.SaveReport {
		s.saveReport(recommender.Name(), table, recommendation)
	}
	return recommendation, nil
}

// fetch reads the series and closes the source afterwards when it holds a
// connection.
func (s *TradingSession) fetch(ctx context.Context) (*dataflows.QuoteTable, error) {
	src := s.source
	if src == nil {
		var err error
		src, err = dataflows.NewSource(s.config)
		if err != nil {
			return nil, err
		}
	}
	if closer, ok := src.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				s.logger.Warn("closing market data source", "source", src.Name(), "error", err)
			}
		}()
	}
	return src.DailySeries(ctx, s.symbol)
}

func (s *TradingSession) exportCSV(table *dataflows.QuoteTable) {
	path, err := dataflows.WriteTableCSV(s.config.DataDir, s.symbol, table)
	if err != nil {
		s.logger.Warn("csv export failed", "symbol", s.symbol, "error", err)
		return
	}
	s.logger.Info("quote table exported", "path", path)
}

func (s *TradingSession) saveReport(provider string, table *dataflows.QuoteTable, recommendation string) {
	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "# %s recommendation\n\n", s.symbol)
	fmt.Fprintf(&b, "- Generated: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Provider: %s\n", provider)
	fmt.Fprintf(&b, "- Rows: %d\n", table.Len())
	if stats, err := table.CloseStats(); err == nil {
		fmt.Fprintf(&b, "- Last close: %s (%s)\n", stats.Latest, stats.LatestDate.Format("2006-01-02"))
		fmt.Fprintf(&b, "- Close range: %s - %s\n", stats.Min, stats.Max)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "## Recommendation\n\n%s\n\n", recommendation)
	fmt.Fprintf(&b, "## Quote table\n\n```\n%s\n```\n", table.String())

	dir := filepath.Join(s.config.ResultsDir, s.symbol)
	name := fmt.Sprintf("recommendation_%s.md", now.Format("20060102_150405"))
	path, err := utils.WriteMarkdown(dir, name, b.String())
	if err != nil {
		s.logger.Warn("report not saved", "symbol", s.symbol, "error", err)
		return
	}
	s.logger.Info("report saved", "path", path)
}

// isHTTPError reports whether err came from the HTTP layer: a transport
// failure or a non-2xx answer from either provider.
func isHTTPError(err error) bool {
	var urlErr *url.Error
	var statusErr *dataflows.HTTPError
	var apiErr *llm.APIError
	return errors.As(err, &urlErr) || errors.As(err, &statusErr) || errors.As(err, &apiErr)
}
