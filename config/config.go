package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dyike/StockSage/consts"
)

const (
	DefaultTicker              = "QQQ"
	DefaultOutputSize          = "compact"
	DefaultAlphaVantageBaseURL = "https://www.alphavantage.co/query"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	// Market data
	Ticker              string `json:"ticker"`
	OutputSize          string `json:"output_size"`
	DataSource          string `json:"data_source"`
	AlphaVantageBaseURL string `json:"alphavantage_base_url"`
	SortAscending       bool   `json:"sort_ascending"`
	ShowTable           bool   `json:"show_table"`
	ExportCSV           bool   `json:"export_csv"`
	CacheEnabled        bool   `json:"cache_enabled"`

	// LLM
	LLMProvider      string `json:"llm_provider"`
	LLMModel         string `json:"llm_model"`
	BackendURL       string `json:"backend_url"`
	AnthropicBaseURL string `json:"anthropic_base_url"`
	SaveReport       bool   `json:"save_report"`

	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"`

	// Credentials are only ever read from the environment.
	AlphaVantageAPIKey  string `json:"-"`
	AnthropicAPIKey     string `json:"-"`
	OpenAIAPIKey        string `json:"-"`
	DeepSeekAPIKey      string `json:"-"`
	LongportAppKey      string `json:"-"`
	LongportAppSecret   string `json:"-"`
	LongportAccessToken string `json:"-"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

// DefaultConfigWithRoot returns the built-in defaults rooted at dir, without
// consulting the environment.
func DefaultConfigWithRoot(dir string) *Config {
	return &Config{
		ProjectDir:   dir,
		ResultsDir:   filepath.Join(dir, "results"),
		DataDir:      filepath.Join(dir, "data"),
		DataCacheDir: filepath.Join(dir, "data", "cache"),

		Ticker:              DefaultTicker,
		OutputSize:          DefaultOutputSize,
		DataSource:          consts.SourceAlphaVantage,
		AlphaVantageBaseURL: DefaultAlphaVantageBaseURL,

		LLMProvider: consts.ProviderAnthropic,
		LogLevel:    "info",
	}
}

// ApplyEnv overlays environment variables (and .env) on top of c.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()
	c.loadFromEnv()
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("TICKER"); val != "" {
		c.Ticker = val
	}
	if val := os.Getenv("OUTPUT_SIZE"); val != "" {
		c.OutputSize = val
	}
	if val := os.Getenv("DATA_SOURCE"); val != "" {
		c.DataSource = val
	}
	if val := os.Getenv("ALPHAVANTAGE_BASE_URL"); val != "" {
		c.AlphaVantageBaseURL = val
	}
	if val := os.Getenv("SORT_ASCENDING"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.SortAscending = enabled
		}
	}
	if val := os.Getenv("SHOW_TABLE"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.ShowTable = enabled
		}
	}
	if val := os.Getenv("EXPORT_CSV"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.ExportCSV = enabled
		}
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if cache, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = cache
		}
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("ANTHROPIC_BASE_URL"); val != "" {
		c.AnthropicBaseURL = val
	}
	if val := os.Getenv("SAVE_REPORT"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.SaveReport = enabled
		}
	}

	if val := os.Getenv("STOCKSAGE_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}

	// Credentials come from the environment only.
	c.AlphaVantageAPIKey = os.Getenv("ALPHAVANTAGE_API")
	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.DeepSeekAPIKey = os.Getenv("DEEPSEEK_API_KEY")
	c.LongportAppKey = os.Getenv("LONGPORT_APP_KEY")
	c.LongportAppSecret = os.Getenv("LONGPORT_APP_SECRET")
	c.LongportAccessToken = os.Getenv("LONGPORT_ACCESS_TOKEN")
}

// Validate checks the settings that can be judged without network access.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Ticker) == "" {
		errs = append(errs, errors.New("ticker must not be empty"))
	}
	switch c.OutputSize {
	case "compact", "full":
	default:
		errs = append(errs, fmt.Errorf("output size must be compact or full, got %q", c.OutputSize))
	}
	if !consts.IsKnownSource(c.DataSource) {
		errs = append(errs, fmt.Errorf("unknown data source %q", c.DataSource))
	}
	if !consts.IsKnownProvider(c.LLMProvider) {
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLMProvider))
	}

	return errors.Join(errs...)
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
