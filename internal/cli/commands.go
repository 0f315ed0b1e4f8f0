package cli

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dyike/StockSage/config"
	"github.com/dyike/StockSage/consts"
	"github.com/dyike/StockSage/internal/logger"
	"github.com/dyike/StockSage/internal/trading"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// reportedError marks a failure whose diagnostic the session already
// printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

type rootOptions struct {
	configPath string
	debug      bool
	source     string
	provider   string
	model      string
	outputSize string
	showTable  bool
	sort       bool
	csv        bool
	save       bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "stocksage [SYMBOL]",
		Short: "StockSage - LLM buy/sell/hold recommendations from daily prices",
		Long: `StockSage fetches the daily price series of a ticker, hands it to a
large language model and prints a 30 day buy, sell or hold recommendation.

With no arguments it analyses QQQ using Alpha Vantage and Anthropic.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			applyFlags(cmd, opts, cfg)
			logger.Setup(cfg.LogLevel, cfg.Debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Ticker = args[0]
			}
			return runRecommendation(cmd, cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Configuration file path")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.source, "source", "", "Market data source (alphavantage, yahoo, longport)")
	flags.StringVar(&opts.provider, "provider", "", "LLM provider (anthropic, openai, deepseek)")
	flags.StringVar(&opts.model, "model", "", "Model name (provider default if empty)")
	flags.StringVar(&opts.outputSize, "output-size", "", "Series length: compact or full")
	flags.BoolVar(&opts.showTable, "show-table", false, "Print the head and shape of the quote table")
	flags.BoolVar(&opts.sort, "sort", false, "Sort rows chronologically before prompting")
	flags.BoolVar(&opts.csv, "csv", false, "Export the quote table as CSV under the data dir")
	flags.BoolVar(&opts.save, "save", false, "Save a Markdown report under the results dir")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(opts, cfg))

	return rootCmd
}

// applyFlags overlays only the flags the user set, so config and
// environment values survive an unset flag.
func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("debug") {
		cfg.Debug = opts.debug
	}
	if changed("source") {
		cfg.DataSource = opts.source
	}
	if changed("provider") {
		cfg.LLMProvider = opts.provider
	}
	if changed("model") {
		cfg.LLMModel = opts.model
	}
	if changed("output-size") {
		cfg.OutputSize = opts.outputSize
	}
	if changed("show-table") {
		cfg.ShowTable = opts.showTable
	}
	if changed("sort") {
		cfg.SortAscending = opts.sort
	}
	if changed("csv") {
		cfg.ExportCSV = opts.csv
	}
	if changed("save") {
		cfg.SaveReport = opts.save
	}
}

func runRecommendation(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.ExportCSV || cfg.SaveReport || cfg.CacheEnabled {
		if err := cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := trading.NewTradingSession(cfg, cfg.Ticker, trading.WithOutput(cmd.OutOrStdout()))
	if _, err := session.Execute(ctx); err != nil {
		return &reportedError{err: err}
	}
	return nil
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			displayTitle(w, "StockSage "+Version)
			fmt.Fprintln(w, "LLM buy/sell/hold recommendations from daily prices")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(opts *rootOptions, cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect, validate, initialise and update StockSage configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cmd, cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd, cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager(
				config.WithConfigPath(opts.configPath),
				config.WithInitialConfig(cfg),
			)
			if err != nil {
				return err
			}
			displaySuccess(cmd.OutOrStdout(), "Config file: "+mgr.Path())
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Update keys of the config file",
		Long: `Update one or more keys of the config file, for example:

  stocksage config set ticker=SPY output_size=full show_table=true

Keys are the JSON names shown in the config file. Credentials cannot be set
here; they are read from the environment only.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parseAssignments(args)
			if err != nil {
				return err
			}
			mgr, err := config.NewManager(config.WithConfigPath(opts.configPath))
			if err != nil {
				return err
			}
			if err := mgr.UpdateFromJSON(patch); err != nil {
				return err
			}
			displaySuccess(cmd.OutOrStdout(), "Updated "+mgr.Path())
			return nil
		},
	})

	return configCmd
}

// parseAssignments turns KEY=VALUE pairs into a JSON object. Values that
// parse as booleans are sent as booleans, everything else as strings.
func parseAssignments(args []string) (string, error) {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return "", fmt.Errorf("invalid assignment %q, want KEY=VALUE", arg)
		}
		if b, err := strconv.ParseBool(value); err == nil {
			patch[key] = b
			continue
		}
		patch[key] = value
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// showConfig displays the current configuration
func showConfig(cmd *cobra.Command, cfg *config.Config) {
	w := cmd.OutOrStdout()
	displayTitle(w, "StockSage configuration")

	displaySection(w, "Directories")
	displayField(w, "Project", cfg.ProjectDir)
	displayField(w, "Results", cfg.ResultsDir)
	displayField(w, "Data", cfg.DataDir)
	displayField(w, "Cache", cfg.DataCacheDir)

	displaySection(w, "Market data")
	displayField(w, "Ticker", cfg.Ticker)
	displayField(w, "Source", cfg.DataSource)
	displayField(w, "Output size", cfg.OutputSize)
	displayField(w, "Alpha Vantage URL", cfg.AlphaVantageBaseURL)
	displayField(w, "Sort ascending", cfg.SortAscending)
	displayField(w, "Show table", cfg.ShowTable)
	displayField(w, "Export CSV", cfg.ExportCSV)
	displayField(w, "Cache enabled", cfg.CacheEnabled)

	displaySection(w, "LLM")
	displayField(w, "Provider", cfg.LLMProvider)
	displayField(w, "Model", modelLabel(cfg.LLMModel))
	displayField(w, "Backend URL", cfg.BackendURL)
	displayField(w, "Save report", cfg.SaveReport)

	displaySection(w, "Credentials")
	displayCredential(w, "ALPHAVANTAGE_API", cfg.AlphaVantageAPIKey != "")
	displayCredential(w, "ANTHROPIC_API_KEY", cfg.AnthropicAPIKey != "")
	displayCredential(w, "OPENAI_API_KEY", cfg.OpenAIAPIKey != "")
	displayCredential(w, "DEEPSEEK_API_KEY", cfg.DeepSeekAPIKey != "")
	displayCredential(w, "LONGPORT_*", cfg.LongportAppKey != "" && cfg.LongportAppSecret != "" && cfg.LongportAccessToken != "")

	displaySection(w, "Logging")
	displayField(w, "Level", cfg.LogLevel)
	displayField(w, "Debug", cfg.Debug)
}

func modelLabel(model string) string {
	if model == "" {
		return "(provider default)"
	}
	return model
}

// validateConfig checks settings and warns about credentials the selected
// source and provider will need.
func validateConfig(cmd *cobra.Command, cfg *config.Config) error {
	w := cmd.OutOrStdout()
	displayTitle(w, "Validating StockSage configuration")

	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, warning := range credentialWarnings(cfg) {
		displayWarning(w, warning)
	}
	displaySuccess(w, "Configuration is valid")
	return nil
}

func credentialWarnings(cfg *config.Config) []string {
	var warnings []string
	switch strings.ToLower(cfg.DataSource) {
	case consts.SourceAlphaVantage:
		if cfg.AlphaVantageAPIKey == "" {
			warnings = append(warnings, "ALPHAVANTAGE_API is not set")
		}
	case consts.SourceLongport:
		if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
			warnings = append(warnings, "LONGPORT_APP_KEY, LONGPORT_APP_SECRET and LONGPORT_ACCESS_TOKEN are required for longport")
		}
	}
	switch strings.ToLower(cfg.LLMProvider) {
	case consts.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			warnings = append(warnings, "ANTHROPIC_API_KEY is not set")
		}
	case consts.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			warnings = append(warnings, "OPENAI_API_KEY is not set")
		}
	case consts.ProviderDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			warnings = append(warnings, "DEEPSEEK_API_KEY is not set")
		}
	}
	return warnings
}
