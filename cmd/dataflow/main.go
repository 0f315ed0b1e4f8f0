// Command dataflow fetches one daily series and prints its head and shape.
// It does not call any LLM.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyike/StockSage/config"
	"github.com/dyike/StockSage/internal/dataflows"
	"github.com/dyike/StockSage/internal/logger"
)

func main() {
	cfg := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:          "dataflow [SYMBOL]",
		Short:        "Fetch a daily series and display its head and shape",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Ticker = args[0]
			}
			logger.Setup(cfg.LogLevel, cfg.Debug)

			src, err := dataflows.NewSource(cfg)
			if err != nil {
				return err
			}
			table, err := src.DailySeries(cmd.Context(), cfg.Ticker)
			if err != nil {
				return fmt.Errorf("fetch %s from %s: %w", cfg.Ticker, src.Name(), err)
			}

			dataflows.DisplayTable(cmd.OutOrStdout(), table)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.DataSource, "source", cfg.DataSource, "Market data source")
	cmd.Flags().StringVar(&cfg.OutputSize, "output-size", cfg.OutputSize, "Series length: compact or full")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
