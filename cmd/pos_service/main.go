package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ridloal/pos-forecast-engine/internal/platform/config"
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var cfg config.Config

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "pos_service",
	Short:         "Clothing POS sale posting and forecast service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotEnv()
		cfg = config.Load()
		logger.Init(cfg.IsProduction())
	},
}

func init() {
	// harga dikirim sebagai angka JSON, bukan string
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(healthCmd)
}
