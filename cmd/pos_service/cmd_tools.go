package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ridloal/pos-forecast-engine/internal/product/service"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample clothing catalogue into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStores(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.close()

		n, err := service.SeedCatalogue(ctx, st.products)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d products\n", n)
		return nil
	},
}

var forecastMonths int

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print the sales forecast and the source that produced it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		points, source := newForecastGateway().ForecastWithSource(ctx, forecastMonths)

		fmt.Printf("Source: %s\n", source)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MONTH\tPREDICTED\tACTUAL\tTREND")
		for _, p := range points {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Month, p.PredictedSales.StringFixed(2), p.ActualSales.StringFixed(2), p.Trend)
		}
		return w.Flush()
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the remote forecaster; exits 1 when it is unavailable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h := newForecastGateway().ForecasterHealth(ctx)
		fmt.Printf("Forecaster %s at %s (fallback enabled: %t)\n", h.Status, cfg.Forecaster.BaseURL, h.FallbackEnabled)
		if !h.AIModelConnected {
			return fmt.Errorf("forecaster unavailable")
		}
		return nil
	},
}

func init() {
	forecastCmd.Flags().IntVar(&forecastMonths, "months", 6, "number of months to forecast")
}
