package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/export"
	"github.com/rshade/ecofocus/internal/greenops"
	"github.com/rshade/ecofocus/internal/history"
)

// forecastPoint is one projected day, the ndjson form of a forecast.
type forecastPoint struct {
	Date      string  `json:"date"`
	Projected float64 `json:"projected_total"`
}

func newForecastCmd() *cobra.Command {
	var (
		days  int
		seed  uint64
		chart string
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project daily emissions from recent history",
		Long: `Extends the user's recent daily totals with a linear trend plus noise.
Without a seed (flag, forecast.seed or ECOFOCUS_SEED) every run draws new noise.`,
		Example: `  ecofocus forecast
  ecofocus forecast --days 14 --seed 7 --chart forecast.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, seed)
			if err != nil {
				return err
			}
			defer s.Close()

			fc, err := s.engine.Forecast(cmd.Context(), s.userID, days)
			if err != nil {
				return err
			}
			if chart != "" {
				if err = export.SaveChart(chart, fc); err != nil {
					return err
				}
				cmd.PrintErrf("Chart written to %s\n", chart)
			}
			return renderForecast(cmd, format, fc)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "days to project (default forecast.days)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "noise seed for a reproducible forecast")
	cmd.Flags().StringVar(&chart, "chart", "", "write a PNG chart of history and forecast")
	return cmd
}

func forecastPoints(fc engine.ForecastResult) []forecastPoint {
	points := make([]forecastPoint, len(fc.Projected))
	for i, v := range fc.Projected {
		points[i] = forecastPoint{Date: fc.Dates[i].Format(history.DateLayout), Projected: v}
	}
	return points
}

func renderForecast(cmd *cobra.Command, format string, fc engine.ForecastResult) error {
	w := cmd.OutOrStdout()
	if handled, err := renderStructured(w, format, fc, forecastPoints(fc)); handled {
		return err
	}

	writeSection(w, fmt.Sprintf("FORECAST (%d DAYS)", len(fc.Projected)))
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tPROJECTED")
	fmt.Fprintln(tw, "----\t---------")
	for _, p := range forecastPoints(fc) {
		fmt.Fprintf(tw, "%s\t%s\n", p.Date, greenops.FormatEmissions(p.Projected))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}

	sum := fc.Summary
	fmt.Fprintf(w, "\nTrend: %s (%+.2f kg CO₂/day)\n", sum.Direction, sum.Slope)
	fmt.Fprintf(w, "Last logged day: %s\n", greenops.FormatEmissions(sum.Last))
	fmt.Fprintf(w, "Projected average: %s/day, %s total\n",
		greenops.FormatEmissions(sum.ProjectedMean), greenops.FormatEmissions(sum.ProjectedTotal))
	return nil
}
