package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/greenops"
	"github.com/rshade/ecofocus/internal/recommend"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Describe patterns in the user's recent history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			_, analysis, err := s.engine.Recommend(cmd.Context(), s.userID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, analysis, analysis.Patterns); handled {
				return err
			}
			renderPatterns(w, analysis)
			return nil
		},
	}
}

func renderPatterns(w io.Writer, a recommend.PatternAnalysis) {
	writeSection(w, "PATTERN ANALYSIS")
	if a.Dominant != "" {
		fmt.Fprintf(w, "Dominant category: %s\n", a.Dominant)
	}
	if a.Trend != "" {
		fmt.Fprintf(w, "Trend: %s\n", a.Trend)
	}
	if a.HighestDay != "" {
		fmt.Fprintf(w, "Highest day: %s, lowest day: %s\n", a.HighestDay, a.LowestDay)
	}
	if len(a.Patterns) > 0 {
		fmt.Fprintln(w, "\nPatterns:")
		for _, p := range a.Patterns {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	if len(a.Opportunities) > 0 {
		fmt.Fprintln(w, "\nOpportunities:")
		for _, o := range a.Opportunities {
			fmt.Fprintf(w, "  - %s\n", o)
		}
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Full footprint report for the user",
		Long: `Builds the full report: average day, score, patterns, recommendations,
action plan, investments, benchmarks, weekly tips, forecast and goal progress.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			rep, err := s.engine.Report(cmd.Context(), s.userID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, rep, rep.Recommendations); handled {
				return err
			}
			return renderReport(w, rep)
		},
	}
}

func renderReport(w io.Writer, rep engine.UserReport) error {
	writeSection(w, fmt.Sprintf("FOOTPRINT REPORT (USER %d, %d DAYS)", rep.UserID, rep.Days))
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tAVERAGE/DAY")
	fmt.Fprintln(tw, "--------\t-----------")
	for _, c := range rep.Average.Present() {
		fmt.Fprintf(tw, "%s\t%s\n", c, greenops.FormatEmissions(rep.Average.Value(c)))
	}
	fmt.Fprintf(tw, "total\t%s\n", greenops.FormatEmissions(rep.Average.Total))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	fmt.Fprintf(w, "\nSustainability score: %d (%s), emission level: %s\n", rep.Score, rep.Grade, rep.Level)
	if !rep.Equivalencies.IsEmpty {
		fmt.Fprintf(w, "Annually: %s\n", rep.Equivalencies.DisplayText)
	}
	fmt.Fprintln(w)

	renderPatterns(w, rep.Patterns)
	fmt.Fprintln(w)

	if err := renderRecommendationsTable(w, rep.Recommendations); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := renderActionPlan(w, rep.Plan); err != nil {
		return err
	}
	if len(rep.Investments) > 0 {
		fmt.Fprintln(w)
		if err := renderInvestments(w, rep.Investments); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	if err := renderBenchmarks(w, rep.Benchmarks); err != nil {
		return err
	}
	fmt.Fprintln(w)
	renderTips(w, "WEEKLY TIPS", rep.Tips)

	if rep.Forecast != nil {
		sum := rep.Forecast.Summary
		fmt.Fprintf(w, "\nNext %d days: %s trend, %s/day on average\n",
			len(rep.Forecast.Projected), sum.Direction, greenops.FormatEmissions(sum.ProjectedMean))
	}
	if len(rep.Goals) > 0 {
		fmt.Fprintln(w)
		return renderGoalStatuses(w, rep.Goals)
	}
	return nil
}
