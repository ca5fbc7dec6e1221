package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/greenops"
	"github.com/rshade/ecofocus/internal/recommend"
)

func newBenchmarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "benchmark",
		Short: "Compare the user's annualized footprint with reference averages",
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

			records, err := s.store.GetHistory(cmd.Context(), s.userID, s.engine.Config().HistoryDays)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("user %d: %w", s.userID, engine.ErrNoHistory)
			}
			comparisons := recommend.Benchmark(engine.AverageBreakdown(records))

			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, comparisons, comparisons); handled {
				return err
			}
			return renderBenchmarks(w, comparisons)
		},
	}
}

func renderBenchmarks(w io.Writer, comparisons []recommend.Comparison) error {
	writeSection(w, "BENCHMARKS (KG CO₂/YEAR)")
	tw := newTable(w)
	fmt.Fprintln(tw, "REFERENCE\tVALUE\tDIFFERENCE\tPERCENT\tSTATUS")
	fmt.Fprintln(tw, "---------\t-----\t----------\t-------\t------")
	for _, c := range comparisons {
		fmt.Fprintf(tw, "%s\t%s\t%+.0f\t%.1f%%\t%s\n",
			c.Name, greenops.FormatFloat(c.Value, 0), c.Difference, c.Percentage, c.Status)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

func newTipsCmd() *cobra.Command {
	var (
		week  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Weekly and seasonal tips",
		Long: `Shows tips for the week, chosen from the user's highest categories and the
season. Users without history get the seasonal tips only.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			now := time.Now()
			if week <= 0 {
				_, week = now.ISOWeek()
			}
			m := now.Month()
			if month != 0 {
				if month < 1 || month > 12 {
					return fmt.Errorf("month must be between 1 and 12, got %d", month)
				}
				m = time.Month(month)
			}

			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			title := "WEEKLY TIPS"
			var tips []string
			records, err := s.store.GetHistory(cmd.Context(), s.userID, s.engine.Config().HistoryDays)
			switch {
			case err != nil:
				return err
			case len(records) == 0:
				title = strings.ToUpper(string(recommend.SeasonOf(m))) + " TIPS"
				tips = recommend.SeasonalTips(m)
			default:
				tips = recommend.WeeklyTips(engine.AverageBreakdown(records), week, m)
			}

			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, tips, tips); handled {
				return err
			}
			renderTips(w, title, tips)
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "week number (default current ISO week)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default current month)")
	return cmd
}

func renderTips(w io.Writer, title string, tips []string) {
	writeSection(w, title)
	for i, t := range tips {
		fmt.Fprintf(w, "%d. %s\n", i+1, t)
	}
}

func newChallengesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenges",
		Short: "Community challenges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			challenges := recommend.CommunityChallenges()
			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, challenges, challenges); handled {
				return err
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "CHALLENGE\tDAYS\tIMPACT (KG)\tDIFFICULTY\tDESCRIPTION")
			fmt.Fprintln(tw, "---------\t----\t-----------\t----------\t-----------")
			for _, c := range challenges {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
					c.Name, c.DurationDays, c.EstimatedImpact, c.Difficulty, truncate(c.Description, maxTextLen))
			}
			return tw.Flush()
		},
	}
}
