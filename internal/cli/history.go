package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/cli/pagination"
	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/engine/batch"
	"github.com/rshade/ecofocus/internal/export"
	"github.com/rshade/ecofocus/internal/greenops"
	"github.com/rshade/ecofocus/internal/history"
)

// historyListOutput is the json document of history list.
type historyListOutput struct {
	UserID     int64                      `json:"user_id"`
	Records    []calculator.DailyRecord   `json:"records"`
	Pagination *pagination.PaginationMeta `json:"pagination,omitempty"`
}

func newHistoryListCmd() *cobra.Command {
	var (
		days   int
		paging pagination.PaginationParams
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored daily footprints, newest last",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if err = paging.Validate(); err != nil {
				return err
			}
			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.store.GetHistory(cmd.Context(), s.userID, days)
			if err != nil {
				return err
			}
			out := historyListOutput{UserID: s.userID, Records: records}
			if paging.IsEnabled() {
				meta := pagination.NewPaginationMeta(paging, len(records))
				out.Pagination = &meta
				out.Records = pagination.Apply(paging, records)
			}

			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, out, out.Records); handled {
				return err
			}
			if len(out.Records) == 0 {
				fmt.Fprintf(w, "No history for user %d.\n", s.userID)
				return nil
			}
			tw := newTable(w)
			fmt.Fprintln(tw, "DATE\tTRANSPORT\tENERGY\tFOOD\tWASTE\tTOTAL")
			fmt.Fprintln(tw, "----\t---------\t------\t----\t-----\t-----")
			for _, r := range out.Records {
				fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
					r.Date.Format(history.DateLayout), r.Transportation, r.Energy, r.Food, r.Waste, r.Total)
			}
			if err = tw.Flush(); err != nil {
				return fmt.Errorf("flushing table writer: %w", err)
			}
			if out.Pagination != nil {
				fmt.Fprintf(w, "\nPage %d of %d (%d days)\n",
					out.Pagination.CurrentPage, out.Pagination.TotalPages, out.Pagination.TotalItems)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", history.DemoDays, "number of most recent days")
	cmd.Flags().IntVar(&paging.Limit, "limit", 0, "maximum days to show")
	cmd.Flags().IntVar(&paging.Offset, "offset", 0, "days to skip")
	cmd.Flags().IntVar(&paging.Page, "page", 0, "page number (1-based, requires --page-size)")
	cmd.Flags().IntVar(&paging.PageSize, "page-size", 0, "days per page")
	return cmd
}

func newHistoryImportCmd() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import daily footprints from a CSV file",
		Long: `Imports a CSV with a date column and any of transportation_emissions,
energy_emissions, food_emissions and waste_emissions, as written by
'ecofocus export --format csv'. Existing days are overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			records, err := export.ReadHistoryCSV(f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err = s.requireUser(cmd.Context()); err != nil {
				return err
			}

			res, err := s.store.ImportDaily(cmd.Context(), s.userID, records, history.ImportOptions{
				BatchSize: batchSize,
				OnProgress: func(p batch.ProgressSnapshot) {
					cmd.PrintErrf("\rImported %d/%d days (%.0f%%)", p.ProcessedItems, p.TotalItems, p.PercentComplete)
				},
			})
			if res.Batches > 0 {
				cmd.PrintErrln()
			}
			if err != nil {
				return fmt.Errorf("import stopped after %d days: %w", res.Imported, err)
			}
			cmd.Printf("Imported %d days for user %d in %d batches\n", res.Imported, s.userID, res.Batches)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "days committed per transaction (default 100)")
	return cmd
}

func newHistorySeedDemoCmd() *cobra.Command {
	var (
		days int
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Create a demo user with generated history",
		Long: `Creates a demo user with generated daily footprints (weekday/weekend and
seasonal patterns), activities and goals, ending yesterday.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			userID, err := s.store.SeedDemo(cmd.Context(), days, time.Now(), seed)
			if err != nil {
				return err
			}
			cmd.Printf("Created demo user %d with %d days of history\n", userID, days)
			if userID != s.userID {
				cmd.Printf("Use --user %d to work with it\n", userID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", history.DemoDays, "days of history to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generator seed")
	return cmd
}

func newHistorySummaryCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Monthly summary of logged days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			at := time.Now()
			if month != "" {
				if at, err = time.Parse("2006-01", month); err != nil {
					return fmt.Errorf("invalid month %q: use YYYY-MM", month)
				}
			}

			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			sum, err := s.store.MonthlySummary(cmd.Context(), s.userID, at.Year(), at.Month())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, sum, []history.MonthlySummary{sum}); handled {
				return err
			}
			writeSection(w, fmt.Sprintf("%s %d", strings.ToUpper(sum.Month.String()), sum.Year))
			fmt.Fprintf(w, "Days logged: %d\n", sum.DaysLogged)
			if sum.DaysLogged == 0 {
				return nil
			}
			fmt.Fprintf(w, "Average day: %s\n", greenops.FormatEmissions(sum.AvgDaily))
			fmt.Fprintf(w, "Month total: %s\n", greenops.FormatEmissions(sum.TotalMonthly))
			tw := newTable(w)
			fmt.Fprintln(tw, "\nCATEGORY\tAVERAGE/DAY")
			fmt.Fprintf(tw, "transportation\t%s\n", greenops.FormatEmissions(sum.AvgTransport))
			fmt.Fprintf(tw, "energy\t%s\n", greenops.FormatEmissions(sum.AvgEnergy))
			fmt.Fprintf(tw, "food\t%s\n", greenops.FormatEmissions(sum.AvgFood))
			fmt.Fprintf(tw, "waste\t%s\n", greenops.FormatEmissions(sum.AvgWaste))
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current month)")
	return cmd
}

func newHistoryActivitiesCmd() *cobra.Command {
	var (
		category string
		days     int
	)

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List logged activities, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			var c calculator.Category
			if category != "" {
				var ok bool
				if c, ok = calculator.ParseCategory(category); !ok {
					return fmt.Errorf("unknown category %q (want one of %v)", category, calculator.Categories)
				}
			}

			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			since := time.Now().AddDate(0, 0, -days)
			activities, err := s.store.GetActivities(cmd.Context(), s.userID, c, since)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, activities, activities); handled {
				return err
			}
			if len(activities) == 0 {
				fmt.Fprintln(w, "No activities logged.")
				return nil
			}
			tw := newTable(w)
			fmt.Fprintln(tw, "DATE\tCATEGORY\tACTIVITY\tAMOUNT\tEMISSIONS")
			fmt.Fprintln(tw, "----\t--------\t--------\t------\t---------")
			for _, a := range activities {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f %s\t%s\n",
					a.Date.Format(history.DateLayout), a.Category, a.ActivityType,
					a.Amount, a.Unit, greenops.FormatEmissions(a.Emissions))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().IntVar(&days, "days", engine.DefaultHistoryDays, "look back this many days")
	return cmd
}
