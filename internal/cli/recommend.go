package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/cli/pagination"
	"github.com/rshade/ecofocus/internal/greenops"
	"github.com/rshade/ecofocus/internal/recommend"
	"github.com/rshade/ecofocus/internal/tui"
)

// recommendParams holds the parameters for the recommend command execution.
type recommendParams struct {
	plan        bool
	roi         bool
	interactive bool
	sort        string
	paging      pagination.PaginationParams
}

// recommendationsSummary is the aggregate section of the recommend output.
type recommendationsSummary struct {
	TotalCount       int            `json:"total_count"`
	TotalReduction   int            `json:"total_reduction_kg"`
	CountByCategory  map[string]int `json:"count_by_category"`
	CountByLevel     map[string]int `json:"count_by_level"`
	DominantCategory string         `json:"dominant_category,omitempty"`
}

// recommendationsJSONOutput is the json document of the recommend command.
type recommendationsJSONOutput struct {
	Summary         recommendationsSummary     `json:"summary"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Plan            *recommend.ActionPlan      `json:"action_plan,omitempty"`
	Investments     []recommend.Investment     `json:"investments,omitempty"`
	Pagination      *pagination.PaginationMeta `json:"pagination,omitempty"`
}

// ndjsonSummary is the first line of ndjson recommend output.
type ndjsonSummary struct {
	Type string `json:"type"`
	recommendationsSummary
}

func newRecommendCmd() *cobra.Command {
	var params recommendParams

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Personalized reduction recommendations",
		Long: `Recommends actions for the user's average day over the recent history.

Table output lists the recommendations; --plan adds a phased action plan and
--roi the payback of actions that need an upfront investment. --tui opens an
interactive browser with filtering (/), sorting (s) and details (enter).`,
		Example: `  ecofocus recommend
  ecofocus recommend --plan --roi
  ecofocus recommend --sort impact:desc --limit 3
  ecofocus recommend --output ndjson | head -n 3
  ecofocus recommend --tui`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeRecommend(cmd, params)
		},
	}

	cmd.Flags().BoolVar(&params.plan, "plan", false, "include the phased action plan")
	cmd.Flags().BoolVar(&params.roi, "roi", false, "include investment payback figures")
	cmd.Flags().BoolVar(&params.interactive, "tui", false, "browse recommendations interactively")
	cmd.Flags().StringVar(&params.sort, "sort", "",
		fmt.Sprintf("sort as field[:asc|desc], fields: %v", pagination.RecommendationSortFields()))
	cmd.Flags().IntVar(&params.paging.Limit, "limit", 0, "maximum recommendations to show")
	cmd.Flags().IntVar(&params.paging.Offset, "offset", 0, "recommendations to skip")
	cmd.Flags().IntVar(&params.paging.Page, "page", 0, "page number (1-based, requires --page-size)")
	cmd.Flags().IntVar(&params.paging.PageSize, "page-size", 0, "recommendations per page")

	return cmd
}

func executeRecommend(cmd *cobra.Command, params recommendParams) error {
	ctx := cmd.Context()

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	if err = params.paging.Validate(); err != nil {
		return err
	}

	s, err := openSession(cmd, 0)
	if err != nil {
		return err
	}
	defer s.Close()

	recs, analysis, err := s.engine.Recommend(ctx, s.userID)
	if err != nil {
		return err
	}
	cfg := s.engine.Config()
	plan := recommend.BuildActionPlan(recs, cfg.PlanWeeks)
	investments := recommend.ROI(recs, cfg.CarbonPrice)

	if params.sort != "" {
		field, order, sortErr := pagination.ParseSortExpression(params.sort, pagination.SortOrderAsc)
		if sortErr != nil {
			return sortErr
		}
		if recs, err = pagination.SortRecommendations(recs, field, order); err != nil {
			return err
		}
	}

	logger.Debug().Ctx(ctx).
		Int("count", len(recs)).
		Str("dominant", string(analysis.Dominant)).
		Msg("recommendations generated")

	if params.interactive && format == outputTable {
		if !isTerminal(os.Stdout) {
			return errors.New("--tui needs an interactive terminal; use --output json to script")
		}
		return runInteractiveRecommendations(recs)
	}

	summary := summarizeRecommendations(recs, analysis)
	var meta *pagination.PaginationMeta
	if params.paging.IsEnabled() {
		m := pagination.NewPaginationMeta(params.paging, len(recs))
		meta = &m
		recs = pagination.Apply(params.paging, recs)
	}

	w := cmd.OutOrStdout()
	switch format {
	case outputJSON:
		out := recommendationsJSONOutput{
			Summary:         summary,
			Recommendations: recs,
			Pagination:      meta,
		}
		if params.plan {
			out.Plan = &plan
		}
		if params.roi {
			out.Investments = investments
		}
		return renderJSON(w, out)
	case outputNDJSON:
		// Pagination metadata is omitted when streaming.
		if err = renderNDJSON(w, []ndjsonSummary{{Type: "summary", recommendationsSummary: summary}}); err != nil {
			return err
		}
		return renderNDJSON(w, recs)
	}

	renderRecommendationsSummary(w, summary)
	if err = renderRecommendationsTable(w, recs); err != nil {
		return err
	}
	if meta != nil {
		fmt.Fprintf(w, "\nPage %d of %d (%d recommendations)\n", meta.CurrentPage, meta.TotalPages, meta.TotalItems)
	}
	if params.plan {
		fmt.Fprintln(w)
		if err = renderActionPlan(w, plan); err != nil {
			return err
		}
	}
	if params.roi {
		fmt.Fprintln(w)
		if err = renderInvestments(w, investments); err != nil {
			return err
		}
	}
	return nil
}

// runInteractiveRecommendations launches the interactive TUI for recommendations.
func runInteractiveRecommendations(recs []recommend.Recommendation) error {
	model := tui.NewRecommendationsViewModel(recs)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive recommendations TUI: %w", err)
	}
	return nil
}

func summarizeRecommendations(recs []recommend.Recommendation, a recommend.PatternAnalysis) recommendationsSummary {
	s := recommendationsSummary{
		TotalCount:       len(recs),
		CountByCategory:  make(map[string]int),
		CountByLevel:     make(map[string]int),
		DominantCategory: string(a.Dominant),
	}
	for _, r := range recs {
		s.TotalReduction += r.AbsImpact()
		s.CountByCategory[string(r.Category)]++
		s.CountByLevel[string(r.Level)]++
	}
	return s
}

// renderRecommendationsSummary renders a summary section showing aggregate statistics.
func renderRecommendationsSummary(w io.Writer, s recommendationsSummary) {
	writeSection(w, "RECOMMENDATIONS SUMMARY")
	fmt.Fprintf(w, "Total Recommendations: %d\n", s.TotalCount)
	fmt.Fprintf(w, "Total Potential Reduction: %s kg CO₂/year\n", greenops.FormatNumber(int64(s.TotalReduction)))
	if eq := greenops.Reduction(s.TotalReduction); !eq.IsEmpty {
		fmt.Fprintf(w, "%s\n", eq.DisplayText)
	}
	if len(s.CountByCategory) > 0 {
		fmt.Fprintln(w, "\nBy Category:")
		cats := make([]string, 0, len(s.CountByCategory))
		for c := range s.CountByCategory {
			cats = append(cats, c)
		}
		slices.Sort(cats)
		for _, c := range cats {
			fmt.Fprintf(w, "  %s: %d\n", c, s.CountByCategory[c])
		}
	}
	fmt.Fprintln(w)
}

func renderRecommendationsTable(w io.Writer, recs []recommend.Recommendation) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recommendations available.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "PRIORITY\tCATEGORY\tLEVEL\tDIFFICULTY\tIMPACT (KG/YR)\tRECOMMENDATION")
	fmt.Fprintln(tw, "--------\t--------\t-----\t----------\t--------------\t--------------")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Priority, r.Category, r.Level, r.Difficulty,
			greenops.FormatNumber(int64(r.ImpactEstimate)), truncate(r.Text, maxTextLen))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

func renderActionPlan(w io.Writer, plan recommend.ActionPlan) error {
	writeSection(w, fmt.Sprintf("%d-WEEK ACTION PLAN", plan.Weeks))
	for _, ph := range plan.Phases {
		fmt.Fprintf(w, "%s: %s (%s kg CO₂/year)\n",
			ph.Label(), ph.Focus, greenops.FormatNumber(int64(ph.ExpectedReduction)))
		if len(ph.Actions) == 0 {
			fmt.Fprintln(w, "  (no actions)")
		}
		for _, a := range ph.Actions {
			fmt.Fprintf(w, "  - [%s] %s\n", a.Category, a.Text)
		}
	}
	fmt.Fprintf(w, "Total potential reduction: %s kg CO₂/year\n",
		greenops.FormatNumber(int64(plan.TotalPotentialReduction)))
	return nil
}

func renderInvestments(w io.Writer, investments []recommend.Investment) error {
	writeSection(w, "INVESTMENT PAYBACK")
	if len(investments) == 0 {
		fmt.Fprintln(w, "No recommendations need an upfront investment.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ACTION\tUPFRONT (USD)\tSAVINGS/YR (USD)\tPAYBACK (YRS)\t5-YR ROI")
	fmt.Fprintln(tw, "------\t-------------\t----------------\t-------------\t--------")
	for _, inv := range investments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\n",
			inv.Recommendation.ActionID,
			greenops.FormatFloat(inv.UpfrontCost, 0),
			greenops.FormatFloat(inv.AnnualSavings, 2),
			greenops.FormatFloat(inv.PaybackYears, 1),
			greenops.FormatFloat(inv.ROI5Year, 1))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}
