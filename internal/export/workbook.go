package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/history"
)

// Workbook sheet names.
const (
	SheetHistory         = "History"
	SheetActivities      = "Activities"
	SheetRecommendations = "Recommendations"
	SheetActionPlan      = "ActionPlan"
	SheetBenchmarks      = "Benchmarks"
)

const columnWidth = 18

type sheetWriter struct {
	f      *excelize.File
	header int
}

func (s *sheetWriter) sheet(name string, header []any, rows [][]any) error {
	if name != SheetHistory {
		if _, err := s.f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}
	if err := s.f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	if err := s.f.SetRowStyle(name, 1, 1, s.header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := s.f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", name, i+2, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return s.f.SetColWidth(name, "A", last, columnWidth)
}

// WriteWorkbook writes the user's footprints and activities and, when rep is
// non-nil, its recommendations, action plan and benchmarks as an XLSX
// workbook, one sheet each.
func WriteWorkbook(w io.Writer, data UserData, rep *engine.UserReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetHistory); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	sw := &sheetWriter{f: f, header: style}

	if err := sw.sheet(SheetHistory, toAny(historyHeader), historyRows(data.Footprints)); err != nil {
		return err
	}
	if err := sw.sheet(SheetActivities, toAny(activityHeader), activityRows(data.Activities)); err != nil {
		return err
	}
	if rep != nil {
		if err := writeReportSheets(sw, rep); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeReportSheets(sw *sheetWriter, rep *engine.UserReport) error {
	recs := make([][]any, 0, len(rep.Recommendations))
	for _, r := range rep.Recommendations {
		recs = append(recs, []any{
			string(r.Category), string(r.Level), r.Text, r.ImpactEstimate,
			r.Priority, string(r.Difficulty), r.CurrentEmissions,
		})
	}
	err := sw.sheet(SheetRecommendations, []any{
		"category", "level", "recommendation", "impact_estimate",
		"priority", "difficulty", "current_emissions",
	}, recs)
	if err != nil {
		return err
	}

	var plan [][]any
	for _, p := range rep.Plan.Phases {
		for _, a := range p.Actions {
			plan = append(plan, []any{p.Label(), p.Focus, a.Text, a.ImpactEstimate, p.ExpectedReduction})
		}
	}
	err = sw.sheet(SheetActionPlan, []any{
		"weeks", "focus", "action", "impact_estimate", "phase_reduction",
	}, plan)
	if err != nil {
		return err
	}

	bench := make([][]any, 0, len(rep.Benchmarks))
	for _, c := range rep.Benchmarks {
		bench = append(bench, []any{c.Name, c.Value, c.Difference, c.Percentage, c.Status})
	}
	return sw.sheet(SheetBenchmarks, []any{
		"benchmark", "annual_kg", "difference_kg", "percentage", "status",
	}, bench)
}

func historyRows(records []history.DailyRecord) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.Date.Format(history.DateLayout),
			r.Transportation, r.Energy, r.Food, r.Waste, r.Total,
		})
	}
	return rows
}

func activityRows(activities []history.Activity) [][]any {
	rows := make([][]any, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, []any{
			a.ID, a.Date.Format(history.DateLayout), string(a.Category),
			a.ActivityType, a.Amount, a.Unit, a.Emissions,
		})
	}
	return rows
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
