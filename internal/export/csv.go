package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/history"
)

//nolint:gochecknoglobals // Column layout shared by reader and writer.
var historyHeader = []string{
	"date",
	"transportation_emissions",
	"energy_emissions",
	"food_emissions",
	"waste_emissions",
	"total_emissions",
}

//nolint:gochecknoglobals // Column layout.
var activityHeader = []string{
	"id", "date", "category", "activity_type", "amount", "unit", "emissions",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteHistoryCSV writes records with a header row.
func WriteHistoryCSV(w io.Writer, records []calculator.DailyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(history.DateLayout),
			formatFloat(r.Transportation),
			formatFloat(r.Energy),
			formatFloat(r.Food),
			formatFloat(r.Waste),
			formatFloat(r.Total),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteActivitiesCSV writes activities with a header row.
func WriteActivitiesCSV(w io.Writer, activities []history.Activity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(activityHeader); err != nil {
		return err
	}
	for _, a := range activities {
		row := []string{
			strconv.FormatInt(a.ID, 10),
			a.Date.Format(history.DateLayout),
			string(a.Category),
			a.ActivityType,
			formatFloat(a.Amount),
			a.Unit,
			formatFloat(a.Emissions),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadHistoryCSV parses a file in the WriteHistoryCSV layout. Columns are
// matched by header name, so their order is free and total_emissions may be
// omitted; the total is always recomputed from the four categories.
func ReadHistoryCSV(r io.Reader) ([]calculator.DailyRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []calculator.DailyRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateCol, ok := cols["date"]
	if !ok {
		return nil, errors.New("missing date column")
	}

	out := []calculator.DailyRecord{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		date, err := time.Parse(history.DateLayout, row[dateCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values := make(map[calculator.Category]float64, len(calculator.Categories))
		for _, c := range calculator.Categories {
			col, ok := cols[string(c)+"_emissions"]
			if !ok || col >= len(row) || strings.TrimSpace(row[col]) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d %s: %w", line, c, err)
			}
			values[c] = v
		}
		out = append(out, calculator.NewDailyRecord(date, calculator.NewBreakdown(values)))
	}
	return out, nil
}
