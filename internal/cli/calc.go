package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/greenops"
	"github.com/rshade/ecofocus/internal/history"
)

// calcParams holds the parameters for the calc command execution.
type calcParams struct {
	file       string
	activities []string
	date       string
	save       bool
}

func newCalcCmd() *cobra.Command {
	var params calcParams

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the footprint of a day of activities",
		Long: `Calculates per-category emissions (kg CO2) for one day of activities.

Activities come from --activity flags, a YAML/JSON file, or both (flags win).
Transportation trips may be given as distance x frequency, e.g. 12x2.
With --save the day and its activities are stored for --user.`,
		Example: `  # Commute and electricity
  ecofocus calc --activity transportation.car_gasoline=12x2 --activity energy.electricity=15

  # From a file, stored for user 1
  ecofocus calc --file today.yaml --save

  # Backfill a day
  ecofocus calc --file day.json --date 2024-03-01 --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeCalc(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.file, "file", "f", "", "YAML or JSON activity file")
	cmd.Flags().StringArrayVarP(&params.activities, "activity", "a", nil,
		"activity as category.type=amount (repeatable)")
	cmd.Flags().StringVar(&params.date, "date", "", "day of the activities, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&params.save, "save", false, "store the day in the history database")

	return cmd
}

func executeCalc(cmd *cobra.Command, params calcParams) error {
	ctx := cmd.Context()

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	day, err := parseDay(params.date, time.Now())
	if err != nil {
		return err
	}

	input := calculator.ActivityInput{}
	if params.file != "" {
		if input, err = readActivityInput(params.file); err != nil {
			return err
		}
	}
	for _, a := range params.activities {
		if err = addActivity(input, a); err != nil {
			return err
		}
	}
	if len(input) == 0 {
		return errors.New("no activities given: use --activity or --file")
	}

	var res engine.DayResult
	if params.save {
		res, err = saveDay(cmd, day, input)
		if err != nil {
			return err
		}
	} else {
		res = engine.Calculate(day, input)
	}

	for _, f := range res.Findings {
		cmd.PrintErrf("Warning: %s\n", f)
	}
	logger.Debug().Ctx(ctx).
		Float64("total", res.Footprint.Total).
		Bool("saved", res.Saved).
		Msg("footprint calculated")

	if handled, err := renderStructured(cmd.OutOrStdout(), format, res, []engine.DayResult{res}); handled {
		return err
	}
	return renderDayResult(cmd, res)
}

// saveDay stores the day's footprint and its individual activities.
func saveDay(cmd *cobra.Command, day time.Time, input calculator.ActivityInput) (engine.DayResult, error) {
	ctx := cmd.Context()
	s, err := openSession(cmd, 0)
	if err != nil {
		return engine.DayResult{}, err
	}
	defer s.Close()

	if _, err = s.requireUser(ctx); err != nil {
		return engine.DayResult{}, err
	}
	res, err := s.engine.LogDay(ctx, s.userID, day, input)
	if err != nil {
		return res, err
	}
	for _, c := range calculator.Categories {
		for activity, amount := range input[c] {
			factor, known := calculator.Factor(c, activity)
			if !known {
				continue
			}
			_, err = s.store.SaveActivity(ctx, history.Activity{
				UserID:       s.userID,
				Date:         day,
				Category:     c,
				ActivityType: activity,
				Amount:       amount.Value(),
				Unit:         activityUnit(c, activity),
				Emissions:    amount.Value() * factor,
			})
			if err != nil {
				return res, fmt.Errorf("saving activity %s.%s: %w", c, activity, err)
			}
		}
	}
	return res, nil
}

func renderDayResult(cmd *cobra.Command, res engine.DayResult) error {
	w := cmd.OutOrStdout()
	writeSection(w, "FOOTPRINT "+res.Date.Format(history.DateLayout))

	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tEMISSIONS")
	fmt.Fprintln(tw, "--------\t---------")
	for _, c := range res.Footprint.Present() {
		fmt.Fprintf(tw, "%s\t%s\n", c, greenops.FormatEmissions(res.Footprint.Value(c)))
	}
	fmt.Fprintf(tw, "total\t%s\n", greenops.FormatEmissions(res.Footprint.Total))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}

	fmt.Fprintf(w, "\nSustainability score: %d (%s)\n", res.Score, res.Grade)
	fmt.Fprintf(w, "Emission level: %s\n", greenops.EmissionLevel(res.Footprint.Total))
	if eq, err := greenops.Calculate(res.Footprint.Total); err == nil && !eq.IsEmpty {
		fmt.Fprintln(w, eq.DisplayText)
	}
	if res.Saved {
		fmt.Fprintln(w, "Saved to history.")
	}
	return nil
}

// parseDay parses a YYYY-MM-DD date; empty means the UTC calendar day of now.
func parseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.ParseInLocation(history.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

// readActivityInput decodes a .json file as JSON and anything else as YAML.
func readActivityInput(path string) (calculator.ActivityInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading activity file: %w", err)
	}
	input := calculator.ActivityInput{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &input)
	} else {
		err = yaml.Unmarshal(data, &input)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing activity file %s: %w", path, err)
	}
	for c := range input {
		if _, ok := calculator.ParseCategory(string(c)); !ok {
			return nil, fmt.Errorf("unknown category %q in %s", c, path)
		}
	}
	return input, nil
}

// addActivity parses "category.type=amount" or "category.type=distance x
// frequency" into input.
func addActivity(input calculator.ActivityInput, spec string) error {
	key, value, ok := strings.Cut(spec, "=")
	if !ok {
		return fmt.Errorf("invalid activity %q: want category.type=amount", spec)
	}
	catName, activity, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || activity == "" {
		return fmt.Errorf("invalid activity %q: want category.type=amount", spec)
	}
	c, ok := calculator.ParseCategory(catName)
	if !ok {
		return fmt.Errorf("unknown category %q (want one of %v)", catName, calculator.Categories)
	}

	var amount calculator.Amount
	if dist, freq, isTrip := strings.Cut(strings.ToLower(value), "x"); isTrip {
		d, err := strconv.ParseFloat(strings.TrimSpace(dist), 64)
		if err != nil {
			return fmt.Errorf("invalid distance in %q: %w", spec, err)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(freq), 64)
		if err != nil {
			return fmt.Errorf("invalid frequency in %q: %w", spec, err)
		}
		amount = calculator.Trip(d, f)
	} else {
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("invalid amount in %q: %w", spec, err)
		}
		if c == calculator.Transportation {
			amount = calculator.Trip(q, 1)
		} else {
			amount = calculator.Qty(q)
		}
	}

	if input[c] == nil {
		input[c] = map[string]calculator.Amount{}
	}
	input[c][activity] = amount
	return nil
}

// activityUnit names the unit an activity's factor is expressed in.
func activityUnit(c calculator.Category, activity string) string {
	switch c {
	case calculator.Transportation:
		return "miles"
	case calculator.Energy:
		switch activity {
		case "electricity":
			return "kWh"
		case "natural_gas":
			return "therms"
		case "heating_oil", "propane":
			return "gallons"
		default:
			return "lbs"
		}
	default:
		return "kg"
	}
}
