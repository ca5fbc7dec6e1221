package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/engine/batch"
	"github.com/rshade/ecofocus/internal/logging"
	"github.com/rshade/ecofocus/internal/recommend"
	"github.com/rshade/ecofocus/internal/synth"
)

// Demo seeding defaults.
const (
	DemoUserName = "Demo User"
	DemoDays     = 60
)

// ImportOptions tunes ImportDaily.
type ImportOptions struct {
	// BatchSize is the number of records committed per transaction.
	BatchSize int
	// OnProgress is called after each committed batch.
	OnProgress batch.ProgressCallback
}

// ImportDaily upserts records for userID, one transaction per batch. When a
// batch fails, earlier batches stay committed and the result counts them.
func (s *Store) ImportDaily(
	ctx context.Context,
	userID int64,
	records []DailyRecord,
	opts ImportOptions,
) (ImportResult, error) {
	log := logging.FromContext(ctx).With().
		Str("component", "history").
		Str("operation", "ImportDaily").
		Logger()

	size := opts.BatchSize
	if size == 0 {
		size = batch.DefaultBatchSize
	}
	proc, err := batch.NewProcessor[DailyRecord](size)
	if err != nil {
		return ImportResult{}, err
	}
	proc.WithProgressCallback(opts.OnProgress)

	var result ImportResult
	err = proc.Process(ctx, records, func(ctx context.Context, items []DailyRecord, _, _ int) error {
		txErr := s.inTx(ctx, func(tx *sql.Tx) error {
			for _, r := range items {
				if err := saveDaily(ctx, tx, userID, r); err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			return txErr
		}
		result.Imported += len(items)
		result.Batches++
		return nil
	})

	log.Debug().
		Int64("user_id", userID).
		Int("imported", result.Imported).
		Int("batches", result.Batches).
		Err(err).
		Msg("daily import finished")
	return result, err
}

// SeedDemo creates a demo user with days of generated history ending the
// day before now, the matching activities and three goals. It returns the
// new user's ID.
func (s *Store) SeedDemo(ctx context.Context, days int, now time.Time, seed uint64) (int64, error) {
	if days <= 0 {
		days = DemoDays
	}
	userID, err := s.CreateUser(ctx, DemoUserName, "")
	if err != nil {
		return 0, err
	}

	demo := synth.New(seed).DemoHistory(days, now)
	records := make([]DailyRecord, len(demo))
	for i, d := range demo {
		records[i] = calculator.NewDailyRecord(d.Date, calculator.CalculateTotalFootprint(d.Input))
	}
	if _, err := s.ImportDaily(ctx, userID, records, ImportOptions{}); err != nil {
		return 0, fmt.Errorf("seeding demo history: %w", err)
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		for i, d := range demo {
			r := records[i]
			for _, a := range []Activity{
				{Category: calculator.Transportation, ActivityType: "car_travel", Amount: d.CarMiles, Unit: "miles", Emissions: r.Transportation},
				{Category: calculator.Energy, ActivityType: "electricity", Amount: d.ElectricityKWh, Unit: "kWh", Emissions: r.Energy},
				{Category: calculator.Food, ActivityType: "meals", Amount: d.MeatMeals, Unit: "servings", Emissions: r.Food},
				{Category: calculator.Waste, ActivityType: "total_waste", Amount: d.WasteKg, Unit: "kg", Emissions: r.Waste},
			} {
				if a.Amount <= 0 {
					continue
				}
				a.UserID = userID
				a.Date = d.Date
				if _, err := insertActivity(ctx, tx, a); err != nil {
					return err
				}
			}
		}
		for _, g := range demoGoals(userID, now) {
			if _, err := insertGoal(ctx, tx, g); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seeding demo activities: %w", err)
	}

	logging.FromContext(ctx).Info().
		Str("component", "history").
		Int64("user_id", userID).
		Int("days", len(records)).
		Msg("demo data created")
	return userID, nil
}

func demoGoals(userID int64, now time.Time) []Goal {
	in30 := now.AddDate(0, 0, 30)
	return []Goal{
		{UserID: userID, GoalType: recommend.GoalDailyReduction, TargetValue: 25, TargetDate: in30, CreatedAt: now},
		{UserID: userID, GoalType: recommend.GoalMonthlyLimit, TargetValue: 800, TargetDate: in30, CreatedAt: now},
		{UserID: userID, GoalType: recommend.GoalAnnualFootprint, TargetValue: 8000, TargetDate: now.AddDate(1, 0, 0), CreatedAt: now},
	}
}
