package history_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/engine/batch"
	"github.com/rshade/ecofocus/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.Open(context.Background(), filepath.Join(t.TempDir(), "eco.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func breakdown(transport, energy float64) calculator.Breakdown {
	return calculator.NewBreakdown(map[calculator.Category]float64{
		calculator.Transportation: transport,
		calculator.Energy:         energy,
	})
}

func TestOpen_MigratesAndRecordsVersion(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	v, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, history.SchemaVersion, v.String())

	require.NoError(t, s.Close())
	reopened, err := history.Open(ctx, s.Path())
	require.NoError(t, err)
	require.NoError(t, reopened.Close())
}

func TestOpen_RejectsIncompatibleSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "eco.db")

	s, err := history.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE schema_meta SET value = '2.0.0' WHERE key = 'schema_version'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = history.Open(ctx, path)
	require.ErrorIs(t, err, history.ErrSchemaVersion)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	id, err := s.CreateUser(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)

	u, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = s.CreateUser(ctx, "", "")
	require.ErrorIs(t, err, history.ErrInvalidUser)

	_, err = s.CreateUser(ctx, "Other", "ada@example.com")
	require.Error(t, err, "email is unique")

	second, err := s.CreateUser(ctx, "No Mail", "")
	require.NoError(t, err)
	third, err := s.CreateUser(ctx, "No Mail Either", "")
	require.NoError(t, err, "missing emails do not collide")
	assert.NotEqual(t, second, third)

	_, err = s.GetUser(ctx, 999)
	require.ErrorIs(t, err, history.ErrNotFound)
}

func TestDailyFootprints(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	uid, err := s.CreateUser(ctx, "Ada", "")
	require.NoError(t, err)

	for d := 1; d <= 10; d++ {
		require.NoError(t, s.SaveDailyFootprint(ctx, uid, day(d), breakdown(float64(d), 1)))
	}

	t.Run("last N days ascending", func(t *testing.T) {
		got, err := s.GetHistory(ctx, uid, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, day(8), got[0].Date)
		assert.Equal(t, day(10), got[2].Date)
		assert.InDelta(t, 11.0, got[2].Total, 1e-9)
		assert.Zero(t, got[2].Food, "absent categories are stored as zero")
	})

	t.Run("upsert replaces the day", func(t *testing.T) {
		require.NoError(t, s.SaveDailyFootprint(ctx, uid, day(10), breakdown(2, 2)))
		got, err := s.GetHistory(ctx, uid, 30)
		require.NoError(t, err)
		require.Len(t, got, 10)
		assert.InDelta(t, 4.0, got[9].Total, 1e-9)
	})

	t.Run("no rows", func(t *testing.T) {
		got, err := s.GetHistory(ctx, uid+100, 30)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		got, err = s.GetHistory(ctx, uid, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown user violates foreign key", func(t *testing.T) {
		err := s.SaveDailyFootprint(ctx, 4242, day(1), breakdown(1, 1))
		require.Error(t, err)
	})
}

func TestActivities(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	uid, err := s.CreateUser(ctx, "Ada", "")
	require.NoError(t, err)

	for _, a := range []history.Activity{
		{UserID: uid, Date: day(1), Category: calculator.Transportation, ActivityType: "car_gasoline", Amount: 20, Unit: "miles", Emissions: 8.22},
		{UserID: uid, Date: day(5), Category: calculator.Energy, ActivityType: "electricity", Amount: 10, Unit: "kWh", Emissions: 9.2},
		{UserID: uid, Date: day(9), Category: calculator.Transportation, ActivityType: "bus", Amount: 10, Unit: "miles", Emissions: 0.89},
	} {
		_, err := s.SaveActivity(ctx, a)
		require.NoError(t, err)
	}

	all, err := s.GetActivities(ctx, uid, "", day(1))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "bus", all[0].ActivityType, "newest first")

	transport, err := s.GetActivities(ctx, uid, calculator.Transportation, day(2))
	require.NoError(t, err)
	require.Len(t, transport, 1)
	assert.Equal(t, calculator.Transportation, transport[0].Category)
	assert.Equal(t, day(9), transport[0].Date)
}

func TestGoals(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	uid, err := s.CreateUser(ctx, "Ada", "")
	require.NoError(t, err)

	first, err := s.CreateGoal(ctx, history.Goal{UserID: uid, GoalType: "Daily Emissions Reduction", TargetValue: 25, TargetDate: day(31)})
	require.NoError(t, err)
	second, err := s.CreateGoal(ctx, history.Goal{UserID: uid, GoalType: "Annual Footprint Goal", TargetValue: 8000})
	require.NoError(t, err)

	require.NoError(t, s.UpdateGoalProgress(ctx, first, 22.5))

	goals, err := s.GetGoals(ctx, uid)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, second, goals[0].ID, "newest first")
	assert.True(t, goals[0].TargetDate.IsZero())
	assert.Equal(t, history.GoalActive, goals[1].Status)
	assert.InDelta(t, 22.5, goals[1].CurrentValue, 0)
	assert.Equal(t, day(31), goals[1].TargetDate)

	require.NoError(t, s.SetGoalStatus(ctx, second, history.GoalCompleted))
	goals, err = s.GetGoals(ctx, uid)
	require.NoError(t, err)
	require.Len(t, goals, 1, "only active goals are listed")

	require.ErrorIs(t, s.UpdateGoalProgress(ctx, 999, 1), history.ErrNotFound)
}

func TestMonthlySummary(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	uid, err := s.CreateUser(ctx, "Ada", "")
	require.NoError(t, err)

	require.NoError(t, s.SaveDailyFootprint(ctx, uid, day(1), breakdown(10, 0)))
	require.NoError(t, s.SaveDailyFootprint(ctx, uid, day(2), breakdown(20, 5)))
	require.NoError(t, s.SaveDailyFootprint(ctx, uid, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), breakdown(100, 0)))

	sum, err := s.MonthlySummary(ctx, uid, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.DaysLogged)
	assert.InDelta(t, 35.0, sum.TotalMonthly, 1e-9)
	assert.InDelta(t, 17.5, sum.AvgDaily, 1e-9)
	assert.InDelta(t, 15.0, sum.AvgTransport, 1e-9)
	assert.InDelta(t, 2.5, sum.AvgEnergy, 1e-9)

	empty, err := s.MonthlySummary(ctx, uid, 2023, time.March)
	require.NoError(t, err)
	assert.Zero(t, empty.DaysLogged)
	assert.Zero(t, empty.AvgDaily)
}

func TestImportDaily(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	uid, err := s.CreateUser(ctx, "Ada", "")
	require.NoError(t, err)

	records := make([]history.DailyRecord, 25)
	for i := range records {
		records[i] = calculator.NewDailyRecord(day(i+1), breakdown(float64(i), 1))
	}

	var snaps int
	res, err := s.ImportDaily(ctx, uid, records, history.ImportOptions{
		BatchSize:  10,
		OnProgress: func(batch.ProgressSnapshot) { snaps++ },
	})
	require.NoError(t, err)
	assert.Equal(t, history.ImportResult{Imported: 25, Batches: 3}, res)
	assert.Equal(t, 3, snaps)

	got, err := s.GetHistory(ctx, uid, 100)
	require.NoError(t, err)
	assert.Len(t, got, 25)

	_, err = s.ImportDaily(ctx, uid, records, history.ImportOptions{BatchSize: -1})
	require.ErrorIs(t, err, batch.ErrInvalidBatchSize)
}

func TestImportDaily_FailedBatchKeepsEarlierBatches(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	records := make([]history.DailyRecord, 5)
	for i := range records {
		records[i] = calculator.NewDailyRecord(day(i+1), breakdown(1, 1))
	}
	res, err := s.ImportDaily(ctx, 777, records, history.ImportOptions{BatchSize: 2})
	require.Error(t, err, "unknown user fails the first batch")
	assert.Zero(t, res.Imported)
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	uid, err := s.SeedDemo(ctx, 0, now, 42)
	require.NoError(t, err)

	u, err := s.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, history.DemoUserName, u.Name)

	hist, err := s.GetHistory(ctx, uid, 365)
	require.NoError(t, err)
	require.Len(t, hist, history.DemoDays)
	assert.Equal(t, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), hist[len(hist)-1].Date)
	for _, r := range hist {
		assert.Positive(t, r.Total)
		assert.InDelta(t, r.Transportation+r.Energy+r.Food+r.Waste, r.Total, 1e-6)
	}

	acts, err := s.GetActivities(ctx, uid, calculator.Energy, hist[0].Date)
	require.NoError(t, err)
	assert.NotEmpty(t, acts)

	goals, err := s.GetGoals(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, goals, 3)

	again, err := s.SeedDemo(ctx, 5, now, 42)
	require.NoError(t, err, "seeding twice creates a second demo user")
	assert.NotEqual(t, uid, again)
}
