package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecofocus/internal/engine"
)

// setupDBTest isolates config and returns a --db path inside a temp dir.
func setupDBTest(t *testing.T) string {
	t.Helper()
	setupConfigTest(t)
	return filepath.Join(t.TempDir(), "history.db")
}

// seedDemo creates the demo user (ID 1 on a fresh database) with days of history.
func seedDemo(t *testing.T, db string, days int) {
	t.Helper()
	out, err := runRoot(t, "--db", db, "history", "seed-demo", "--days", strconv.Itoa(days), "--seed", "42")
	require.NoError(t, err, out)
	require.Contains(t, out, "Created demo user 1")
}

func TestCalc_Table(t *testing.T) {
	setupConfigTest(t)

	out, err := runRoot(t, "calc",
		"--activity", "transportation.car_gasoline=10x2",
		"--activity", "energy.electricity=15",
		"--date", "2024-03-01")
	require.NoError(t, err)

	assert.Contains(t, out, "FOOTPRINT 2024-03-01")
	assert.Contains(t, out, "transportation")
	assert.Contains(t, out, "energy")
	assert.Contains(t, out, "Sustainability score:")
	assert.NotContains(t, out, "Saved to history.")
}

func TestCalc_JSON(t *testing.T) {
	setupConfigTest(t)

	out, err := runRoot(t, "calc", "--output", "json", "--activity", "energy.electricity=10")
	require.NoError(t, err)

	var res struct {
		Footprint map[string]float64 `json:"footprint"`
		Score     int                `json:"sustainability_score"`
		Saved     bool               `json:"saved"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Greater(t, res.Footprint["energy"], 0.0)
	assert.InDelta(t, res.Footprint["energy"], res.Footprint["total"], 1e-9)
	assert.False(t, res.Saved)
}

func TestCalc_FromFile(t *testing.T) {
	setupConfigTest(t)

	path := filepath.Join(t.TempDir(), "day.yaml")
	content := "food:\n  beef:\n    quantity: 0.25\nwaste:\n  landfill:\n    quantity: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := runRoot(t, "calc", "--file", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"food"`)
	assert.Contains(t, out, `"waste"`)
}

func TestCalc_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no activities", args: []string{"calc"}, wantErr: "no activities given"},
		{name: "bad category", args: []string{"calc", "-a", "travel.car=1"}, wantErr: "unknown category"},
		{name: "bad amount", args: []string{"calc", "-a", "energy.electricity=lots"}, wantErr: "invalid amount"},
		{name: "bad date", args: []string{"calc", "-a", "energy.electricity=1", "--date", "yesterday"}, wantErr: "invalid date"},
		{name: "bad output", args: []string{"calc", "-a", "energy.electricity=1", "-o", "xml"}, wantErr: "unsupported output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupConfigTest(t)
			_, err := runRoot(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCalc_SaveRequiresUser(t *testing.T) {
	db := setupDBTest(t)

	_, err := runRoot(t, "--db", db, "calc", "-a", "energy.electricity=10", "--save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user 1 not found")
}

func TestCalc_SaveAndListActivities(t *testing.T) {
	db := setupDBTest(t)

	out, err := runRoot(t, "--db", db, "user", "add", "Ada", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user 1 (Ada)")

	out, err = runRoot(t, "--db", db, "calc", "-a", "energy.electricity=10", "-a", "food.beef=0.2", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved to history.")

	out, err = runRoot(t, "--db", db, "history", "activities", "--category", "energy")
	require.NoError(t, err)
	assert.Contains(t, out, "electricity")
	assert.Contains(t, out, "kWh")
	assert.NotContains(t, out, "beef")

	out, err = runRoot(t, "--db", db, "history", "list", "-o", "json")
	require.NoError(t, err)
	var list struct {
		UserID  int64            `json:"user_id"`
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, int64(1), list.UserID)
	assert.Len(t, list.Records, 1)
}

func TestSeedDemo_HistoryAndPaging(t *testing.T) {
	db := setupDBTest(t)
	seedDemo(t, db, 20)

	out, err := runRoot(t, "--db", db, "history", "list", "-o", "json")
	require.NoError(t, err)
	var list struct {
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list.Records, 20)

	out, err = runRoot(t, "--db", db, "history", "list", "--page", "2", "--page-size", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2 of 3 (20 days)")

	out, err = runRoot(t, "--db", db, "history", "list", "-o", "ndjson", "--limit", "5")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 5)
}

func TestRecommend_WithDemoHistory(t *testing.T) {
	db := setupDBTest(t)
	seedDemo(t, db, 30)

	out, err := runRoot(t, "--db", db, "recommend", "--plan", "--roi")
	require.NoError(t, err)
	assert.Contains(t, out, "RECOMMENDATIONS SUMMARY")
	assert.Contains(t, out, "ACTION PLAN")
	assert.Contains(t, out, "INVESTMENT PAYBACK")

	out, err = runRoot(t, "--db", db, "recommend", "-o", "json", "--plan", "--sort", "impact:desc")
	require.NoError(t, err)
	var doc struct {
		Summary struct {
			TotalCount int `json:"total_count"`
		} `json:"summary"`
		Recommendations []struct {
			Impact int `json:"impact_estimate"`
		} `json:"recommendations"`
		Plan *struct {
			Weeks int `json:"weeks"`
		} `json:"action_plan"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.NotEmpty(t, doc.Recommendations)
	assert.Equal(t, doc.Summary.TotalCount, len(doc.Recommendations))
	require.NotNil(t, doc.Plan)
	for i := 1; i < len(doc.Recommendations); i++ {
		assert.GreaterOrEqual(t, abs(doc.Recommendations[i-1].Impact), abs(doc.Recommendations[i].Impact))
	}

	out, err = runRoot(t, "--db", db, "recommend", "-o", "ndjson", "--limit", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"type":"summary"`)

	_, err = runRoot(t, "--db", db, "recommend", "--tui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestRecommend_NoHistory(t *testing.T) {
	db := setupDBTest(t)
	_, err := runRoot(t, "--db", db, "user", "add", "Empty")
	require.NoError(t, err)

	_, err = runRoot(t, "--db", db, "recommend")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrNoHistory)
}

func TestForecast_SeededIsReproducible(t *testing.T) {
	db := setupDBTest(t)
	seedDemo(t, db, 30)

	run := func() []map[string]any {
		out, err := runRoot(t, "--db", db, "forecast", "--days", "5", "--seed", "9", "-o", "ndjson")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		points := make([]map[string]any, len(lines))
		for i, l := range lines {
			require.NoError(t, json.Unmarshal([]byte(l), &points[i]))
		}
		return points
	}

	first, second := run(), run()
	require.Len(t, first, 5)
	assert.Equal(t, first, second)

	out, err := runRoot(t, "--db", db, "forecast", "--days", "3", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "FORECAST (3 DAYS)")
	assert.Contains(t, out, "Trend:")
}

func TestAnalyzeAndReport(t *testing.T) {
	db := setupDBTest(t)
	seedDemo(t, db, 30)

	out, err := runRoot(t, "--db", db, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "PATTERN ANALYSIS")
	assert.Contains(t, out, "Dominant category:")

	out, err = runRoot(t, "--db", db, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "FOOTPRINT REPORT (USER 1")
	assert.Contains(t, out, "BENCHMARKS")
	assert.Contains(t, out, "GOALS")
}

func TestBenchmarkAndTips(t *testing.T) {
	db := setupDBTest(t)
	seedDemo(t, db, 14)

	out, err := runRoot(t, "--db", db, "benchmark", "-o", "json")
	require.NoError(t, err)
	var comps []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &comps))
	assert.NotEmpty(t, comps)

	_, err = runRoot(t, "--db", db, "tips", "--week", "2", "--month", "13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month must be between 1 and 12")

	out, err = runRoot(t, "--db", db, "tips", "--week", "2", "--month", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "1. ")
}

func TestChallenges(t *testing.T) {
	setupConfigTest(t)

	out, err := runRoot(t, "challenges", "-o", "json")
	require.NoError(t, err)
	var challenges []struct {
		Name         string `json:"name"`
		DurationDays int    `json:"duration_days"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &challenges))
	require.NotEmpty(t, challenges)
	for _, c := range challenges {
		assert.NotEmpty(t, c.Name)
		assert.Positive(t, c.DurationDays)
	}

	out, err = runRoot(t, "challenges")
	require.NoError(t, err)
	assert.Contains(t, out, "CHALLENGE")
}

func TestGoals_AddListUpdate(t *testing.T) {
	db := setupDBTest(t)
	seedDemo(t, db, 14)

	out, err := runRoot(t, "--db", db, "goals", "add", "--type", "weekly", "--target", "90", "--by", "2099-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "target 90.0 kg")

	out, err = runRoot(t, "--db", db, "goals", "list", "-o", "json")
	require.NoError(t, err)
	var statuses []struct {
		Goal struct {
			ID       int64  `json:"id"`
			GoalType string `json:"goal_type"`
		} `json:"goal"`
		Progress struct {
			Current float64 `json:"current_value"`
		} `json:"progress"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &statuses))
	require.NotEmpty(t, statuses)
	last := statuses[len(statuses)-1]
	assert.Positive(t, last.Progress.Current)

	id := strconv.FormatInt(last.Goal.ID, 10)
	out, err = runRoot(t, "--db", db, "goals", "update", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Goal "+id+":")

	out, err = runRoot(t, "--db", db, "goals", "update", id, "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "is now completed")

	_, err = runRoot(t, "--db", db, "goals", "update", id)
	require.Error(t, err, "completed goals are no longer active")

	_, err = runRoot(t, "--db", db, "goals", "add", "--type", "hourly", "--target", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown goal type")
}

func TestExport(t *testing.T) {
	db := setupDBTest(t)
	seedDemo(t, db, 10)

	out, err := runRoot(t, "--db", db, "export", "--format", "csv", "--out", "-")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[0], "date,"))

	dir := t.TempDir()
	for _, format := range []string{"json", "xlsx"} {
		path := filepath.Join(dir, "export."+format)
		_, err = runRoot(t, "--db", db, "export", "--format", format, "--out", path)
		require.NoError(t, err, format)
		info, statErr := os.Stat(path)
		require.NoError(t, statErr)
		assert.Positive(t, info.Size())
	}

	// The exported CSV round-trips through history import.
	csvPath := filepath.Join(dir, "history.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(out), 0o644))
	db2 := filepath.Join(t.TempDir(), "other.db")
	_, err = runRoot(t, "--db", db2, "user", "add", "Importer")
	require.NoError(t, err)
	out, err = runRoot(t, "--db", db2, "history", "import", csvPath, "--batch-size", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 10 days for user 1 in 3 batches")

	_, err = runRoot(t, "--db", db, "export", "--format", "pdf")
	require.Error(t, err)
}

func TestUserShow_NotFound(t *testing.T) {
	db := setupDBTest(t)

	_, err := runRoot(t, "--db", db, "--user", "7", "user", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user 7 not found")
}
