// Package history persists users, daily footprints, activities and goals in
// a local SQLite database.
package history

import (
	"time"

	"github.com/rshade/ecofocus/internal/calculator"
)

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

// Goal statuses stored in the goals table.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalAbandoned = "abandoned"
)

// DailyRecord is one stored day of emissions.
type DailyRecord = calculator.DailyRecord

// User is a tracked person.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity is a single logged activity and the emissions it produced.
type Activity struct {
	ID           int64               `json:"id"`
	UserID       int64               `json:"user_id"`
	Date         time.Time           `json:"date"`
	Category     calculator.Category `json:"category"`
	ActivityType string              `json:"activity_type"`
	Amount       float64             `json:"amount"`
	Unit         string              `json:"unit"`
	Emissions    float64             `json:"emissions"`
}

// Goal is a user's emissions target.
type Goal struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	GoalType     string    `json:"goal_type"`
	TargetValue  float64   `json:"target_value"`
	CurrentValue float64   `json:"current_value"`
	TargetDate   time.Time `json:"target_date,omitzero"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// MonthlySummary aggregates the logged days of one calendar month.
// Averages are over logged days only.
type MonthlySummary struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	DaysLogged   int        `json:"days_logged"`
	AvgDaily     float64    `json:"avg_daily"`
	TotalMonthly float64    `json:"total_monthly"`
	AvgTransport float64    `json:"avg_transport"`
	AvgEnergy    float64    `json:"avg_energy"`
	AvgFood      float64    `json:"avg_food"`
	AvgWaste     float64    `json:"avg_waste"`
}

// ImportResult reports a bulk import.
type ImportResult struct {
	Imported int `json:"imported"`
	Batches  int `json:"batches"`
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
