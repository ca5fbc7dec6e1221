package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	_ "modernc.org/sqlite" // database/sql driver "sqlite"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/logging"
)

const (
	maxOpenConns  = 4
	busyTimeoutMS = 5000
)

// Store is a SQLite-backed history store. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// dsn enables foreign keys, WAL and a busy timeout on every pooled connection.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	return "file:" + path + "?" + q.Encode()
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	log := logging.FromContext(ctx).With().
		Str("component", "history").
		Str("operation", "Open").
		Logger()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("history store opened")
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// inTx runs fn in a transaction, committing on success.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateUser inserts a user and returns its ID. An empty email is stored as NULL.
func (s *Store) CreateUser(ctx context.Context, name, email string) (int64, error) {
	if name == "" {
		return 0, ErrInvalidUser
	}
	var mail sql.NullString
	if email != "" {
		mail = sql.NullString{String: email, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, created_at) VALUES (?, ?, ?)`,
		name, mail, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("creating user %q: %w", name, err)
	}
	return res.LastInsertId()
}

// GetUser returns the user with id, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	var (
		u       User
		email   sql.NullString
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &email, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("reading user %d: %w", id, err)
	}
	u.Email = email.String
	if u.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return User{}, fmt.Errorf("user %d created_at: %w", id, err)
	}
	return u, nil
}

const upsertDaily = `INSERT INTO daily_footprints
	(user_id, date, transportation_emissions, energy_emissions, food_emissions, waste_emissions, total_emissions)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id, date) DO UPDATE SET
		transportation_emissions = excluded.transportation_emissions,
		energy_emissions = excluded.energy_emissions,
		food_emissions = excluded.food_emissions,
		waste_emissions = excluded.waste_emissions,
		total_emissions = excluded.total_emissions`

func saveDaily(ctx context.Context, ex execer, userID int64, r DailyRecord) error {
	_, err := ex.ExecContext(ctx, upsertDaily,
		userID, formatDate(r.Date), r.Transportation, r.Energy, r.Food, r.Waste, r.Total)
	if err != nil {
		return fmt.Errorf("saving footprint for %s: %w", formatDate(r.Date), err)
	}
	return nil
}

// SaveDailyFootprint stores the breakdown for date, replacing any earlier
// record of the same user and day.
func (s *Store) SaveDailyFootprint(ctx context.Context, userID int64, date time.Time, b calculator.Breakdown) error {
	return saveDaily(ctx, s.db, userID, calculator.NewDailyRecord(date, b))
}

// GetHistory returns the user's most recent days records in ascending date order.
func (s *Store) GetHistory(ctx context.Context, userID int64, days int) ([]DailyRecord, error) {
	if days <= 0 {
		return []DailyRecord{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, transportation_emissions, energy_emissions, food_emissions, waste_emissions, total_emissions
		 FROM daily_footprints WHERE user_id = ? ORDER BY date DESC LIMIT ?`, userID, days)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []DailyRecord
	for rows.Next() {
		var (
			r    DailyRecord
			date string
		)
		if err := rows.Scan(&date, &r.Transportation, &r.Energy, &r.Food, &r.Waste, &r.Total); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		if r.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("history date %q: %w", date, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	if out == nil {
		out = []DailyRecord{}
	}
	return out, nil
}

func insertActivity(ctx context.Context, ex execer, a Activity) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`INSERT INTO activities (user_id, date, category, activity_type, amount, unit, emissions)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, formatDate(a.Date), string(a.Category), a.ActivityType, a.Amount, a.Unit, a.Emissions)
	if err != nil {
		return 0, fmt.Errorf("saving activity %s: %w", a.ActivityType, err)
	}
	return res.LastInsertId()
}

// SaveActivity stores a single activity and returns its ID.
func (s *Store) SaveActivity(ctx context.Context, a Activity) (int64, error) {
	return insertActivity(ctx, s.db, a)
}

// GetActivities returns the user's activities dated on or after since,
// newest first. An empty category matches every category.
func (s *Store) GetActivities(
	ctx context.Context,
	userID int64,
	category calculator.Category,
	since time.Time,
) ([]Activity, error) {
	query := `SELECT id, user_id, date, category, activity_type, amount, unit, emissions
		FROM activities WHERE user_id = ? AND date >= ?`
	args := []any{userID, formatDate(since)}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	out := []Activity{}
	for rows.Next() {
		var (
			a        Activity
			date     string
			category string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &date, &category, &a.ActivityType, &a.Amount, &a.Unit, &a.Emissions); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		if a.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("activity date %q: %w", date, err)
		}
		a.Category = calculator.Category(category)
		out = append(out, a)
	}
	return out, rows.Err()
}

func insertGoal(ctx context.Context, ex execer, g Goal) (int64, error) {
	var target sql.NullString
	if !g.TargetDate.IsZero() {
		target = sql.NullString{String: formatDate(g.TargetDate), Valid: true}
	}
	status := g.Status
	if status == "" {
		status = GoalActive
	}
	created := g.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := ex.ExecContext(ctx,
		`INSERT INTO goals (user_id, goal_type, target_value, current_value, target_date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.GoalType, g.TargetValue, g.CurrentValue, target, status,
		created.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("creating goal %q: %w", g.GoalType, err)
	}
	return res.LastInsertId()
}

// CreateGoal stores a goal and returns its ID. A zero status means active.
func (s *Store) CreateGoal(ctx context.Context, g Goal) (int64, error) {
	return insertGoal(ctx, s.db, g)
}

// UpdateGoalProgress sets the current value of a goal.
func (s *Store) UpdateGoalProgress(ctx context.Context, goalID int64, current float64) error {
	return s.updateGoal(ctx, goalID, `UPDATE goals SET current_value = ? WHERE id = ?`, current)
}

// SetGoalStatus changes the status of a goal.
func (s *Store) SetGoalStatus(ctx context.Context, goalID int64, status string) error {
	return s.updateGoal(ctx, goalID, `UPDATE goals SET status = ? WHERE id = ?`, status)
}

func (s *Store) updateGoal(ctx context.Context, goalID int64, query string, value any) error {
	res, err := s.db.ExecContext(ctx, query, value, goalID)
	if err != nil {
		return fmt.Errorf("updating goal %d: %w", goalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating goal %d: %w", goalID, err)
	}
	if n == 0 {
		return fmt.Errorf("goal %d: %w", goalID, ErrNotFound)
	}
	return nil
}

// GetGoals returns the user's active goals, newest first.
func (s *Store) GetGoals(ctx context.Context, userID int64) ([]Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, goal_type, target_value, current_value, target_date, status, created_at
		 FROM goals WHERE user_id = ? AND status = ? ORDER BY created_at DESC, id DESC`,
		userID, GoalActive)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

	out := []Goal{}
	for rows.Next() {
		var (
			g       Goal
			target  sql.NullString
			created string
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.GoalType, &g.TargetValue, &g.CurrentValue,
			&target, &g.Status, &created); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		if target.Valid {
			if g.TargetDate, err = parseDate(target.String); err != nil {
				return nil, fmt.Errorf("goal %d target_date: %w", g.ID, err)
			}
		}
		if g.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("goal %d created_at: %w", g.ID, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// MonthlySummary aggregates the user's records of one calendar month.
// A month without records yields a zero summary.
func (s *Store) MonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (MonthlySummary, error) {
	sum := MonthlySummary{Year: year, Month: month}
	var avgDaily, total, transport, energy, food, waste sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(total_emissions), SUM(total_emissions),
			AVG(transportation_emissions), AVG(energy_emissions),
			AVG(food_emissions), AVG(waste_emissions), COUNT(*)
		 FROM daily_footprints WHERE user_id = ? AND date LIKE ?`,
		userID, fmt.Sprintf("%04d-%02d-%%", year, int(month))).
		Scan(&avgDaily, &total, &transport, &energy, &food, &waste, &sum.DaysLogged)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("summarizing %04d-%02d: %w", year, int(month), err)
	}
	sum.AvgDaily = round2(avgDaily.Float64)
	sum.TotalMonthly = round2(total.Float64)
	sum.AvgTransport = round2(transport.Float64)
	sum.AvgEnergy = round2(energy.Float64)
	sum.AvgFood = round2(food.Float64)
	sum.AvgWaste = round2(waste.Float64)
	return sum, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
