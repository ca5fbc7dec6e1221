package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/rshade/ecofocus/internal/logging"
)

// SchemaVersion is the schema written by this build. Databases whose
// recorded version satisfies SupportedSchema can be opened.
const (
	SchemaVersion   = "1.1.0"
	SupportedSchema = "^1"
)

const schemaVersionKey = "schema_version"

type migration struct {
	version int
	name    string
	stmts   []string
}

//nolint:gochecknoglobals // Ordered migration list.
var migrations = []migration{
	{
		version: 1,
		name:    "initial schema",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				email TEXT UNIQUE,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS daily_footprints (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
				date TEXT NOT NULL,
				transportation_emissions REAL NOT NULL DEFAULT 0,
				energy_emissions REAL NOT NULL DEFAULT 0,
				food_emissions REAL NOT NULL DEFAULT 0,
				waste_emissions REAL NOT NULL DEFAULT 0,
				total_emissions REAL NOT NULL DEFAULT 0,
				UNIQUE (user_id, date)
			)`,
			`CREATE TABLE IF NOT EXISTS activities (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
				date TEXT NOT NULL,
				category TEXT NOT NULL,
				activity_type TEXT NOT NULL,
				amount REAL NOT NULL,
				unit TEXT NOT NULL,
				emissions REAL NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS goals (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
				goal_type TEXT NOT NULL,
				target_value REAL NOT NULL,
				current_value REAL NOT NULL DEFAULT 0,
				target_date TEXT,
				status TEXT NOT NULL DEFAULT 'active',
				created_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		name:    "lookup indexes",
		stmts: []string{
			`CREATE INDEX IF NOT EXISTS idx_activities_user_date ON activities (user_id, date)`,
			`CREATE INDEX IF NOT EXISTS idx_goals_user_status ON goals (user_id, status)`,
		},
	},
}

// migrate verifies the recorded schema version and applies pending migrations.
func (s *Store) migrate(ctx context.Context) error {
	log := logging.FromContext(ctx).With().
		Str("component", "history").
		Str("operation", "migrate").
		Logger()

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS schema_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema tables: %w", err)
		}
	}

	recorded, err := s.SchemaVersion(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if recorded != nil {
		constraint, cErr := semver.NewConstraint(SupportedSchema)
		if cErr != nil {
			return fmt.Errorf("parsing schema constraint: %w", cErr)
		}
		if !constraint.Check(recorded) {
			return fmt.Errorf("%w: database has %s, this build supports %s",
				ErrSchemaVersion, recorded, SupportedSchema)
		}
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return err
		}
		log.Debug().Int("version", m.version).Str("name", m.name).Msg("applied migration")
	}

	current := semver.MustParse(SchemaVersion)
	if recorded == nil || recorded.LessThan(current) {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO schema_meta (key, value) VALUES (?, ?)
			 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
			schemaVersionKey, current.String()); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
	}
	return nil
}

// SchemaVersion returns the schema version recorded in the database, or
// ErrNotFound for a database that was never migrated.
func (s *Store) SchemaVersion(ctx context.Context) (*semver.Version, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM schema_meta WHERE key = ?`, schemaVersionKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading schema version: %w", err)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid version %q: %w", ErrSchemaVersion, raw, err)
	}
	return v, nil
}

func (s *Store) appliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("querying migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range m.stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
			m.version, m.name, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		return nil
	})
}
