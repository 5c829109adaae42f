package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when no ledger row exists for a solver/environment pair.
var ErrNotFound = errors.New("install status not found")

// SQLiteStore is the SQLite-backed installation ledger.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Config holds SQLite store configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new store instance.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return &SQLiteStore{path: cfg.Path}, nil
}

// Init opens the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs the embedded schema migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// HealthCheck verifies the database connection.
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}

// RecordCheck upserts the outcome of an install check.
func (s *SQLiteStore) RecordCheck(ctx context.Context, solver, environment, mechanism string, installed bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO install_status (solver, environment, mechanism, installed, checked_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (solver, environment) DO UPDATE SET
			mechanism = excluded.mechanism,
			installed = excluded.installed,
			checked_at = excluded.checked_at`,
		solver, environment, mechanism, installed, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record install check: %w", err)
	}
	return nil
}

// RecordInstall upserts the outcome of an install attempt.
func (s *SQLiteStore) RecordInstall(ctx context.Context, solver, environment, mechanism string, installed bool) error {
	now := time.Now().UTC()
	var installedAt interface{}
	if installed {
		installedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO install_status (solver, environment, mechanism, installed, checked_at, installed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (solver, environment) DO UPDATE SET
			mechanism = excluded.mechanism,
			installed = excluded.installed,
			checked_at = excluded.checked_at,
			installed_at = COALESCE(excluded.installed_at, install_status.installed_at)`,
		solver, environment, mechanism, installed, now, installedAt)
	if err != nil {
		return fmt.Errorf("failed to record install attempt: %w", err)
	}
	return nil
}

// Status returns the ledger row for one solver/environment pair.
func (s *SQLiteStore) Status(ctx context.Context, solver, environment string) (*InstallStatus, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT solver, environment, mechanism, installed, checked_at, installed_at
		FROM install_status WHERE solver = ? AND environment = ?`,
		solver, environment)

	st, err := scanStatus(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query install status: %w", err)
	}
	return st, nil
}

// List returns all ledger rows for one environment, ordered by solver name.
func (s *SQLiteStore) List(ctx context.Context, environment string) ([]InstallStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT solver, environment, mechanism, installed, checked_at, installed_at
		FROM install_status WHERE environment = ? ORDER BY solver`,
		environment)
	if err != nil {
		return nil, fmt.Errorf("failed to list install statuses: %w", err)
	}
	defer rows.Close()

	var out []InstallStatus
	for rows.Next() {
		st, err := scanStatus(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan install status: %w", err)
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func scanStatus(scan func(dest ...interface{}) error) (*InstallStatus, error) {
	var st InstallStatus
	var checkedAt, installedAt sql.NullTime
	if err := scan(&st.Solver, &st.Environment, &st.Mechanism, &st.Installed, &checkedAt, &installedAt); err != nil {
		return nil, err
	}
	if checkedAt.Valid {
		st.CheckedAt = checkedAt.Time
	}
	if installedAt.Valid {
		st.InstalledAt = installedAt.Time
	}
	return &st, nil
}
