package counter

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hemkey/migrations"
)

// PostgresStore keeps the count as one row of visitor_counters.
type PostgresStore struct {
	Pool *pgxpool.Pool
	key  string
}

// OpenPostgres connects, applies migrations and returns the store.
func OpenPostgres(ctx context.Context, connString, key string) (*PostgresStore, error) {
	if connString == "" || key == "" {
		return nil, ErrNotConfigured
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(connString); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{Pool: pool, key: key}, nil
}

// RunMigrations runs all embedded SQL migrations.
func RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Backend implements Store.
func (s *PostgresStore) Backend() string {
	return BackendPostgres
}

// Read implements Store.
func (s *PostgresStore) Read(ctx context.Context) (int64, error) {
	var count int64
	err := s.Pool.QueryRow(ctx, `SELECT count FROM visitor_counters WHERE key = $1`, s.key).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read visitor count: %w", err)
	}
	return count, nil
}

// Increment upserts the row and returns the new count in one statement.
func (s *PostgresStore) Increment(ctx context.Context) (int64, error) {
	var count int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO visitor_counters (key, count, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (key) DO UPDATE
		SET count = visitor_counters.count + 1, updated_at = NOW()
		RETURNING count
	`, s.key).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment visitor count: %w", err)
	}
	return count, nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}
