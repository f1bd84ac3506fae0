package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	defaultMigrationsPath = "db/migrations"
	defaultSeedsPath      = "db/seeds"
)

// MigrationRunner brings the ledger schema up to date with golang-migrate and
// optionally loads the reference-data seeds (account types, categories).
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
	seed           bool
	maxAttempts    int
	retryInterval  time.Duration
}

func NewMigrationRunner(db *sql.DB, seed bool) *MigrationRunner {
	return &MigrationRunner{
		db:             db,
		migrationsPath: defaultMigrationsPath,
		seedsPath:      defaultSeedsPath,
		seed:           seed,
		maxAttempts:    30,
		retryInterval:  2 * time.Second,
	}
}

// WaitForDatabase pings until the database answers, the attempts run out or
// ctx is done
func (mr *MigrationRunner) WaitForDatabase(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= mr.maxAttempts; attempt++ {
		if lastErr = mr.db.PingContext(ctx); lastErr == nil {
			return nil
		}
		slog.Info("waiting for database", "attempt", attempt, "max_attempts", mr.maxAttempts, "error", lastErr)

		if attempt == mr.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mr.retryInterval):
		}
	}
	return fmt.Errorf("database not ready after %d attempts: %w", mr.maxAttempts, lastErr)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("resolve migrations path: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migrate driver: %w", err)
	}

	return migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
}

// RunMigrations applies every pending up migration. A dirty version left by
// a crashed run is forced clean first. A missing directory is not an error.
func (mr *MigrationRunner) RunMigrations() error {
	if _, err := os.Stat(mr.migrationsPath); errors.Is(err, os.ErrNotExist) {
		slog.Warn("migrations directory not found, skipping", "path", mr.migrationsPath)
		return nil
	}

	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		slog.Warn("schema is dirty, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("force schema version %d: %w", version, err)
		}
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("schema up to date", "version", version)
		return nil
	case err != nil:
		return fmt.Errorf("apply migrations: %w", err)
	}

	if version, _, err = m.Version(); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	slog.Info("schema migrated", "version", version)
	return nil
}

// SeedFiles lists the seed scripts in the order they are applied
func (mr *MigrationRunner) SeedFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("list seed files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadSeeds runs each seed script in its own transaction. The scripts are
// idempotent, so the first failure aborts the load.
func (mr *MigrationRunner) LoadSeeds(ctx context.Context) error {
	if !mr.seed {
		return nil
	}

	files, err := mr.SeedFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		slog.Warn("no seed files found", "path", mr.seedsPath)
		return nil
	}

	for _, file := range files {
		if err := mr.applySeed(ctx, file); err != nil {
			return err
		}
		slog.Info("seed applied", "file", filepath.Base(file))
	}
	return nil
}

func (mr *MigrationRunner) applySeed(ctx context.Context, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read seed %s: %w", filepath.Base(file), err)
	}

	tx, err := mr.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed %s: %w", filepath.Base(file), err)
	}
	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("seed %s: %w", filepath.Base(file), err)
	}
	return tx.Commit()
}

// RunMigrationsIfEnabled waits for the database, migrates it and, when seed
// is set, loads the reference data
func RunMigrationsIfEnabled(ctx context.Context, db *sql.DB, autoMigrate, seed bool) error {
	if !autoMigrate {
		slog.Info("auto-migration disabled")
		return nil
	}

	runner := NewMigrationRunner(db, seed)
	if err := runner.WaitForDatabase(ctx); err != nil {
		return err
	}
	if err := runner.RunMigrations(); err != nil {
		return err
	}
	return runner.LoadSeeds(ctx)
}
