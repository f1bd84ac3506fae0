package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the ledger's gorm handle
type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func New(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.GormLogLevel()),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &DB{DB: db, config: cfg}, nil
}

// AutoMigrate creates the ledger tables from the gorm models
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.User{},
		&models.AccountType{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SeedAccountTypes makes sure the built-in account types exist
func (db *DB) SeedAccountTypes(ctx context.Context) error {
	for _, name := range models.DefaultAccountTypes() {
		accountType := models.AccountType{Name: name}
		if err := db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&accountType).Error; err != nil {
			return fmt.Errorf("seed account type %s: %w", name, err)
		}
	}
	return nil
}

// SeedCategories adds each default category unless one with the same name
// and kind already exists
func (db *DB) SeedCategories(ctx context.Context) error {
	for _, category := range models.DefaultCategories() {
		if err := db.WithContext(ctx).
			Where("name = ? AND kind = ?", category.Name, category.Kind).
			FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", category.Name, err)
		}
	}
	return nil
}

// Initialize connects, brings the schema up to date and seeds reference data.
// The SQL migration runner is preferred; gorm AutoMigrate covers the case
// where it is disabled or fails.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := New(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	migrated := false
	if cfg.Database.AutoMigrate {
		if err := RunMigrationsIfEnabled(ctx, sqlDB, true, cfg.Database.SeedDatabase); err != nil {
			slog.Warn("migration runner failed, falling back to gorm AutoMigrate", "error", err)
		} else {
			migrated = true
		}
	}

	if !migrated {
		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if err := db.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		if cfg.Database.SeedDatabase {
			if err := db.SeedCategories(ctx); err != nil {
				slog.Warn("failed to seed categories", "error", err)
			}
		}
	}

	if err := db.SeedAccountTypes(ctx); err != nil {
		slog.Warn("failed to seed account types", "error", err)
	}

	slog.Info("database initialized", "migration_runner", migrated)
	return db, nil
}
