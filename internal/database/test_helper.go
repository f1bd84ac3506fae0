package database

import (
	"testing"

	"finance-ledger/internal/config"
	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a migrated in-memory sqlite database. The pool is pinned
// to one connection because every sqlite :memory: connection is a separate database.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = testDB.Close()
	})

	return testDB
}

func CreateTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed_password",
		Name:         "Test User",
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

func CreateTestAccountType(t *testing.T, db *DB, name string) *models.AccountType {
	t.Helper()

	accountType := &models.AccountType{Name: name}
	if err := db.Create(accountType).Error; err != nil {
		t.Fatalf("failed to create test account type: %v", err)
	}

	return accountType
}

func CreateTestAccount(t *testing.T, db *DB, user *models.User, accountType *models.AccountType, name string, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:        user.ID,
		AccountTypeID: accountType.ID,
		Name:          name,
		Balance:       balance,
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}

	return account
}

func CreateTestCategory(t *testing.T, db *DB, name string, kind models.Kind) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Kind: kind}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	return category
}
