package database

import (
	"context"
	"testing"

	"finance-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAccountTypes_Idempotent(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SeedAccountTypes(ctx))
	require.NoError(t, db.SeedAccountTypes(ctx))

	var names []string
	require.NoError(t, db.Model(&models.AccountType{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"bank", "card", "cash", "digital"}, names)
}

func TestSeedCategories_KeepsExisting(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()
	salary := CreateTestCategory(t, db, "Salary", models.KindIncome)

	require.NoError(t, db.SeedCategories(ctx))
	require.NoError(t, db.SeedCategories(ctx))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultCategories())), count)

	var kept models.Category
	require.NoError(t, db.Where("name = ?", "Salary").First(&kept).Error)
	assert.Equal(t, salary.ID, kept.ID)

	var expenses int64
	require.NoError(t, db.Model(&models.Category{}).Where("kind = ?", models.KindExpense).Count(&expenses).Error)
	assert.Equal(t, int64(6), expenses)
}

func TestHealthCheck(t *testing.T) {
	db := SetupTestDB(t)
	assert.NoError(t, db.HealthCheck(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, db.HealthCheck(context.Background()))
}
