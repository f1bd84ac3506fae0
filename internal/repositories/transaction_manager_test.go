package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockedManager(t *testing.T) (TransactionManagerInterface, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewTransactionManager(db), mock
}

func TestRunInTransaction_CommitsOnSuccess(t *testing.T) {
	manager, mock := newMockedManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := manager.RunInTransaction(context.Background(), func(uow UnitOfWork) error {
		assert.NotNil(t, uow.Accounts())
		assert.NotNil(t, uow.Categories())
		assert.NotNil(t, uow.Transactions())
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	manager, mock := newMockedManager(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	boom := errors.New("posting rejected")

	err := manager.RunInTransaction(context.Background(), func(UnitOfWork) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_BeginFailure(t *testing.T) {
	manager, mock := newMockedManager(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection reset"))
	called := false

	err := manager.RunInTransaction(context.Background(), func(UnitOfWork) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_LocksTransactionRow(t *testing.T) {
	manager, mock := newMockedManager(t)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "transactions" JOIN accounts .*` + regexp.QuoteMeta(`FOR UPDATE OF "transactions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := manager.RunInTransaction(context.Background(), func(uow UnitOfWork) error {
		_, err := uow.Transactions().GetByIDForUser(context.Background(), id, userID)
		return err
	})

	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForUser_NoLockOutsideUnitOfWork(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "transactions" JOIN accounts .* LIMIT \$3$`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewTransactionRepository(db).GetByIDForUser(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
