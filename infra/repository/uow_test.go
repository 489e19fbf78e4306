package repository

import (
	"context"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pennywiseapp/pennywise/pkg/repository"
	accountrepo "github.com/pennywiseapp/pennywise/pkg/repository/account"
	budgetrepo "github.com/pennywiseapp/pennywise/pkg/repository/budget"
)

func newMockUoW(t *testing.T) (*UoW, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewUoW(db), mock
}

func TestUoWTypedAccessors(t *testing.T) {
	uow, mock := newMockUoW(t)

	// Outside a transaction the accessors bind to the base session.
	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	assert.NotNil(t, accounts)

	budgets, err := uow.BudgetRepository()
	require.NoError(t, err)
	assert.NotNil(t, budgets)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		transactions, err := txUow.TransactionRepository()
		require.NoError(t, err)
		assert.NotNil(t, transactions)

		transfers, err := txUow.TransferRepository()
		require.NoError(t, err)
		assert.NotNil(t, transfers)

		notifications, err := txUow.NotificationRepository()
		require.NoError(t, err)
		assert.NotNil(t, notifications)

		categories, err := txUow.CategoryRepository()
		require.NoError(t, err)
		assert.NotNil(t, categories)

		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoWGetRepository(t *testing.T) {
	uow, _ := newMockUoW(t)

	raw, err := uow.GetRepository(reflect.TypeOf((*accountrepo.Repository)(nil)).Elem())
	require.NoError(t, err)
	_, ok := raw.(accountrepo.Repository)
	assert.True(t, ok)

	raw, err = uow.GetRepository(reflect.TypeOf((*budgetrepo.Repository)(nil)).Elem())
	require.NoError(t, err)
	_, ok = raw.(budgetrepo.Repository)
	assert.True(t, ok)

	_, err = uow.GetRepository(reflect.TypeOf((*error)(nil)).Elem())
	assert.Error(t, err)
}

func TestUoWRollsBackOnError(t *testing.T) {
	uow, mock := newMockUoW(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := assert.AnError
	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
