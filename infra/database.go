// Package infra wires the persistence concerns: the database
// connection, the GORM repositories, and schema migration.
package infra

import (
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	accountmodel "github.com/pennywiseapp/pennywise/infra/repository/account"
	budgetmodel "github.com/pennywiseapp/pennywise/infra/repository/budget"
	categorymodel "github.com/pennywiseapp/pennywise/infra/repository/category"
	notificationmodel "github.com/pennywiseapp/pennywise/infra/repository/notification"
	transactionmodel "github.com/pennywiseapp/pennywise/infra/repository/transaction"
	transfermodel "github.com/pennywiseapp/pennywise/infra/repository/transfer"
	"github.com/pennywiseapp/pennywise/pkg/config"
)

// NewDBConnection opens the Postgres connection with pool settings
// tuned for a small request-scoped workload.
func NewDBConnection(cnf config.DBConfig, appEnv string) (*gorm.DB, error) {
	if cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	connection, err := gorm.Open(postgres.Open(cnf.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// Migrate creates or updates the schema for all persisted entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountmodel.Account{},
		&categorymodel.Category{},
		&transactionmodel.Transaction{},
		&transfermodel.Transfer{},
		&budgetmodel.Budget{},
		&notificationmodel.Notification{},
	)
}
