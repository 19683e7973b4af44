package database

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sangkips/invowise-api/internal/config"
	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/pkg/logger"
)

// NewPostgresDB connects to the project's Postgres database
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *logger.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(),
		// the hosted pooler runs in transaction mode and rejects prepared statements
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying sql.DB")
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Infow("connected to postgres", "host", cfg.Host, "database", cfg.Name)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *logger.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.Profile{},
		&entity.Client{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	log.Info("database migrations completed")
	return nil
}

// Ping checks that the database answers within the context deadline
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
