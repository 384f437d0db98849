package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/italianshoes/catalog/app/config"
)

// Open connects gorm to Postgres through the configured database/sql driver.
// The "postgres" driver name needs lib/pq registered by the caller.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: cfg.DBDriver,
		DSN:        cfg.DSN(),
	}), &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(log, logger.Warn, DefaultSlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("connected to database",
		zap.String("driver", cfg.DBDriver),
		zap.String("host", cfg.PostgresHost),
		zap.String("database", cfg.PostgresDB))
	return db, nil
}
