package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/swapify/swapify-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectLogDB opens the Postgres database that receives system_logs and
// migrates its single table.
func ConnectLogDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to log database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&models.SystemLog{}); err != nil {
		return nil, fmt.Errorf("migrate system_logs: %w", err)
	}

	slog.Info("log database connected")
	return db, nil
}

// CloseLogDB releases the underlying connection pool.
func CloseLogDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
