package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DatabaseConfigured reports whether run bookkeeping should use MySQL.
func DatabaseConfigured() bool {
	return strings.TrimSpace(os.Getenv("DB_HOST")) != ""
}

// InitDB opens the run bookkeeping database and stores it in DB.
func InitDB(log *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		GetEnvDefault("DB_PORT", "3306"),
		os.Getenv("DB_DATABASE"),
	)

	// SQL statements are only useful when chasing bookkeeping issues.
	logLevel := logger.Warn
	if strings.ToLower(os.Getenv("DEBUG_SQL")) == "true" {
		logLevel = logger.Info
	}

	cfg := &gorm.Config{
		Logger: logger.New(
			zap.NewStdLog(log.Named("gorm")),
			logger.Config{LogLevel: logLevel},
		),
	}

	db, err := gorm.Open(mysql.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	DB = db
	log.Info("database connected", zap.String("host", os.Getenv("DB_HOST")))
	return db, nil
}
