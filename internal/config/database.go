package config

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-parser/internal/models"
)

// InitDatabase opens the run-audit database. It returns (nil, nil) when run
// tracking is disabled.
func InitDatabase(cfg *Config) (*gorm.DB, error) {
	if !cfg.Database.Enabled {
		log.Info().Msg("Run tracking disabled, skipping database")
		return nil, nil
	}

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Database connected")

	if err := db.AutoMigrate(&models.ParseRun{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Msg("Database migration completed")

	return db, nil
}
