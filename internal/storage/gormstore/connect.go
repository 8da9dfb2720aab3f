package gormstore

import (
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pucktrack/recorder/internal/config"
)

// NewSQLite opens a local SQLite review database.
func NewSQLite(cfg config.SQLiteConfig, log *slog.Logger) (*Backend, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return newBackend(db, log), nil
}

// NewPostgres connects to the shared Postgres review database, falling back
// to the local SQLite file when the connection cannot be established or
// validated.
func NewPostgres(cfg config.DBConfig, fallback config.SQLiteConfig, log *slog.Logger) (*Backend, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Warn("postgres connection failed, falling back to sqlite", "error", err)
		return NewSQLite(fallback, log)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Warn("postgres ping failed, falling back to sqlite", "error", err)
		return NewSQLite(fallback, log)
	}
	sqlDB.SetMaxOpenConns(10)

	return newBackend(db, log), nil
}
