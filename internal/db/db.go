package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pokerlog/config"
	"pokerlog/internal/db/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLitePath = "data/poker_games.db"

// InitDB opens the database described by cfg. Postgres is used in production;
// sqlite (pure Go, no cgo) is the default for a single host.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.Driver {
	case "postgres":
		conn, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		slog.Info("Connected to the database", "driver", cfg.Driver, "host", cfg.Host, "dbname", cfg.DBName)
		return conn, nil
	case "sqlite", "":
		dsn, err := sqliteDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		conn, err := gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %s: %w", dsn, err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		// One connection serialises writers and keeps :memory: databases alive.
		sqlDB.SetMaxOpenConns(1)
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		slog.Info("Connected to the database", "driver", "sqlite", "dsn", dsn)
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN normalises the accepted sqlite DSN forms and makes sure the parent
// directory of a file database exists.
func sqliteDSN(dsn string) (string, error) {
	if dsn == "" {
		dsn = "file:" + filepath.ToSlash(defaultSQLitePath)
	}
	if strings.HasPrefix(dsn, "sqlite:///") {
		dsn = "file:" + strings.TrimPrefix(dsn, "sqlite:///")
	}
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return dsn, nil
	}

	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return dsn, nil
}

// Migrate creates or updates the games, players and game_players tables.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.Player{}, &models.Game{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("Database migration completed")
	return nil
}
