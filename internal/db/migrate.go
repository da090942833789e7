package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkoch/rezeptblog/internal/models"
)

// Connect opens the database selected by the DSN (postgres URL/key-value form
// or a sqlite path) with a short retry loop for cold-started databases.
func Connect(dsn string) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is empty, check the environment configuration")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	open := func() (*gorm.DB, error) {
		if IsPostgres(dsn) {
			return gorm.Open(postgres.Open(dsn), cfg)
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	}

	var conn *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		conn, err = open()
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	return conn, nil
}

// ConnectAndMigrate connects and brings the schema up to date. With
// MIGRATIONS=1 (postgres only) SQL files under ./migrations run via
// golang-migrate; otherwise AutoMigrate keeps dev setups convenient.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	conn, err := Connect(dsn)
	if err != nil {
		return nil, err
	}

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); (v == "1" || v == "true" || v == "yes") && IsPostgres(dsn) {
		if err := runSQLMigrations(NormalizeDSN(dsn)); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(conn); err != nil {
			return nil, err
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"users", "recipes", "ratings"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	return conn, nil
}

// AutoMigrate creates/updates the three core tables. Exported so tests can
// reuse the exact production schema against in-memory sqlite.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range []interface{}{&models.User{}, &models.Recipe{}, &models.Rating{}} {
		if migErr := conn.AutoMigrate(m); migErr != nil {
			return fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
