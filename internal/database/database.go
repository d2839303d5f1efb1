package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/datacat/asset-service/internal/models"
)

// Open dials the persistent store and returns a gorm handle. The dialector is
// picked from the DSN: "sqlite://<path>" opens sqlite (single connection,
// WAL), anything else is passed to the postgres driver.
func Open(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	openConns := 40
	isSqlite := false

	if strings.HasPrefix(dsn, "sqlite://") {
		dial = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
		openConns = 1
		isSqlite = true
	} else {
		dial = postgres.Open(dsn)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqldb, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxIdleConns(10)
	sqldb.SetMaxOpenConns(openConns)
	sqldb.SetConnMaxIdleTime(time.Hour)

	if isSqlite {
		if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
			return nil, err
		}
		if err := db.Exec("PRAGMA synchronous=normal;").Error; err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Connect opens the store with retry/backoff to tolerate startup races
// against a database container that is still coming up.
func Connect(ctx context.Context, dsn string, timeout time.Duration) (*gorm.DB, error) {
	const maxAttempts = 5
	backoff := time.Second

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err = Open(dsn)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, timeout)
			sqldb, derr := db.DB()
			if derr == nil {
				err = sqldb.PingContext(pingCtx)
			} else {
				err = derr
			}
			cancel()
			if err == nil {
				return db, nil
			}
		}
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("connect database after %d attempts: %w", maxAttempts, err)
}

// Migrate establishes the assets schema. A failure here is a fatal startup
// condition for the caller.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Asset{}); err != nil {
		return fmt.Errorf("migrate assets table: %w", err)
	}
	return nil
}
