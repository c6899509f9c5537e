package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Opens a database from a URL: "sqlite://<path>", "sqlite=<path>", "postgres://..." (or "postgresql://"), or "postgres=<dsn>".
func SetupDatabase(dburl string, maxConnections int) (*gorm.DB, error) {
	var dial gorm.Dialector
	isSqlite := false
	openConns := maxConnections

	switch {
	case strings.HasPrefix(dburl, "sqlite://"), strings.HasPrefix(dburl, "sqlite="):
		sqlitePath := strings.TrimPrefix(strings.TrimPrefix(dburl, "sqlite://"), "sqlite=")
		// unless this is ":memory:", make sure the directory exists for a new database file
		if !strings.Contains(sqlitePath, ":memory:") {
			if err := os.MkdirAll(filepath.Dir(sqlitePath), os.ModePerm); err != nil {
				return nil, err
			}
		}
		dial = sqlite.Open(sqlitePath)
		openConns = 1
		isSqlite = true
	case strings.HasPrefix(dburl, "postgresql://"), strings.HasPrefix(dburl, "postgres://"):
		dial = postgres.Open(dburl)
	case strings.HasPrefix(dburl, "postgres="):
		dial = postgres.Open(strings.TrimPrefix(dburl, "postgres="))
	default:
		return nil, fmt.Errorf("unsupported or unrecognized database URL scheme")
	}

	db, err := gorm.Open(dial, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 slogGorm.New(),
	})
	if err != nil {
		return nil, err
	}

	sqldb, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxIdleConns(80)
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
