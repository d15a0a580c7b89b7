package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tasktracker/models"
	"tasktracker/utilities"
)

const (
	maxIdleConns    = 10
	maxOpenConns    = 30
	connMaxLifetime = 30 * time.Minute
)

// Open connects to the store named by databaseURL and verifies the
// connection. postgres:// and postgresql:// URLs use PostgreSQL through
// lib/pq; sqlite:// URLs and file: DSNs use SQLite.
func Open(databaseURL string) (*gorm.DB, error) {
	driver, dsn, err := parseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		utilities.LogError(err, "Error opening database connection")
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	case "sqlite3":
		// SQLite allows one writer at a time.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		dialector = sqlite.New(sqlite.Config{DriverName: driver, Conn: sqlDB})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		Logger:  newGormLogger(),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("init orm: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		utilities.LogError(err, "Error connecting to database")
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == "sqlite3" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	utilities.LogInfo("Connected to %s", driver)
	return db, nil
}

// CreateTables creates the tasks table and its indexes if they are missing.
func CreateTables(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Pinger probes store connectivity for the health endpoint.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) PingContext(ctx context.Context) error {
	return p.db.WithContext(ctx).Exec("SELECT 1").Error
}

func parseURL(databaseURL string) (driver, dsn string, err error) {
	raw := strings.TrimSpace(databaseURL)
	if strings.HasPrefix(raw, "file:") {
		return "sqlite3", raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid database url: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return "postgres", raw, nil
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(raw, u.Scheme+"://")
		if path == "" {
			return "", "", fmt.Errorf("invalid database url %q: missing sqlite path", raw)
		}
		return "sqlite3", path, nil
	default:
		return "", "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
}

func newGormLogger() logger.Interface {
	return logger.New(
		log.New(utilities.ErrorLogger.Writer(), "[SQL] ", log.Ldate|log.Ltime|log.Lmicroseconds),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
