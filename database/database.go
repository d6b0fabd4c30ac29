package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-nutrition-service/config"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"
)

// ErrPetNotFound is returned when a pet does not exist or belongs to another user
var ErrPetNotFound = errors.New("pet not found")

// Database wraps the MySQL connection used for pets, analyses and quota counters
type Database struct {
	db *sql.DB
}

// NewDatabase opens the database connection and verifies it with bounded
// exponential backoff.
func NewDatabase(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	waitInterval := 1 * time.Second
	const maxAttempts = 6
	for attempt := 1; ; attempt++ {
		err = db.Ping()
		if err == nil {
			break
		}
		if attempt == maxAttempts {
			return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxAttempts, err)
		}
		log.WithError(err).Warnf("Database connection failed, retrying in %v", waitInterval)
		time.Sleep(waitInterval)
		waitInterval *= 2
	}

	// Connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Database{db: db}, nil
}

// NewDatabaseFromConn wraps an existing connection (tests)
func NewDatabaseFromConn(db *sql.DB) *Database {
	return &Database{db: db}
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}
