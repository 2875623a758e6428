package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/rental-marketplace/internal/config"
)

// Open connects to MySQL for the mysql storage backend and verifies the
// connection.
func Open(cfg config.StoreConfig) (*sql.DB, error) {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	// parseTime=true -> TIMESTAMP -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Every store call reads or writes one row; a small pool is plenty.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
