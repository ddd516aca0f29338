package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB opens the database and migrates it to the latest schema.
// A local SQLite file is used when primaryUrl is empty, otherwise the Turso
// primary is used. The returned teardown closes the connection.
func InitDB(dbPath string, primaryUrl string, authToken string, migrationsDir string) (*sql.DB, func(), error) {
	var (
		db  *sql.DB
		err error
	)
	if primaryUrl == "" {
		log.Info("Initializing local SQLite database", "path", dbPath)
		db, err = openLocal(dbPath)
	} else {
		log.Info("Initializing Turso database", "url", primaryUrl)
		db, err = sql.Open("libsql", primaryUrl+"?authToken="+authToken)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db, migrationsDir); err != nil {
		db.Close()
		return nil, nil, err
	}

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	log.Info("Database initialized successfully")
	return db, teardown, nil
}

func openLocal(dbPath string) (*sql.DB, error) {
	dsn := "file:" + dbPath + "?_foreign_keys=on&_busy_timeout=5000"
	if dbPath == ":memory:" {
		dsn = ":memory:?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if dbPath == ":memory:" {
		// Every new connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB, migrationsDir string) error {
	goose.SetLogger(log.Default())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations from %s: %w", migrationsDir, err)
	}
	return nil
}
