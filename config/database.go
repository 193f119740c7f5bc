package config

import (
	"embed"
	"errors"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ConnectDB opens the SQLite database named by DATABASE_PATH, applies
// migrations and seeds default data. Exits the process on failure since
// nothing works without the database.
func ConnectDB() *sqlx.DB {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "sqlite.db"
	}

	db, err := Open(path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Printf("Database ready at %s", path)
	return db
}

// Open connects to the SQLite file at path and brings the schema up to
// date. Foreign keys are enforced so image rows cannot outlive their
// property without an explicit cascade.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers internally; a single connection avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}

	driver, err := sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
