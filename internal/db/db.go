package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

//go:embed seeds/items.yaml
var itemSeeds []byte

func Open(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	return open(dsn)
}

// OpenForTesting opens a private in-memory database with migrations and seeds
// applied. Every call returns an independent database.
func OpenForTesting() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	return open(dsn)
}

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection also keeps an in-memory
	// database alive for the lifetime of the pool.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, closeAfter(db, fmt.Errorf("failed to ping database: %w", err))
	}

	if err := runMigrations(db); err != nil {
		return nil, closeAfter(db, fmt.Errorf("failed to run migrations: %w", err))
	}

	if err := seedItems(context.Background(), db); err != nil {
		return nil, closeAfter(db, fmt.Errorf("failed to seed items: %w", err))
	}

	return db, nil
}

func closeAfter(db *sql.DB, err error) error {
	if cerr := db.Close(); cerr != nil {
		return fmt.Errorf("%w (also failed to close db: %v)", err, cerr)
	}
	return err
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// The migrator is not closed: closing the driver would close db.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

type seedFile struct {
	Items []struct {
		Title string `yaml:"title"`
		Image string `yaml:"image"`
	} `yaml:"items"`
}

// seedItems inserts the item catalog. Existing titles are left untouched so
// the seed can run on every start.
func seedItems(ctx context.Context, db *sql.DB) error {
	var seeds seedFile
	if err := yaml.Unmarshal(itemSeeds, &seeds); err != nil {
		return fmt.Errorf("failed to parse item seeds: %w", err)
	}

	for _, item := range seeds.Items {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO items (title, image) VALUES (?, ?)
			ON CONFLICT(title) DO NOTHING
		`, item.Title, item.Image); err != nil {
			return fmt.Errorf("failed to insert item %q: %w", item.Title, err)
		}
	}
	return nil
}
