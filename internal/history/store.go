// Package history persists planned trips so past places can seed new
// sessions.
package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Trip is one recorded plan.
type Trip struct {
	ID        int64
	Start     string
	End       string
	Mode      string
	MapFile   string
	DataFile  string
	PlannedAt time.Time
}

// Store is the sqlite-backed trip history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and brings the schema
// up to date.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Record stores a successfully planned trip and returns its id.
func (s *Store) Record(t Trip) (int64, error) {
	if t.PlannedAt.IsZero() {
		t.PlannedAt = time.Now().UTC().Truncate(time.Second)
	}
	res, err := s.db.Exec(
		`INSERT INTO trips (start_point, end_point, mode, map_file, data_file, planned_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Start, t.End, t.Mode, t.MapFile, t.DataFile, t.PlannedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("record trip: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the newest trips, most recent first.
func (s *Store) Recent(limit int) ([]Trip, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, start_point, end_point, mode, map_file, data_file, planned_at
		 FROM trips ORDER BY planned_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	var out []Trip
	for rows.Next() {
		var t Trip
		var planned string
		if err := rows.Scan(&t.ID, &t.Start, &t.End, &t.Mode, &t.MapFile, &t.DataFile, &planned); err != nil {
			return nil, err
		}
		t.PlannedAt, _ = time.Parse(time.RFC3339, planned)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Places returns distinct start and end points, most recently used first.
func (s *Store) Places(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT place FROM (
			SELECT start_point AS place, MAX(planned_at) AS last_used FROM trips GROUP BY start_point
			UNION
			SELECT end_point AS place, MAX(planned_at) AS last_used FROM trips GROUP BY end_point
		 ) GROUP BY place ORDER BY MAX(last_used) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
