package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/planner/internal/model"
	"github.com/Makepad-fr/planner/internal/store"
)

// Store keeps items in a SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the database at path.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := initFoodTable(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initFoodTable(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS foods (
		id TEXT PRIMARY KEY,
		food TEXT NOT NULL UNIQUE,
		eaten INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create foods table: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, food, eaten
		FROM foods
		ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		var eaten int
		if err := rows.Scan(&it.ID, &it.Name, &eaten); err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		it.Eaten = eaten == 1
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate foods: %w", err)
	}
	return items, nil
}

func (s *Store) Append(ctx context.Context, name string) (model.Item, error) {
	it := model.Item{ID: uuid.NewString(), Name: name}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO foods (id, food, eaten, created_at) VALUES (?, ?, 0, ?) ON CONFLICT(food) DO NOTHING`,
		it.ID, it.Name, time.Now().UnixMilli())
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to insert food: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to insert food: %w", err)
	}
	if n == 0 {
		return model.Item{}, store.ErrExists
	}
	return it, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM foods WHERE food = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

var _ store.Store = (*Store)(nil)
