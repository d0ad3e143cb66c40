package receit

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Talal-Sharaa/ReceIT/internal/model"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLiteStorage satisfies the same Storage contract as FileStorage over a
// single SQLite database. Dates are stored as ISO date text so the
// day-granularity round-trip is exact.
type SQLiteStorage struct {
	db      *sql.DB
	ownerID string
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStorage{db: db, ownerID: "default"}, nil
}

func (s *SQLiteStorage) ForOwner(ownerID string) *SQLiteStorage {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		ownerID = "default"
	}
	return &SQLiteStorage{db: s.db, ownerID: ownerID}
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Load() ([]model.Receit, bool, error) {
	var found int
	err := s.db.QueryRow("SELECT COUNT(1) FROM receit_owners WHERE owner_id = ?", s.ownerID).Scan(&found)
	if err != nil {
		return nil, false, err
	}
	if found == 0 {
		return nil, false, nil
	}

	rows, err := s.db.Query(`
		SELECT id, title, description, priority, category, effort,
		       start_date, due_date, status, linked, notes, created_at, updated_at
		FROM receits WHERE owner_id = ? ORDER BY position
	`, s.ownerID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	out := []model.Receit{}
	for rows.Next() {
		var (
			r                    model.Receit
			start, due           string
			linked, notes        string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Priority, &r.Category, &r.Effort,
			&start, &due, &r.Status, &linked, &notes, &createdAt, &updatedAt); err != nil {
			return nil, false, err
		}
		r.OwnerID = s.ownerID
		if r.StartDate, err = model.ParseDate(start); err != nil {
			return nil, false, fmt.Errorf("receit %s: %w", r.ID, err)
		}
		if r.DueDate, err = model.ParseDate(due); err != nil {
			return nil, false, fmt.Errorf("receit %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(linked), &r.LinkedReceits); err != nil {
			return nil, false, fmt.Errorf("receit %s linked: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(notes), &r.Notes); err != nil {
			return nil, false, fmt.Errorf("receit %s notes: %w", r.ID, err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		r.Normalize()
		out = append(out, r)
	}
	return out, true, rows.Err()
}

func (s *SQLiteStorage) Save(records []model.Receit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM receits WHERE owner_id = ?", s.ownerID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO receits (owner_id, id, position, title, description, priority, category,
		                     effort, start_date, due_date, status, linked, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		r.Normalize()
		linked, err := json.Marshal(r.LinkedReceits)
		if err != nil {
			return err
		}
		notes, err := json.Marshal(r.Notes)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(s.ownerID, r.ID, i, r.Title, r.Description, string(r.Priority), r.Category,
			r.Effort, r.StartDate.String(), r.DueDate.String(), string(r.Status),
			string(linked), string(notes),
			r.CreatedAt.Format(time.RFC3339Nano), r.UpdatedAt.Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO receit_owners (owner_id, saved_at) VALUES (?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET saved_at = excluded.saved_at
	`, s.ownerID, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return tx.Commit()
}
