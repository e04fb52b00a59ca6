package osfapi

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"regdraft/internal/log"
	"regdraft/internal/registration"
)

// storeSchema is the dev server's single-table draft store.
const storeSchema = `
CREATE TABLE IF NOT EXISTS drafts (
	id TEXT PRIMARY KEY,
	schema_id TEXT NOT NULL,
	responses TEXT NOT NULL DEFAULT '{}',
	submitted INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL
);`

// Store persists draft registrations for the mock server so the dev server
// survives restarts. Tests use MemoryStore.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed initializes) a draft store at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening draft store: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing draft store: %w", err)
	}
	log.Info(log.CatStore, "draft store ready", "path", path)
	return &Store{db: db}, nil
}

// MemoryStore opens an in-memory draft store.
func MemoryStore() (*Store, error) {
	return OpenStore(":memory:")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertDraft inserts or replaces a draft record.
func (s *Store) UpsertDraft(rec registration.DraftRecord) error {
	responses, err := json.Marshal(rec.RegistrationResponses)
	if err != nil {
		return fmt.Errorf("encoding responses: %w", err)
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	_, err = s.db.Exec(
		`INSERT INTO drafts (id, schema_id, responses, submitted, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			schema_id = excluded.schema_id,
			responses = excluded.responses,
			submitted = excluded.submitted,
			updated_at = excluded.updated_at`,
		rec.ID, rec.SchemaID, string(responses), rec.Submitted, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting draft %s: %w", rec.ID, err)
	}
	log.Debug(log.CatStore, "draft saved", "id", rec.ID, "submitted", rec.Submitted)
	return nil
}

// GetDraft fetches a draft record by ID. Returns sql.ErrNoRows when absent.
func (s *Store) GetDraft(id string) (registration.DraftRecord, error) {
	var (
		rec       registration.DraftRecord
		responses string
	)
	err := s.db.QueryRow(
		`SELECT id, schema_id, responses, submitted, updated_at FROM drafts WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.SchemaID, &responses, &rec.Submitted, &rec.UpdatedAt)
	if err != nil {
		return registration.DraftRecord{}, err
	}

	if err := json.Unmarshal([]byte(responses), &rec.RegistrationResponses); err != nil {
		return registration.DraftRecord{}, fmt.Errorf("decoding responses for %s: %w", id, err)
	}
	return rec, nil
}

// ListDrafts returns all stored drafts ordered by last update, newest first.
func (s *Store) ListDrafts() ([]registration.DraftRecord, error) {
	rows, err := s.db.Query(`SELECT id, schema_id, responses, submitted, updated_at FROM drafts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []registration.DraftRecord
	for rows.Next() {
		var (
			rec       registration.DraftRecord
			responses string
		)
		if err := rows.Scan(&rec.ID, &rec.SchemaID, &responses, &rec.Submitted, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(responses), &rec.RegistrationResponses); err != nil {
			return nil, fmt.Errorf("decoding responses for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
