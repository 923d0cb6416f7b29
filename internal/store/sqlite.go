package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/blossomapp/blossom/internal/model"
)

// SQLiteStore is the embedded document store. Every record lives in a
// single documents table as a JSON blob, keyed by owner, collection name,
// and document id, so all collections share one schema.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode and foreign keys, and runs any pending schema
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// DocumentCollection is a Collection backed by one logical collection of
// JSON documents in a SQLiteStore, scoped to a single owner. FetchAll
// returns documents in insertion order.
type DocumentCollection[T model.Record[T]] struct {
	s     *SQLiteStore
	owner model.Identity
	name  string
}

// NewDocumentCollection opens the named collection for the given owner.
func NewDocumentCollection[T model.Record[T]](
	s *SQLiteStore,
	owner model.Identity,
	name string,
) *DocumentCollection[T] {
	return &DocumentCollection[T]{s: s, owner: owner, name: name}
}

// FetchAll returns every document in the collection, oldest first.
func (c *DocumentCollection[T]) FetchAll(ctx context.Context) ([]T, error) {
	rows, err := c.s.db.QueryContext(ctx, `
		SELECT id, fields FROM documents
		WHERE owner_id = ? AND collection = ?
		ORDER BY seq`,
		c.owner.String(), c.name,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", c.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var id string
		var fields []byte
		if err := rows.Scan(&id, &fields); err != nil {
			return nil, fmt.Errorf("scanning %s document: %w", c.name, err)
		}

		var rec T
		if err := json.Unmarshal(fields, &rec); err != nil {
			return nil, fmt.Errorf("decoding %s document %s: %w", c.name, id, err)
		}
		rec.SetID(id)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", c.name, err)
	}

	return out, nil
}

// Insert adds a new document and returns its assigned id.
func (c *DocumentCollection[T]) Insert(ctx context.Context, rec T) (string, error) {
	id := uuid.New().String()
	stamped := rec.Clone()
	stamped.SetID(id)

	fields, err := json.Marshal(stamped)
	if err != nil {
		return "", fmt.Errorf("encoding %s document: %w", c.name, err)
	}

	_, err = c.s.db.ExecContext(ctx, `
		INSERT INTO documents (owner_id, collection, id, fields, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.owner.String(), c.name, id, string(fields), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting into %s: %w", c.name, err)
	}

	return id, nil
}

// Replace overwrites the document with the given id.
func (c *DocumentCollection[T]) Replace(ctx context.Context, id string, rec T) error {
	stamped := rec.Clone()
	stamped.SetID(id)

	fields, err := json.Marshal(stamped)
	if err != nil {
		return fmt.Errorf("encoding %s document: %w", c.name, err)
	}

	result, err := c.s.db.ExecContext(ctx, `
		UPDATE documents SET fields = ?
		WHERE owner_id = ? AND collection = ? AND id = ?`,
		string(fields), c.owner.String(), c.name, id,
	)
	if err != nil {
		return fmt.Errorf("replacing %s document %s: %w", c.name, id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%s document %s: %w", c.name, id, model.ErrNotFound)
	}
	return nil
}

// Remove deletes the document with the given id.
func (c *DocumentCollection[T]) Remove(ctx context.Context, id string) error {
	result, err := c.s.db.ExecContext(ctx, `
		DELETE FROM documents
		WHERE owner_id = ? AND collection = ? AND id = ?`,
		c.owner.String(), c.name, id,
	)
	if err != nil {
		return fmt.Errorf("removing %s document %s: %w", c.name, id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%s document %s: %w", c.name, id, model.ErrNotFound)
	}
	return nil
}

// Get returns a single document by id, or model.ErrNotFound.
func (c *DocumentCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	var fields []byte
	err := c.s.db.QueryRowContext(ctx, `
		SELECT fields FROM documents
		WHERE owner_id = ? AND collection = ? AND id = ?`,
		c.owner.String(), c.name, id,
	).Scan(&fields)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%s document %s: %w", c.name, id, model.ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("getting %s document %s: %w", c.name, id, err)
	}

	var rec T
	if err := json.Unmarshal(fields, &rec); err != nil {
		return zero, fmt.Errorf("decoding %s document %s: %w", c.name, id, err)
	}
	rec.SetID(id)
	return rec, nil
}
