package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteSink implements Sink using SQLite
type SQLiteSink struct {
	logger *zap.Logger
	db     *sql.DB
}

// NewSQLiteSink opens, or creates, the SQLite database at dbPath
func NewSQLiteSink(logger *zap.Logger, dbPath string) (*SQLiteSink, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// database/sql pools connections; a single one keeps SQLite writes serialized
	db.SetMaxOpenConns(1)

	sink := &SQLiteSink{
		logger: logger.Named("sqlite-sink"),
		db:     db,
	}

	if err := sink.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return sink, nil
}

// initialize creates the necessary tables if they don't exist
func (s *SQLiteSink) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (collection, id)
		);
		CREATE INDEX IF NOT EXISTS idx_documents_position ON documents(collection, position);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

// SaveAll implements Sink.SaveAll
func (s *SQLiteSink) SaveAll(ctx context.Context, collections Collections) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (collection, id, position, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			position = excluded.position,
			data = excluded.data,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	total := 0
	for name, docs := range collections {
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", name); err != nil {
			return fmt.Errorf("failed to clear collection %s: %w", name, err)
		}
		for i, doc := range docs {
			if _, err := stmt.ExecContext(ctx, name, doc.ID, i, string(doc.Data), now); err != nil {
				return fmt.Errorf("failed to store document %s/%s: %w", name, doc.ID, err)
			}
		}
		total += len(docs)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("Saved collections",
		zap.Int("collections", len(collections)),
		zap.Int("documents", total))
	return nil
}

// LoadAll implements Sink.LoadAll
func (s *SQLiteSink) LoadAll(ctx context.Context) (Collections, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT collection, id, data
		FROM documents
		ORDER BY collection, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	defer rows.Close()

	collections := make(Collections)
	for rows.Next() {
		var name, id, data string
		if err := rows.Scan(&name, &id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		collections[name] = append(collections[name], Document{ID: id, Data: json.RawMessage(data)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return collections, nil
}

// Count returns the number of documents stored in a collection
func (s *SQLiteSink) Count(ctx context.Context, collection string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE collection = ?", collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
