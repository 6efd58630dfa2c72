package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PgSink implements Sink on PostgreSQL
type PgSink struct {
	logger *zap.Logger
	pool   *pgxpool.Pool
}

// NewPgSink connects to dsn and makes sure the documents table exists
func NewPgSink(ctx context.Context, logger *zap.Logger, dsn string) (*PgSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sink := &PgSink{
		logger: logger.Named("pg-sink"),
		pool:   pool,
	}
	if err := sink.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return sink, nil
}

// EnsureTable creates the documents table if it doesn't exist
func (s *PgSink) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			position   INTEGER NOT NULL,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_documents_position ON documents(collection, position)`)
	if err != nil {
		return fmt.Errorf("failed to create documents index: %w", err)
	}
	return nil
}

// SaveAll implements Sink.SaveAll
func (s *PgSink) SaveAll(ctx context.Context, collections Collections) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for name, docs := range collections {
		batch.Queue(`DELETE FROM documents WHERE collection = $1`, name)
		for i, doc := range docs {
			batch.Queue(`
				INSERT INTO documents (collection, id, position, data, updated_at)
				VALUES ($1, $2, $3, $4::jsonb, $5)
				ON CONFLICT (collection, id) DO UPDATE SET
					position = EXCLUDED.position,
					data = EXCLUDED.data,
					updated_at = EXCLUDED.updated_at`,
				name, doc.ID, i, string(doc.Data), now)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save collections: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("Saved collections", zap.Int("collections", len(collections)))
	return nil
}

// LoadAll implements Sink.LoadAll
func (s *PgSink) LoadAll(ctx context.Context) (Collections, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT collection, id, data::text
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

// Close closes the connection pool
func (s *PgSink) Close() error {
	s.pool.Close()
	return nil
}
