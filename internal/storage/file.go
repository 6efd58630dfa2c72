package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileSink implements Sink as a single YAML snapshot file
type FileSink struct {
	logger *zap.Logger
	path   string
	mu     sync.Mutex
}

type fileDocument struct {
	ID   string `yaml:"id"`
	Data any    `yaml:"data"`
}

type fileSnapshot struct {
	SavedAt     time.Time                 `yaml:"saved_at"`
	Collections map[string][]fileDocument `yaml:"collections"`
}

// NewFileSink creates a sink writing to path
func NewFileSink(logger *zap.Logger, path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileSink{
		logger: logger.Named("file-sink"),
		path:   path,
	}, nil
}

// SaveAll implements Sink.SaveAll
func (s *FileSink) SaveAll(ctx context.Context, collections Collections) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.read()
	if err != nil {
		return err
	}
	for name, docs := range collections {
		encoded := make([]fileDocument, 0, len(docs))
		for _, doc := range docs {
			var data any
			if err := json.Unmarshal(doc.Data, &data); err != nil {
				return fmt.Errorf("failed to decode document %s/%s: %w", name, doc.ID, err)
			}
			encoded = append(encoded, fileDocument{ID: doc.ID, Data: data})
		}
		snapshot.Collections[name] = encoded
	}
	snapshot.SavedAt = time.Now().UTC()

	content, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := atomicWrite(s.path, content); err != nil {
		return err
	}

	s.logger.Debug("Saved snapshot", zap.String("path", s.path))
	return nil
}

// LoadAll implements Sink.LoadAll. A missing file is an empty snapshot.
func (s *FileSink) LoadAll(ctx context.Context) (Collections, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.read()
	if err != nil {
		return nil, err
	}

	collections := make(Collections, len(snapshot.Collections))
	for name, docs := range snapshot.Collections {
		decoded := make([]Document, 0, len(docs))
		for _, doc := range docs {
			data, err := json.Marshal(doc.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to encode document %s/%s: %w", name, doc.ID, err)
			}
			decoded = append(decoded, Document{ID: doc.ID, Data: data})
		}
		collections[name] = decoded
	}
	return collections, nil
}

// Close implements Sink.Close
func (s *FileSink) Close() error {
	return nil
}

func (s *FileSink) read() (*fileSnapshot, error) {
	snapshot := &fileSnapshot{Collections: make(map[string][]fileDocument)}

	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return snapshot, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := yaml.Unmarshal(content, snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if snapshot.Collections == nil {
		snapshot.Collections = make(map[string][]fileDocument)
	}
	return snapshot, nil
}

// atomicWrite replaces path with content through a temp file and rename
func atomicWrite(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lifeos-tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}
	return nil
}
