package storage

import (
	"context"
	"encoding/json"
)

// Collection names used by the store snapshot
const (
	CollectionTasks         = "tasks"
	CollectionPeople        = "people"
	CollectionAssets        = "assets"
	CollectionShoppingItems = "shopping_items"
	CollectionNotifications = "notifications"
	CollectionActivityLog   = "activity_log"
	CollectionSuggestions   = "suggestions"
)

// Document is one persisted entity, stored as JSON under a stable id
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Collections maps a collection name to its documents in display order
type Collections map[string][]Document

// Sink persists store snapshots. SaveAll replaces each given collection
// wholesale, last write wins; collections not named are left untouched.
type Sink interface {
	// SaveAll stores the given collections
	SaveAll(ctx context.Context, collections Collections) error

	// LoadAll returns every stored collection
	LoadAll(ctx context.Context) (Collections, error)

	// Close releases the underlying resources
	Close() error
}
