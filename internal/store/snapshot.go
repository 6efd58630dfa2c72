package store

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/model"
	"github.com/t77yq/lifeos/internal/storage"
)

// Export returns every collection encoded for a persistence sink
func (s *Store) Export() (storage.Collections, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collections := make(storage.Collections)
	var err error

	if collections[storage.CollectionTasks], err = encodeAll(s.tasks.list(), func(t *model.Task) string { return t.ID }); err != nil {
		return nil, err
	}
	if collections[storage.CollectionPeople], err = encodeAll(s.people.list(), func(p *model.Person) string { return p.ID }); err != nil {
		return nil, err
	}
	if collections[storage.CollectionAssets], err = encodeAll(s.assets.list(), func(a *model.Asset) string { return a.ID }); err != nil {
		return nil, err
	}
	if collections[storage.CollectionShoppingItems], err = encodeAll(s.shopping.list(), func(i *model.ShoppingItem) string { return i.ID }); err != nil {
		return nil, err
	}
	if collections[storage.CollectionNotifications], err = encodeAll(s.notifications, func(n model.Notification) string { return n.ID }); err != nil {
		return nil, err
	}
	if collections[storage.CollectionActivityLog], err = encodeAll(s.activity, func(a model.ActivityLog) string { return a.ID }); err != nil {
		return nil, err
	}
	if collections[storage.CollectionSuggestions], err = encodeAll(s.suggestions, func(sg model.Suggestion) string { return sg.ID }); err != nil {
		return nil, err
	}

	return collections, nil
}

// Restore replaces the store contents with previously exported collections.
// Collections absent from the input are left empty.
func (s *Store) Restore(collections storage.Collections) error {
	for name := range collections {
		switch name {
		case storage.CollectionTasks, storage.CollectionPeople, storage.CollectionAssets,
			storage.CollectionShoppingItems, storage.CollectionNotifications,
			storage.CollectionActivityLog, storage.CollectionSuggestions:
		default:
			return fmt.Errorf("failed to restore %q: %w", name, ErrUnknownCollection)
		}
	}

	tasks, err := decodeAll[model.Task](collections[storage.CollectionTasks])
	if err != nil {
		return err
	}
	people, err := decodeAll[model.Person](collections[storage.CollectionPeople])
	if err != nil {
		return err
	}
	assets, err := decodeAll[model.Asset](collections[storage.CollectionAssets])
	if err != nil {
		return err
	}
	items, err := decodeAll[model.ShoppingItem](collections[storage.CollectionShoppingItems])
	if err != nil {
		return err
	}
	notifications, err := decodeAll[model.Notification](collections[storage.CollectionNotifications])
	if err != nil {
		return err
	}
	activity, err := decodeAll[model.ActivityLog](collections[storage.CollectionActivityLog])
	if err != nil {
		return err
	}
	suggestions, err := decodeAll[model.Suggestion](collections[storage.CollectionSuggestions])
	if err != nil {
		return err
	}

	s.lock()
	defer s.unlock()

	s.tasks.reset()
	for i := range tasks {
		s.tasks.put(tasks[i].ID, &tasks[i])
	}
	s.people.reset()
	for i := range people {
		s.people.put(people[i].ID, &people[i])
	}
	s.assets.reset()
	for i := range assets {
		s.assets.put(assets[i].ID, &assets[i])
	}
	s.shopping.reset()
	for i := range items {
		s.shopping.put(items[i].ID, &items[i])
	}
	s.notifications = notifications
	s.activity = activity
	s.suggestions = suggestions
	s.version++

	s.logger.Info("Restored snapshot",
		zap.Int("tasks", len(tasks)),
		zap.Int("people", len(people)),
		zap.Int("assets", len(assets)),
		zap.Int("shopping_items", len(items)))
	return nil
}

func encodeAll[T any](items []T, id func(T) string) ([]storage.Document, error) {
	docs := make([]storage.Document, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", id(item), err)
		}
		docs = append(docs, storage.Document{ID: id(item), Data: data})
	}
	return docs, nil
}

func decodeAll[T any](docs []storage.Document) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc.Data, &item); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", doc.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}
