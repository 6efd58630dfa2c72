package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/lifecycle"
	"github.com/t77yq/lifeos/internal/model"
)

// Asset returns a copy of the asset with the given id
func (s *Store) Asset(id string) (model.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets.get(id)
	if !ok {
		return model.Asset{}, false
	}
	return a.Clone(), true
}

// Assets returns copies of all assets in insertion order
func (s *Store) Assets() []model.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assets := make([]model.Asset, 0, len(s.assets.order))
	for _, a := range s.assets.list() {
		assets = append(assets, a.Clone())
	}
	return assets
}

// AddAsset stores a new asset
func (s *Store) AddAsset(asset model.Asset) model.Asset {
	s.lock()
	defer s.unlock()

	stored := asset.Clone()
	if stored.ID == "" {
		stored.ID = s.newID()
	}
	now := s.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.assets.put(stored.ID, &stored)

	s.logActivity("added", entityAsset, stored.ID, stored.Name, "")
	s.refreshNotifications()
	return stored.Clone()
}

// UpdateAsset replaces the asset with the same id. A missing id is a no-op.
func (s *Store) UpdateAsset(asset model.Asset) bool {
	s.lock()
	defer s.unlock()

	existing, ok := s.assets.get(asset.ID)
	if !ok {
		return false
	}
	updated := asset.Clone()
	if updated.CreatedAt.IsZero() {
		updated.CreatedAt = existing.CreatedAt
	}
	updated.UpdatedAt = s.now()
	s.assets.put(updated.ID, &updated)

	s.logActivity("updated", entityAsset, updated.ID, updated.Name, "")
	s.refreshNotifications()
	return true
}

// DeleteAsset removes an asset. Tasks linked to it keep their dangling link.
func (s *Store) DeleteAsset(id string) bool {
	s.lock()
	defer s.unlock()

	a, ok := s.assets.get(id)
	if !ok {
		return false
	}
	s.assets.remove(id)

	s.logActivity("deleted", entityAsset, id, a.Name, "")
	s.refreshNotifications()
	return true
}

// UpdateAssetUsage records a new counter reading for an asset. The reading is
// stored as given, even when lower than the previous one. Every usage
// recurring task watching the asset gets its check date refreshed, and a
// pending task whose threshold has been reached is escalated to urgent with
// one alert. A baseline that has already been alerted is not alerted again.
func (s *Store) UpdateAssetUsage(assetID string, reading float64) bool {
	s.lock()
	defer s.unlock()

	asset, ok := s.assets.get(assetID)
	if !ok {
		return false
	}
	now := s.now()

	if asset.CurrentUsage != nil && reading < *asset.CurrentUsage {
		s.logger.Warn("Usage reading went backwards",
			zap.String("asset_id", assetID),
			zap.Float64("previous", *asset.CurrentUsage),
			zap.Float64("reading", reading))
	}
	asset.CurrentUsage = &reading
	asset.UpdatedAt = now
	s.logActivity("updated usage", entityAsset, asset.ID, asset.Name,
		fmt.Sprintf("%g %s", reading, asset.UsageUnit))

	for _, task := range s.tasks.list() {
		if !lifecycle.WatchesAsset(task, assetID) {
			continue
		}
		checked := now
		task.Recurrence.LastUsageCheckDate = &checked

		if !lifecycle.ShouldEscalate(task, reading) {
			continue
		}
		task.Urgency = model.LevelUrgent
		task.UpdatedAt = now
		lifecycle.MarkAlerted(task.Recurrence)
		s.raiseNotification(lifecycle.UsageAlert(task, asset, reading, now))
		s.logActivity("escalated", entityTask, task.ID, task.Title, "usage threshold reached")

		s.logger.Info("Usage threshold reached",
			zap.String("task_id", task.ID),
			zap.String("asset_id", assetID),
			zap.Float64("reading", reading))
	}

	s.refreshNotifications()
	return true
}
