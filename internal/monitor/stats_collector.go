package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/model"
)

// HouseholdSource is the state stats are collected from
type HouseholdSource interface {
	Tasks() []model.Task
	UnreadNotifications() []model.Notification
	PendingSuggestions() []model.Suggestion
	ShoppingItems() []model.ShoppingItem
}

// SyncStatus reports consecutive failed snapshot pushes
type SyncStatus interface {
	Failures() int
}

// StatsPublisher receives every collected sample
type StatsPublisher interface {
	StatsCollected(stats model.HouseholdStats)
}

// Option configures a StatsCollector
type Option func(*StatsCollector)

// WithSyncStatus includes sync failures in collected stats
func WithSyncStatus(status SyncStatus) Option {
	return func(c *StatsCollector) { c.syncStatus = status }
}

// WithPublisher forwards collected stats to publisher
func WithPublisher(publisher StatsPublisher) Option {
	return func(c *StatsCollector) { c.publisher = publisher }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *StatsCollector) { c.now = now }
}

// StatsCollector samples household state
type StatsCollector struct {
	logger     *zap.Logger
	source     HouseholdSource
	syncStatus SyncStatus
	publisher  StatsPublisher
	now        func() time.Time

	mu     sync.RWMutex
	latest *model.HouseholdStats
}

// NewStatsCollector creates a new stats collector
func NewStatsCollector(source HouseholdSource, logger *zap.Logger, opts ...Option) *StatsCollector {
	c := &StatsCollector{
		logger: logger.Named("stats-collector"),
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect takes a sample, keeps it as the latest and publishes it
func (c *StatsCollector) Collect() model.HouseholdStats {
	now := c.now()
	stats := model.HouseholdStats{
		CollectedAt:   now,
		TasksByStatus: make(map[model.TaskStatus]int),
	}

	for _, task := range c.source.Tasks() {
		stats.TasksByStatus[task.Status]++
		if task.IsOverdue(now) {
			stats.OverdueTasks++
		}
		if !task.IsCompleted() && task.Urgency == model.LevelUrgent {
			stats.UrgentTasks++
		}
	}
	for _, item := range c.source.ShoppingItems() {
		if item.Status == model.ShoppingStatusNeed {
			stats.NeededItems++
		}
	}
	stats.UnreadNotifications = len(c.source.UnreadNotifications())
	stats.PendingSuggestions = len(c.source.PendingSuggestions())
	if c.syncStatus != nil {
		stats.SyncFailures = c.syncStatus.Failures()
	}

	c.mu.Lock()
	c.latest = &stats
	c.mu.Unlock()

	if c.publisher != nil {
		c.publisher.StatsCollected(stats)
	}

	c.logger.Debug("Stats collected",
		zap.Int("overdue_tasks", stats.OverdueTasks),
		zap.Int("urgent_tasks", stats.UrgentTasks),
		zap.Int("unread_notifications", stats.UnreadNotifications),
		zap.Int("sync_failures", stats.SyncFailures))

	return stats
}

// Latest returns the most recent sample, if any
func (c *StatsCollector) Latest() (model.HouseholdStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.latest == nil {
		return model.HouseholdStats{}, false
	}
	return *c.latest, true
}
