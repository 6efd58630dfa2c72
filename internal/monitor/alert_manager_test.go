package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/t77yq/lifeos/internal/model"
	"github.com/t77yq/lifeos/internal/store"
	"github.com/t77yq/lifeos/internal/testutil"
)

func TestAlertManager_AddRule(t *testing.T) {
	// Setup
	manager := NewAlertManager(store.New(zaptest.NewLogger(t)), zaptest.NewLogger(t))

	t.Run("assigns id and defaults", func(t *testing.T) {
		rule := &model.AlertRule{Name: "Too many errands", Metric: model.MetricNeededItems, Threshold: 10}
		require.NoError(t, manager.AddRule(rule))
		assert.NotEmpty(t, rule.ID)
		assert.Equal(t, model.NotificationAlert, rule.Type)
		assert.False(t, rule.CreatedAt.IsZero())
		assert.Equal(t, rule.CreatedAt, rule.UpdatedAt)
	})

	t.Run("unknown metric", func(t *testing.T) {
		err := manager.AddRule(&model.AlertRule{Metric: "cpu_usage", Threshold: 1})
		assert.ErrorIs(t, err, ErrUnknownMetric)
	})

	t.Run("non positive threshold", func(t *testing.T) {
		err := manager.AddRule(&model.AlertRule{Metric: model.MetricOverdueTasks})
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})
}

func TestAlertManager_UpdateRule(t *testing.T) {
	// Setup
	manager := NewAlertManager(store.New(zaptest.NewLogger(t)), zaptest.NewLogger(t))
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return start }

	rule := &model.AlertRule{ID: "errands", Metric: model.MetricNeededItems, Threshold: 10}
	require.NoError(t, manager.AddRule(rule))

	manager.now = func() time.Time { return start.Add(time.Hour) }
	require.NoError(t, manager.UpdateRule(&model.AlertRule{ID: "errands", Metric: model.MetricNeededItems, Threshold: 20}))

	updated, err := manager.GetRule("errands")
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Threshold)
	assert.Equal(t, start, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	err = manager.UpdateRule(&model.AlertRule{ID: "missing", Metric: model.MetricNeededItems, Threshold: 1})
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestAlertManager_DeleteRule(t *testing.T) {
	// Setup
	manager := NewAlertManager(store.New(zaptest.NewLogger(t)), zaptest.NewLogger(t))
	for _, rule := range DefaultRules(5, 3) {
		require.NoError(t, manager.AddRule(rule))
	}
	require.Len(t, manager.Rules(), 2)

	require.NoError(t, manager.DeleteRule(RuleSyncFailures))

	_, err := manager.GetRule(RuleSyncFailures)
	assert.ErrorIs(t, err, ErrRuleNotFound)
	assert.ErrorIs(t, manager.DeleteRule(RuleSyncFailures), ErrRuleNotFound)
	assert.Len(t, manager.Rules(), 1)
}

func TestDefaultRules(t *testing.T) {
	assert.Len(t, DefaultRules(5, 3), 2)
	assert.Len(t, DefaultRules(0, 3), 1)
	assert.Empty(t, DefaultRules(0, 0))
}

func TestAlertManager_Evaluate(t *testing.T) {
	// Setup
	clock := testutil.NewClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	s := store.New(zaptest.NewLogger(t), store.WithClock(clock.Now))
	manager := NewAlertManager(s, zaptest.NewLogger(t))
	for _, rule := range DefaultRules(2, 3) {
		require.NoError(t, manager.AddRule(rule))
	}

	t.Run("below threshold", func(t *testing.T) {
		raised := manager.Evaluate(model.HouseholdStats{CollectedAt: clock.Now(), OverdueTasks: 1, SyncFailures: 2})
		assert.Zero(t, raised)
		assert.Empty(t, s.Notifications())
	})

	t.Run("at threshold", func(t *testing.T) {
		raised := manager.Evaluate(model.HouseholdStats{CollectedAt: clock.Now(), OverdueTasks: 2, SyncFailures: 2})
		assert.Equal(t, 1, raised)

		notifications := s.Notifications()
		require.Len(t, notifications, 1)
		assert.Equal(t, AlertID(RuleOverdueTasks), notifications[0].ID)
		assert.Equal(t, model.NotificationAlert, notifications[0].Type)
		assert.True(t, notifications[0].ActionRequired)
	})

	t.Run("raised once while in the feed", func(t *testing.T) {
		raised := manager.Evaluate(model.HouseholdStats{CollectedAt: clock.Now(), OverdueTasks: 7})
		assert.Zero(t, raised)
		assert.Len(t, s.Notifications(), 1)
	})

	t.Run("raised again after dismissal", func(t *testing.T) {
		require.True(t, s.DeleteNotification(AlertID(RuleOverdueTasks)))
		raised := manager.Evaluate(model.HouseholdStats{CollectedAt: clock.Now(), OverdueTasks: 7, SyncFailures: 3})
		assert.Equal(t, 2, raised)
	})
}

func TestAlertManager_EndToEnd(t *testing.T) {
	// Setup
	clock := testutil.NewClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	s := store.New(zaptest.NewLogger(t), store.WithClock(clock.Now))
	collector := NewStatsCollector(s, zaptest.NewLogger(t), WithClock(clock.Now))
	manager := NewAlertManager(s, zaptest.NewLogger(t))
	for _, rule := range DefaultRules(2, 0) {
		require.NoError(t, manager.AddRule(rule))
	}

	due := testutil.Date(2024, 6, 3)
	s.AddTask(model.Task{Title: "Renew passport", DueDate: &due})
	s.AddTask(model.Task{Title: "Book dentist", DueDate: &due})

	assert.Zero(t, manager.Evaluate(collector.Collect()))

	clock.Advance(72 * time.Hour)
	assert.Equal(t, 1, manager.Evaluate(collector.Collect()))

	_, found := findNotification(s.Notifications(), AlertID(RuleOverdueTasks))
	assert.True(t, found)
}

func findNotification(feed []model.Notification, id string) (model.Notification, bool) {
	for _, n := range feed {
		if n.ID == id {
			return n, true
		}
	}
	return model.Notification{}, false
}
