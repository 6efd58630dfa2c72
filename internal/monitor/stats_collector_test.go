package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/t77yq/lifeos/internal/model"
	"github.com/t77yq/lifeos/internal/testutil"
)

type fakeHousehold struct {
	tasks         []model.Task
	notifications []model.Notification
	suggestions   []model.Suggestion
	items         []model.ShoppingItem
}

func (f *fakeHousehold) Tasks() []model.Task                       { return f.tasks }
func (f *fakeHousehold) UnreadNotifications() []model.Notification { return f.notifications }
func (f *fakeHousehold) PendingSuggestions() []model.Suggestion    { return f.suggestions }
func (f *fakeHousehold) ShoppingItems() []model.ShoppingItem       { return f.items }

type fakeSyncStatus int

func (f fakeSyncStatus) Failures() int { return int(f) }

type recordingPublisher struct {
	samples []model.HouseholdStats
}

func (r *recordingPublisher) StatsCollected(stats model.HouseholdStats) {
	r.samples = append(r.samples, stats)
}

func TestStatsCollector_Collect(t *testing.T) {
	// Setup
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	yesterday := testutil.Date(2024, 5, 31)
	tomorrow := testutil.Date(2024, 6, 2)

	source := &fakeHousehold{
		tasks: []model.Task{
			{ID: "t1", Status: model.TaskStatusPending, DueDate: &yesterday, Urgency: model.LevelUrgent},
			{ID: "t2", Status: model.TaskStatusInProgress, DueDate: &tomorrow},
			{ID: "t3", Status: model.TaskStatusCompleted, DueDate: &yesterday, Urgency: model.LevelUrgent},
			{ID: "t4", Status: model.TaskStatusPending},
		},
		notifications: []model.Notification{{ID: "n1"}, {ID: "n2"}},
		suggestions:   []model.Suggestion{{ID: "s1"}},
		items: []model.ShoppingItem{
			{ID: "i1", Status: model.ShoppingStatusNeed},
			{ID: "i2", Status: model.ShoppingStatusAcquired},
		},
	}
	publisher := &recordingPublisher{}
	collector := NewStatsCollector(source, zaptest.NewLogger(t),
		WithClock(func() time.Time { return now }),
		WithSyncStatus(fakeSyncStatus(2)),
		WithPublisher(publisher))

	_, ok := collector.Latest()
	assert.False(t, ok)

	stats := collector.Collect()

	assert.Equal(t, now, stats.CollectedAt)
	assert.Equal(t, 2, stats.TasksByStatus[model.TaskStatusPending])
	assert.Equal(t, 1, stats.TasksByStatus[model.TaskStatusInProgress])
	assert.Equal(t, 1, stats.TasksByStatus[model.TaskStatusCompleted])
	assert.Equal(t, 1, stats.OverdueTasks, "completed tasks are never overdue")
	assert.Equal(t, 1, stats.UrgentTasks)
	assert.Equal(t, 2, stats.UnreadNotifications)
	assert.Equal(t, 1, stats.PendingSuggestions)
	assert.Equal(t, 1, stats.NeededItems)
	assert.Equal(t, 2, stats.SyncFailures)

	latest, ok := collector.Latest()
	require.True(t, ok)
	assert.Equal(t, stats, latest)
	require.Len(t, publisher.samples, 1)
	assert.Equal(t, stats, publisher.samples[0])
}

func TestStatsCollector_WithoutSyncStatus(t *testing.T) {
	collector := NewStatsCollector(&fakeHousehold{}, zaptest.NewLogger(t))

	stats := collector.Collect()
	assert.Zero(t, stats.SyncFailures)
	assert.Empty(t, stats.TasksByStatus)
}
