package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t77yq/lifeos/internal/model"
)

func TestStore_CompleteTask_FreezesCost(t *testing.T) {
	s, _ := newTestStore(t)

	item := s.AddShoppingItem(model.ShoppingItem{Name: "Filter", TotalCost: 12})
	task := s.AddTask(model.Task{Title: "Replace furnace filter",
		Materials: []model.Material{{Name: "Filter", ShoppingItemID: item.ID}}})

	_, recurred := s.CompleteTask(task.ID)
	assert.False(t, recurred)

	got, _ := s.Task(task.ID)
	require.NotNil(t, got.CostCache)
	assert.Equal(t, 12.0, *got.CostCache)
	assert.Equal(t, start, *got.CompletedAt)

	item.TotalCost = 40
	require.True(t, s.UpdateShoppingItem(item))
	assert.Equal(t, 12.0, s.ComputeCost(task.ID))

	// an update cannot overwrite the frozen cost
	got.CostCache = nil
	require.True(t, s.UpdateTask(got))
	assert.Equal(t, 12.0, s.ComputeCost(task.ID))
}

func TestStore_CompleteTask_FreezesCostTree(t *testing.T) {
	s, _ := newTestStore(t)

	wood := s.AddShoppingItem(model.ShoppingItem{Name: "Wood", TotalCost: 30})
	screws := s.AddShoppingItem(model.ShoppingItem{Name: "Screws", TotalCost: 5})
	parent := s.AddTask(model.Task{Title: "Build shelves"})
	child, err := s.AddSubtask(parent.ID, model.Task{Title: "Cut boards",
		Materials: []model.Material{{Name: "Wood", ShoppingItemID: wood.ID}}})
	require.NoError(t, err)

	s.CompleteTask(parent.ID)
	require.Equal(t, 30.0, s.ComputeCost(parent.ID))

	t.Run("new subtask", func(t *testing.T) {
		_, err := s.AddSubtask(parent.ID, model.Task{Title: "Fix brackets",
			Materials: []model.Material{{Name: "Screws", ShoppingItemID: screws.ID}}})
		require.NoError(t, err)

		got, _ := s.Task(parent.ID)
		assert.Len(t, got.SubtaskIDs, 2)
		assert.Equal(t, 30.0, s.ComputeCost(parent.ID))
	})

	t.Run("child materials edited", func(t *testing.T) {
		got, _ := s.Task(child.ID)
		got.Materials = append(got.Materials, model.Material{Name: "Screws", ShoppingItemID: screws.ID})
		require.True(t, s.UpdateTask(got))

		assert.Equal(t, 35.0, s.ComputeCost(child.ID))
		assert.Equal(t, 30.0, s.ComputeCost(parent.ID))
	})

	t.Run("own materials edited", func(t *testing.T) {
		got, _ := s.Task(parent.ID)
		got.Materials = []model.Material{{Name: "Screws", ShoppingItemID: screws.ID}}
		require.True(t, s.UpdateTask(got))
		assert.Equal(t, 30.0, s.ComputeCost(parent.ID))
	})
}

func TestStore_UpdateTask_Completes(t *testing.T) {
	s, _ := newTestStore(t)

	filter := s.AddShoppingItem(model.ShoppingItem{Name: "Filter", TotalCost: 12})
	task := s.AddTask(model.Task{Title: "Replace filter",
		Materials:  []model.Material{{Name: "Filter", ShoppingItemID: filter.ID}},
		Recurrence: &model.RecurrenceRule{Type: model.RecurrenceTime, Interval: 3, Unit: model.UnitMonth}})

	bogus := 999.0
	task.Status = model.TaskStatusCompleted
	task.CostCache = &bogus
	require.True(t, s.UpdateTask(task))

	got, _ := s.Task(task.ID)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
	require.NotNil(t, got.CostCache)
	assert.Equal(t, 12.0, *got.CostCache)
	assert.Equal(t, start, *got.CompletedAt)
	assert.Equal(t, 1, got.Recurrence.CurrentCount)
	assert.Len(t, s.Tasks(), 2)

	t.Run("pending task ignores a supplied cost", func(t *testing.T) {
		other := s.AddTask(model.Task{Title: "Paint fence"})
		other.CostCache = &bogus
		require.True(t, s.UpdateTask(other))

		got, _ := s.Task(other.ID)
		assert.Nil(t, got.CostCache)
		assert.Equal(t, 0.0, s.ComputeCost(other.ID))
	})
}

func TestStore_CompleteTask_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	task := s.AddTask(model.Task{Title: "Mow lawn", Recurrence: &model.RecurrenceRule{
		Type: model.RecurrenceTime, Interval: 1, Unit: model.UnitWeek}})

	_, recurred := s.CompleteTask(task.ID)
	require.True(t, recurred)
	entries := len(s.ActivityLog())

	_, recurred = s.CompleteTask(task.ID)
	assert.False(t, recurred)
	assert.Len(t, s.Tasks(), 2)
	assert.Len(t, s.ActivityLog(), entries)

	_, recurred = s.CompleteTask("missing")
	assert.False(t, recurred)
}

func TestStore_CompleteTask_MonthClamp(t *testing.T) {
	s, _ := newTestStore(t)

	due := time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)
	task := s.AddTask(model.Task{Title: "Pay credit card", DueDate: &due, Recurrence: &model.RecurrenceRule{
		Type: model.RecurrenceTime, Interval: 1, Unit: model.UnitMonth}})

	next, recurred := s.CompleteTask(task.ID)
	require.True(t, recurred)
	require.NotNil(t, next.DueDate)
	assert.Equal(t, time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC), *next.DueDate)
	assert.NotEqual(t, task.ID, next.ID)
	assert.Equal(t, model.TaskStatusPending, next.Status)

	log := s.ActivityLog()
	require.GreaterOrEqual(t, len(log), 3)
	assert.Equal(t, "completed", log[len(log)-2].Action)
	assert.Equal(t, "created next occurrence", log[len(log)-1].Action)
	assert.Equal(t, next.ID, log[len(log)-1].EntityID)
}

func TestStore_CompleteTask_CountLimit(t *testing.T) {
	s, _ := newTestStore(t)

	current := s.AddTask(model.Task{Title: "Physio session", Recurrence: &model.RecurrenceRule{
		Type: model.RecurrenceTime, Interval: 1, Unit: model.UnitWeek,
		EndCondition: model.EndCount, EndCount: 3}})

	completions := 0
	for {
		completions++
		next, recurred := s.CompleteTask(current.ID)
		if !recurred {
			break
		}
		current = next
		require.Less(t, completions, 10)
	}

	assert.Equal(t, 3, completions)
	assert.Len(t, s.Tasks(), 3)

	last, _ := s.Task(current.ID)
	assert.Equal(t, 3, last.Recurrence.CurrentCount)
	for _, task := range s.Tasks() {
		assert.Equal(t, model.TaskStatusCompleted, task.Status)
	}
}

func TestStore_CompleteTask_Usage(t *testing.T) {
	s, _ := newTestStore(t)

	car := s.AddAsset(model.Asset{Name: "Car", UsageUnit: "miles"})
	task := s.AddTask(model.Task{Title: "Oil change", AssetID: car.ID, Recurrence: &model.RecurrenceRule{
		Type: model.RecurrenceUsage, UsageThreshold: 5000, LastUsageReading: 40000}})

	t.Run("no reading yet", func(t *testing.T) {
		probe := s.AddTask(model.Task{Title: "Tyre rotation", AssetID: car.ID, Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceUsage, UsageThreshold: 8000}})
		_, recurred := s.CompleteTask(probe.ID)
		assert.False(t, recurred)
	})

	require.True(t, s.UpdateAssetUsage(car.ID, 45200))

	next, recurred := s.CompleteTask(task.ID)
	require.True(t, recurred)
	assert.Nil(t, next.DueDate)
	assert.Equal(t, 45200.0, next.Recurrence.LastUsageReading)
	assert.Equal(t, car.ID, next.AssetID)

	got, _ := s.Asset(car.ID)
	assert.Contains(t, got.ServiceHistoryTaskIDs, task.ID)
}
