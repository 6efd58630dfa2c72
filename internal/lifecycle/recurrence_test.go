package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t77yq/lifeos/internal/model"
)

func TestPlanRecurrence_Time(t *testing.T) {
	now := date(2024, 6, 1)
	l := newFakeLookup()

	t.Run("advances from due date", func(t *testing.T) {
		due := date(2024, 1, 31)
		task := &model.Task{
			ID: "t1", Title: "Pay rent", OwnerID: "p1", Urgency: model.LevelHigh,
			Importance: model.LevelUrgent, Context: model.ContextFamily,
			AssigneeIDs: []string{"p2"}, DueDate: &due,
			Comments:   []model.Comment{{ID: "c1", Text: "paid late"}},
			Recurrence: &model.RecurrenceRule{Type: model.RecurrenceTime, Interval: 1, Unit: model.UnitMonth},
		}

		plan := PlanRecurrence(task, l, now)
		require.True(t, plan.Recur)
		assert.Equal(t, 1, plan.Rule.CurrentCount)

		next := plan.Successor
		require.NotNil(t, next.DueDate)
		assert.Equal(t, date(2024, 2, 29), *next.DueDate)
		assert.Equal(t, "Pay rent", next.Title)
		assert.Equal(t, "p1", next.OwnerID)
		assert.Equal(t, model.LevelHigh, next.Urgency)
		assert.Equal(t, model.LevelUrgent, next.Importance)
		assert.Equal(t, model.ContextFamily, next.Context)
		assert.Equal(t, []string{"p2"}, next.AssigneeIDs)
		assert.Equal(t, model.TaskStatusPending, next.Status)
		assert.Empty(t, next.Comments)
		assert.Nil(t, next.CostCache)
		assert.Empty(t, next.ID)
		require.NotNil(t, next.Recurrence)
		assert.Equal(t, 1, next.Recurrence.CurrentCount)

		// the input is not modified
		assert.Equal(t, 0, task.Recurrence.CurrentCount)
	})

	t.Run("no due date advances from now", func(t *testing.T) {
		task := &model.Task{ID: "t2", Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceTime, Interval: 2, Unit: model.UnitWeek}}

		plan := PlanRecurrence(task, l, now)
		require.True(t, plan.Recur)
		assert.Equal(t, now.AddDate(0, 0, 14), *plan.Successor.DueDate)
	})

	t.Run("end date passed", func(t *testing.T) {
		due := date(2024, 5, 20)
		end := date(2024, 6, 10)
		task := &model.Task{ID: "t3", DueDate: &due, Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceTime, Interval: 1, Unit: model.UnitMonth,
			EndCondition: model.EndDate, EndDate: &end}}

		plan := PlanRecurrence(task, l, now)
		assert.False(t, plan.Recur)
		assert.Equal(t, ReasonEndDatePassed, plan.Reason)
		assert.Equal(t, 1, plan.Rule.CurrentCount)
	})

	t.Run("missing interval or unit", func(t *testing.T) {
		plan := PlanRecurrence(&model.Task{ID: "t4", Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceTime, Unit: model.UnitDay}}, l, now)
		assert.False(t, plan.Recur)
		assert.Equal(t, ReasonInvalidTimeRule, plan.Reason)

		plan = PlanRecurrence(&model.Task{ID: "t5", Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceTime, Interval: 1}}, l, now)
		assert.False(t, plan.Recur)
	})
}

func TestPlanRecurrence_Count(t *testing.T) {
	l := newFakeLookup()
	now := date(2024, 1, 1)

	task := &model.Task{ID: "t1", Recurrence: &model.RecurrenceRule{
		Type: model.RecurrenceTime, Interval: 1, Unit: model.UnitDay,
		EndCondition: model.EndCount, EndCount: 3}}

	completions := 0
	successors := 0
	for i := 0; i < 10; i++ {
		completions++
		plan := PlanRecurrence(task, l, now)
		if !plan.Recur {
			assert.Equal(t, ReasonCountReached, plan.Reason)
			break
		}
		successors++
		next := plan.Successor
		task = &next
	}

	assert.Equal(t, 3, completions)
	assert.Equal(t, 2, successors)
}

func TestPlanRecurrence_Usage(t *testing.T) {
	now := date(2024, 6, 1)
	l := newFakeLookup()
	l.assets["car"] = &model.Asset{ID: "car", Name: "Car", CurrentUsage: float(45000), UsageUnit: "miles"}
	l.assets["mower"] = &model.Asset{ID: "mower", Name: "Mower"}

	t.Run("resets baseline to current reading", func(t *testing.T) {
		task := &model.Task{ID: "oil", Title: "Oil change", AssetID: "car", Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceUsage, UsageThreshold: 5000, LastUsageReading: 40000,
			AlertedReading: float(40000)}}

		plan := PlanRecurrence(task, l, now)
		require.True(t, plan.Recur)
		assert.Nil(t, plan.Successor.DueDate)
		assert.Equal(t, "car", plan.Successor.AssetID)
		assert.Equal(t, 45000.0, plan.Successor.Recurrence.LastUsageReading)
		assert.Nil(t, plan.Successor.Recurrence.AlertedReading)
		assert.Equal(t, 40000.0, *task.Recurrence.AlertedReading)
	})

	t.Run("rule asset takes precedence", func(t *testing.T) {
		task := &model.Task{ID: "oil2", AssetID: "mower", Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceUsage, AssetID: "car", UsageThreshold: 5000}}
		assert.Equal(t, "car", UsageAssetID(task))
		assert.True(t, PlanRecurrence(task, l, now).Recur)
	})

	t.Run("no reading", func(t *testing.T) {
		task := &model.Task{ID: "blades", AssetID: "mower", Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceUsage, UsageThreshold: 50}}
		plan := PlanRecurrence(task, l, now)
		assert.False(t, plan.Recur)
		assert.Equal(t, ReasonNoUsageReading, plan.Reason)
	})

	t.Run("missing asset or threshold", func(t *testing.T) {
		plan := PlanRecurrence(&model.Task{ID: "a", Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceUsage, UsageThreshold: 50}}, l, now)
		assert.Equal(t, ReasonInvalidUsage, plan.Reason)

		plan = PlanRecurrence(&model.Task{ID: "b", AssetID: "car", Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceUsage}}, l, now)
		assert.Equal(t, ReasonInvalidUsage, plan.Reason)

		plan = PlanRecurrence(&model.Task{ID: "c", AssetID: "ghost", Recurrence: &model.RecurrenceRule{
			Type: model.RecurrenceUsage, UsageThreshold: 50}}, l, now)
		assert.Equal(t, ReasonNoUsageReading, plan.Reason)
	})
}

func TestPlanRecurrence_NoRule(t *testing.T) {
	plan := PlanRecurrence(&model.Task{ID: "t"}, newFakeLookup(), time.Now())
	assert.False(t, plan.Recur)
	assert.Nil(t, plan.Rule)
	assert.Equal(t, ReasonNoRule, plan.Reason)

	plan = PlanRecurrence(&model.Task{ID: "t", Recurrence: &model.RecurrenceRule{Type: "lunar"}}, newFakeLookup(), time.Now())
	assert.False(t, plan.Recur)
	assert.Equal(t, ReasonUnknownType, plan.Reason)
}
