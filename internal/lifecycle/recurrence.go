package lifecycle

import (
	"time"

	"github.com/t77yq/lifeos/internal/model"
)

// Reasons reported by PlanRecurrence when no successor is produced
const (
	ReasonNoRule          = "no recurrence rule"
	ReasonCountReached    = "end count reached"
	ReasonEndDatePassed   = "next due date after end date"
	ReasonInvalidTimeRule = "time rule missing interval or unit"
	ReasonInvalidUsage    = "usage rule missing asset or threshold"
	ReasonNoUsageReading  = "asset missing or has no usage reading"
	ReasonUnknownType     = "unknown recurrence type"
)

// RecurrencePlan is the outcome of completing a recurring task
type RecurrencePlan struct {
	// Rule is the completed task's rule with the occurrence counted. Nil when
	// the task had no rule.
	Rule *model.RecurrenceRule

	Recur  bool
	Reason string

	// Successor is the next occurrence when Recur is true. ID and timestamps
	// are left for the caller to assign.
	Successor model.Task
}

// PlanRecurrence decides whether completing task spawns a successor. It never
// fails: a malformed rule simply does not recur.
func PlanRecurrence(task *model.Task, lookup Lookup, now time.Time) RecurrencePlan {
	if task.Recurrence == nil {
		return RecurrencePlan{Reason: ReasonNoRule}
	}

	rule := task.Recurrence.Clone()
	rule.CurrentCount++
	plan := RecurrencePlan{Rule: &rule}

	if rule.EndCondition == model.EndCount && rule.CurrentCount >= rule.EndCount {
		plan.Reason = ReasonCountReached
		return plan
	}

	next := rule.Clone()
	var dueDate *time.Time

	switch rule.Type {
	case model.RecurrenceTime:
		base := now
		if task.DueDate != nil {
			base = *task.DueDate
		}
		nextDue, ok := Advance(base, rule.Interval, rule.Unit)
		if !ok {
			plan.Reason = ReasonInvalidTimeRule
			return plan
		}
		if rule.EndCondition == model.EndDate && rule.EndDate != nil && nextDue.After(*rule.EndDate) {
			plan.Reason = ReasonEndDatePassed
			return plan
		}
		dueDate = &nextDue

	case model.RecurrenceUsage:
		assetID := UsageAssetID(task)
		if assetID == "" || rule.UsageThreshold <= 0 {
			plan.Reason = ReasonInvalidUsage
			return plan
		}
		asset, ok := lookup.Asset(assetID)
		if !ok || asset.CurrentUsage == nil {
			plan.Reason = ReasonNoUsageReading
			return plan
		}
		next.LastUsageReading = *asset.CurrentUsage
		next.AlertedReading = nil

	default:
		plan.Reason = ReasonUnknownType
		return plan
	}

	plan.Recur = true
	plan.Successor = model.Task{
		OwnerID:         task.OwnerID,
		Title:           task.Title,
		Description:     task.Description,
		Urgency:         task.Urgency,
		Importance:      task.Importance,
		Status:          model.TaskStatusPending,
		Context:         task.Context,
		AssigneeIDs:     append([]string(nil), task.AssigneeIDs...),
		CollaboratorIDs: append([]string(nil), task.CollaboratorIDs...),
		AssetID:         task.AssetID,
		DueDate:         dueDate,
		Recurrence:      &next,
	}
	return plan
}

// UsageAssetID returns the asset a usage rule watches, falling back to the
// task's own asset link.
func UsageAssetID(task *model.Task) string {
	if task.Recurrence != nil && task.Recurrence.AssetID != "" {
		return task.Recurrence.AssetID
	}
	return task.AssetID
}
