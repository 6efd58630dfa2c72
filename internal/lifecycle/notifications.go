package lifecycle

import (
	"fmt"
	"time"

	"github.com/t77yq/lifeos/internal/model"
)

const (
	overduePrefix    = "overdue-"
	usageCheckPrefix = "usage-check-"
	usageAlertPrefix = "usage-alert-"
)

// OverdueID is the stable notification id for an overdue task
func OverdueID(taskID string) string { return overduePrefix + taskID }

// UsageCheckID is the stable notification id for a due usage check
func UsageCheckID(taskID string) string { return usageCheckPrefix + taskID }

// UsageAlertID is the stable notification id for a usage threshold crossing
func UsageAlertID(taskID string) string { return usageAlertPrefix + taskID }

// TaskLink is the in-app link target for a task
func TaskLink(taskID string) string { return "/tasks/" + taskID }

// NextUsageCheck returns when the rule's periodic usage check falls due. A
// rule that was never checked counts from now. ok is false when the rule has
// no check interval configured.
func NextUsageCheck(rule *model.RecurrenceRule, now time.Time) (time.Time, bool) {
	if rule == nil || rule.UsageCheckInterval <= 0 || rule.UsageCheckUnit == "" {
		return time.Time{}, false
	}
	base := now
	if rule.LastUsageCheckDate != nil {
		base = *rule.LastUsageCheckDate
	}
	return Advance(base, rule.UsageCheckInterval, rule.UsageCheckUnit)
}

// DeriveNotifications computes the notifications implied by the current tasks
// at now. The result depends only on its inputs, so calling it twice on the
// same state yields the same ids.
func DeriveNotifications(tasks []*model.Task, now time.Time) []model.Notification {
	var derived []model.Notification
	for _, task := range tasks {
		if task.IsCompleted() {
			continue
		}
		if task.IsOverdue(now) {
			derived = append(derived, model.Notification{
				ID:             OverdueID(task.ID),
				Type:           model.NotificationAlert,
				Message:        fmt.Sprintf("Task %q is overdue", task.Title),
				Timestamp:      now,
				LinkTo:         TaskLink(task.ID),
				ActionRequired: true,
			})
		}
		if !task.IsUsageRecurring() {
			continue
		}
		if next, ok := NextUsageCheck(task.Recurrence, now); ok && now.After(next) {
			derived = append(derived, model.Notification{
				ID:             UsageCheckID(task.ID),
				Type:           model.NotificationReminder,
				Message:        fmt.Sprintf("Record a usage reading for %q", task.Title),
				Timestamp:      now,
				LinkTo:         TaskLink(task.ID),
				ActionRequired: true,
			})
		}
	}
	return derived
}

// UsageAlert builds the alert raised when a usage threshold is crossed
func UsageAlert(task *model.Task, asset *model.Asset, reading float64, now time.Time) model.Notification {
	unit := ""
	name := task.AssetID
	if asset != nil {
		unit = asset.UsageUnit
		name = asset.Name
	}
	delta := UsageDelta(task.Recurrence, reading)
	return model.Notification{
		ID:             UsageAlertID(task.ID),
		Type:           model.NotificationAlert,
		Message:        fmt.Sprintf("%q is due: %s reached %.0f %s since last service", task.Title, name, delta, unit),
		Timestamp:      now,
		LinkTo:         TaskLink(task.ID),
		ActionRequired: true,
	}
}

// MergeNotifications prepends every derived notification whose id is not
// already present. Existing entries, read or not, are kept untouched, which
// makes regeneration idempotent. It returns the merged list and the entries
// that were added.
func MergeNotifications(existing, derived []model.Notification) ([]model.Notification, []model.Notification) {
	seen := make(map[string]bool, len(existing)+len(derived))
	for _, n := range existing {
		seen[n.ID] = true
	}

	var added []model.Notification
	for _, n := range derived {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		added = append(added, n)
	}
	if len(added) == 0 {
		return existing, nil
	}

	merged := make([]model.Notification, 0, len(added)+len(existing))
	merged = append(merged, added...)
	merged = append(merged, existing...)
	return merged, added
}
