package lifecycle

import "github.com/t77yq/lifeos/internal/model"

// WatchesAsset reports whether task is a usage-recurring task driven by assetID
func WatchesAsset(task *model.Task, assetID string) bool {
	if !task.IsUsageRecurring() {
		return false
	}
	return task.AssetID == assetID || task.Recurrence.AssetID == assetID
}

// UsageDelta returns how much of the counter has been consumed since the
// rule's baseline reading.
func UsageDelta(rule *model.RecurrenceRule, reading float64) float64 {
	return reading - rule.LastUsageReading
}

// ThresholdReached reports whether reading has used up the rule's threshold.
// A rule without a positive threshold never reaches it.
func ThresholdReached(rule *model.RecurrenceRule, reading float64) bool {
	if rule == nil || rule.UsageThreshold <= 0 {
		return false
	}
	return UsageDelta(rule, reading) >= rule.UsageThreshold
}

// ShouldEscalate reports whether a new reading must raise task to urgent.
// Only pending tasks escalate, and each baseline is alerted at most once, so
// repeated readings past the same threshold do not notify again.
func ShouldEscalate(task *model.Task, reading float64) bool {
	if !task.IsUsageRecurring() || task.Status != model.TaskStatusPending {
		return false
	}
	if Alerted(task.Recurrence) {
		return false
	}
	return ThresholdReached(task.Recurrence, reading)
}

// Alerted reports whether the rule's current baseline has already been alerted
func Alerted(rule *model.RecurrenceRule) bool {
	return rule != nil && rule.AlertedReading != nil && *rule.AlertedReading == rule.LastUsageReading
}

// MarkAlerted records the rule's current baseline as alerted
func MarkAlerted(rule *model.RecurrenceRule) {
	baseline := rule.LastUsageReading
	rule.AlertedReading = &baseline
}
