package model

import "time"

// Metric names a value in HouseholdStats that alert rules can watch
type Metric string

const (
	MetricOverdueTasks        Metric = "overdue_tasks"
	MetricUrgentTasks         Metric = "urgent_tasks"
	MetricUnreadNotifications Metric = "unread_notifications"
	MetricPendingSuggestions  Metric = "pending_suggestions"
	MetricNeededItems         Metric = "needed_items"
	MetricSyncFailures        Metric = "sync_failures"
)

// HouseholdStats is a point-in-time summary of the household state
type HouseholdStats struct {
	CollectedAt         time.Time          `json:"collected_at"`
	TasksByStatus       map[TaskStatus]int `json:"tasks_by_status"`
	OverdueTasks        int                `json:"overdue_tasks"`
	UrgentTasks         int                `json:"urgent_tasks"`
	UnreadNotifications int                `json:"unread_notifications"`
	PendingSuggestions  int                `json:"pending_suggestions"`
	NeededItems         int                `json:"needed_items"`
	SyncFailures        int                `json:"sync_failures"`
}

// Value returns the current value of metric m
func (s *HouseholdStats) Value(m Metric) (int, bool) {
	switch m {
	case MetricOverdueTasks:
		return s.OverdueTasks, true
	case MetricUrgentTasks:
		return s.UrgentTasks, true
	case MetricUnreadNotifications:
		return s.UnreadNotifications, true
	case MetricPendingSuggestions:
		return s.PendingSuggestions, true
	case MetricNeededItems:
		return s.NeededItems, true
	case MetricSyncFailures:
		return s.SyncFailures, true
	default:
		return 0, false
	}
}

// AlertRule raises a notification when a metric reaches Threshold
type AlertRule struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Metric    Metric           `json:"metric" yaml:"metric"`
	Threshold int              `json:"threshold" yaml:"threshold"`
	Type      NotificationType `json:"type" yaml:"type"`
	Message   string           `json:"message,omitempty" yaml:"message,omitempty"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" yaml:"updated_at"`
}
