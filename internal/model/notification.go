package model

import "time"

// NotificationType represents the kind of notification
type NotificationType string

const (
	NotificationAlert    NotificationType = "alert"
	NotificationReminder NotificationType = "reminder"
	NotificationInfo     NotificationType = "info"
)

// Notification is an entry in the notification feed. Generated notifications
// carry a deterministic ID so that re-generation is idempotent.
type Notification struct {
	ID             string           `json:"id" yaml:"id"`
	Type           NotificationType `json:"type" yaml:"type"`
	Message        string           `json:"message" yaml:"message"`
	Timestamp      time.Time        `json:"timestamp" yaml:"timestamp"`
	IsRead         bool             `json:"is_read" yaml:"is_read"`
	IsPinned       bool             `json:"is_pinned,omitempty" yaml:"is_pinned,omitempty"`
	SnoozedUntil   *time.Time       `json:"snoozed_until,omitempty" yaml:"snoozed_until,omitempty"`
	LinkTo         string           `json:"link_to,omitempty" yaml:"link_to,omitempty"`
	ActionRequired bool             `json:"action_required,omitempty" yaml:"action_required,omitempty"`
}

// IsSnoozed reports whether the notification is hidden at now
func (n *Notification) IsSnoozed(now time.Time) bool {
	return n.SnoozedUntil != nil && now.Before(*n.SnoozedUntil)
}

// ActivityLog is an append-only audit entry describing one mutation
type ActivityLog struct {
	ID         string    `json:"id" yaml:"id"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Action     string    `json:"action" yaml:"action"`
	EntityType string    `json:"entity_type" yaml:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty" yaml:"entity_id,omitempty"`
	EntityName string    `json:"entity_name" yaml:"entity_name"`
	Details    string    `json:"details,omitempty" yaml:"details,omitempty"`
}

// Suggestion is a candidate task proposed by an external scanner
type Suggestion struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Confidence  float64    `json:"confidence" yaml:"confidence"`
	Source      string     `json:"source,omitempty" yaml:"source,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
}
