package model

import (
	"time"
)

// TaskStatus represents the current status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Level is the 1..4 scale shared by urgency and importance
type Level int

const (
	LevelLow    Level = 1
	LevelMedium Level = 2
	LevelHigh   Level = 3
	LevelUrgent Level = 4
)

// Valid reports whether the level is inside the 1..4 range
func (l Level) Valid() bool {
	return l >= LevelLow && l <= LevelUrgent
}

// TaskContext groups tasks by area of life
type TaskContext string

const (
	ContextWork     TaskContext = "work"
	ContextPersonal TaskContext = "personal"
	ContextFamily   TaskContext = "family"
	ContextSchool   TaskContext = "school"
	ContextOther    TaskContext = "other"
)

// Material is something a task consumes, optionally bought through the shopping list
type Material struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Quantity       float64 `json:"quantity" yaml:"quantity"`
	ShoppingItemID string  `json:"shopping_item_id,omitempty" yaml:"shopping_item_id,omitempty"`
}

// Comment is a timestamped note on a task or person
type Comment struct {
	ID        string    `json:"id" yaml:"id"`
	AuthorID  string    `json:"author_id,omitempty" yaml:"author_id,omitempty"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Task represents a unit of household work
type Task struct {
	ID          string `json:"id" yaml:"id"`
	OwnerID     string `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Tree and dependency edges
	ParentID        string   `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	SubtaskIDs      []string `json:"subtask_ids,omitempty" yaml:"subtask_ids,omitempty"`
	PrerequisiteIDs []string `json:"prerequisite_ids,omitempty" yaml:"prerequisite_ids,omitempty"`

	DueDate    *time.Time  `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Urgency    Level       `json:"urgency" yaml:"urgency"`
	Importance Level       `json:"importance" yaml:"importance"`
	Status     TaskStatus  `json:"status" yaml:"status"`
	Context    TaskContext `json:"context" yaml:"context"`

	AssigneeIDs     []string `json:"assignee_ids,omitempty" yaml:"assignee_ids,omitempty"`
	CollaboratorIDs []string `json:"collaborator_ids,omitempty" yaml:"collaborator_ids,omitempty"`

	AssetID   string     `json:"asset_id,omitempty" yaml:"asset_id,omitempty"`
	Materials []Material `json:"materials,omitempty" yaml:"materials,omitempty"`
	Comments  []Comment  `json:"comments,omitempty" yaml:"comments,omitempty"`

	Recurrence *RecurrenceRule `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	// CostCache is the total frozen at completion. Once set on a completed
	// task it is returned verbatim by cost queries.
	CostCache *float64 `json:"cost_cache,omitempty" yaml:"cost_cache,omitempty"`

	// Timing fields
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// IsCompleted reports whether the task reached its terminal status
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsOverdue reports whether an open task is past its due date at now
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.DueDate != nil && t.DueDate.Before(now)
}

// IsUsageRecurring reports whether the task recurs on an asset usage counter
func (t *Task) IsUsageRecurring() bool {
	return t.Recurrence != nil && t.Recurrence.Type == RecurrenceUsage
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	c := t
	c.SubtaskIDs = cloneStrings(t.SubtaskIDs)
	c.PrerequisiteIDs = cloneStrings(t.PrerequisiteIDs)
	c.AssigneeIDs = cloneStrings(t.AssigneeIDs)
	c.CollaboratorIDs = cloneStrings(t.CollaboratorIDs)
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedAt = cloneTime(t.CompletedAt)
	if t.Materials != nil {
		c.Materials = append([]Material(nil), t.Materials...)
	}
	if t.Comments != nil {
		c.Comments = append([]Comment(nil), t.Comments...)
	}
	if t.Recurrence != nil {
		r := t.Recurrence.Clone()
		c.Recurrence = &r
	}
	if t.CostCache != nil {
		v := *t.CostCache
		c.CostCache = &v
	}
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneTime(in *time.Time) *time.Time {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
